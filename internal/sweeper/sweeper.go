package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"signalrelaygo/internal/registry"
)

// Run starts the background sweep loop: every interval, drop messages older
// than maxAge, evict idle-and-empty peers, and remove empty rooms. The loop
// stops when ctx is cancelled; there is no other shutdown path because the
// process owns it for its whole life.
func Run(ctx context.Context, reg *registry.Registry, interval, maxAge time.Duration) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				stats := reg.Sweep(maxAge)
				if stats.ExpiredMessages > 0 || stats.EvictedPeers > 0 || stats.RemovedRooms > 0 {
					zap.L().Debug("sweep",
						zap.Int("expired_messages", stats.ExpiredMessages),
						zap.Int("evicted_peers", stats.EvictedPeers),
						zap.Int("removed_rooms", stats.RemovedRooms),
					)
				}
			}
		}
	}()
}
