package registry

import (
	"sync"
	"time"
)

// Message kinds, as they appear on the wire.
const (
	KindOffer        = "offer"
	KindAnswer       = "answer"
	KindICECandidate = "ice-candidate"
)

// Message is one queued signaling message. SDP is set for offers/answers;
// Candidate, SdpMid and SdpMLineIndex for ICE candidates. The server never
// interprets either payload.
type Message struct {
	Kind          string
	RoomID        string
	PeerID        string // sender
	SDP           string
	Candidate     string
	SdpMid        string
	SdpMLineIndex int
	CreatedAt     time.Time
}

// mailbox holds the undelivered messages for one peer in one room.
// Messages are appended at the tail and drained wholesale from the head.
type mailbox struct {
	messages   []Message
	lastPollAt time.Time
}

// Counts is a point-in-time snapshot of registry occupancy.
type Counts struct {
	Rooms           int
	Peers           int
	PendingMessages int
}

// SweepStats reports what one sweep pass removed.
type SweepStats struct {
	ExpiredMessages int
	EvictedPeers    int
	RemovedRooms    int
}

// Registry is the single source of truth: room -> peer -> mailbox.
// Every operation takes the one lock for its whole duration, so callers
// never observe a partially-updated registry and the sweeper never races
// a delivery or a drain.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]map[string]*mailbox
	clock Clock
}

func New(clock Clock) *Registry {
	if clock == nil {
		clock = RealClock{}
	}
	return &Registry{
		rooms: make(map[string]map[string]*mailbox),
		clock: clock,
	}
}

// ensurePeerLocked is the one get-or-create primitive. Both drains and
// fan-out targets go through it. Caller must hold mu.
func (r *Registry) ensurePeerLocked(roomID, peerID string) *mailbox {
	peers, ok := r.rooms[roomID]
	if !ok {
		peers = make(map[string]*mailbox)
		r.rooms[roomID] = peers
	}
	mb, ok := peers[peerID]
	if !ok {
		mb = &mailbox{lastPollAt: r.clock.Now()}
		peers[peerID] = mb
	}
	return mb
}

// Deliver appends msg to every other peer's mailbox in msg.RoomID and
// returns how many peers it was forwarded to. The room is created if
// absent; the sender's own mailbox is never created or written — only a
// poll, or being the target of someone else's message, creates a peer.
func (r *Registry) Deliver(msg Message) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	peers, ok := r.rooms[msg.RoomID]
	if !ok {
		peers = make(map[string]*mailbox)
		r.rooms[msg.RoomID] = peers
	}

	forwarded := 0
	for peerID, mb := range peers {
		if peerID == msg.PeerID {
			continue
		}
		mb.messages = append(mb.messages, msg)
		forwarded++
	}
	return forwarded
}

// Drain returns and clears the mailbox for (roomID, peerID), creating the
// room and peer on first contact. The returned slice preserves append
// order. Removal happens in the same critical section as the read, so a
// message is never returned twice.
func (r *Registry) Drain(roomID, peerID string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	mb := r.ensurePeerLocked(roomID, peerID)
	now := r.clock.Now()
	if now.After(mb.lastPollAt) {
		mb.lastPollAt = now
	}

	out := mb.messages
	mb.messages = nil
	return out
}

// Snapshot returns aggregate occupancy counts.
func (r *Registry) Snapshot() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Counts{Rooms: len(r.rooms)}
	for _, peers := range r.rooms {
		c.Peers += len(peers)
		for _, mb := range peers {
			c.PendingMessages += len(mb.messages)
		}
	}
	return c
}

// Sweep drops messages older than maxAge, evicts peers whose mailbox is
// empty and whose last poll is older than maxAge, and removes rooms left
// with no peers. A peer that still has pending messages is never evicted,
// however long it has been idle.
func (r *Registry) Sweep(maxAge time.Duration) SweepStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	var stats SweepStats

	for roomID, peers := range r.rooms {
		for peerID, mb := range peers {
			kept := mb.messages[:0]
			for _, msg := range mb.messages {
				if now.Sub(msg.CreatedAt) < maxAge {
					kept = append(kept, msg)
				} else {
					stats.ExpiredMessages++
				}
			}
			mb.messages = kept

			if len(mb.messages) == 0 && now.Sub(mb.lastPollAt) > maxAge {
				delete(peers, peerID)
				stats.EvictedPeers++
			}
		}
		if len(peers) == 0 {
			delete(r.rooms, roomID)
			stats.RemovedRooms++
		}
	}
	return stats
}
