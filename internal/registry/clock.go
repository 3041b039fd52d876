package registry

import "time"

// Clock abstracts time.Now so sweep/expiry behaviour is testable.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
