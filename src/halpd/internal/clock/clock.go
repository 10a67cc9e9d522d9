package clock

import (
	"time"

	"go.uber.org/fx"
)

//go:generate mockgen -source=clock.go -destination=clockmock/clock_mock.go -package=clockmock

// Module provides the wall clock to inject using fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Clock abstracts time measurement so session timestamps and retry backoff
// are controllable in tests.
type Clock interface {
	// Now returns the current local time.
	Now() time.Time
	// Sleep pauses the current goroutine for at least the duration d. A negative or zero duration causes Sleep to return immediately.
	Sleep(duration time.Duration)
}

type clock struct{}

// New creates a new instance of Clock.
func New() Clock {
	return clock{}
}

func (clock) Now() time.Time {
	return time.Now()
}

func (clock) Sleep(duration time.Duration) {
	time.Sleep(duration)
}
