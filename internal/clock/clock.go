// Package clock supplies the time source used to stamp journal entries.
package clock

import "time"

// Clock abstracts time so journal timestamps can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// RealClock delegates to the standard time package.
type RealClock struct{}

func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
