package util

import "time"

// Clock supplies the current time. Services take a Clock instead of calling
// time.Now so that rolling windows can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now implements Clock
func (SystemClock) Now() time.Time {
	return time.Now()
}
