package service

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

func nowFrom(c Clock) time.Time {
	if c == nil {
		return SystemClock{}.Now()
	}
	return c.Now().UTC()
}
