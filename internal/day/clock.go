package day

import "time"

// Clock supplies the current time. The tracker takes it as a collaborator so
// tests can drive the machine with a fixed or stepped time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// DateKey formats t's local calendar date as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
