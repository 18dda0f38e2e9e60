package reveal

import "time"

// Clock schedules the settle transition
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending settle transition
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by time.AfterFunc
var RealClock Clock = realClock{}
