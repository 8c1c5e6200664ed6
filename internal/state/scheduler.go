package state

import "time"

// Scheduler runs f once after d unless the returned cancel func is called first.
// cancel reports whether it stopped the callback before it ran.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func() bool)
}

// TimerScheduler schedules with time.AfterFunc. When Dispatch is set the
// callback is handed to it instead of running on the timer goroutine, so
// the owner of the game state can run it on its own goroutine.
type TimerScheduler struct {
	Dispatch func(func())
}

func (s TimerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	run := f
	if s.Dispatch != nil {
		dispatch := s.Dispatch
		run = func() { dispatch(f) }
	}
	t := time.AfterFunc(d, run)
	return t.Stop
}
