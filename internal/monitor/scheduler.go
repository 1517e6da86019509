package monitor

import "time"

// Handle cancels a scheduled task. Cancel after the task ran is a no-op.
type Handle interface {
	Cancel()
}

// Scheduler runs fn once after delay. Re-arming is cancel + schedule.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// TimerScheduler is the production scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) Handle {
	return timerHandle{timer: time.AfterFunc(delay, fn)}
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Cancel() {
	h.timer.Stop()
}
