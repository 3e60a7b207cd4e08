package realphysics4d

import "time"

/// Timer for profiling.
type RpTimer struct {
	start time.Time
}

func MakeRpTimer() RpTimer {
	return RpTimer{
		start: time.Now(),
	}
}

/// Reset the timer.
func (timer *RpTimer) Reset() {
	timer.start = time.Now()
}

/// Get the time since construction or the last reset.
func (timer RpTimer) GetMilliseconds() float64 {
	return float64(time.Since(timer.start).Nanoseconds()) / 1e6
}
