package settings

import "time"

// Ease is the ease-out quadratic t*(2-t).
func Ease(t float64) float64 {
	return t * (2 - t)
}

// Progress is the elapsed fraction of a timed change, clamped to [0, 1].
// A non-positive duration is complete immediately.
func Progress(now, start time.Time, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	t := float64(now.Sub(start)) / float64(duration)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
