// Package settings holds the live tunable configuration of the blob and the
// machinery that moves it: whole-preset transitions, single-control tweens
// and immediate direct input.
//
// Both timed mechanisms share one easing law, [Ease], applied to the clamped
// progress returned by [Progress]. A [State] is advanced once per frame by
// the frame driver and is not safe for concurrent use.
package settings
