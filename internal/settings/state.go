package settings

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMaxBodies        = 80
	DefaultPresetTransition = 800 * time.Millisecond
	DefaultSliderTween      = 400 * time.Millisecond
)

var ErrNoPresets = errors.New("settings: at least one preset is required")

type transition struct {
	active   bool
	start    time.Time
	duration time.Duration
	from, to Settings
	// released keys were overwritten by direct input and are no longer
	// driven by this transition.
	released map[Key]bool
}

type tween struct {
	from, to float64
	start    time.Time
	duration time.Duration
}

// State owns the live Settings and every in-flight change to them.
type State struct {
	current        Settings
	presets        []Preset
	index          int
	maxBodies      int
	presetDuration time.Duration
	tweenDuration  time.Duration
	transition     transition
	tweens         map[Key]tween
}

type Option func(*State)

func WithMaxBodies(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.maxBodies = n
		}
	}
}

func WithPresetDuration(d time.Duration) Option {
	return func(s *State) { s.presetDuration = d }
}

func WithTweenDuration(d time.Duration) Option {
	return func(s *State) { s.tweenDuration = d }
}

// NewState starts on preset start (0 when out of range), applied
// immediately.
func NewState(presets []Preset, start int, opts ...Option) (*State, error) {
	if len(presets) == 0 {
		return nil, ErrNoPresets
	}
	s := &State{
		presets:        append([]Preset(nil), presets...),
		maxBodies:      DefaultMaxBodies,
		presetDuration: DefaultPresetTransition,
		tweenDuration:  DefaultSliderTween,
		tweens:         make(map[Key]tween),
	}
	for _, opt := range opts {
		opt(s)
	}
	if start < 0 || start >= len(s.presets) {
		start = 0
	}
	s.ApplyPreset(start, time.Time{}, true)
	return s, nil
}

func (s *State) Current() Settings   { return s.current }
func (s *State) MaxBodies() int      { return s.maxBodies }
func (s *State) PresetIndex() int    { return s.index }
func (s *State) Preset() Preset      { return s.presets[s.index] }
func (s *State) Presets() []Preset   { return s.presets }
func (s *State) Transitioning() bool { return s.transition.active }

// Tweening lists the keys with an active tween, sorted.
func (s *State) Tweening() []Key {
	keys := make([]Key, 0, len(s.tweens))
	for k := range s.tweens {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ApplyPreset selects preset index. Unless immediate, a transition from the
// current values starts at now, replacing any active one. Either way every
// slider tween is cancelled. An unknown index is a no-op.
func (s *State) ApplyPreset(index int, now time.Time, immediate bool) bool {
	if index < 0 || index >= len(s.presets) {
		return false
	}
	s.index = index
	to := s.clampAll(s.presets[index].Settings)
	clear(s.tweens)

	if immediate {
		s.transition = transition{}
		s.current = to
		return true
	}
	s.transition = transition{
		active:   true,
		start:    now,
		duration: s.presetDuration,
		from:     s.current,
		to:       to,
		released: make(map[Key]bool),
	}
	return true
}

// NextPreset transitions to the following preset, wrapping around.
func (s *State) NextPreset(now time.Time) bool {
	return s.ApplyPreset((s.index+1)%len(s.presets), now, false)
}

// ResetControl tweens k back to the active preset's value. It stops the
// preset transition so the two never write the same frame.
func (s *State) ResetControl(k Key, now time.Time) bool {
	target, ok := s.presets[s.index].Get(k)
	if !ok {
		return false
	}
	from, _ := s.current.Get(k)
	s.transition.active = false
	s.tweens[k] = tween{
		from:     from,
		to:       s.clamp(k, target),
		start:    now,
		duration: s.tweenDuration,
	}
	return true
}

// SetControl applies raw text from an input widget. Non-numeric text is
// rejected and the previous value kept.
func (s *State) SetControl(k Key, raw string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	return s.SetValue(k, v)
}

// SetValue writes k immediately, clamped to its control range. It cancels
// any tween for k and releases k from an active preset transition.
func (s *State) SetValue(k Key, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if _, ok := s.current.Get(k); !ok {
		return false
	}
	s.current.Set(k, s.clamp(k, v))
	delete(s.tweens, k)
	if s.transition.active {
		s.transition.released[k] = true
	}
	return true
}

// Advance applies the preset transition and then the slider tweens for the
// frame at now. It reports whether anything was written.
func (s *State) Advance(now time.Time) bool {
	changed := s.advanceTransition(now)
	if s.advanceTweens(now) {
		changed = true
	}
	return changed
}

func (s *State) advanceTransition(now time.Time) bool {
	tr := &s.transition
	if !tr.active {
		return false
	}
	raw := Progress(now, tr.start, tr.duration)
	next := Lerp(tr.from, tr.to, Ease(raw))
	if raw >= 1 {
		next = tr.to
		tr.active = false
	}
	for _, k := range Keys {
		if tr.released[k] {
			continue
		}
		v, _ := next.Get(k)
		s.current.Set(k, v)
	}
	return true
}

func (s *State) advanceTweens(now time.Time) bool {
	if len(s.tweens) == 0 {
		return false
	}
	for k, tw := range s.tweens {
		raw := Progress(now, tw.start, tw.duration)
		if raw >= 1 {
			s.current.Set(k, tw.to)
			delete(s.tweens, k)
			continue
		}
		s.current.Set(k, lerp(tw.from, tw.to, Ease(raw)))
	}
	return true
}

func (s *State) clamp(k Key, v float64) float64 {
	c, ok := ControlFor(k)
	if !ok {
		return v
	}
	return c.Clamp(v, s.maxBodies)
}

func (s *State) clampAll(in Settings) Settings {
	out := in
	for _, k := range Keys {
		v, _ := in.Get(k)
		out.Set(k, s.clamp(k, v))
	}
	return out
}
