package dashboard

import "math"

const twoPi = 2 * math.Pi

// wrapPhase maps an angle into [0, 2π).
func wrapPhase(p float64) float64 {
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	return p
}

// PhaseStep quantizes a phase in [0, 2π) to one of n render steps. The
// fingerprint carries the step rather than the raw phase so sub-pixel
// drift does not force a repaint.
func PhaseStep(phase float64, n int) int {
	if n <= 0 {
		return 0
	}
	step := int(wrapPhase(phase) / twoPi * float64(n))
	if step >= n {
		step = n - 1
	}
	return step
}

// FanSpinner advances the cooling-fan indicator from an instantaneous duty
// value. Below the threshold the fan reads as stopped; above it the spin
// rate is a linear blend from the minimum visible rate to the maximum as
// duty goes 0→1, so a barely-on fan still visibly turns.
type FanSpinner struct {
	threshold float64
	minRate   float64 // rev/s
	maxRate   float64 // rev/s
	phase     float64
}

// NewFanSpinner returns a spinner at phase 0.
func NewFanSpinner(threshold, minRate, maxRate float64) *FanSpinner {
	return &FanSpinner{threshold: threshold, minRate: minRate, maxRate: maxRate}
}

// Advance integrates the phase over dt seconds and returns the new phase.
// dt comes from consecutive monotonic clock reads, never the nominal poll
// period; negative dt is treated as 0.
func (s *FanSpinner) Advance(duty, dt float64) float64 {
	if dt < 0 {
		dt = 0
	}
	if duty < 0 {
		duty = 0
	} else if duty > 1 {
		duty = 1
	}

	rate := 0.0
	if duty > s.threshold {
		rate = s.minRate + (s.maxRate-s.minRate)*duty
	}
	s.phase = wrapPhase(s.phase + rate*twoPi*dt)
	return s.phase
}

// Phase returns the current wrapped phase.
func (s *FanSpinner) Phase() float64 { return s.phase }

// FlowSpinner advances the feed indicator by integrating a smoothed linear
// velocity. Raw velocity may be negative (reverse motion). One revolution
// of the indicator corresponds to unitsPerRev linear units.
type FlowSpinner struct {
	alpha       float64 // EMA smoothing factor in (0,1]
	unitsPerRev float64
	maxDt       float64 // seconds; single-step clamp after loop stalls
	direction   float64 // +1 or -1

	smoothed float64
	phase    float64
}

// NewFlowSpinner returns a spinner at phase 0 with zero smoothed velocity.
func NewFlowSpinner(alpha, unitsPerRev, maxDt float64, direction int) *FlowSpinner {
	dir := 1.0
	if direction < 0 {
		dir = -1.0
	}
	return &FlowSpinner{alpha: alpha, unitsPerRev: unitsPerRev, maxDt: maxDt, direction: dir}
}

// Advance folds the raw velocity into the moving average, integrates the
// phase over dt seconds and returns the new phase. dt is clamped into
// [0, maxDt] so a missed tick or slow fetch cannot produce a jarring jump.
func (s *FlowSpinner) Advance(rawVelocity, dt float64) float64 {
	if dt < 0 {
		dt = 0
	}
	if s.maxDt > 0 && dt > s.maxDt {
		dt = s.maxDt
	}

	s.smoothed = (1-s.alpha)*s.smoothed + s.alpha*rawVelocity

	angular := s.direction * twoPi * s.smoothed / s.unitsPerRev
	s.phase = wrapPhase(s.phase + angular*dt)
	return s.phase
}

// Phase returns the current wrapped phase.
func (s *FlowSpinner) Phase() float64 { return s.phase }

// Smoothed returns the current moving-average velocity.
func (s *FlowSpinner) Smoothed() float64 { return s.smoothed }
