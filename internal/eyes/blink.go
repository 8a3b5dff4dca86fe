package eyes

import (
	"math/rand"
	"time"
)

// BlinkPhase names the four timer-driven states of a blink.
type BlinkPhase string

const (
	PhaseIdle    BlinkPhase = "IDLE"
	PhaseClosing BlinkPhase = "CLOSING"
	PhaseClosed  BlinkPhase = "CLOSED"
	PhaseOpening BlinkPhase = "OPENING"
)

// BlinkCycle is the shared blink state machine. One instance drives every
// panel on the same tick, so the eyes stay in perfect sync: there is one
// clock and one closedness amount, read by all channels and owned by none
// of them. Lids open and close at the same rate (open duration == close
// duration).
type BlinkCycle struct {
	minInterval time.Duration
	maxInterval time.Duration
	closeDur    time.Duration
	holdDur     time.Duration

	rng *rand.Rand

	phase       BlinkPhase
	phaseStart  time.Time
	nextTrigger time.Time
	amount      float64 // 0 = open .. 1 = fully closed
}

// NewBlinkCycle starts in IDLE with the first blink scheduled at now plus
// a uniform-random interval. rng may be nil for a time-seeded source;
// tests inject a fixed seed.
func NewBlinkCycle(minInterval, maxInterval, closeDur, holdDur time.Duration, rng *rand.Rand, now time.Time) *BlinkCycle {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := &BlinkCycle{
		minInterval: minInterval,
		maxInterval: maxInterval,
		closeDur:    closeDur,
		holdDur:     holdDur,
		rng:         rng,
		phase:       PhaseIdle,
	}
	b.nextTrigger = now.Add(b.interval())
	return b
}

// Update advances the state machine to now and returns the closedness
// amount in [0,1].
func (b *BlinkCycle) Update(now time.Time) float64 {
	switch b.phase {
	case PhaseIdle:
		b.amount = 0
		if !now.Before(b.nextTrigger) {
			b.phase = PhaseClosing
			b.phaseStart = now
		}

	case PhaseClosing:
		prog := b.ramp(now)
		if prog >= 1 {
			b.phase = PhaseClosed
			b.phaseStart = now
			b.amount = 1
		} else {
			b.amount = prog
		}

	case PhaseClosed:
		b.amount = 1
		if now.Sub(b.phaseStart) >= b.holdDur {
			b.phase = PhaseOpening
			b.phaseStart = now
		}

	case PhaseOpening:
		prog := 1 - b.ramp(now)
		if prog <= 0 {
			b.phase = PhaseIdle
			b.amount = 0
			b.nextTrigger = now.Add(b.interval())
		} else {
			b.amount = prog
		}
	}
	return b.amount
}

// Amount returns the closedness as of the last Update.
func (b *BlinkCycle) Amount() float64 { return b.amount }

// Phase returns the current state.
func (b *BlinkCycle) Phase() BlinkPhase { return b.phase }

// NextTrigger returns when the next blink is due (meaningful in IDLE).
func (b *BlinkCycle) NextTrigger() time.Time { return b.nextTrigger }

// ramp returns linear progress through the close duration, clamped to 1.
func (b *BlinkCycle) ramp(now time.Time) float64 {
	if b.closeDur <= 0 {
		return 1
	}
	prog := float64(now.Sub(b.phaseStart)) / float64(b.closeDur)
	if prog > 1 {
		return 1
	}
	return prog
}

// interval draws the next idle wait uniformly from [min, max].
func (b *BlinkCycle) interval() time.Duration {
	span := b.maxInterval - b.minInterval
	if span <= 0 {
		return b.minInterval
	}
	return b.minInterval + time.Duration(b.rng.Int63n(int64(span)+1))
}
