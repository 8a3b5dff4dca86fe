package dashboard

import (
	"math"
	"testing"
)

func TestWrapPhase_AlwaysInRange(t *testing.T) {
	for _, p := range []float64{-100, -twoPi, -0.001, 0, 1, twoPi, twoPi + 0.5, 9000} {
		got := wrapPhase(p)
		if got < 0 || got >= twoPi {
			t.Fatalf("wrapPhase(%v) = %v, out of [0, 2π)", p, got)
		}
	}
}

func TestFanSpinner_ThresholdAndBlend(t *testing.T) {
	s := NewFanSpinner(0.05, 0.3, 2.5)

	t.Run("below threshold holds still", func(t *testing.T) {
		before := s.Phase()
		if got := s.Advance(0.05, 1.0); got != before {
			t.Fatalf("phase moved at threshold duty: %v -> %v", before, got)
		}
		if got := s.Advance(0.0, 1.0); got != before {
			t.Fatalf("phase moved at zero duty: %v -> %v", before, got)
		}
	})

	t.Run("full duty spins at max rate", func(t *testing.T) {
		s := NewFanSpinner(0.05, 0.3, 2.5)
		// 2.5 rev/s over 0.1s = 0.25 rev
		got := s.Advance(1.0, 0.1)
		want := wrapPhase(2.5 * twoPi * 0.1)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("half duty blends between min and max", func(t *testing.T) {
		s := NewFanSpinner(0.05, 0.3, 2.5)
		got := s.Advance(0.5, 0.1)
		want := wrapPhase((0.3 + (2.5-0.3)*0.5) * twoPi * 0.1)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("negative dt treated as zero", func(t *testing.T) {
		s := NewFanSpinner(0.05, 0.3, 2.5)
		if got := s.Advance(1.0, -5); got != 0 {
			t.Fatalf("expected no movement, got %v", got)
		}
	})
}

func TestFanSpinner_PhaseStaysWrapped(t *testing.T) {
	s := NewFanSpinner(0.05, 0.3, 2.5)
	for i := 0; i < 1000; i++ {
		p := s.Advance(0.9, 0.21)
		if p < 0 || p >= twoPi {
			t.Fatalf("iteration %d: phase %v out of [0, 2π)", i, p)
		}
	}
}

func TestFlowSpinner_IntegratesSmoothedVelocity(t *testing.T) {
	// alpha=1 disables smoothing: 10 mm/s for 1s at 6.743 mm/rev is
	// 2π*10/6.743 rad total, wrapped.
	const unitsPerRev = 6.743
	s := NewFlowSpinner(1.0, unitsPerRev, 0.25, 1)

	var phase float64
	for i := 0; i < 10; i++ {
		phase = s.Advance(10.0, 0.1)
	}
	want := wrapPhase(twoPi * 10.0 / unitsPerRev)
	if math.Abs(phase-want) > 1e-6 {
		t.Fatalf("got %v, want %v", phase, want)
	}
}

func TestFlowSpinner_ReverseDirection(t *testing.T) {
	const unitsPerRev = 6.743
	s := NewFlowSpinner(1.0, unitsPerRev, 0.25, -1)

	var phase float64
	for i := 0; i < 10; i++ {
		phase = s.Advance(10.0, 0.1)
	}
	want := wrapPhase(-twoPi * 10.0 / unitsPerRev)
	if math.Abs(phase-want) > 1e-6 {
		t.Fatalf("got %v, want %v", phase, want)
	}
}

func TestFlowSpinner_ClampsLargeDt(t *testing.T) {
	s := NewFlowSpinner(1.0, 1.0, 0.25, 1)
	// A 10s stall must integrate as 0.25s, not 10s.
	got := s.Advance(1.0, 10.0)
	want := wrapPhase(twoPi * 0.25)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlowSpinner_SmoothsWithEMA(t *testing.T) {
	s := NewFlowSpinner(0.3, 6.743, 0.25, 1)
	s.Advance(10.0, 0.1)
	if got, want := s.Smoothed(), 3.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("after one sample got %v, want %v", got, want)
	}
	s.Advance(10.0, 0.1)
	if got, want := s.Smoothed(), 0.7*3.0+0.3*10.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("after two samples got %v, want %v", got, want)
	}
}

func TestPhaseStep_QuantizesIntoRange(t *testing.T) {
	if got := PhaseStep(0, 12); got != 0 {
		t.Fatalf("phase 0: got step %d, want 0", got)
	}
	if got := PhaseStep(math.Pi, 12); got != 6 {
		t.Fatalf("phase π: got step %d, want 6", got)
	}
	if got := PhaseStep(twoPi-1e-12, 12); got != 11 {
		t.Fatalf("phase just under 2π: got step %d, want 11", got)
	}
}
