package dashboard

import (
	"errors"
	"time"

	"printer_dashboard/internal/logger"

	pd "printer_dashboard"
)

// Fallback instruction when the device faults without giving a reason.
const genericFaultAdvice = "Printer reported an error. Check klippy.log and restart the firmware."

// FaultTracker classifies each poll outcome into NORMAL / DEGRADED / ERROR,
// owns the fault flash timing and rate-limits redundant fault pushes.
// It is mutated only by the loop goroutine.
type FaultTracker struct {
	flashPeriod time.Duration
	cur         pd.Fault

	lastSig  pd.FaultSignature
	havePush bool

	journal *Journal
	log     *logger.Logger
}

// NewFaultTracker returns a tracker starting in NORMAL mode.
func NewFaultTracker(flashPeriod time.Duration, journal *Journal, log *logger.Logger) *FaultTracker {
	return &FaultTracker{
		flashPeriod: flashPeriod,
		cur:         pd.Fault{Mode: pd.FaultNormal},
		journal:     journal,
		log:         log,
	}
}

// Evaluate classifies one poll outcome. A nil error is a clean sample and
// recovers to NORMAL immediately; there is no debounce in either direction.
// While faulted, the flash index toggles every flashPeriod so the fault
// screen alternates between its bright and dim variants.
func (t *FaultTracker) Evaluate(now time.Time, pollErr error) pd.Fault {
	prevMode := t.cur.Mode

	if pollErr == nil {
		t.cur = pd.Fault{Mode: pd.FaultNormal}
		if prevMode != pd.FaultNormal {
			// The panels go back to normal content now, so a recurring
			// identical fault must push again even at the same flash index.
			t.havePush = false
			t.journal.Append(pd.EventFaultClear, "fault cleared", nil)
			t.log.Infow("fault_cleared", "was", prevMode)
		}
		return t.cur
	}

	next := classify(pollErr)
	next.FlashIndex = t.flashIndex(now)
	t.cur = next

	if prevMode != next.Mode {
		t.journal.Append(pd.EventFaultEnter, next.Message, map[string]any{
			"mode":  next.Mode,
			"title": next.Title,
		})
		t.log.Warnw("fault_entered", "mode", next.Mode, "title", next.Title, "msg", next.Message)
	}
	return t.cur
}

// ShouldPush reports whether this fault frame differs from the last pushed
// one. The signature includes the flash index, so a multi-second fault
// repushes exactly at flash toggle boundaries and never in between.
func (t *FaultTracker) ShouldPush(f pd.Fault) bool {
	sig := f.Signature()
	if t.havePush && sig == t.lastSig {
		return false
	}
	t.lastSig = sig
	t.havePush = true
	return true
}

// Current returns the fault state as of the last Evaluate.
func (t *FaultTracker) Current() pd.Fault {
	return t.cur
}

// flashIndex selects the bright (0) or dim (1) fault background.
func (t *FaultTracker) flashIndex(now time.Time) int {
	if t.flashPeriod <= 0 {
		return 0
	}
	return int((now.UnixNano() / int64(t.flashPeriod)) % 2)
}

// classify maps a poll failure to its fault presentation. A device-reported
// fault carries the device's own reason; transport and payload failures get
// a generic message built from the failure cause.
func classify(err error) pd.Fault {
	var dev *pd.DeviceFault
	if errors.As(err, &dev) {
		msg := dev.Reason
		if msg == "" {
			msg = genericFaultAdvice
		}
		return pd.Fault{Mode: pd.FaultError, Title: "PRINTER ERROR", Message: msg}
	}

	var payload *pd.PayloadError
	if errors.As(err, &payload) {
		return pd.Fault{Mode: pd.FaultDegraded, Title: "BAD RESPONSE", Message: payload.Error()}
	}

	// Transport failures and anything unrecognized degrade the dashboard
	// without taking it down.
	return pd.Fault{Mode: pd.FaultDegraded, Title: "NO CONNECTION", Message: err.Error()}
}
