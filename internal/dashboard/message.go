package dashboard

import (
	"time"

	"printer_dashboard/internal/logger"

	pd "printer_dashboard"
)

// Notice tracks a single short-lived operator message (M117-style) with
// dedup-by-sequence and wall-clock expiry. Owned by the loop goroutine.
type Notice struct {
	timeout time.Duration

	text      string
	firstSeen time.Time

	lastSeq int64
	haveSeq bool

	journal *Journal
	log     *logger.Logger
}

// NewNotice returns an empty notice with the given expiry timeout.
func NewNotice(timeout time.Duration, journal *Journal, log *logger.Logger) *Notice {
	return &Notice{timeout: timeout, journal: journal, log: log}
}

// Apply consumes a batch of feed events, newest-last. Only events with a
// sequence strictly greater than the last seen one are signals; older or
// duplicate sequences are history and are ignored even if their text
// differs. An empty text clears the active message; a differing non-empty
// text replaces it and restarts its expiry clock. The same text arriving
// under a new sequence is a no-op and does not extend the on-screen time.
func (n *Notice) Apply(now time.Time, events []pd.GCodeEvent) {
	maxSeq := n.lastSeq
	haveMax := n.haveSeq

	for _, ev := range events {
		if n.haveSeq && ev.Sequence <= n.lastSeq {
			continue
		}
		if !haveMax || ev.Sequence > maxSeq {
			maxSeq = ev.Sequence
			haveMax = true
		}

		if ev.Text == "" {
			n.clear()
			continue
		}
		if ev.Text == n.text {
			continue
		}
		n.text = ev.Text
		n.firstSeen = now
		n.journal.Append(pd.EventMessageShown, ev.Text, map[string]any{"sequence": ev.Sequence})
		n.log.Debugw("message_shown", "text", ev.Text, "sequence", ev.Sequence)
	}

	n.lastSeq = maxSeq
	n.haveSeq = haveMax
}

// Tick runs the expiry check. It must be called every loop tick: the feed
// may be polled far less often than the loop runs, and expiry is driven by
// the wall clock, not by event arrival.
func (n *Notice) Tick(now time.Time) {
	if n.text == "" {
		return
	}
	if now.Sub(n.firstSeen) > n.timeout {
		expired := n.text
		n.clear()
		n.journal.Append(pd.EventMessageExpired, expired, nil)
		n.log.Debugw("message_expired", "text", expired)
	}
}

// Active returns the live message and its first-seen time. ok is false when
// no message is showing; callers fall back to their static label.
func (n *Notice) Active() (text string, since time.Time, ok bool) {
	if n.text == "" {
		return "", time.Time{}, false
	}
	return n.text, n.firstSeen, true
}

// LastSequence returns the highest feed sequence observed so far.
func (n *Notice) LastSequence() (int64, bool) {
	return n.lastSeq, n.haveSeq
}

func (n *Notice) clear() {
	n.text = ""
	n.firstSeen = time.Time{}
}
