package dashboard

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pd "printer_dashboard"
)

// defaultJournalCap bounds the in-memory event ring. The dashboard keeps no
// history on disk; the journal exists for the introspection API and for
// post-mortem reads over a serial console.
const defaultJournalCap = 256

// Journal is a bounded, append-only ring of dashboard events. The loop
// goroutine appends; the API reads concurrently, hence the mutex.
type Journal struct {
	mu     sync.Mutex
	cap    int
	events []pd.JournalEvent
}

// NewJournal returns a journal holding at most capacity events.
// capacity <= 0 selects the default.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = defaultJournalCap
	}
	return &Journal{cap: capacity}
}

// Append records one event and returns it, dropping the oldest entry when
// the ring is full.
func (j *Journal) Append(evType, description string, metadata any) pd.JournalEvent {
	ev := pd.JournalEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        evType,
		Description: description,
		Metadata:    metadata,
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, ev)
	if len(j.events) > j.cap {
		j.events = j.events[len(j.events)-j.cap:]
	}
	return ev
}

// List returns events newest-first, optionally filtered by type and
// truncated to limit (limit <= 0 means no limit).
func (j *Journal) List(evType string, limit int) []pd.JournalEvent {
	typ := normalizeEventType(evType)

	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]pd.JournalEvent, 0, len(j.events))
	for i := len(j.events) - 1; i >= 0; i-- {
		if typ != "" && j.events[i].Type != typ {
			continue
		}
		out = append(out, j.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}
