package dashboard

import (
	"sync"
	"time"

	pd "printer_dashboard"
)

// Snapshot is the read-only publication of one completed tick: what the
// panels are showing right now. Consumed by the introspection API.
type Snapshot struct {
	At     time.Time       `json:"at"`
	Tick   uint64          `json:"tick"`
	Fault  pd.Fault        `json:"fault"`
	Panels []pd.PanelModel `json:"panels,omitempty"`
}

// Board hands tick snapshots from the loop goroutine to concurrent
// readers. Single writer, many readers; the loop publishes a copy, so a
// snapshot is immutable once out.
type Board struct {
	mu   sync.RWMutex
	snap Snapshot
	have bool
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Publish replaces the latest snapshot.
func (b *Board) Publish(s Snapshot) {
	b.mu.Lock()
	b.snap = s
	b.have = true
	b.mu.Unlock()
}

// Latest returns the most recent snapshot; ok is false before the first
// completed tick.
func (b *Board) Latest() (Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap, b.have
}
