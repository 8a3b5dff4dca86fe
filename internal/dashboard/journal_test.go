package dashboard

import (
	"fmt"
	"testing"

	pd "printer_dashboard"
)

func TestJournal_AppendAndList(t *testing.T) {
	j := NewJournal(8)

	j.Append(pd.EventLoopStart, "started", nil)
	j.Append(pd.EventMessageShown, "hello", map[string]any{"sequence": int64(1)})

	got := j.List("", 0)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	// Newest first.
	if got[0].Type != pd.EventMessageShown || got[1].Type != pd.EventLoopStart {
		t.Fatalf("wrong order: %s, %s", got[0].Type, got[1].Type)
	}
	if got[0].EventID == "" || got[0].EventID == got[1].EventID {
		t.Fatalf("event IDs must be unique and non-empty")
	}
}

func TestJournal_RingDropsOldest(t *testing.T) {
	j := NewJournal(3)
	for i := 0; i < 5; i++ {
		j.Append(pd.EventMessageShown, fmt.Sprintf("m%d", i), nil)
	}

	got := j.List("", 0)
	if len(got) != 3 {
		t.Fatalf("got %d events, want capacity 3", len(got))
	}
	if got[0].Description != "m4" || got[2].Description != "m2" {
		t.Fatalf("ring kept wrong window: newest %q, oldest %q", got[0].Description, got[2].Description)
	}
}

func TestJournal_FilterAndLimit(t *testing.T) {
	j := NewJournal(16)
	j.Append(pd.EventFaultEnter, "down", nil)
	j.Append(pd.EventFaultClear, "up", nil)
	j.Append(pd.EventFaultEnter, "down again", nil)

	t.Run("filter is case-insensitive", func(t *testing.T) {
		got := j.List(" fault_enter ", 0)
		if len(got) != 2 {
			t.Fatalf("got %d events, want 2", len(got))
		}
		for _, ev := range got {
			if ev.Type != pd.EventFaultEnter {
				t.Fatalf("filter leaked type %s", ev.Type)
			}
		}
	})

	t.Run("limit truncates newest-first", func(t *testing.T) {
		got := j.List("", 2)
		if len(got) != 2 {
			t.Fatalf("got %d events, want 2", len(got))
		}
		if got[0].Description != "down again" {
			t.Fatalf("limit must keep the newest events, got %q first", got[0].Description)
		}
	})
}

func TestBoard_PublishLatest(t *testing.T) {
	b := NewBoard()
	if _, ok := b.Latest(); ok {
		t.Fatalf("empty board reported a snapshot")
	}

	b.Publish(Snapshot{Tick: 7})
	snap, ok := b.Latest()
	if !ok || snap.Tick != 7 {
		t.Fatalf("got (%+v, %v), want tick 7", snap, ok)
	}

	b.Publish(Snapshot{Tick: 8})
	if snap, _ := b.Latest(); snap.Tick != 8 {
		t.Fatalf("board did not replace the snapshot, tick %d", snap.Tick)
	}
}
