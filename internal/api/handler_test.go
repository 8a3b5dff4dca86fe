package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"printer_dashboard/internal/dashboard"
	"printer_dashboard/internal/logger"

	pd "printer_dashboard"
)

func newTestHandler() (*Handler, *dashboard.Board, *dashboard.Journal) {
	board := dashboard.NewBoard()
	journal := dashboard.NewJournal(16)
	return NewHandler(board, journal, logger.Nop()), board, journal
}

func doGET(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	h.InitRoutes().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	h, board, _ := newTestHandler()

	t.Run("before first tick", func(t *testing.T) {
		w := doGET(t, h, "/healthz")
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", w.Code)
		}
		var body struct {
			Status string `json:"status"`
			Ticked bool   `json:"ticked"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Status != "ok" || body.Ticked {
			t.Fatalf("got %+v, want ok and not ticked", body)
		}
	})

	t.Run("after first tick", func(t *testing.T) {
		board.Publish(dashboard.Snapshot{Tick: 1, At: time.Now()})
		w := doGET(t, h, "/healthz")
		var body struct {
			Ticked bool `json:"ticked"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if !body.Ticked {
			t.Fatalf("ticked flag not set after a publish")
		}
	})
}

func TestGetState(t *testing.T) {
	h, board, _ := newTestHandler()

	t.Run("503 before the first tick", func(t *testing.T) {
		if w := doGET(t, h, "/api/state"); w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status: got %d, want 503", w.Code)
		}
	})

	t.Run("returns the latest snapshot", func(t *testing.T) {
		board.Publish(dashboard.Snapshot{
			Tick:  42,
			Fault: pd.Fault{Mode: pd.FaultNormal},
			Panels: []pd.PanelModel{
				{Name: "T0", TempC: 210.4, State: pd.StateActive},
			},
		})
		w := doGET(t, h, "/api/state")
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", w.Code)
		}
		var snap dashboard.Snapshot
		if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if snap.Tick != 42 || len(snap.Panels) != 1 || snap.Panels[0].Name != "T0" {
			t.Fatalf("snapshot round trip: got %+v", snap)
		}
	})
}

func TestGetEvents(t *testing.T) {
	h, _, journal := newTestHandler()
	journal.Append(pd.EventFaultEnter, "down", nil)
	journal.Append(pd.EventFaultClear, "up", nil)
	journal.Append(pd.EventMessageShown, "hello", nil)

	decode := func(t *testing.T, w *httptest.ResponseRecorder) []pd.JournalEvent {
		t.Helper()
		var body struct {
			Events []pd.JournalEvent `json:"events"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return body.Events
	}

	t.Run("lists newest first", func(t *testing.T) {
		w := doGET(t, h, "/api/events")
		events := decode(t, w)
		if len(events) != 3 {
			t.Fatalf("got %d events, want 3", len(events))
		}
		if events[0].Type != pd.EventMessageShown {
			t.Fatalf("first event: got %s, want newest", events[0].Type)
		}
	})

	t.Run("filters by type", func(t *testing.T) {
		w := doGET(t, h, "/api/events?type=fault_enter")
		events := decode(t, w)
		if len(events) != 1 || events[0].Type != pd.EventFaultEnter {
			t.Fatalf("filter: got %+v", events)
		}
	})

	t.Run("honors limit", func(t *testing.T) {
		w := doGET(t, h, "/api/events?limit=2")
		if events := decode(t, w); len(events) != 2 {
			t.Fatalf("limit: got %d events, want 2", len(events))
		}
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		for _, q := range []string{"limit=0", "limit=-1", "limit=abc"} {
			if w := doGET(t, h, "/api/events?"+q); w.Code != http.StatusBadRequest {
				t.Fatalf("%s: got %d, want 400", q, w.Code)
			}
		}
	})
}

func TestParseInterval(t *testing.T) {
	h, _, _ := newTestHandler()

	tests := []struct {
		query string
		want  time.Duration
	}{
		{"", defaultInterval},
		{"interval=2s", 2 * time.Second},
		{"interval=500ms", 500 * time.Millisecond},
		{"interval=30s", defaultInterval}, // over the cap
		{"interval=-1s", defaultInterval}, // nonsense
		{"interval_ms=250", 250 * time.Millisecond},
		{"interval_ms=999999", defaultInterval}, // over the cap
	}

	for _, tc := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/ws?"+tc.query, nil)
		if got := h.parseInterval(c); got != tc.want {
			t.Fatalf("parseInterval(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
