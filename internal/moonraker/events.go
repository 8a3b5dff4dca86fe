package moonraker

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"printer_dashboard/internal/logger"

	pd "printer_dashboard"
)

// Listener timing and buffer limits.
const (
	listenerRedialWait = 3 * time.Second
	listenerReadLimit  = 1 << 16
	listenerPongWait   = 60 * time.Second
	listenerPingEvery  = (listenerPongWait * 9) / 10
	listenerRingCap    = 64
)

// EventListener subscribes to Moonraker's JSON-RPC websocket and collects
// M117 console commands into a bounded in-memory feed. It is an optional
// lower-latency alternative to polling /server/gcode_store; the loop still
// drives message expiry from its own clock either way.
type EventListener struct {
	wsURL string
	log   *logger.Logger

	mu        sync.Mutex
	seq       int64
	ring      []pd.GCodeEvent
	connected bool
}

// NewEventListener derives the websocket endpoint from the HTTP base URL.
func NewEventListener(baseURL string, log *logger.Logger) *EventListener {
	ws := strings.TrimRight(baseURL, "/")
	ws = strings.Replace(ws, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	// Sequences start at the current microsecond timestamp so they stay
	// comparable with gcode-store sequences if the feed falls back to
	// HTTP polling mid-run.
	return &EventListener{wsURL: ws + "/websocket", log: log, seq: time.Now().UnixMicro()}
}

// Run dials and reads until ctx is canceled, redialing after failures.
func (l *EventListener) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			l.log.Warnw("event_listener_disconnected", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(listenerRedialWait):
		}
	}
}

// Connected reports whether a websocket session is currently up.
func (l *EventListener) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// Recent returns up to count collected events, oldest first.
func (l *EventListener) Recent(count int) []pd.GCodeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.ring)
	if count > 0 && n > count {
		n = count
	}
	out := make([]pd.GCodeEvent, n)
	copy(out, l.ring[len(l.ring)-n:])
	return out
}

// rpcNotification is the subset of Moonraker's JSON-RPC frames we care
// about: gcode responses broadcast to every connected client.
type rpcNotification struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func (l *EventListener) listen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.wsURL, nil)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(listenerReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(listenerPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(listenerPongWait))
	})

	l.setConnected(true)
	defer l.setConnected(false)
	l.log.Infow("event_listener_connected", "url", l.wsURL)

	// Ping keepalive; also closes the connection on ctx cancel so the
	// blocked ReadMessage below returns.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(listenerPingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-ticker.C:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var note rpcNotification
		if err := json.Unmarshal(data, &note); err != nil {
			continue
		}
		if note.Method != "notify_gcode_response" || len(note.Params) == 0 {
			continue
		}
		var line string
		if err := json.Unmarshal(note.Params[0], &line); err != nil {
			continue
		}
		if text, ok := parseM117(line); ok {
			l.record(text)
		}
	}
}

// record appends one event with the listener's own monotonic sequence.
func (l *EventListener) record(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.ring = append(l.ring, pd.GCodeEvent{Sequence: l.seq, Text: text})
	if len(l.ring) > listenerRingCap {
		l.ring = l.ring[len(l.ring)-listenerRingCap:]
	}
}

func (l *EventListener) setConnected(v bool) {
	l.mu.Lock()
	l.connected = v
	l.mu.Unlock()
}
