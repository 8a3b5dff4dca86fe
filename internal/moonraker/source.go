package moonraker

import (
	"context"

	pd "printer_dashboard"
)

// Source is the status source handed to the dashboard loop: HTTP polling
// for status and fault state, with the websocket listener preferred for
// the console feed while its session is up. When the listener drops, the
// feed transparently falls back to polling /server/gcode_store.
type Source struct {
	*Client
	Listener *EventListener
}

// RecentEvents returns console events from the listener when connected,
// otherwise from the HTTP gcode store.
func (s *Source) RecentEvents(ctx context.Context, count int) ([]pd.GCodeEvent, error) {
	if s.Listener != nil && s.Listener.Connected() {
		return s.Listener.Recent(count), nil
	}
	return s.Client.RecentEvents(ctx, count)
}
