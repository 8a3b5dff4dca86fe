package dashboard

import pd "printer_dashboard"

// ChangeDetector is a pure memoization gate on per-channel render work: a
// frame is drawn and pushed only when the channel's fingerprint differs
// from the previously stored one. Channels are fully independent. The
// PanelModel doubles as the fingerprint; it is a comparable struct, so the
// check is plain structural equality.
type ChangeDetector struct {
	prev map[string]pd.PanelModel
}

// NewChangeDetector returns a detector with no stored fingerprints, so the
// first call for any channel reports a redraw.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{prev: make(map[string]pd.PanelModel)}
}

// ShouldRedraw stores and reports true iff the fingerprint differs from
// the previous one for this channel.
func (d *ChangeDetector) ShouldRedraw(channel string, fp pd.PanelModel) bool {
	if old, ok := d.prev[channel]; ok && old == fp {
		return false
	}
	d.prev[channel] = fp
	return true
}

// Reset forgets all stored fingerprints, forcing the next frame on every
// channel. Used when a fault screen has overwritten the panels: the stored
// fingerprints no longer describe what is physically displayed.
func (d *ChangeDetector) Reset() {
	d.prev = make(map[string]pd.PanelModel)
}
