package printer_dashboard

import "time"

// PrinterState is the device-reported job state for a channel.
type PrinterState string

const (
	StateUnknown  PrinterState = "UNKNOWN"
	StateIdle     PrinterState = "IDLE"
	StateActive   PrinterState = "ACTIVE"
	StatePaused   PrinterState = "PAUSED"
	StateComplete PrinterState = "COMPLETE"
)

// ParsePrinterState maps the raw state string from the device to a
// PrinterState. Unrecognized or empty values map to UNKNOWN.
func ParsePrinterState(raw string) PrinterState {
	switch raw {
	case "standby", "STANDBY", "idle", "IDLE":
		return StateIdle
	case "printing", "PRINTING", "active", "ACTIVE":
		return StateActive
	case "paused", "PAUSED":
		return StatePaused
	case "complete", "COMPLETE", "done", "DONE":
		return StateComplete
	default:
		return StateUnknown
	}
}

// ChannelStatus is one poll's worth of raw data for a monitored channel.
// Produced fresh each tick by the status source; never mutated afterwards.
type ChannelStatus struct {
	Tool           string       `json:"tool"`
	TempC          float64      `json:"temp_c"`
	TargetC        float64      `json:"target_c"`
	ProgressPct    float64      `json:"progress_pct"` // 0..100
	State          PrinterState `json:"state"`
	PosX           float64      `json:"pos_x"`
	PosY           float64      `json:"pos_y"`
	VelocityMMs    float64      `json:"velocity_mm_s"` // signed, instantaneous
	FanDuty        float64      `json:"fan_duty"`      // 0..1
	SourceSequence int64        `json:"source_sequence,omitempty"`
}

// FaultMode classifies the dashboard's global fault condition.
type FaultMode string

const (
	FaultNormal   FaultMode = "NORMAL"
	FaultDegraded FaultMode = "DEGRADED" // transport/parse failure while polling
	FaultError    FaultMode = "ERROR"    // device-reported fault or shutdown
)

// Fault is the process-wide fault presentation state. A non-NORMAL fault
// overrides rendering on every channel at once.
type Fault struct {
	Mode       FaultMode `json:"mode"`
	Title      string    `json:"title,omitempty"`
	Message    string    `json:"message,omitempty"`
	FlashIndex int       `json:"flash_index,omitempty"` // 0=bright, 1=dim
}

// FaultSignature is the push rate-limit key: identical consecutive
// signatures must not repush a frame.
type FaultSignature struct {
	Mode       FaultMode
	Title      string
	Message    string
	FlashIndex int
}

// Signature returns the comparable rate-limit key for this fault.
func (f Fault) Signature() FaultSignature {
	return FaultSignature{Mode: f.Mode, Title: f.Title, Message: f.Message, FlashIndex: f.FlashIndex}
}

// Faulted reports whether normal channel rendering is suppressed.
func (f Fault) Faulted() bool {
	return f.Mode != FaultNormal
}

// GCodeEvent is one entry from the device's console/message feed,
// used for operator notes (M117-style ephemeral messages).
type GCodeEvent struct {
	Sequence int64  `json:"sequence"`
	Text     string `json:"text"`
}

// PanelModel is the semantic render model for one channel: everything the
// presenter needs to draw a normal frame, and nothing else. Animation
// phases are carried pre-quantized so the model doubles as the redraw
// fingerprint.
type PanelModel struct {
	Name        string
	Tool        string
	TempC       float64
	TargetC     float64
	ProgressPct float64
	State       PrinterState
	PosX        float64
	PosY        float64
	FlowMMs     float64 // smoothed, not raw
	FanDuty     float64
	Active      bool

	Message   string // "" when no ephemeral message is live
	MessageAt int64  // unix nanos of first sighting, 0 when none

	FanPhaseStep  int // fan spinner phase quantized to render steps
	FlowPhaseStep int // flow spinner phase quantized to render steps
}

// Journal event types.
const (
	EventFaultEnter     = "FAULT_ENTER"
	EventFaultClear     = "FAULT_CLEAR"
	EventMessageShown   = "MESSAGE_SHOWN"
	EventMessageExpired = "MESSAGE_EXPIRED"
	EventLoopStart      = "LOOP_START"
	EventLoopStop       = "LOOP_STOP"
)

// JournalEvent is a single in-memory log entry.
type JournalEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
