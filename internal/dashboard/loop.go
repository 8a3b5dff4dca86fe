package dashboard

import (
	"context"
	"image"
	"math"
	"time"

	"printer_dashboard/internal/logger"

	pd "printer_dashboard"
)

// StatusSource is the polling contract against the printer API. Every call
// must enforce its own timeout so a slow network cannot stall the
// animation clock beyond the timeout bound.
type StatusSource interface {
	// Query fetches one channel's fresh status.
	Query(ctx context.Context, tool string) (pd.ChannelStatus, error)
	// RecentEvents returns the newest console events, oldest first. It may
	// be polled at a lower cadence than the render loop.
	RecentEvents(ctx context.Context, count int) ([]pd.GCodeEvent, error)
	// FaultState reports whether the device itself is in an error/shutdown
	// condition, with the device-supplied reason if any.
	FaultState(ctx context.Context) (faulted bool, reason string, err error)
}

// Presenter turns semantic models into frames. Pure drawing: no side
// effects, no knowledge of fault or animation logic.
type Presenter interface {
	Panel(model pd.PanelModel) image.Image
	FaultScreen(f pd.Fault) image.Image
	Farewell(amount float64) image.Image
}

// Sink pushes a finished frame to one physical panel. Best effort; a push
// failure is logged and the loop moves on.
type Sink interface {
	Push(img image.Image) error
}

// Channel binds one monitored tool to one output panel and its two
// animated indicators.
type Channel struct {
	Name string
	Tool string
	Sink Sink
	Fan  *FanSpinner
	Flow *FlowSpinner
}

// renderPhaseSteps is how many distinct spinner positions the presenter
// can draw; phases are quantized to this for the redraw fingerprint.
const renderPhaseSteps = 12

// farewellRamp is the shutdown animation: a quick blink-like close and
// reopen pushed through the normal collaborators before exit.
var farewellRamp = []float64{0.0, 0.4, 0.8, 1.0, 0.6, 0.2, 0.0}

const farewellFrameDelay = 50 * time.Millisecond

// Options are the loop's timing knobs.
type Options struct {
	Period         time.Duration
	EventPollEvery int // poll the console feed every N ticks
	EventCount     int
	Clock          func() time.Time // defaults to time.Now
}

// Deps are the owned-state collaborators threaded through every tick.
type Deps struct {
	Fault    *FaultTracker
	Notice   *Notice
	Detector *ChangeDetector
	Board    *Board
	Journal  *Journal
	Log      *logger.Logger
}

// Loop is the fixed-period orchestrator. All mutable state hangs off this
// struct and is touched only by the goroutine running Run; nothing here is
// an ambient global.
type Loop struct {
	opts     Options
	src      StatusSource
	pres     Presenter
	channels []Channel

	fault    *FaultTracker
	notice   *Notice
	detector *ChangeDetector
	board    *Board
	journal  *Journal
	log      *logger.Logger

	ticks    uint64
	lastTick time.Time
	swap     bool
}

// NewLoop wires a loop; channels must already carry their sinks and
// spinners.
func NewLoop(opts Options, src StatusSource, pres Presenter, channels []Channel, deps Deps) *Loop {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.EventPollEvery < 1 {
		opts.EventPollEvery = 1
	}
	return &Loop{
		opts:     opts,
		src:      src,
		pres:     pres,
		channels: channels,
		fault:    deps.Fault,
		notice:   deps.Notice,
		detector: deps.Detector,
		board:    deps.Board,
		journal:  deps.Journal,
		log:      deps.Log,
	}
}

// Run ticks until ctx is canceled, then plays the farewell sequence and
// returns. One iteration = one poll + one decision pass + up to one
// render/push per channel, followed by a drift-correcting sleep.
func (l *Loop) Run(ctx context.Context) {
	l.journal.Append(pd.EventLoopStart, "dashboard loop started", nil)
	l.log.Infow("loop_started", "period", l.opts.Period, "channels", len(l.channels))

	for ctx.Err() == nil {
		start := l.opts.Clock()

		// dt from consecutive monotonic reads, so scheduling jitter is
		// absorbed instead of compounding phase error.
		dt := 0.0
		if !l.lastTick.IsZero() {
			dt = start.Sub(l.lastTick).Seconds()
		}
		l.lastTick = start

		l.tick(ctx, start, dt)
		l.ticks++
		l.swap = !l.swap

		elapsed := l.opts.Clock().Sub(start)
		if !sleepCtx(ctx, l.opts.Period-elapsed) {
			break
		}
	}

	l.journal.Append(pd.EventLoopStop, "dashboard loop stopped", nil)
	l.log.Infow("loop_stopped", "ticks", l.ticks)
	l.farewell()
}

// tick runs one full poll + decide + render pass.
func (l *Loop) tick(ctx context.Context, now time.Time, dt float64) {
	statuses := make([]pd.ChannelStatus, len(l.channels))
	var pollErr error
	for i, ch := range l.channels {
		st, err := l.src.Query(ctx, ch.Tool)
		if err != nil {
			pollErr = err
			break
		}
		statuses[i] = st
	}
	if pollErr == nil {
		faulted, reason, err := l.src.FaultState(ctx)
		switch {
		case err != nil:
			pollErr = err
		case faulted:
			pollErr = &pd.DeviceFault{Reason: reason}
		}
	}

	f := l.fault.Evaluate(now, pollErr)
	if f.Faulted() {
		// The fault screen replaces whatever the panels held, so stored
		// fingerprints no longer describe the physical displays.
		l.detector.Reset()
		if l.fault.ShouldPush(f) {
			frame := l.pres.FaultScreen(f)
			l.pushAll(frame)
		}
		l.board.Publish(Snapshot{At: now.UTC(), Tick: l.ticks, Fault: f})
		return
	}

	if l.ticks%uint64(l.opts.EventPollEvery) == 0 {
		if evs, err := l.src.RecentEvents(ctx, l.opts.EventCount); err != nil {
			// Feed trouble is not a fault; the note just goes stale.
			l.log.Debugw("event_feed_failed", "err", err)
		} else {
			l.notice.Apply(now, evs)
		}
	}
	l.notice.Tick(now)

	models := make([]pd.PanelModel, len(l.channels))
	redraw := make([]bool, len(l.channels))
	for i, ch := range l.channels {
		fanPhase := ch.Fan.Advance(statuses[i].FanDuty, dt)
		flowPhase := ch.Flow.Advance(statuses[i].VelocityMMs, dt)
		models[i] = l.buildModel(ch, statuses[i], fanPhase, flowPhase)
		redraw[i] = l.detector.ShouldRedraw(ch.Name, models[i])
	}

	for _, i := range l.order() {
		if !redraw[i] {
			continue
		}
		if err := l.channels[i].Sink.Push(l.pres.Panel(models[i])); err != nil {
			l.log.Errorw("push_failed", "panel", l.channels[i].Name, "err", err)
		}
	}

	l.board.Publish(Snapshot{At: now.UTC(), Tick: l.ticks, Fault: f, Panels: models})
}

// buildModel assembles the semantic render model, which doubles as the
// redraw fingerprint. Analog values are quantized to what the presenter
// can actually show, so sensor noise below display resolution does not
// force repaints.
func (l *Loop) buildModel(ch Channel, st pd.ChannelStatus, fanPhase, flowPhase float64) pd.PanelModel {
	m := pd.PanelModel{
		Name:          ch.Name,
		Tool:          st.Tool,
		TempC:         quantize(st.TempC, 10),
		TargetC:       quantize(st.TargetC, 10),
		ProgressPct:   math.Round(st.ProgressPct),
		State:         st.State,
		PosX:          quantize(st.PosX, 10),
		PosY:          quantize(st.PosY, 10),
		FlowMMs:       quantize(ch.Flow.Smoothed(), 10),
		FanDuty:       quantize(st.FanDuty, 100),
		Active:        st.State == pd.StateActive,
		FanPhaseStep:  PhaseStep(fanPhase, renderPhaseSteps),
		FlowPhaseStep: PhaseStep(flowPhase, renderPhaseSteps),
	}
	if text, since, ok := l.notice.Active(); ok {
		m.Message = text
		m.MessageAt = since.UnixNano()
	}
	return m
}

// order returns channel indexes, alternating tick-to-tick which panel is
// served first so neither systematically lags the other.
func (l *Loop) order() []int {
	idx := make([]int, len(l.channels))
	for i := range idx {
		idx[i] = i
	}
	if l.swap {
		for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}
	return idx
}

// pushAll sends the same frame to every channel in the current order.
func (l *Loop) pushAll(frame image.Image) {
	for _, i := range l.order() {
		if err := l.channels[i].Sink.Push(frame); err != nil {
			l.log.Errorw("push_failed", "panel", l.channels[i].Name, "err", err)
		}
	}
}

// farewell plays the finite shutdown animation through the normal
// render/push collaborators. Not cancelable, not resumable.
func (l *Loop) farewell() {
	for _, amount := range farewellRamp {
		l.pushAll(l.pres.Farewell(amount))
		time.Sleep(farewellFrameDelay)
	}
}

// quantize rounds v to 1/res units.
func quantize(v float64, res float64) float64 {
	return math.Round(v*res) / res
}

// sleepCtx sleeps for d (no-op when d <= 0) and reports false when ctx was
// canceled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
