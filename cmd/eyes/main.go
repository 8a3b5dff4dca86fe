package main

import (
	"context"
	"flag"
	"image"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/host/v3"

	"printer_dashboard/internal/config"
	"printer_dashboard/internal/display"
	"printer_dashboard/internal/eyes"
	"printer_dashboard/internal/logger"
)

// Frame pacing for the screensaver. SPI pushes dominate each iteration,
// so the sleep is drift-correcting like the dashboard's.
const (
	frameRate     = 30
	framePeriod   = time.Second / frameRate
	farewellDelay = 50 * time.Millisecond
)

func main() {
	cfgPath := flag.String("config", "", "config file (default configs/config.yml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	if _, err := host.Init(); err != nil {
		log.Fatalw("failed to init periph host", "err", err)
	}

	sinks, closePanels, err := display.OpenPanels(cfg.Panels)
	if err != nil {
		log.Fatalw("failed to open displays", "err", err)
	}
	defer closePanels()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Infow("eyes_started", "panels", len(cfg.Panels))
	run(ctx, cfg, sinks)
	log.Infow("eyes_stopped")
}

// run animates both eyes from one shared blink cycle until ctx cancels,
// then plays the farewell blink and leaves the eyes open.
func run(ctx context.Context, cfg *config.Config, sinks []*display.PanelSink) {
	blink := eyes.NewBlinkCycle(
		cfg.Blink.MinInterval, cfg.Blink.MaxInterval,
		cfg.Blink.Close, cfg.Blink.Hold,
		nil, time.Now(),
	)

	t0 := time.Now()
	swap := false

	for ctx.Err() == nil {
		start := time.Now()
		t := start.Sub(t0).Seconds()

		// One shared amount per tick keeps both panels in lockstep.
		amount := blink.Update(start)
		frame := eyes.Frame(t, 0, amount)
		pushAll(sinks, frame, swap)
		swap = !swap

		sleep := framePeriod - time.Since(start)
		if sleep > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(sleep):
			}
		}
	}

	// Farewell: quick surprised blink, then a calm open stare.
	for _, amount := range eyes.FarewellRamp {
		t := time.Since(t0).Seconds()
		pushAll(sinks, eyes.Frame(t, 0, amount), swap)
		swap = !swap
		time.Sleep(farewellDelay)
	}
}

// pushAll writes the same frame to every panel, alternating which panel
// goes first so neither one systematically leads.
func pushAll(sinks []*display.PanelSink, frame image.Image, swap bool) {
	if swap {
		for i := len(sinks) - 1; i >= 0; i-- {
			_ = sinks[i].Push(frame)
		}
		return
	}
	for _, s := range sinks {
		_ = s.Push(frame)
	}
}
