package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/host/v3"

	"printer_dashboard/internal/api"
	"printer_dashboard/internal/config"
	"printer_dashboard/internal/dashboard"
	"printer_dashboard/internal/display"
	"printer_dashboard/internal/logger"
	"printer_dashboard/internal/moonraker"
	"printer_dashboard/internal/render"
	"printer_dashboard/internal/server"
)

const apiShutdownGrace = 5 * time.Second

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

	// context for background goroutines; canceled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// status source: HTTP polling plus the websocket console feed
	client := moonraker.NewClient(cfg.Moonraker.URL, cfg.Moonraker.Timeout)
	listener := moonraker.NewEventListener(cfg.Moonraker.URL, log)
	go listener.Run(ctx)
	src := &moonraker.Source{Client: client, Listener: listener}

	// wire dependencies
	journal := dashboard.NewJournal(0)
	board := dashboard.NewBoard()
	pres := render.NewRenderer(render.LoadFonts())

	channels := make([]dashboard.Channel, 0, len(cfg.Panels))
	for i, p := range cfg.Panels {
		channels = append(channels, dashboard.Channel{
			Name: p.Name,
			Tool: p.Tool,
			Sink: sinks[i],
			Fan:  dashboard.NewFanSpinner(cfg.Fan.Threshold, cfg.Fan.MinRate, cfg.Fan.MaxRate),
			Flow: dashboard.NewFlowSpinner(cfg.Flow.Alpha, cfg.Flow.UnitsPerRev, cfg.Flow.MaxDt.Seconds(), cfg.Flow.Direction),
		})
	}

	loop := dashboard.NewLoop(
		dashboard.Options{
			Period:         cfg.PollPeriod(),
			EventPollEvery: cfg.EventPollEvery,
			EventCount:     cfg.EventCount,
		},
		src, pres, channels,
		dashboard.Deps{
			Fault:    dashboard.NewFaultTracker(cfg.FlashPeriod, journal, log),
			Notice:   dashboard.NewNotice(cfg.MessageTimeout, journal, log),
			Detector: dashboard.NewChangeDetector(),
			Board:    board,
			Journal:  journal,
			Log:      log,
		},
	)

	// optional introspection API
	srv := &server.Server{}
	if cfg.API.Enabled {
		apiHandler := api.NewHandler(board, journal, log)
		go func() {
			if err := srv.Run(cfg.API.Port, apiHandler.InitRoutes()); err != nil {
				log.Warnw("api server stopped", "err", err)
			}
		}()
	}

	// the loop owns the main goroutine; returns after the farewell frames
	loop.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), apiShutdownGrace)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("api server forced to shutdown", "err", err)
	}
}
