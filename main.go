package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"

	"git.sr.ht/~whereswaldon/zoomchart/backend"
	"git.sr.ht/~whereswaldon/zoomchart/config"
	"git.sr.ht/~whereswaldon/zoomchart/engine"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to the TOML configuration file")
	verbose := flag.Bool("v", false, "log debug output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [chart.json|trace.csv]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fileCfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed loading config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	cfg, err := fileCfg.Engine()
	if err != nil {
		logger.Error("invalid config", "path", *configPath, "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ds, err := backend.NewDatasource(logger)
	if err != nil {
		logger.Error("failed starting datasource", "err", err)
		os.Exit(1)
	}
	go func() {
		if err := ds.Run(ctx); err != nil {
			logger.Error("datasource stopped", "err", err)
		}
	}()
	if flag.NArg() > 0 {
		ds.Open(flag.Arg(0))
	}
	bundle := backend.NewBundle(ds)

	go func() {
		w := app.NewWindow(app.Title("zoomchart"), app.Size(unit.Dp(900), unit.Dp(640)))
		if err := loop(ctx, w, bundle, cfg, logger); err != nil {
			logger.Error("window closed", "err", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	app.Main()
}

func loop(ctx context.Context, w *app.Window, bundle backend.Bundle, cfg engine.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	expl := explorer.NewExplorer(w)
	ui := NewUI(backend.NewWindowState(ctx, bundle, w), expl, cfg, logger, w.Invalidate)
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
