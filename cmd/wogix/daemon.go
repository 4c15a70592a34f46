package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/wogix/internal/client"
	"github.com/1broseidon/wogix/internal/config"
	"github.com/1broseidon/wogix/internal/daemon"
	"github.com/1broseidon/wogix/internal/ipc"
	"github.com/1broseidon/wogix/internal/platform"
	"github.com/1broseidon/wogix/internal/wm"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wogix/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wogix daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Manage the windows of the current X display. Send SIGHUP or run")
		fmt.Fprintln(os.Stderr, "'wogix reload' to re-read the configuration.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	loadConfig := config.Load
	if *path != "" {
		loadConfig = func() (*config.Config, error) { return config.LoadFromPath(*path) }
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger.Info("configuration loaded",
		"log_level", cfg.LogLevel,
		"reconcile_interval", cfg.ReconcileInterval,
		"frame_windows", cfg.Filters.FrameWindows.String(),
		"cycle_windows", cfg.Filters.CycleWindows.String(),
	)

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	full, work, err := backend.Screen()
	if err != nil {
		log.Fatalf("Failed to query screen: %v", err)
	}

	manager := wm.NewManager(backend, client.NewScreen(full, work), logger)
	manager.SetFilters(cfg.Filters.Manager())
	if err := wm.Attach(manager, backend); err != nil {
		log.Fatalf("Failed to attach to display: %v", err)
	}
	logger.Info("wogix daemon started", "windows", manager.Len(), "screen", full, "work_area", work)

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(cfg, manager, reloadChan, logger)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	ipcServer.SetConfigLoader(loadConfig)
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	reconcilerCtx, reconcilerCancel := context.WithCancel(context.Background())
	defer reconcilerCancel()
	if cfg.ReconcileInterval > 0 {
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: cfg.ReconcileInterval,
			Logger:   logger,
		}, manager)
		reconciler.ReconcileNow()
		go reconciler.Run(reconcilerCtx)
	}

	apply := func(newCfg *config.Config) {
		level.Set(newCfg.SlogLevel())
		manager.SetFilters(newCfg.Filters.Manager())
		logger.Info("config reloaded", "log_level", newCfg.LogLevel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading config")
					newCfg, err := loadConfig()
					if err != nil {
						logger.Error("config reload failed", "error", err)
						continue
					}
					ipcServer.UpdateConfig(newCfg)
					apply(newCfg)

				case os.Interrupt, syscall.SIGTERM:
					logger.Info("shutting down wogix daemon")
					reconcilerCancel()
					ipcServer.Stop()
					backend.Connection().Quit()
					return
				}

			case <-reloadChan:
				// Config was reloaded via IPC
				apply(ipcServer.GetConfig())
			}
		}
	}()

	// Start event loop (blocking)
	logger.Debug("entering event loop")
	backend.Connection().EventLoop()
	return 0
}
