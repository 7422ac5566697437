package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"armoury/internal/app"
	"armoury/internal/config"
	"armoury/internal/daemon"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON or YAML config file")
	force := flag.Bool("force", false, "Stop an existing daemon before starting")
	debug := flag.Bool("debug", false, "Log at debug level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	level := cfg.LogLevel
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if daemon.IsRunning() {
		if !*force {
			pid, err := daemon.RunningPID()
			if err != nil {
				log.Fatalf("daemon appears running but pid check failed: %v", err)
			}
			logger.Info("daemon is already running, use -force to restart", "pid", pid)
			return
		}
		logger.Info("stopping existing daemon")
		if err := daemon.StopRunningDaemon(true); err != nil {
			log.Fatalf("failed to stop running daemon: %v", err)
		}
	}

	a, err := app.New(app.Options{ConfigPath: *configPath, Logger: logger})
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	h, err := a.StartDaemon()
	if err != nil {
		log.Fatalf("failed to start daemon: %v", err)
	}
	logger.Info("daemon started", "pid", os.Getpid(), "socket", daemon.SocketPath())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logger.Info("stopping daemon", "signal", sig.String())
	if err := h.Close(); err != nil {
		log.Fatalf("error shutting down daemon: %v", err)
	}
}
