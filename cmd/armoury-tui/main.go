package main

import (
	"flag"
	"io"
	"log"
	"log/slog"

	"armoury/internal/app"
	"armoury/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON or YAML config file")
	flag.Parse()

	// The alternate screen owns the terminal; logs would corrupt it.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller, err := app.New(app.Options{ConfigPath: *configPath, Logger: logger})
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	if err := tui.Run(controller, controller.Config().MonitorInterval); err != nil {
		log.Fatalf("tui exited with error: %v", err)
	}
}
