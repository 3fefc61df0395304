package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/memorymatch/internal/config"
	"github.com/lox/memorymatch/internal/store"
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"memorymatch.hcl" help:"Path to HCL configuration file"`
	Store    string `help:"Path to the score store (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Append logs to this file instead of stderr"`
	Debug    bool   `help:"Enable debug logging"`
}

// loadConfig reads the config file and applies flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if g.Store != "" {
		cfg.Storage.Path = g.Store
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger builds the root logger. Without --log-file it writes to
// fallback. The returned func closes the log file.
func (g *Globals) setupLogger(cfg *config.Config, fallback io.Writer) (*log.Logger, func(), error) {
	out := fallback
	closeFn := func() {}
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           cfg.LogLevel(),
		ReportTimestamp: true,
	})
	return logger, closeFn, nil
}

// openRecords opens the file store named by the config
func openRecords(cfg *config.Config, logger *log.Logger) (*store.Records, error) {
	file, err := store.OpenFile(cfg.Storage.Path, logger)
	if err != nil {
		return nil, err
	}
	return store.NewRecords(file, logger), nil
}

// signalContext is cancelled on interrupt signals
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
