package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"refreshlist/internal/config"
	"refreshlist/internal/feed"
	"refreshlist/internal/model"
	"refreshlist/internal/tui"
)

var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		seedPath    = flag.String("seed", "", "YAML file with the initial entries")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("refreshlist %s\n", version)
		return
	}

	if err := run(*configPath, *seedPath, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, seedPath string, debug bool) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("refreshlist needs an interactive terminal")
	}

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if seedPath != "" {
		cfg.Feed.SeedFile = seedPath
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	entries, err := initialEntries(cfg.Feed)
	if err != nil {
		return err
	}

	var source feed.Source
	if cfg.Refresh.Command != "" {
		source = feed.NewCommand(cfg.Refresh.Command, 0)
	} else {
		source = feed.NewGenerator(cfg.Refresh.Delay.Duration, cfg.Refresh.BatchSize)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := tui.New(tui.Options{
		Context:        ctx,
		Entries:        entries,
		Source:         source,
		Threshold:      cfg.Gesture.Threshold,
		PinnedOffset:   cfg.Gesture.PinnedOffset,
		RefreshTimeout: cfg.Refresh.Timeout.Duration,
		Logger:         logger,
	})
	defer m.Close()

	logger.Info("starting", "entries", len(entries), "version", version)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func initialEntries(cfg config.FeedConfig) ([]model.Entry, error) {
	if cfg.SeedFile == "" {
		return feed.Seed(cfg.SeedCount), nil
	}
	return feed.LoadSeedFile(cfg.SeedFile)
}

// newLogger writes tint-formatted logs to the configured file. The terminal
// belongs to the TUI, so colour is off and nothing goes to stderr.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}))
	return logger, closeFn, nil
}
