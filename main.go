package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/app"
	"github.com/miosa/osa-vlist/config"
	"github.com/miosa/osa-vlist/style"
)

var version = "dev"

func main() {
	profileFlag := flag.String("profile", "", "Named profile for settings isolation (~/.osa/profiles/<name>)")
	items := flag.Int("items", 0, "Number of synthetic entries")
	seed := flag.Uint64("seed", 0, "Seed for the synthetic feed")
	repo := flag.String("repo", "", "List the commits of this git repository instead")
	throttle := flag.Int("throttle", 0, "Scroll throttle in milliseconds (0 disables)")
	idle := flag.Bool("idle", false, "Only update once scrolling goes quiet")
	placeholders := flag.Bool("placeholders", true, "Paint placeholder fillers while scrolling")
	overzealous := flag.Bool("overzealous", false, "Refresh every item on every pass")
	offscreen := flag.Bool("offscreen-resize", false, "Re-measure items that change size outside the viewport")
	logFile := flag.String("log", "", "Write debug logs to this file")
	theme := flag.String("theme", "", "Color theme (dark, light, catppuccin, tokyo-night)")
	save := flag.Bool("save", false, "Persist the effective settings to the profile")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.BoolVar(showVersion, "V", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("osa-vlist %s\n", version)
		os.Exit(0)
	}

	if *noColor {
		os.Setenv("NO_COLOR", "1")
	}

	log, closeLog, err := newLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "osa-vlist: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	dir := config.ProfileDir(*profileFlag)
	cfg, err := config.Load(dir)
	if err != nil {
		log.Warn("settings ignored", "dir", dir, "err", err)
	}

	// Only flags given on the command line override the profile.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "items":
			cfg.Items = *items
		case "seed":
			cfg.Seed = *seed
		case "repo":
			cfg.Repo = *repo
		case "throttle":
			cfg.Engine.ThrottleMs = *throttle
		case "idle":
			cfg.Engine.OnlyUpdateAtIdle = *idle
		case "placeholders":
			cfg.Engine.Placeholders = *placeholders
		case "overzealous":
			cfg.Engine.OverzealousInvalidation = *overzealous
		case "offscreen-resize":
			cfg.Engine.ItemsOutsideViewportCanChangeSize = *offscreen
		case "theme":
			cfg.Theme = *theme
		}
	})

	if *save {
		if err := config.Save(dir, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "osa-vlist: %v\n", err)
			os.Exit(1)
		}
	}

	if !style.SetTheme(cfg.Theme) {
		// Auto-detect terminal background when no known theme is configured.
		if lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
			style.SetTheme("dark")
		} else {
			style.SetTheme("light")
		}
	}

	p := tea.NewProgram(app.New(cfg, log))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "osa-vlist: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a debug-level text logger writing to path, or a
// discarding logger when path is empty.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), func() { f.Close() }, nil
}
