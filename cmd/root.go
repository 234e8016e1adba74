package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"crowdwatch/config"
	"crowdwatch/gateway"
	"crowdwatch/ui"
)

// Version is set at build time via ldflags.
var Version = "0.4.2"

// Options holds CLI configuration.
type Options struct {
	Server     string
	IntervalMS int
	IncidentMS int
	VideoPath  string
	WatchMode  bool
	WatchCount int
	StatsMode  bool
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `crowdwatch v%s - operator console for a crowd-analysis backend

Usage:
  crowdwatch [OPTIONS] [INTERVAL_MS]

Modes:
  (default)         Interactive TUI (bubbletea, fullscreen)
  -watch            CLI output mode, prints metrics to the terminal with auto-refresh
  -stats            Single JSON metrics snapshot to stdout, then exit
  -version          Print version and exit

Options:
  -server URL       Backend base URL (default: http://127.0.0.1:5000)
  -interval N       Metrics poll interval in milliseconds (default: 200)
  -incidents N      Incident poll interval in milliseconds (default: 3000)
  -video PATH       Pre-fill the upload prompt with a video path
  -count N          Number of iterations for -watch mode (0 = infinite, default: 0)

Positional:
  INTERVAL_MS       First positional arg sets the metrics interval:
                    crowdwatch 500 = crowdwatch -interval 500

Examples:
  crowdwatch                              Interactive console, local backend
  crowdwatch -server http://cam-hub:5000  Console against a remote backend
  crowdwatch -watch                       CLI mode, one metrics block per poll
  crowdwatch -watch -count 10             CLI mode, 10 polls then exit
  crowdwatch -stats | jq .people_count
  crowdwatch -version
`, Version)
}

// Run parses flags and starts the application.
func Run() error {
	cfg := config.Load()

	var opts Options
	var showVersion bool

	flag.StringVar(&opts.Server, "server", cfg.Server, "Backend base URL")
	flag.IntVar(&opts.IntervalMS, "interval", cfg.MetricsInterval, "Metrics poll interval in milliseconds")
	flag.IntVar(&opts.IncidentMS, "incidents", cfg.IncidentPoll, "Incident poll interval in milliseconds")
	flag.StringVar(&opts.VideoPath, "video", "", "Pre-fill the upload prompt with a video path")
	flag.BoolVar(&opts.WatchMode, "watch", false, "CLI output mode (no TUI, prints to terminal)")
	flag.IntVar(&opts.WatchCount, "count", 0, "Number of iterations for -watch (0=infinite)")
	flag.BoolVar(&opts.StatsMode, "stats", false, "Output a single JSON metrics snapshot and exit")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		fmt.Printf("crowdwatch v%s\n", Version)
		return nil
	}

	// Support positional arg for interval: `crowdwatch 500` = `crowdwatch -interval 500`
	if args := flag.Args(); len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			opts.IntervalMS = n
		}
	}

	cfg.Server = opts.Server
	if opts.IntervalMS > 0 {
		cfg.MetricsInterval = opts.IntervalMS
	}
	if opts.IncidentMS > 0 {
		cfg.IncidentPoll = opts.IncidentMS
	}

	if opts.StatsMode {
		log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
		return runStats(cfg, log)
	}
	if opts.WatchMode {
		log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
		return runWatch(cfg, log, opts.WatchCount)
	}
	return runTUI(cfg, opts.VideoPath)
}

// runStats prints one metrics snapshot as JSON and exits.
func runStats(cfg config.Config, log zerolog.Logger) error {
	client := gateway.New(cfg.Server, log)
	snap, err := client.FetchMetrics(context.Background())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func runTUI(cfg config.Config, videoPath string) error {
	log := openLogger(cfg.LogFile)
	log.Info().Str("server", cfg.Server).Str("version", Version).Msg("starting console")

	client := gateway.New(cfg.Server, log)
	m := ui.NewModel(cfg, client, log, videoPath)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// openLogger writes structured logs to the configured file. The TUI owns
// the terminal, so stderr is not an option while it runs.
func openLogger(path string) zerolog.Logger {
	if path == "" {
		return zerolog.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop()
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop()
	}
	return zerolog.New(f).With().Timestamp().Logger()
}
