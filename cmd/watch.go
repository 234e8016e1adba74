package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"crowdwatch/config"
	"crowdwatch/engine"
	"crowdwatch/gateway"
	"crowdwatch/model"
)

// ── ANSI color/style codes ──────────────────────────────────────────────────

const (
	R = "\033[0m" // reset
	B = "\033[1m" // bold
	D = "\033[2m" // dim

	FRed = "\033[31m"
	FGrn = "\033[32m"
	FYel = "\033[33m"
	FCyn = "\033[36m"

	FBRed = "\033[91m"
	FBWht = "\033[97m"
)

func sevColor(sev string) string {
	switch sev {
	case model.SeverityStampede:
		return FBRed + B
	case model.SeverityCrit:
		return FRed + B
	case model.SeverityWarn, model.SeverityCaution:
		return FYel + B
	default:
		return FGrn
	}
}

// runWatch polls the backend and prints one metrics block per interval.
// No TUI: output is plain ANSI so it pipes and logs cleanly.
func runWatch(cfg config.Config, log zerolog.Logger, count int) error {
	client := gateway.New(cfg.Server, log)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	// Incidents poll on their own slower cadence, expressed here as every
	// Nth metrics iteration.
	incidentEvery := cfg.IncidentPoll / cfg.MetricsInterval
	if incidentEvery < 1 {
		incidentEvery = 1
	}

	var incidents []model.IncidentRecord
	ticker := time.NewTicker(cfg.MetricsEvery())
	defer ticker.Stop()

	fmt.Printf("%scrowdwatch v%s%s  backend %s  interval %dms\n\n",
		B, Version, R, cfg.Server, cfg.MetricsInterval)

	for i := 0; ; i++ {
		snap, err := client.FetchMetrics(context.Background())
		if err != nil {
			fmt.Printf("%s%s%s  %spoll failed: %v%s\n",
				D, time.Now().Format("15:04:05"), R, FRed, err, R)
		} else {
			if i%incidentEvery == 0 {
				if recs, ierr := client.FetchIncidents(context.Background()); ierr == nil {
					if len(recs) > model.IncidentLogCap {
						recs = recs[:model.IncidentLogCap]
					}
					incidents = recs
				}
			}
			printBlock(snap, incidents)
		}

		if count > 0 && i+1 >= count {
			return nil
		}
		select {
		case <-sig:
			fmt.Println()
			return nil
		case <-ticker.C:
		}
	}
}

func printBlock(snap model.MetricsSnapshot, incidents []model.IncidentRecord) {
	alert := engine.ClassifyAlert(snap.AlertLevel)
	risk := engine.ClassifyRisk(snap.StampedeRisk)
	pcts := engine.FactorPercentages(snap.StampedeRisk.Factors)

	fmt.Printf("%s%s%s  people %s%d%s  alert %s%s%s  fps %.2f  risk %s%s%s (%.2f)",
		D, time.Now().Format("15:04:05"), R,
		FBWht+B, snap.PeopleCount, R,
		sevColor(alert.Severity), alert.Label, R,
		snap.FPS,
		sevColor(risk.Severity), risk.Label, R,
		snap.StampedeRisk.Score)

	fmt.Printf("  %sdens %d%% vel %d%% dir %d%% acc %d%%%s\n",
		FCyn, pcts[0], pcts[1], pcts[2], pcts[3], R)

	for _, rec := range incidents {
		cls := engine.ClassifyRisk(model.RiskAssessment{Level: rec.RiskLevel})
		fmt.Printf("    %s%s%s  %s%-6s%s  %d people  score %.2f\n",
			D, rec.Time().Local().Format("15:04:05"), R,
			sevColor(cls.Severity), rec.RiskLevel, R,
			rec.PeopleCount, rec.RiskScore)
	}
}
