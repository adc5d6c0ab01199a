// Package main provides the reminder command: one fetch-filter-digest-notify
// run per invocation, meant to be scheduled externally (cron, CI).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/formatter"
	"github.com/asincerity/convertible-bond-reminder/internal/logger"
	"github.com/asincerity/convertible-bond-reminder/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config path; defaults are built in")
	flag.Parse()

	startTime := time.Now()

	// Configuration problems (including a missing webhook secret) are the
	// only fatal condition, and they surface before any network call.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log := logger.New("info")
		log.Error(fmt.Sprintf("❌ Configuration error: %v", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("🚀 Starting convertible bond reminder")
	log.Info(cfg.String())

	p, err := pipeline.New(cfg, log)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Pipeline setup failed: %v", err))
		os.Exit(1)
	}

	report := p.Run()

	// Final report. Fetch and delivery failures are visible here and in the
	// logs, but the exit code stays 0: the scheduler retries tomorrow.
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Run ID: %s\n", report.RunID)
	fmt.Printf("Records Fetched: %d\n", report.FetchedRecords)
	fmt.Printf("Actionable Today: %d\n", len(report.ActionableBonds))

	if len(report.ActionableBonds) > 0 {
		fmt.Println()
		fmt.Print(formatter.SummaryTable(report.ActionableBonds))
		fmt.Println()
	}

	fmt.Printf("Title: %s\n", report.Title)
	fmt.Printf("Weather: %s\n", weatherStatus(report))
	fmt.Printf("Delivered: %t\n", report.Delivered())

	for _, stageErr := range []error{report.BondFetchErr, report.WeatherErr, report.DeliveryErr} {
		if stageErr != nil {
			fmt.Printf("⚠️  %v\n", stageErr)
		}
	}

	fmt.Printf("Total Duration: %v\n", time.Since(startTime))
	fmt.Println("------------------------------------------------")
}

func weatherStatus(report *pipeline.Report) string {
	switch {
	case report.WeatherOK:
		return "ok"
	case report.WeatherErr != nil:
		return "unavailable"
	default:
		return "disabled"
	}
}
