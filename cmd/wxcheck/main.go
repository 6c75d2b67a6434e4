package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/skyvane/flightwx/internal/adapter/tomorrowio"
	"github.com/skyvane/flightwx/internal/config"
	"github.com/skyvane/flightwx/internal/domain"
)

// wxcheck fetches live conditions or a daily forecast from Tomorrow.io
// and prints the flight-safety assessment for a location.
func main() {
	location := flag.String("location", "", "place name to assess (required)")
	forecast := flag.Bool("forecast", false, "analyze the daily forecast instead of current conditions")
	days := flag.Int("days", 5, "forecast days to analyze")
	flag.Parse()

	if *location == "" {
		fmt.Fprintln(os.Stderr, "usage: wxcheck -location <place> [-forecast] [-days N]")
		os.Exit(2)
	}

	// Local convenience: pick up TOMORROW_TOKEN and friends from .env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	if !cfg.TomorrowEnabled {
		fatal("TOMORROW_TOKEN is not set")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := tomorrowio.NewClient(cfg.TomorrowToken, cfg.TomorrowTimeout, logger)
	geocoder := tomorrowio.NewCachedGeocoder(client, cfg.GeocodeCacheSize)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coords, err := geocoder.Geocode(ctx, *location)
	if err != nil {
		fatal("%v", err)
	}

	if *forecast {
		runForecast(ctx, client, cfg, *location, coords, *days)
		return
	}
	runCurrent(ctx, client, cfg, *location, coords)
}

func runCurrent(ctx context.Context, client *tomorrowio.Client, cfg *config.Config, location string, coords tomorrowio.Coordinates) {
	obs, err := client.Realtime(ctx, location, coords)
	if err != nil {
		fatal("%v", err)
	}

	assessment, err := domain.Assess(obs, nil, cfg.Thresholds)
	if err != nil {
		fatal("assess %s: %v", location, err)
	}

	fmt.Printf("Flight conditions for %s (observed %s)\n\n",
		assessment.Location, assessment.ObservedAt.Format("2006-01-02 15:04 MST"))
	printAssessment(assessment)
}

func runForecast(ctx context.Context, client *tomorrowio.Client, cfg *config.Config, location string, coords tomorrowio.Coordinates, days int) {
	steps, err := client.Forecast(ctx, location, coords, days)
	if err != nil {
		fatal("%v", err)
	}

	analysis, err := domain.AnalyzeForecast(steps, cfg.Thresholds)
	if err != nil {
		fatal("analyze forecast for %s: %v", location, err)
	}

	fmt.Printf("%d-day forecast for %s\n\n", len(analysis.Steps), location)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSCORE\tLEVEL\tALERTS")
	for _, step := range analysis.Steps {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			step.ObservedAt.Format("Mon Jan 2"),
			step.Score.Combined,
			step.Score.Level,
			summarizeAlerts(step.Alerts),
		)
	}
	w.Flush()

	fmt.Printf("\nBest window:  %s (score %d, %s)\n",
		analysis.Best.ObservedAt.Format("Mon Jan 2"), analysis.Best.Score.Combined, analysis.Best.Score.Level)
	fmt.Printf("Worst window: %s (score %d, %s)\n",
		analysis.Worst.ObservedAt.Format("Mon Jan 2"), analysis.Worst.Score.Combined, analysis.Worst.Score.Level)
}

func printAssessment(a domain.Assessment) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Safety score\t%d (%s)\n", a.Score.Combined, a.Score.Level)
	fmt.Fprintf(w, "  Wind\t%.0f\n", a.Score.Wind)
	fmt.Fprintf(w, "  Visibility\t%.0f\n", a.Score.Visibility)
	fmt.Fprintf(w, "  Temperature\t%.0f\n", a.Score.Temperature)
	fmt.Fprintf(w, "  Precipitation\t%.0f\n", a.Score.Precipitation)
	fmt.Fprintf(w, "  Cloud cover\t%.0f\n", a.Score.Cloud)
	fmt.Fprintf(w, "Density altitude\t%.0f ft\n", a.DensityAltitude)
	w.Flush()

	if len(a.Alerts) == 0 {
		fmt.Println("\nNo active alerts.")
		return
	}
	fmt.Println("\nAlerts:")
	for _, alert := range a.Alerts {
		fmt.Printf("  [%s] %s: %s\n", alert.Severity, alert.Category, alert.Message)
	}
}

func summarizeAlerts(alerts []domain.Alert) string {
	if len(alerts) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d (max %s)", len(alerts), alerts[0].Severity)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "wxcheck: "+format+"\n", args...)
	os.Exit(1)
}
