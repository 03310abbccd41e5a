package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/stw/internal/config"
	"github.com/tgienger/stw/internal/db"
	"github.com/tgienger/stw/internal/locate"
	"github.com/tgienger/stw/internal/tasks"
	"github.com/tgienger/stw/internal/ui"
	"github.com/tgienger/stw/internal/ui/styles"
	"github.com/tgienger/stw/internal/weather"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	args := os.Args[1:]
	debug := false
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "--version", "-v":
			fmt.Printf("stw %s (commit: %s, built: %s)\n", version, commit, date)
			os.Exit(0)
		case "--debug":
			debug = true
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag %q\n", args[0])
			os.Exit(2)
		}
		args = args[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.Debug = cfg.Debug || debug

	client := &http.Client{Timeout: cfg.HTTPTimeout}

	if len(args) > 0 && args[0] == "forecast" {
		log.SetOutput(io.Discard)
		if err := runForecast(cfg, client, strings.Join(args[1:], " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", weather.Message(err))
			os.Exit(1)
		}
		return
	}
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", args[0])
		os.Exit(2)
	}

	// Bubble Tea owns the terminal, so logs go to a file or nowhere.
	if cfg.Debug {
		f, err := tea.LogToFile(cfg.LogFile, "stw")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	// Initialize database
	database, err := db.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cache := weather.NewCache(database, weather.CacheTTL, nil)
	if n := cache.Sweep(); n > 0 {
		log.Printf("swept %d stale forecast entries", n)
	}

	var locator locate.Locator = locate.Disabled
	if !cfg.DisableLocate {
		locator = locate.WithTimeout(locate.NewIP(client, cfg.LocateURL), locate.DefaultTimeout)
	}

	geocoder := weather.NewGeocoder(client, cfg.GeocodeURL, cfg.UserAgent)
	forecaster := weather.NewForecaster(client, cfg.ForecastURL, cache)

	dash := weather.NewDashboard(weather.DashboardConfig{
		Resolver:   geocoder,
		Forecaster: forecaster,
		Locator:    locator,
		Places:     weather.NewPlaces(database),
		Units:      weather.NewUnits(database),
	})
	daily := weather.NewDailyForm(geocoder, forecaster)

	// Create and run the application
	app := ui.NewApp(database, tasks.New(database), dash, daily)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// runForecast prints the daily summary for place without starting the TUI.
func runForecast(cfg config.Config, client *http.Client, place string) error {
	if strings.TrimSpace(place) == "" {
		return fmt.Errorf("usage: stw forecast <place>")
	}
	form := weather.NewDailyForm(
		weather.NewGeocoder(client, cfg.GeocodeURL, cfg.UserAgent),
		weather.NewForecaster(client, cfg.ForecastURL, nil),
	)
	view, _, err := form.Lookup(context.Background(), place)
	if err != nil {
		return err
	}

	s := styles.NewStyles()
	fmt.Println(s.Title.Render(view.Title))
	for _, d := range view.Days {
		fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top,
			s.HelpKey.Width(12).Render(d.Date),
			s.TaskTitle.Width(16).Render(d.High),
			s.TaskTitle.Width(16).Render(d.Low),
			s.TitleMuted.Render(d.Precipitation),
		))
	}
	return nil
}
