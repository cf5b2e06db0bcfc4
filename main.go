package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weatherwise/api"
	"weatherwise/clock"
	"weatherwise/config"
	"weatherwise/logger"
	"weatherwise/providers/openweathermap"
	"weatherwise/scheduler"
)

func main() {
	// Parse command line arguments
	port := flag.Int("port", 0, "Port to run the server on (overrides config)")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable inbound request rate limiting")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("app", cfg.App.Name)

	client := openweathermap.NewClient(openweathermap.Options{
		APIKey:  cfg.OpenWeatherMap.APIKey,
		BaseURL: cfg.OpenWeatherMap.BaseURL,
		GeoURL:  cfg.OpenWeatherMap.GeoURL,
		Units:   cfg.OpenWeatherMap.Units,
		Timeout: cfg.OpenWeatherMap.Timeout,
	}, log)
	log.Infof("Using %s at %s", client.Name(), cfg.OpenWeatherMap.BaseURL)

	rateLimit := cfg.Server.RateLimit
	if !*enableRateLimiting {
		rateLimit = math.Inf(1)
		log.Warn("Inbound rate limiting disabled")
	}

	sched := scheduler.NewCronScheduler(time.Minute, log)
	defer sched.Stop()

	deviceClock := clock.New(time.Now, log)
	if err := deviceClock.Start(sched); err != nil {
		log.Fatalf("Failed to start clock: %v", err)
	}
	defer deviceClock.Stop()

	server := api.NewServer(api.Sources{
		Current:  client,
		Forecast: client,
		Geocoder: client,
	}, deviceClock, api.Options{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		RateLimit:       rateLimit,
		RateBurst:       cfg.Server.RateBurst,
		DefaultCity:     cfg.Forecast.DefaultCity,
		SuggestionLimit: cfg.Autocomplete.Limit,
	}, log)

	// Drop sessions nobody has touched for a while
	if err := sched.Schedule("prune-sessions", cfg.Server.PruneInterval, server.PruneSessions(cfg.Server.SessionTTL)); err != nil {
		log.Fatalf("Failed to schedule session pruning: %v", err)
	}

	// Set up channels for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	serverErr := make(chan error, 1)

	// Start the API server in a goroutine
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case sig := <-shutdownChan:
		log.Infof("Shutting down due to %s signal", sig)
	case err := <-serverErr:
		if err != nil {
			log.Errorf("Server stopped: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}

	log.Info("Shutdown complete")
}
