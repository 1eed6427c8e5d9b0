package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/aicache"
	"github.com/PeytonLeFleur/lamp-and-light/internal/api"
	"github.com/PeytonLeFleur/lamp-and-light/internal/catalog"
	"github.com/PeytonLeFleur/lamp-and-light/internal/config"
	"github.com/PeytonLeFleur/lamp-and-light/internal/connectivity"
	"github.com/PeytonLeFleur/lamp-and-light/internal/devotional"
	"github.com/PeytonLeFleur/lamp-and-light/internal/planner"
	"github.com/PeytonLeFleur/lamp-and-light/internal/platform/factory"
	"github.com/PeytonLeFleur/lamp-and-light/internal/platform/logger"
	"github.com/PeytonLeFleur/lamp-and-light/internal/recap"
	"github.com/PeytonLeFleur/lamp-and-light/internal/refresh"
	"github.com/PeytonLeFleur/lamp-and-light/internal/streak"
)

func main() {
	dbDriver := flag.String("db-driver", "", "Override LAMPLIGHT_DB_DRIVER (sqlite, postgres)")
	flag.Parse()

	log := logger.New("lamplight-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("model", cfg.OpenAIModel).
		Msg("Plan service starting…")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// -------- Storage layer -----------------
	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Store unavailable")
	}
	pinger, ok := st.(api.Pinger)
	if !ok {
		log.Fatal().Msg("Store does not support health pings")
	}

	// -------- Scripture catalog -------------
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Catalog unavailable")
	}

	// -------- Content cache -----------------
	cacheDir, err := factory.CacheDir(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Cache directory unavailable")
	}
	disk, err := aicache.NewDiskCache(cacheDir, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cacheDir).Msg("Disk cache unavailable")
	}
	cache := aicache.NewTieredCache(disk)

	// -------- Generation provider -----------
	provider := devotional.NewOpenAIProvider(devotional.Options{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		Timeout:     cfg.GenerateTimeout,
	}, log)

	// -------- Connectivity probe ------------
	prober, err := connectivity.NewProber(cfg.OpenAIBaseURL, cfg.ProbeInterval, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid OpenAI base URL")
	}
	prober.Start(ctx)

	// -------- Services ----------------------
	orch := planner.New(planner.Options{
		Store:    st,
		Catalog:  cat,
		Cache:    cache,
		Provider: provider,
		Net:      prober,
		Backoff:  cfg.RetryBackoff,
		Log:      log,
	})
	streaks := streak.New(st.Profiles(), nil)
	recaps := recap.New(st, nil, log)

	refresher := refresh.New(orch, st.Profiles(), cfg.RefreshHour, log)
	refresher.Start(ctx)

	// -------- Router & Server ---------------
	router := api.NewRouter(api.Handlers{
		Profiles: api.NewProfileHandler(st.Profiles()),
		Entries:  api.NewEntryHandler(st.Profiles(), st.Entries()),
		Plans:    api.NewPlanHandler(orch, st, streaks, cat, log),
		Recaps:   api.NewRecapHandler(recaps),
		Health:   api.NewHealthHandler(pinger, prober),
	})
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
