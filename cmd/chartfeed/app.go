package main

import (
	"fmt"
	"log"

	"ChartFeed/internal/cache"
	"ChartFeed/internal/chart"
	"ChartFeed/internal/collector"
	"ChartFeed/internal/config"
	"ChartFeed/internal/currency"
	"ChartFeed/internal/recorder"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg        *config.Config
	currencies *currency.Registry
	charts     *chart.Service
	cache      *cache.RedisCache
	recorder   recorder.Recorder
}

// newApp loads and validates config, then builds the chart pipeline.
// withRecorder opens the snapshot database; the one-shot commands skip it.
func newApp(withRecorder bool) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	a := &app{cfg: cfg, currencies: currency.NewRegistry(cfg.Currencies)}

	client := collector.NewClient(collector.ClientOptions{
		BaseURL:      cfg.CryptoCompare.BaseURL,
		APIKey:       cfg.CryptoCompare.APIKey,
		Proxy:        cfg.Proxy,
		Timeout:      cfg.CryptoCompare.Timeout,
		RateLimit:    cfg.CryptoCompare.RateLimit,
		ColumnsCount: cfg.CryptoCompare.ColumnsCount,
	})
	if cfg.CryptoCompare.APIKey == "" {
		log.Println("[WARN] cryptocompare.api_key is empty, chart requests will fail")
	}

	var opts []chart.Option
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			log.Printf("[WARN] redis cache unavailable, continuing without it: %v", err)
		} else {
			a.cache = rc
			ttl := cfg.CacheTTL()
			opts = append(opts, chart.Wrap(func(p collector.Provider) collector.Provider {
				return collector.WithCache(p, rc, ttl)
			}))
			log.Printf("[INFO] redis cache at %s", cfg.Cache.RedisAddr)
		}
	}
	a.charts = chart.NewService(collector.NewResolver(client), opts...)

	a.recorder = recorder.NewNoopRecorder()
	if withRecorder && cfg.Database.DSN != "" {
		sr, err := recorder.NewSQLRecorder(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			log.Printf("[WARN] init %s recorder failed, using noop: %v", cfg.Database.Driver, err)
		} else {
			a.recorder = sr
		}
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Printf("[WARN] close redis: %v", err)
		}
	}
}
