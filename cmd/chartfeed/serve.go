package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ChartFeed/internal/model"
	"ChartFeed/internal/notifier"
	"ChartFeed/internal/scheduler"
	"ChartFeed/internal/server"
)

func newServeCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the chart refresh scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("RUN_ON_START") == "true" {
				runOnStart = true
			}
			return runServe(runOnStart)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Refresh all scheduled charts immediately")
	return cmd
}

func runServe(runOnStart bool) error {
	log.Println("[INFO] ChartFeed starting...")
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tn *notifier.TelegramNotifier
	var alerts notifier.Notifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		alerts = tn
	}

	sched := scheduler.NewScheduler(ctx, a.charts, a.currencies, alerts, a.recorder)
	pairs := make([]model.Pair, 0, len(cfg.Schedule.Pairs))
	for _, p := range cfg.Schedule.Pairs {
		pair, err := a.currencies.ParsePair(p)
		if err != nil {
			return fmt.Errorf("schedule pair: %w", err)
		}
		pairs = append(pairs, pair)
	}
	periods := make([]model.PeriodType, 0, len(cfg.Schedule.Periods))
	for _, p := range cfg.Schedule.Periods {
		period, err := model.ParsePeriodType(p)
		if err != nil {
			return fmt.Errorf("schedule period: %w", err)
		}
		periods = append(periods, period)
	}
	sched.Watch(pairs, periods)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if runOnStart {
		log.Println("[INFO] RUN_ON_START enabled, refreshing charts now")
		go sched.RunNow()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(a.charts, a.currencies, a.recorder).HTTPServer(cfg.Server.Addr)
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] ChartFeed stopped")
	return nil
}
