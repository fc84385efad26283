package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"ChartFeed/internal/chart"
	"ChartFeed/internal/currency"
	"ChartFeed/internal/model"
	"ChartFeed/internal/notifier"
	"ChartFeed/internal/recorder"

	"github.com/robfig/cron/v3"
)

// ChartComputer builds chart data for a pair and period.
type ChartComputer interface {
	Compute(ctx context.Context, from, to model.Currency, period model.PeriodType) (*chart.Result, error)
}

// Scheduler manages the chart refresh cron task.
type Scheduler struct {
	Cron       *cron.Cron
	Charts     ChartComputer
	Currencies *currency.Registry
	Notifier   notifier.Notifier
	Recorder   recorder.Recorder
	Pairs      []model.Pair
	Periods    []model.PeriodType
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler. tn may be nil when alerts are disabled.
func NewScheduler(ctx context.Context, charts ChartComputer, reg *currency.Registry, tn notifier.Notifier, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Charts:     charts,
		Currencies: reg,
		Notifier:   tn,
		Recorder:   rec,
		Ctx:        ctx,
	}
}

// Watch sets the pairs and periods refreshed on every run.
func (s *Scheduler) Watch(pairs []model.Pair, periods []model.PeriodType) {
	s.Pairs = pairs
	s.Periods = periods
}

// Register adds the refresh task under refreshCron.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() { s.refresh() }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one refresh pass immediately (for RUN_ON_START) and returns the failures.
func (s *Scheduler) RunNow() []notifier.RefreshFailure {
	return s.refresh()
}

func (s *Scheduler) refresh() []notifier.RefreshFailure {
	log.Printf("[INFO] refreshing %d pairs x %d periods", len(s.Pairs), len(s.Periods))
	var failures []notifier.RefreshFailure
	total := 0
	for _, pair := range s.Pairs {
		for _, period := range s.Periods {
			total++
			if err := s.refreshOne(pair, period); err != nil {
				log.Printf("[ERROR] refresh %s %s: %v", pair, period, err)
				failures = append(failures, notifier.RefreshFailure{Pair: pair.String(), Period: string(period), Err: err})
			}
		}
	}
	if len(failures) > 0 {
		s.trySend(notifier.FormatRefreshFailures(time.Now(), total, failures))
	} else {
		log.Printf("[INFO] refresh done: %d charts", total)
	}
	return failures
}

func (s *Scheduler) refreshOne(pair model.Pair, period model.PeriodType) error {
	res, err := s.Charts.Compute(s.Ctx, pair.From, pair.To, period)
	if err != nil {
		return err
	}
	if err := s.Recorder.RecordChart(s.Ctx, &recorder.ChartSnapshot{
		Pair:     pair.String(),
		Period:   period,
		Provider: res.Provider,
		Columns:  res.Columns,
		Summary:  res.Summary,
	}); err != nil {
		log.Printf("[ERROR] record chart %s %s: %v", pair, period, err)
	}
	return nil
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	switch fields[0] {
	case "/chart":
		if len(fields) != 4 {
			return usage
		}
		pair, err := s.Currencies.Pair(fields[1], fields[2])
		if err != nil {
			return html.EscapeString(err.Error())
		}
		period, err := model.ParsePeriodType(fields[3])
		if err != nil {
			return html.EscapeString(err.Error())
		}
		res, err := s.Charts.Compute(ctx, pair.From, pair.To, period)
		if err != nil {
			log.Printf("[ERROR] /chart %s %s: %v", pair, period, err)
			return html.EscapeString(fmt.Sprintf("chart failed: %v", err))
		}
		if res.Summary == nil {
			return html.EscapeString(fmt.Sprintf("no data for %s %s", pair, period))
		}
		return notifier.FormatChartSummary(notifier.ChartSummary{
			Pair:          pair.String(),
			Period:        string(period),
			Columns:       len(res.Columns),
			Open:          res.Summary.Open,
			Last:          res.Summary.Last,
			High:          res.Summary.High,
			Low:           res.Summary.Low,
			ChangePercent: res.Summary.ChangePercent,
		})
	case "/refresh":
		failures := s.refresh()
		return fmt.Sprintf("refresh done, %d failed", len(failures))
	default:
		return usage
	}
}

// usage is sent with HTML parse mode, so placeholders are escaped.
const usage = "Commands:\n• /chart &lt;from&gt; &lt;to&gt; &lt;period&gt;\n• /refresh"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
