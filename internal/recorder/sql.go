package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"ChartFeed/internal/calculator"
	"ChartFeed/internal/model"
)

// SQLRecorder persists chart snapshots to SQLite or PostgreSQL.
type SQLRecorder struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
}

// NewSQLRecorder opens (or creates) the database and runs migrations.
// driver is "sqlite" or "postgres".
func NewSQLRecorder(driver, dsn string) (*SQLRecorder, error) {
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// One connection keeps :memory: databases shared and serialises writers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	} else if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	r := &SQLRecorder{db: db, driver: driver}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] %s recorder opened", driver)
	return r, nil
}

// rebind rewrites ? placeholders as $n for postgres.
func (r *SQLRecorder) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *SQLRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chart_snapshots (
			id         TEXT PRIMARY KEY,
			timestamp  BIGINT NOT NULL,
			pair       TEXT NOT NULL,
			period     TEXT NOT NULL,
			provider   TEXT,
			columns    TEXT NOT NULL,
			summary    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chart_pair_period_ts ON chart_snapshots(pair, period, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLRecorder) RecordChart(ctx context.Context, snap *ChartSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	cols, err := json.Marshal(snap.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}
	var summary sql.NullString
	if snap.Summary != nil {
		b, err := json.Marshal(snap.Summary)
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		summary = sql.NullString{String: string(b), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, r.rebind(`INSERT INTO chart_snapshots
		(id, timestamp, pair, period, provider, columns, summary)
		VALUES (?,?,?,?,?,?,?)`),
		snap.ID, snap.CreatedAt.UnixMilli(), snap.Pair, string(snap.Period), snap.Provider,
		string(cols), summary,
	)
	return err
}

func (r *SQLRecorder) LatestChart(ctx context.Context, pair string, period model.PeriodType) (*ChartSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT id, timestamp, provider, columns, summary
		FROM chart_snapshots WHERE pair = ? AND period = ?
		ORDER BY timestamp DESC LIMIT 1`), pair, string(period))

	var (
		id, cols string
		provider sql.NullString
		summary  sql.NullString
		ts       int64
	)
	if err := row.Scan(&id, &ts, &provider, &cols, &summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest chart: %w", err)
	}

	snap := &ChartSnapshot{
		ID:        id,
		Pair:      pair,
		Period:    period,
		Provider:  provider.String,
		CreatedAt: time.UnixMilli(ts),
	}
	if err := json.Unmarshal([]byte(cols), &snap.Columns); err != nil {
		return nil, fmt.Errorf("unmarshal columns: %w", err)
	}
	// Stored as computed; the raw samples behind the columns are not persisted.
	if summary.Valid {
		snap.Summary = &calculator.Summary{}
		if err := json.Unmarshal([]byte(summary.String), snap.Summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
	}
	return snap, nil
}

func (r *SQLRecorder) Close() error {
	log.Println("[INFO] closing recorder")
	return r.db.Close()
}
