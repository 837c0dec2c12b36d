package storage

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carrierwatch/internal/metrics"
)

// PostgresPoolStorage is the backend used by the cron worker: plain pgxpool
// plus PostgreSQL advisory locks so multi-instance deployments run background
// jobs on one node at a time.
type PostgresPoolStorage struct {
	pool *pgxpool.Pool

	mu           sync.Mutex
	lastAcquires int64
}

func OpenPostgresPool(ctx context.Context, dsn string) (*PostgresPoolStorage, error) {
	if dsn == "" {
		dsn = "postgres://localhost:5432/carrierwatch?sslmode=disable"
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &PostgresPoolStorage{pool: pool}, nil
}

func (s *PostgresPoolStorage) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresPoolStorage) Ping(ctx context.Context) error {
	s.reportPoolMetrics()
	return s.pool.Ping(ctx)
}

// reportPoolMetrics exports the pool's connection stats. The acquire counter
// is cumulative in pgx, so only the delta since the last report is added.
func (s *PostgresPoolStorage) reportPoolMetrics() {
	stat := s.pool.Stat()

	s.mu.Lock()
	delta := stat.AcquireCount() - s.lastAcquires
	if delta < 0 {
		delta = 0
	}
	s.lastAcquires = stat.AcquireCount()
	s.mu.Unlock()

	metrics.UpdateDBPoolMetrics("postgrespool",
		float64(stat.TotalConns()),
		float64(stat.IdleConns()),
		float64(stat.AcquiredConns()),
		uint64(delta))
}

func (s *PostgresPoolStorage) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			key TEXT PRIMARY KEY,
			name TEXT,
			kind TEXT,
			url TEXT,
			notes TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS register_snapshots (
			id SERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			date TEXT NOT NULL,
			payload BYTEA NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS entries (
			id SERIAL PRIMARY KEY,
			number TEXT NOT NULL,
			title TEXT NOT NULL,
			decided TEXT,
			category TEXT,
			fetch_date TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (number, title, fetch_date)
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS scheduled_jobs (
			name TEXT PRIMARY KEY,
			last_run_at TIMESTAMPTZ,
			last_duration_ms BIGINT,
			last_success INT,
			last_error TEXT
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresPoolStorage) ListSources(ctx context.Context) ([]Source, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, name, kind, url, notes FROM sources ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.Key, &src.Name, &src.Kind, &src.URL, &src.Notes); err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

func (s *PostgresPoolStorage) UpsertSource(ctx context.Context, src Source) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sources (key, name, kind, url, notes) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (key) DO UPDATE SET name = $2, kind = $3, url = $4, notes = $5`,
		src.Key, src.Name, src.Kind, src.URL, src.Notes)
	return err
}

func (s *PostgresPoolStorage) GetRegisterSnapshot(ctx context.Context, source, date string) (*RegisterSnapshot, error) {
	var snap RegisterSnapshot
	err := s.pool.QueryRow(ctx,
		`SELECT id, source, date, payload, fetched_at FROM register_snapshots
		 WHERE source = $1 AND date = $2 ORDER BY fetched_at DESC LIMIT 1`,
		source, date).Scan(&snap.ID, &snap.Source, &snap.Date, &snap.Payload, &snap.FetchedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *PostgresPoolStorage) SaveRegisterSnapshot(ctx context.Context, snap RegisterSnapshot) error {
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO register_snapshots (source, date, payload, fetched_at) VALUES ($1, $2, $3, $4)`,
		snap.Source, snap.Date, snap.Payload, snap.FetchedAt)
	return err
}

func (s *PostgresPoolStorage) SaveEntries(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO entries (number, title, decided, category, fetch_date)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (number, title, fetch_date) DO NOTHING`,
			e.Number, e.Title, e.Decided, e.Category, e.FetchDate)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresPoolStorage) ListEntries(ctx context.Context, dateFrom, dateTo string) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, number, title, decided, category, fetch_date, created_at FROM entries
		 WHERE ($1 = '' OR fetch_date >= $1) AND ($2 = '' OR fetch_date <= $2)
		 ORDER BY fetch_date, id`,
		dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Number, &e.Title, &e.Decided, &e.Category, &e.FetchDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresPoolStorage) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *PostgresPoolStorage) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now()`,
		key, value)
	return err
}

func (s *PostgresPoolStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	status := 0
	if success {
		status = 1
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scheduled_jobs (name, last_run_at, last_duration_ms, last_success, last_error)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (name) DO UPDATE SET
		   last_run_at = $2, last_duration_ms = $3, last_success = $4, last_error = $5`,
		name, started, dur.Milliseconds(), status, errMsg)
	if err == nil {
		s.reportPoolMetrics()
	}
	return err
}

// AcquireAdvisoryLock tries to take a session-level advisory lock without
// blocking; false means another node holds it.
func (s *PostgresPoolStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&ok)
	return ok, err
}

func (s *PostgresPoolStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, key).Scan(&ok)
	return ok, err
}
