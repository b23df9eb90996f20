// Package sqlite provides SQLite-backed persistence for the assistant:
// episodic conversation records, archived artifacts and interaction metrics.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/orin-ai/orin"
)

// Store provides access to the assistant's SQLite database. It implements
// the record, artifact and metric store surfaces of the core package.
type Store struct {
	db *sql.DB
}

// New creates a Store at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create db directory", goerr.V("dir", dir))
	}

	// WAL keeps readers from blocking the single writer.
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open db", goerr.V("path", dbPath))
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to migrate db")
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		ts DATETIME NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		tags TEXT
	);

	CREATE TABLE IF NOT EXISTS artifacts (
		id TEXT PRIMARY KEY,
		ts DATETIME NOT NULL,
		content TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metrics (
		id TEXT PRIMARY KEY,
		ts DATETIME NOT NULL,
		intent TEXT NOT NULL,
		sentiment TEXT NOT NULL,
		success INTEGER NOT NULL,
		engine TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_ts ON records(ts);
	CREATE INDEX IF NOT EXISTS idx_metrics_ts ON metrics(ts);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Record Operations ---

// AppendRecord inserts one episodic record.
func (s *Store) AppendRecord(ctx context.Context, record orin.MemoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	tagsJSON, err := json.Marshal(record.Tags)
	if err != nil {
		return goerr.Wrap(err, "failed to encode record tags")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, ts, role, content, tags) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Timestamp.UTC(), record.Role, record.Content, string(tagsJSON),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to insert record", goerr.V("record_id", record.ID))
	}
	return nil
}

// RecentRecords returns up to limit records in time-descending order.
func (s *Store) RecentRecords(ctx context.Context, limit int) ([]orin.MemoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, role, content, tags FROM records ORDER BY ts DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query records")
	}
	defer rows.Close()

	var records []orin.MemoryRecord
	for rows.Next() {
		var record orin.MemoryRecord
		var tagsJSON sql.NullString
		if err := rows.Scan(&record.ID, &record.Timestamp, &record.Role, &record.Content, &tagsJSON); err != nil {
			return nil, goerr.Wrap(err, "failed to scan record")
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &record.Tags); err != nil {
				return nil, goerr.Wrap(err, "failed to decode record tags", goerr.V("record_id", record.ID))
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// --- Artifact Operations ---

// Artifact is one archived content blob.
type Artifact struct {
	ID        string
	Timestamp time.Time
	Content   string
}

// SaveArtifact archives one content blob.
func (s *Store) SaveArtifact(ctx context.Context, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (id, ts, content) VALUES (?, ?, ?)`,
		uuid.New().String(), time.Now().UTC(), content,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to insert artifact")
	}
	return nil
}

// ListArtifacts returns all artifacts, newest first.
func (s *Store) ListArtifacts(ctx context.Context) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, content FROM artifacts ORDER BY ts DESC`,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query artifacts")
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.Timestamp, &a.Content); err != nil {
			return nil, goerr.Wrap(err, "failed to scan artifact")
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// --- Metric Operations ---

// SaveMetric persists one interaction metric.
func (s *Store) SaveMetric(ctx context.Context, metric orin.Metric) error {
	if metric.ID == "" {
		metric.ID = uuid.New().String()
	}
	if metric.Timestamp.IsZero() {
		metric.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO metrics (id, ts, intent, sentiment, success, engine) VALUES (?, ?, ?, ?, ?, ?)`,
		metric.ID, metric.Timestamp.UTC(), string(metric.Intent), string(metric.Sentiment), metric.Success, metric.Engine,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to insert metric", goerr.V("metric_id", metric.ID))
	}
	return nil
}

// ListMetrics returns up to limit metrics, newest first.
func (s *Store) ListMetrics(ctx context.Context, limit int) ([]orin.Metric, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, intent, sentiment, success, engine FROM metrics ORDER BY ts DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query metrics")
	}
	defer rows.Close()

	var metrics []orin.Metric
	for rows.Next() {
		var m orin.Metric
		if err := rows.Scan(&m.ID, &m.Timestamp, &m.Intent, &m.Sentiment, &m.Success, &m.Engine); err != nil {
			return nil, goerr.Wrap(err, "failed to scan metric")
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
