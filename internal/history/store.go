// Package history keeps tracking results in a local SQLite database so runs
// can be compared over time.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ppiankov/citewatch/internal/model"
)

// ErrNotFound is returned when a snapshot does not exist
var ErrNotFound = errors.New("snapshot not found")

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Summary is one row of the snapshot listing
type Summary struct {
	ID               int64     `db:"id" json:"id"`
	Brand            string    `db:"brand" json:"brand"`
	AnalyzedAt       time.Time `db:"analyzed_at" json:"analyzed_at"`
	Total            int       `db:"total" json:"total"`
	AverageQuality   float64   `db:"average_quality" json:"average_quality"`
	BrandMentionRate float64   `db:"brand_mention_rate" json:"brand_mention_rate"`
	GapCount         int       `db:"gap_count" json:"gap_count"`
}

// Store persists results as JSON snapshots
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithLogger attaches a logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens (creating if needed) the database at path and migrates its schema
func Open(path string, opts ...Option) (*Store, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// One connection keeps in-memory databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	s := &Store{db: db, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	version, err := runMigrations(db.DB)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.logger.Debug("History database ready", zap.String("path", path), zap.Uint("schema_version", version))

	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a result and returns its snapshot ID
func (s *Store) Save(ctx context.Context, result *model.Result) (int64, error) {
	if result == nil {
		return 0, errors.New("save snapshot: nil result")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	analyzedAt := result.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = s.now()
	}

	query := `
		INSERT INTO snapshots (
			brand, analyzed_at, total, average_quality, brand_mention_rate,
			gap_count, payload, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		result.Brand,
		analyzedAt.UTC(),
		result.Stats.Total,
		result.Stats.AverageQuality,
		result.Stats.BrandMentionRate,
		len(result.CitationGaps),
		string(payload),
		s.now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot id: %w", err)
	}

	s.logger.Info("Saved snapshot",
		zap.Int64("id", id),
		zap.String("brand", result.Brand),
		zap.Int("citations", result.Stats.Total),
	)
	return id, nil
}

// Get loads one snapshot
func (s *Store) Get(ctx context.Context, id int64) (*model.Result, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM snapshots WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %d: %w", id, err)
	}
	return decode(payload)
}

// Latest returns up to n snapshots for brand, newest first. Brand matching
// ignores case.
func (s *Store) Latest(ctx context.Context, brand string, n int) ([]*model.Result, error) {
	if n <= 0 {
		return []*model.Result{}, nil
	}

	var payloads []string
	query := `
		SELECT payload FROM snapshots
		WHERE brand = ? COLLATE NOCASE
		ORDER BY analyzed_at DESC, id DESC
		LIMIT ?
	`
	if err := s.db.SelectContext(ctx, &payloads, query, brand, n); err != nil {
		return nil, fmt.Errorf("failed to load snapshots for %q: %w", brand, err)
	}

	results := make([]*model.Result, 0, len(payloads))
	for _, payload := range payloads {
		result, err := decode(payload)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// List summarizes stored snapshots, newest first. An empty brand lists all.
func (s *Store) List(ctx context.Context, brand string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, brand, analyzed_at, total, average_quality, brand_mention_rate, gap_count
		FROM snapshots
		WHERE (? = '' OR brand = ? COLLATE NOCASE)
		ORDER BY analyzed_at DESC, id DESC
		LIMIT ?
	`
	summaries := []Summary{}
	if err := s.db.SelectContext(ctx, &summaries, query, brand, brand, limit); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return summaries, nil
}

// Delete removes one snapshot
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}
	return nil
}

func decode(payload string) (*model.Result, error) {
	var result model.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &result, nil
}
