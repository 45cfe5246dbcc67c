// Package store journals computed quotes in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/iwvelando/broker-engine/pkg/constants"
	"github.com/iwvelando/broker-engine/pkg/id"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned when a quote does not exist.
var ErrNotFound = errors.New("quote not found")

// Kind names the calculator that produced a quote.
type Kind string

// Quote kinds.
const (
	KindAmortization  Kind = "amortization"
	KindFinancing     Kind = "financing"
	KindQualification Kind = "qualification"
	KindConversion    Kind = "conversion"
	KindShipping      Kind = "shipping"
	KindCommission    Kind = "commission"
)

// Kinds lists every quote kind.
func Kinds() []Kind {
	return []Kind{KindAmortization, KindFinancing, KindQualification, KindConversion, KindShipping, KindCommission}
}

// ParseKind validates s as a quote kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, true
		}
	}
	return k, false
}

// Quote is one journaled calculation.
type Quote struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Currency  string          `json:"currency"`
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Store is a SQLite-backed quote journal. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens the database at path, sets pragmas and optionally runs migrations.
func Open(ctx context.Context, logger *zap.Logger, path string, migrate bool) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	s := &Store{db: db, logger: logger, now: time.Now}
	if migrate {
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Migrate runs all pending embedded migrations. Each call builds its own
// goose provider, so stores may migrate concurrently.
func (s *Store) Migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	for _, r := range results {
		s.logger.Debug("applied migration",
			zap.String("op", "store.Migrate"),
			zap.Int64("version", r.Source.Version),
			zap.String("path", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save journals a quote. request and result are stored as JSON.
func (s *Store) Save(ctx context.Context, kind Kind, currency string, request, result interface{}) (Quote, error) {
	reqJSON, err := json.Marshal(request)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote request: %w", err)
	}
	resJSON, err := json.Marshal(result)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote result: %w", err)
	}
	if currency == "" {
		currency = constants.BaseCurrency
	}

	created := s.now().UTC()
	q := Quote{
		ID:        id.New(created),
		Kind:      kind,
		Currency:  currency,
		Request:   reqJSON,
		Result:    resJSON,
		CreatedAt: created,
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO quotes (id, kind, currency, request, result, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, string(q.Kind), q.Currency, string(q.Request), string(q.Result), created.Format(time.RFC3339Nano),
	); err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}

	s.logger.Debug("quote journaled",
		zap.String("op", "store.Save"),
		zap.String("id", q.ID),
		zap.String("kind", string(kind)),
	)
	return q, nil
}

// Get returns the quote with the given ID.
func (s *Store) Get(ctx context.Context, quoteID string) (Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, currency, request, result, created_at FROM quotes WHERE id = ?`, quoteID)
	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, quoteID)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("select quote: %w", err)
	}
	return q, nil
}

// List returns the newest quotes first. An empty kind lists every kind.
func (s *Store) List(ctx context.Context, kind Kind, limit int) ([]Quote, error) {
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	if limit > constants.MaxListLimit {
		limit = constants.MaxListLimit
	}

	query := `SELECT id, kind, currency, request, result, created_at FROM quotes`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	quotes := []Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanQuote(sc scanner) (Quote, error) {
	var (
		q         Quote
		kind      string
		request   string
		result    string
		createdAt string
	)
	if err := sc.Scan(&q.ID, &kind, &q.Currency, &request, &result, &createdAt); err != nil {
		return Quote{}, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Quote{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	q.Kind = Kind(kind)
	q.Request = json.RawMessage(request)
	q.Result = json.RawMessage(result)
	q.CreatedAt = created
	return q, nil
}
