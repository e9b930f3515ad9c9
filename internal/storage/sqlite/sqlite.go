// internal/storage/sqlite/sqlite.go
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/solwatch/screener-bot/internal/storage"
	"github.com/solwatch/screener-bot/internal/token"
)

const schema = `
CREATE TABLE IF NOT EXISTS token (
	token_address TEXT PRIMARY KEY,
	symbol TEXT,
	name TEXT,
	chain_id TEXT,
	dex_id TEXT,
	dev_address TEXT,
	first_seen TIMESTAMP,
	last_updated TIMESTAMP,
	max_price REAL,
	min_price REAL,
	current_price REAL,
	volume_24h REAL,
	liquidity REAL,
	fdv REAL,
	status TEXT,
	fake_volume_detected BOOLEAN,
	rugcheck_status TEXT,
	supply_bundled BOOLEAN
);

CREATE TABLE IF NOT EXISTS token_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	token_address TEXT,
	timestamp TIMESTAMP,
	price REAL,
	volume REAL,
	liquidity REAL,
	event_type TEXT,
	FOREIGN KEY (token_address) REFERENCES token (token_address)
);`

// Store is the SQLite-backed persistence sink.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// New opens (creating if needed) the database at path and ensures the schema.
func New(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db, logger: logger.Named("sqlite")}, nil
}

// SaveToken upserts the token row and appends one history event, atomically.
func (s *Store) SaveToken(ctx context.Context, t *token.Token) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO token (
			token_address, symbol, name, chain_id, dex_id, dev_address,
			first_seen, last_updated, max_price, min_price, current_price,
			volume_24h, liquidity, fdv, status, fake_volume_detected,
			rugcheck_status, supply_bundled
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Address, t.Symbol, t.Name, t.ChainID, t.DexID, t.DevAddress,
		t.FirstSeen, t.LastUpdated, t.MaxPrice, t.MinPrice, t.CurrentPrice,
		t.Volume24h, t.Liquidity, t.FDV, t.Status, t.FakeVolumeDetected,
		t.RugcheckStatus, t.SupplyBundled,
	)
	if err != nil {
		return fmt.Errorf("save token %s: %w", t.Address, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO token_history (
			token_address, timestamp, price, volume, liquidity, event_type
		) VALUES (?, ?, ?, ?, ?, ?)`,
		t.Address, time.Now(), t.CurrentPrice, t.Volume24h, t.Liquidity, t.Status,
	)
	if err != nil {
		return fmt.Errorf("append history for %s: %w", t.Address, err)
	}

	return tx.Commit()
}

// Report aggregates status counts over clean tokens plus the fake-volume and
// bundled-supply totals.
func (s *Store) Report(ctx context.Context) (*storage.Report, error) {
	report := &storage.Report{
		StatusCounts: map[token.Status]int{
			token.StatusNormal: 0,
			token.StatusPumped: 0,
			token.StatusRugged: 0,
			token.StatusTier1:  0,
			token.StatusDead:   0,
		},
	}

	rows, err := s.db.QueryxContext(ctx, `
		SELECT status, COUNT(*)
		FROM token
		WHERE fake_volume_detected = 0 AND supply_bundled = 0
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("aggregate statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status token.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		report.StatusCounts[status] = count
		report.TotalTokens += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.GetContext(ctx, &report.FakeVolumeDetected,
		`SELECT COUNT(*) FROM token WHERE fake_volume_detected = 1`); err != nil {
		return nil, fmt.Errorf("count fake volume: %w", err)
	}
	if err := s.db.GetContext(ctx, &report.BundledSupplyCount,
		`SELECT COUNT(*) FROM token WHERE supply_bundled = 1`); err != nil {
		return nil, fmt.Errorf("count bundled supply: %w", err)
	}

	return report, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
