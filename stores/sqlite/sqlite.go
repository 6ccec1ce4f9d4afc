// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/mdhender/hdlir"
	"github.com/mdhender/hdlir/model"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is a SQLite-backed store for parsed modules.
type SQLiteStore struct {
	db *sql.DB
}

// StoreConfig holds configuration for creating a SQLiteStore.
type StoreConfig struct {
	// Path is the file path for file-based SQLite.
	// If empty, an in-memory database is used.
	Path string

	// InitSchema controls whether to run schema initialization.
	// It is always done for in-memory databases.
	InitSchema bool
}

// NewSQLiteStore creates a new in-memory SQLite store with schema loaded.
func NewSQLiteStore(ctx context.Context) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(ctx, StoreConfig{InitSchema: true})
}

// NewSQLiteStoreWithConfig creates a SQLite store based on the provided configuration.
// For file-based mode (Path is set), the database file is created if it is missing
// and InitSchema is set; otherwise it MUST already exist.
func NewSQLiteStoreWithConfig(ctx context.Context, cfg StoreConfig) (*SQLiteStore, error) {
	var dsn string
	if cfg.Path == "" {
		// each connection to ":memory:" is a separate database, so the pool is pinned to one.
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	} else {
		if _, err := os.Stat(cfg.Path); os.IsNotExist(err) && !cfg.InitSchema {
			return nil, fmt.Errorf("database file does not exist: %s", cfg.Path)
		}
		// Apply PRAGMA's per-connection via DSN so the pool always has them.
		// modernc.org/sqlite supports repeated _pragma=... parameters.
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
			cfg.Path,
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Path == "" {
		db.SetMaxOpenConns(1)
	}

	if cfg.InitSchema || cfg.Path == "" {
		if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertModule stores the source and the module parsed from it in one transaction.
// It sets src.ID and returns the module's assigned ID.
func (s *SQLiteStore) InsertModule(ctx context.Context, src *model.Source, m *hdlir.Module) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now().UTC()
	}
	createdAt := src.CreatedAt.Format(time.RFC3339)

	result, err := tx.ExecContext(ctx,
		`INSERT INTO sources (path, digest, size, created_at) VALUES (?, ?, ?, ?)`,
		src.Path, src.Digest, src.Size, createdAt)
	if err != nil {
		return 0, fmt.Errorf("insert source: %w", err)
	}
	sourceID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get source id: %w", err)
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO modules (source_id, name, created_at) VALUES (?, ?, ?)`,
		sourceID, m.Name, createdAt)
	if err != nil {
		return 0, fmt.Errorf("insert module: %w", err)
	}
	moduleID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get module id: %w", err)
	}

	for seq, sig := range m.Signals {
		const query = `INSERT INTO signals (module_id, seq, name, kind, width) VALUES (?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, query, moduleID, seq+1, sig.Name, sig.Type.String(), int(sig.Width)); err != nil {
			return 0, fmt.Errorf("insert signal %q: %w", sig.Name, err)
		}
	}
	for seq, asg := range m.Assignments {
		const query = `INSERT INTO assignments (module_id, seq, lhs, rhs) VALUES (?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, query, moduleID, seq+1, asg.LHS, asg.RHS); err != nil {
			return 0, fmt.Errorf("insert assignment %q: %w", asg.LHS, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	src.ID = sourceID
	return moduleID, nil
}

// GetSourceByDigest returns the source with the given digest, or nil if there is none.
func (s *SQLiteStore) GetSourceByDigest(ctx context.Context, digest string) (*model.Source, error) {
	const query = `SELECT id, path, digest, size, created_at FROM sources WHERE digest = ?`
	var src model.Source
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, digest).Scan(&src.ID, &src.Path, &src.Digest, &src.Size, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query source: %w", err)
	}
	src.CreatedAt = parseTime(createdAt)
	return &src, nil
}

// GetModuleByName returns the most recently stored module with the given name,
// or nil if there is none.
func (s *SQLiteStore) GetModuleByName(ctx context.Context, name string) (*hdlir.Module, error) {
	var moduleID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM modules WHERE name = ? ORDER BY id DESC LIMIT 1`, name).Scan(&moduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query module: %w", err)
	}

	m := &hdlir.Module{
		Name:        name,
		Signals:     []hdlir.Signal{},
		Assignments: []hdlir.Assignment{},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind, width FROM signals WHERE module_id = ? ORDER BY seq`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	for rows.Next() {
		var sig hdlir.Signal
		var kind string
		var width int
		if err := rows.Scan(&sig.Name, &kind, &width); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		if err := sig.Type.UnmarshalText([]byte(kind)); err != nil {
			rows.Close()
			return nil, fmt.Errorf("signal %q: %w", sig.Name, err)
		}
		sig.Width = uint8(width)
		m.Signals = append(m.Signals, sig)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate signals: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT lhs, rhs FROM assignments WHERE module_id = ? ORDER BY seq`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var asg hdlir.Assignment
		if err := rows.Scan(&asg.LHS, &asg.RHS); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		m.Assignments = append(m.Assignments, asg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}

	return m, nil
}

// ListModules returns a summary of every stored module, oldest first.
func (s *SQLiteStore) ListModules(ctx context.Context) ([]*model.ModuleSummary, error) {
	const query = `
		SELECT m.id, m.source_id, m.name, m.created_at,
		       (SELECT COUNT(*) FROM signals s WHERE s.module_id = m.id),
		       (SELECT COUNT(*) FROM assignments a WHERE a.module_id = m.id)
		FROM modules m
		ORDER BY m.id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query modules: %w", err)
	}
	defer rows.Close()

	var list []*model.ModuleSummary
	for rows.Next() {
		var ms model.ModuleSummary
		var createdAt string
		if err := rows.Scan(&ms.ID, &ms.SourceID, &ms.Name, &createdAt, &ms.Signals, &ms.Assignments); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		ms.CreatedAt = parseTime(createdAt)
		list = append(list, &ms)
	}
	return list, rows.Err()
}

// TableStats returns row counts for all tables.
func (s *SQLiteStore) TableStats(ctx context.Context) (map[string]int64, error) {
	tables := []string{
		"sources",
		"modules",
		"signals",
		"assignments",
	}

	stats := make(map[string]int64, len(tables))
	for _, table := range tables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = count
	}

	return stats, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
