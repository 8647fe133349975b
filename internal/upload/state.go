package upload

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// StateDB tracks which sheets have been accepted by the server, per
// competition, to avoid re-sending them.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS uploaded_sheets (
		path           TEXT NOT NULL,
		competition_id TEXT NOT NULL,
		size           INTEGER NOT NULL,
		hash           TEXT NOT NULL,
		rows_accepted  INTEGER NOT NULL DEFAULT 0,
		uploaded_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (path, competition_id)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Sheet identifies one version of a sheet file.
type Sheet struct {
	RelPath string
	Size    int64
	Hash    string
}

// IsUploaded reports whether this exact version of the sheet was accepted
// for the competition.
func (s *StateDB) IsUploaded(ctx context.Context, competitionID uuid.UUID, sh Sheet) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM uploaded_sheets WHERE path = ? AND competition_id = ? AND size = ? AND hash = ?`,
		sh.RelPath, competitionID.String(), sh.Size, sh.Hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking upload state for %s: %w", sh.RelPath, err)
	}
	return count > 0, nil
}

// MarkUploaded records that the sheet was accepted, replacing any earlier version.
func (s *StateDB) MarkUploaded(ctx context.Context, competitionID uuid.UUID, sh Sheet, rowsAccepted int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO uploaded_sheets (path, competition_id, size, hash, rows_accepted) VALUES (?, ?, ?, ?, ?)`,
		sh.RelPath, competitionID.String(), sh.Size, sh.Hash, rowsAccepted,
	)
	if err != nil {
		return fmt.Errorf("marking %s uploaded: %w", sh.RelPath, err)
	}
	return nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
