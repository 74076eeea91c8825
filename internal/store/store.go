// Package store persists finalized signatures in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"SignaturePad/internal/record"
)

var ErrNotFound = errors.New("signature not found")

const schema = `
CREATE TABLE IF NOT EXISTS signatures (
	id          TEXT PRIMARY KEY,
	project     TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL,
	signer_name TEXT NOT NULL,
	role        TEXT NOT NULL,
	image       TEXT NOT NULL,
	signed_at   INTEGER NOT NULL,
	recorded_by TEXT NOT NULL DEFAULT '',
	notes       TEXT NOT NULL DEFAULT '',
	ip_address  TEXT NOT NULL DEFAULT '',
	serials     TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_signatures_project ON signatures(project, signed_at DESC);
`

// Store is a SQLite-backed signature store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) signatures.db inside dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "signatures.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Printf("[STORE] Opened %s", dbPath)
	return &Store{db: db, path: dbPath}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save inserts or replaces sig.
func (s *Store) Save(ctx context.Context, sig record.Signature) error {
	serials, err := json.Marshal(sig.Serials)
	if err != nil {
		return fmt.Errorf("encoding serials: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO signatures (id, project, type, signer_name, role, image, signed_at, recorded_by, notes, ip_address, serials)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project = excluded.project,
			type = excluded.type,
			signer_name = excluded.signer_name,
			role = excluded.role,
			image = excluded.image,
			signed_at = excluded.signed_at,
			recorded_by = excluded.recorded_by,
			notes = excluded.notes,
			ip_address = excluded.ip_address,
			serials = excluded.serials
	`,
		sig.ID, sig.Project, string(sig.Type), sig.SignerName, string(sig.Role), sig.Image,
		sig.SignedAt.UnixNano(), sig.RecordedBy, sig.Notes, sig.IPAddress, string(serials),
	)
	if err != nil {
		return fmt.Errorf("saving signature %s: %w", sig.ID, err)
	}
	return nil
}

// Get returns the signature with the given ID or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (record.Signature, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	sig, err := scanSignature(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Signature{}, ErrNotFound
	}
	return sig, err
}

// List returns the signatures of project, newest first. An empty project
// lists every signature.
func (s *Store) List(ctx context.Context, project string) ([]record.Signature, error) {
	query := selectColumns
	var args []any
	if project != "" {
		query += ` WHERE project = ?`
		args = append(args, project)
	}
	query += ` ORDER BY signed_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing signatures: %w", err)
	}
	defer rows.Close()

	var out []record.Signature
	for rows.Next() {
		sig, err := scanSignature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

// Delete removes the signature with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM signatures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting signature %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectColumns = `SELECT id, project, type, signer_name, role, image, signed_at, recorded_by, notes, ip_address, serials FROM signatures`

type scanner interface {
	Scan(dest ...any) error
}

func scanSignature(row scanner) (record.Signature, error) {
	var (
		sig      record.Signature
		typ      string
		role     string
		signedAt int64
		serials  string
	)
	if err := row.Scan(&sig.ID, &sig.Project, &typ, &sig.SignerName, &role, &sig.Image,
		&signedAt, &sig.RecordedBy, &sig.Notes, &sig.IPAddress, &serials); err != nil {
		return record.Signature{}, err
	}
	sig.Type = record.SignatureType(typ)
	sig.Role = record.Role(role)
	sig.SignedAt = time.Unix(0, signedAt).UTC()
	if err := json.Unmarshal([]byte(serials), &sig.Serials); err != nil {
		return record.Signature{}, fmt.Errorf("decoding serials of %s: %w", sig.ID, err)
	}
	return sig, nil
}
