// Package store keeps the client's local state in SQLite: the logged-in
// credential and a snapshot of the last successful order fetch.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mgy583/account-book/internal/api"
	"github.com/mgy583/account-book/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	// ErrNoCredential means nobody is logged in.
	ErrNoCredential = errors.New("store: no saved credential")
	// ErrNoSnapshot means no order fetch has succeeded yet.
	ErrNoSnapshot = errors.New("store: no order snapshot")
)

// Store is the SQLite-backed local state.
type Store struct {
	db *sql.DB
}

// Snapshot is the last successful order fetch for one service.
type Snapshot struct {
	BaseURL     string
	Orders      []model.Order
	ServerTotal int
	FetchedAt   time.Time
}

// Open opens or creates the database at dbPath. ":memory:" is accepted for
// tests.
func Open(dbPath string) (*Store, error) {
	dsn := ":memory:"
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("creating state dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCredential records a login for baseURL, replacing any previous one.
// Unless the same user logs in again at the same service, the order snapshot
// is dropped in the same transaction so a new identity never starts from the
// previous one's orders.
func (s *Store) SaveCredential(baseURL string, cred api.Credential) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		prevUser sql.NullString
		prevURL  string
	)
	err = tx.QueryRow(`SELECT username, base_url FROM credentials WHERE id = 1`).Scan(&prevUser, &prevURL)
	sameIdentity := err == nil && prevURL == baseURL && prevUser.String == cred.Username
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading credential: %w", err)
	}

	if !sameIdentity {
		if err := clearSnapshot(tx); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO credentials (id, token, username, base_url, saved_at)
		VALUES (1, ?, ?, ?, ?)`,
		cred.Token, cred.Username, baseURL, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return tx.Commit()
}

func clearSnapshot(tx *sql.Tx) error {
	for _, stmt := range []string{
		"DELETE FROM order_snapshot",
		"DELETE FROM snapshot_meta",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing snapshot: %w", err)
		}
	}
	return nil
}

// LoadCredential returns the saved credential for baseURL. A credential saved
// for a different service is treated as absent.
func (s *Store) LoadCredential(baseURL string) (api.Credential, error) {
	var (
		cred     api.Credential
		username sql.NullString
		savedFor string
	)
	err := s.db.QueryRow(`SELECT token, username, base_url FROM credentials WHERE id = 1`).
		Scan(&cred.Token, &username, &savedFor)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Credential{}, ErrNoCredential
	}
	if err != nil {
		return api.Credential{}, fmt.Errorf("loading credential: %w", err)
	}
	if savedFor != baseURL {
		return api.Credential{}, ErrNoCredential
	}
	cred.Username = username.String
	return cred, nil
}

// ClearCredential logs out. The order snapshot is dropped with it so the
// next user never sees the previous user's orders.
func (s *Store) ClearCredential() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM credentials"); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	if err := clearSnapshot(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveSnapshot replaces the stored snapshot with snap.
func (s *Store) SaveSnapshot(snap Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM order_snapshot"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO order_snapshot
		(position, order_id, name, order_type, amount, currency, remark, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, o := range snap.Orders {
		if _, err := stmt.Exec(i, o.ID, o.Name, o.Type, o.Amount, o.Currency, o.Remark, o.Date); err != nil {
			return fmt.Errorf("saving order %q: %w", o.ID, err)
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO snapshot_meta (id, base_url, server_total, fetched_at)
		VALUES (1, ?, ?, ?)`,
		snap.BaseURL, snap.ServerTotal, snap.FetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored snapshot for baseURL.
func (s *Store) LoadSnapshot(baseURL string) (Snapshot, error) {
	snap := Snapshot{BaseURL: baseURL}

	var (
		savedFor  string
		fetchedAt string
	)
	err := s.db.QueryRow(`SELECT base_url, server_total, fetched_at FROM snapshot_meta WHERE id = 1`).
		Scan(&savedFor, &snap.ServerTotal, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && savedFor != baseURL) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading snapshot: %w", err)
	}
	snap.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)

	rows, err := s.db.Query(`SELECT order_id, name, order_type, amount, currency, remark, date
		FROM order_snapshot ORDER BY position`)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			o      model.Order
			remark sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.Type, &o.Amount, &o.Currency, &remark, &o.Date); err != nil {
			return Snapshot{}, err
		}
		o.Remark = remark.String
		snap.Orders = append(snap.Orders, o)
	}
	return snap, rows.Err()
}

// DefaultPath returns the XDG-compliant location of the state database.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "abook", "state.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "abook", "state.db")
}
