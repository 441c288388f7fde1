// Package docstore provides the managed multi-user document store on SQLite.
// Every user's items, the share records under them, recipients' received
// copies, the user directory with its share-code counter, saved chats and
// profile photos live in one database file.
package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // driver name "sqlite"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// batchLimit caps the rows written per transaction in batch operations.
const batchLimit = 450

// Store is the shared database. It implements domain.SharingStore.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection so the pragmas below hold for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uid TEXT PRIMARY KEY,
			share_code INTEGER UNIQUE,
			data_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			owner_uid TEXT NOT NULL,
			kind TEXT NOT NULL,
			id TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			data_json TEXT NOT NULL,
			PRIMARY KEY(owner_uid, kind, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_created ON items(owner_uid, kind, created_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS shares (
			owner_uid TEXT NOT NULL,
			kind TEXT NOT NULL,
			item_id TEXT NOT NULL,
			recipient_uid TEXT NOT NULL,
			shared_at_unixms INTEGER NOT NULL,
			data_json TEXT NOT NULL,
			PRIMARY KEY(owner_uid, kind, item_id, recipient_uid)
		);`,
		`CREATE TABLE IF NOT EXISTS received_items (
			recipient_uid TEXT NOT NULL,
			id TEXT NOT NULL,
			original_item_id TEXT NOT NULL,
			original_owner_uid TEXT NOT NULL,
			shared_at_unixms INTEGER NOT NULL,
			data_json TEXT NOT NULL,
			PRIMARY KEY(recipient_uid, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_received_original ON received_items(recipient_uid, original_item_id);`,
		`CREATE TABLE IF NOT EXISTS saved_chats (
			owner_uid TEXT NOT NULL,
			id TEXT NOT NULL,
			data_json TEXT NOT NULL,
			PRIMARY KEY(owner_uid, id)
		);`,
		`CREATE TABLE IF NOT EXISTS profile_photos (
			uid TEXT PRIMARY KEY,
			content_type TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, committing when it returns nil.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ItemsOf returns uid's item repository.
func (s *Store) ItemsOf(uid string) domain.ItemRepository {
	return &ItemRepo{db: s.db, store: s, owner: uid}
}

// Shares returns the share record repository.
func (s *Store) Shares() domain.ShareRepository { return &ShareRepo{db: s.db} }

// Received returns the received-copy repository.
func (s *Store) Received() domain.ReceivedRepository { return &ReceivedRepo{db: s.db} }

// Directory returns the user directory.
func (s *Store) Directory() domain.Directory { return &DirectoryRepo{store: s} }

// Photos returns the profile photo store.
func (s *Store) Photos() domain.PhotoStore { return &PhotoRepo{db: s.db} }

// Session returns the persistence view of one signed-in user.
func (s *Store) Session(uid string) *Session {
	return &Session{store: s, uid: uid}
}

// Session implements domain.Persistence for one user of the shared database.
type Session struct {
	store *Store
	uid   string
}

// Mode reports the managed backend.
func (s *Session) Mode() domain.StoreMode { return domain.StoreManaged }

// Items returns the user's item repository.
func (s *Session) Items() domain.ItemRepository { return s.store.ItemsOf(s.uid) }

// Chats returns the user's chat repository.
func (s *Session) Chats() domain.ChatRepository { return &ChatRepo{store: s.store, owner: s.uid} }

var (
	_ domain.SharingStore = (*Store)(nil)
	_ domain.Persistence  = (*Session)(nil)
)
