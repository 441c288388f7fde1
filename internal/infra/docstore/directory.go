package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// userCounter is the counters row holding the last assigned share code.
const userCounter = "users.lastShareCode"

// DirectoryRepo implements domain.Directory.
type DirectoryRepo struct {
	store *Store
}

// Get retrieves a profile.
func (r *DirectoryRepo) Get(ctx context.Context, uid string) (*domain.Profile, error) {
	return scanProfile(r.store.db.QueryRowContext(ctx,
		`SELECT data_json, share_code FROM users WHERE uid = ?`, uid))
}

// FindByShareCode looks a user up by share code.
func (r *DirectoryRepo) FindByShareCode(ctx context.Context, code int) (*domain.Profile, error) {
	return scanProfile(r.store.db.QueryRowContext(ctx,
		`SELECT data_json, share_code FROM users WHERE share_code = ?`, code))
}

// Register stores a new profile and assigns the next free share code from
// the counter inside one transaction.
func (r *DirectoryRepo) Register(ctx context.Context, p *domain.Profile) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE uid = ?`, p.UID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("query user: %w", err)
		}
		if exists > 0 {
			return domain.ErrProfileExists
		}

		var last int
		err = tx.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, userCounter).Scan(&last)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read share code counter: %w", err)
		}

		// Skip codes users picked for themselves.
		code := last + 1
		for {
			var taken int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE share_code = ?`, code).Scan(&taken); err != nil {
				return fmt.Errorf("check share code: %w", err)
			}
			if taken == 0 {
				break
			}
			code++
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO counters (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
			userCounter, code,
		); err != nil {
			return fmt.Errorf("update share code counter: %w", err)
		}

		p.ShareCode = code
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (uid, share_code, data_json) VALUES (?, ?, ?)`,
			p.UID, code, string(raw),
		); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

// Update stores profile details other than the share code.
func (r *DirectoryRepo) Update(ctx context.Context, p *domain.Profile) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanProfile(tx.QueryRowContext(ctx,
			`SELECT data_json, share_code FROM users WHERE uid = ?`, p.UID))
		if err != nil {
			return err
		}
		p.ShareCode = current.ShareCode
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET data_json = ? WHERE uid = ?`, string(raw), p.UID); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
}

// SetShareCode assigns a user-chosen code.
func (r *DirectoryRepo) SetShareCode(ctx context.Context, uid string, code int) error {
	if err := domain.ValidateShareCode(code); err != nil {
		return err
	}
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		var holder string
		err := tx.QueryRowContext(ctx, `SELECT uid FROM users WHERE share_code = ?`, code).Scan(&holder)
		switch {
		case err == nil && holder != uid:
			return domain.ErrShareCodeTaken
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("check share code: %w", err)
		}

		p, err := scanProfile(tx.QueryRowContext(ctx,
			`SELECT data_json, share_code FROM users WHERE uid = ?`, uid))
		if err != nil {
			return err
		}
		p.ShareCode = code
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET share_code = ?, data_json = ? WHERE uid = ?`, code, string(raw), uid,
		); err != nil {
			return fmt.Errorf("update share code: %w", err)
		}
		return nil
	})
}

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var raw string
	var code sql.NullInt64
	err := row.Scan(&raw, &code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	var p domain.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if code.Valid {
		p.ShareCode = int(code.Int64)
	}
	return &p, nil
}

// PhotoRepo implements domain.PhotoStore.
type PhotoRepo struct {
	db *sql.DB
}

// PhotoURL returns the API path a profile photo is served under.
func PhotoURL(uid string) string {
	return "/api/v1/profiles/" + uid + "/photo"
}

// PutPhoto stores a photo and returns its URL.
func (r *PhotoRepo) PutPhoto(ctx context.Context, uid, contentType string, data []byte) (string, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profile_photos (uid, content_type, data, updated_at_unixms) VALUES (?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET
			content_type = excluded.content_type,
			data = excluded.data,
			updated_at_unixms = excluded.updated_at_unixms`,
		uid, contentType, data, time.Now().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return PhotoURL(uid), nil
}

// GetPhoto retrieves a photo.
func (r *PhotoRepo) GetPhoto(ctx context.Context, uid string) ([]byte, string, error) {
	var data []byte
	var contentType string
	err := r.db.QueryRowContext(ctx,
		`SELECT data, content_type FROM profile_photos WHERE uid = ?`, uid,
	).Scan(&data, &contentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", domain.ErrUserNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("query photo: %w", err)
	}
	return data, contentType, nil
}

// ChatRepo implements domain.ChatRepository for one owner.
type ChatRepo struct {
	store *Store
	owner string
}

// List retrieves all saved chats.
func (r *ChatRepo) List(ctx context.Context) ([]domain.SavedChat, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT data_json FROM saved_chats WHERE owner_uid = ? ORDER BY id`, r.owner)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chats []domain.SavedChat
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		var c domain.SavedChat
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode chat: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// SaveBatch upserts chats keyed by ID.
func (r *ChatRepo) SaveBatch(ctx context.Context, chats []domain.SavedChat) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		return r.insert(ctx, tx, chats)
	})
}

// ReplaceAll discards every chat and stores chats instead.
func (r *ChatRepo) ReplaceAll(ctx context.Context, chats []domain.SavedChat) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM saved_chats WHERE owner_uid = ?`, r.owner); err != nil {
			return fmt.Errorf("clear chats: %w", err)
		}
		return r.insert(ctx, tx, chats)
	})
}

func (r *ChatRepo) insert(ctx context.Context, tx *sql.Tx, chats []domain.SavedChat) error {
	for _, c := range chats {
		c.UserID = r.owner
		raw, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal chat: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO saved_chats (owner_uid, id, data_json) VALUES (?, ?, ?)
			 ON CONFLICT(owner_uid, id) DO UPDATE SET data_json = excluded.data_json`,
			r.owner, c.ID, string(raw),
		); err != nil {
			return fmt.Errorf("upsert chat %s: %w", c.ID, err)
		}
	}
	return nil
}
