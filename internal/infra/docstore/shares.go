package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// ShareRepo implements domain.ShareRepository.
type ShareRepo struct {
	db *sql.DB
}

// Get retrieves one share record.
func (r *ShareRepo) Get(ctx context.Context, ownerUID string, ref domain.ItemRef, recipientUID string) (*domain.ShareRecord, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT data_json FROM shares WHERE owner_uid = ? AND kind = ? AND item_id = ? AND recipient_uid = ?`,
		ownerUID, string(ref.Kind), ref.ID, recipientUID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query share: %w", err)
	}
	var rec domain.ShareRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode share: %w", err)
	}
	return &rec, nil
}

// List retrieves every share record of an item, oldest first.
func (r *ShareRepo) List(ctx context.Context, ownerUID string, ref domain.ItemRef) ([]domain.ShareRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data_json FROM shares WHERE owner_uid = ? AND kind = ? AND item_id = ? ORDER BY shared_at_unixms, recipient_uid`,
		ownerUID, string(ref.Kind), ref.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query shares: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []domain.ShareRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		var rec domain.ShareRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode share: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Put creates or overwrites a share record.
func (r *ShareRepo) Put(ctx context.Context, ownerUID string, ref domain.ItemRef, rec domain.ShareRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal share: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO shares (owner_uid, kind, item_id, recipient_uid, shared_at_unixms, data_json) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner_uid, kind, item_id, recipient_uid) DO UPDATE SET
			shared_at_unixms = excluded.shared_at_unixms,
			data_json = excluded.data_json`,
		ownerUID, string(ref.Kind), ref.ID, rec.UID, rec.SharedAt.UnixMilli(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("put share: %w", err)
	}
	return nil
}

// Delete removes a share record.
func (r *ShareRepo) Delete(ctx context.Context, ownerUID string, ref domain.ItemRef, recipientUID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM shares WHERE owner_uid = ? AND kind = ? AND item_id = ? AND recipient_uid = ?`,
		ownerUID, string(ref.Kind), ref.ID, recipientUID,
	)
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	return nil
}

// ReceivedRepo implements domain.ReceivedRepository.
type ReceivedRepo struct {
	db *sql.DB
}

// Create stores a new copy, assigning an ID when empty.
func (r *ReceivedRepo) Create(ctx context.Context, recipientUID string, rec *domain.ReceivedItem) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal received item: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO received_items (recipient_uid, id, original_item_id, original_owner_uid, shared_at_unixms, data_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		recipientUID, rec.ID, rec.OriginalItemID, rec.OriginalOwnerUID, rec.SharedAt.UnixMilli(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert received item: %w", err)
	}
	return nil
}

// Get retrieves one copy.
func (r *ReceivedRepo) Get(ctx context.Context, recipientUID, id string) (*domain.ReceivedItem, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT data_json FROM received_items WHERE recipient_uid = ? AND id = ?`,
		recipientUID, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReceivedNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query received item: %w", err)
	}
	return decodeReceived(raw, id)
}

// List retrieves every copy the recipient holds, newest first.
func (r *ReceivedRepo) List(ctx context.Context, recipientUID string) ([]*domain.ReceivedItem, error) {
	return r.query(ctx,
		`SELECT id, data_json FROM received_items WHERE recipient_uid = ? ORDER BY shared_at_unixms DESC, id`,
		recipientUID,
	)
}

// FindByOriginal returns the recipient's copies of one original item.
// An empty ownerUID matches any owner.
func (r *ReceivedRepo) FindByOriginal(ctx context.Context, recipientUID, originalItemID, ownerUID string) ([]*domain.ReceivedItem, error) {
	return r.query(ctx,
		`SELECT id, data_json FROM received_items
		 WHERE recipient_uid = ? AND original_item_id = ? AND (? = '' OR original_owner_uid = ?)
		 ORDER BY shared_at_unixms, id`,
		recipientUID, originalItemID, ownerUID, ownerUID,
	)
}

// Save replaces an existing copy.
func (r *ReceivedRepo) Save(ctx context.Context, recipientUID string, rec *domain.ReceivedItem) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal received item: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE received_items SET original_item_id = ?, original_owner_uid = ?, shared_at_unixms = ?, data_json = ?
		 WHERE recipient_uid = ? AND id = ?`,
		rec.OriginalItemID, rec.OriginalOwnerUID, rec.SharedAt.UnixMilli(), string(raw), recipientUID, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update received item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update received item: %w", err)
	}
	if n == 0 {
		return domain.ErrReceivedNotFound
	}
	return nil
}

// Delete removes a copy.
func (r *ReceivedRepo) Delete(ctx context.Context, recipientUID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM received_items WHERE recipient_uid = ? AND id = ?`,
		recipientUID, id,
	)
	if err != nil {
		return fmt.Errorf("delete received item: %w", err)
	}
	return nil
}

func (r *ReceivedRepo) query(ctx context.Context, q string, args ...any) ([]*domain.ReceivedItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query received items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.ReceivedItem
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan received item: %w", err)
		}
		rec, err := decodeReceived(raw, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodeReceived(raw, id string) (*domain.ReceivedItem, error) {
	var rec domain.ReceivedItem
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode received item %s: %w", id, err)
	}
	rec.ID = id
	if rec.Data.Kind == "" {
		rec.Data.Kind = rec.OriginalItemType
	}
	return &rec, nil
}
