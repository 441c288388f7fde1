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

// ItemRepo implements domain.ItemRepository for one owner.
type ItemRepo struct {
	db    *sql.DB
	store *Store
	owner string
}

// Get retrieves an item.
func (r *ItemRepo) Get(ctx context.Context, ref domain.ItemRef) (*domain.Item, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT data_json FROM items WHERE owner_uid = ? AND kind = ? AND id = ?`,
		r.owner, string(ref.Kind), ref.ID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return decodeItem(raw, ref.Kind, ref.ID)
}

// List retrieves all items of a kind, newest first.
func (r *ItemRepo) List(ctx context.Context, kind domain.Kind) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data_json FROM items WHERE owner_uid = ? AND kind = ? ORDER BY created_at_unixms DESC, id`,
		r.owner, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.Item
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it, err := decodeItem(raw, kind, id)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts a new item, assigning an ID when empty.
func (r *ItemRepo) Create(ctx context.Context, item *domain.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.OwnerID = r.owner
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO items (owner_uid, kind, id, created_at_unixms, data_json) VALUES (?, ?, ?, ?, ?)`,
		r.owner, string(item.Kind), item.ID, item.CreatedAt.UnixMilli(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Save replaces an existing item.
func (r *ItemRepo) Save(ctx context.Context, item *domain.Item) error {
	item.OwnerID = r.owner
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET created_at_unixms = ?, data_json = ? WHERE owner_uid = ? AND kind = ? AND id = ?`,
		item.CreatedAt.UnixMilli(), string(raw), r.owner, string(item.Kind), item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// Delete removes an item.
func (r *ItemRepo) Delete(ctx context.Context, ref domain.ItemRef) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM items WHERE owner_uid = ? AND kind = ? AND id = ?`,
		r.owner, string(ref.Kind), ref.ID,
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// DeleteBatch removes several items, batchLimit per transaction.
func (r *ItemRepo) DeleteBatch(ctx context.Context, refs []domain.ItemRef) error {
	for start := 0; start < len(refs); start += batchLimit {
		chunk := refs[start:min(start+batchLimit, len(refs))]
		err := r.store.withTx(ctx, func(tx *sql.Tx) error {
			for _, ref := range chunk {
				if _, err := tx.ExecContext(ctx,
					`DELETE FROM items WHERE owner_uid = ? AND kind = ? AND id = ?`,
					r.owner, string(ref.Kind), ref.ID,
				); err != nil {
					return fmt.Errorf("delete item %s: %w", ref, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveBatch upserts items keyed by ID, batchLimit per transaction.
func (r *ItemRepo) SaveBatch(ctx context.Context, items []*domain.Item) error {
	for start := 0; start < len(items); start += batchLimit {
		chunk := items[start:min(start+batchLimit, len(items))]
		err := r.store.withTx(ctx, func(tx *sql.Tx) error {
			for _, it := range chunk {
				if err := r.upsert(ctx, tx, it); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ReplaceAll discards every item of the owner and stores items instead.
func (r *ItemRepo) ReplaceAll(ctx context.Context, items []*domain.Item) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE owner_uid = ?`, r.owner); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}
		for _, it := range items {
			if err := r.upsert(ctx, tx, it); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ItemRepo) upsert(ctx context.Context, tx *sql.Tx, it *domain.Item) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	it.OwnerID = r.owner
	raw, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (owner_uid, kind, id, created_at_unixms, data_json) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(owner_uid, kind, id) DO UPDATE SET
			created_at_unixms = excluded.created_at_unixms,
			data_json = excluded.data_json`,
		r.owner, string(it.Kind), it.ID, it.CreatedAt.UnixMilli(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", it.ID, err)
	}
	return nil
}

// decodeItem restores an item from its row. The row's kind and id win over
// whatever the document carries.
func decodeItem(raw string, kind domain.Kind, id string) (*domain.Item, error) {
	it := &domain.Item{Kind: kind}
	if err := json.Unmarshal([]byte(raw), it); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", id, err)
	}
	it.ID = id
	it.Kind = kind
	if kind == domain.KindLetter && it.Letter == nil {
		it.Letter = &domain.Letter{}
	}
	if kind == domain.KindTask {
		it.Letter = nil
	}
	return it, nil
}
