package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/toeirei/sshkeyfield/internal/keyfield"
	"github.com/toeirei/sshkeyfield/internal/model"
	"github.com/uptrace/bun"
)

// KeyItemModel maps the `sshkey_items` table for Bun queries.
type KeyItemModel struct {
	bun.BaseModel `bun:"table:sshkey_items"`
	ID            int            `bun:"id,pk,autoincrement"`
	Value         string         `bun:"value"`
	Fingerprint   sql.NullString `bun:"fingerprint"`
	Name          sql.NullString `bun:"name"`
	CreatedAt     time.Time      `bun:"created_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int       `bun:"id,pk,autoincrement"`
	Timestamp     time.Time `bun:"timestamp"`
	Action        string    `bun:"action"`
	Details       string    `bun:"details"`
}

// --- Mapping helpers ---

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func keyItemModelFromItem(it keyfield.Item) KeyItemModel {
	return KeyItemModel{
		Value:       it.Value,
		Fingerprint: nullString(it.Fingerprint),
		Name:        nullString(it.Name),
	}
}

func keyItemModelToModel(m KeyItemModel) model.Key {
	return model.Key{
		ID:        m.ID,
		Item:      keyfield.Restore(m.Value, m.Fingerprint.String, m.Name.String),
		CreatedAt: m.CreatedAt,
	}
}

// bunStore implements Store on top of a *bun.DB. The dialect specific store
// types embed it.
type bunStore struct {
	bun    *bun.DB
	dbType string
}

// BunDB exposes the underlying *bun.DB.
func (s *bunStore) BunDB() *bun.DB { return s.bun }

// Close closes the underlying database.
func (s *bunStore) Close() error { return s.bun.Close() }

// AddKey inserts it and returns the new row ID.
func (s *bunStore) AddKey(ctx context.Context, it keyfield.Item) (int, error) {
	m := keyItemModelFromItem(it)
	m.CreatedAt = time.Now().UTC()
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
			return MapDBError(err)
		}
		return logActionTx(ctx, tx, "ADD_KEY", fmt.Sprintf("id: %d, fingerprint: %s", m.ID, it.Fingerprint))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add key: %w", err)
	}
	return m.ID, nil
}

func getKeyTx(ctx context.Context, q bun.IDB, id int) (*KeyItemModel, error) {
	var m KeyItemModel
	err := q.NewSelect().Model(&m).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetKey returns the key with the given ID or ErrNotFound.
func (s *bunStore) GetKey(ctx context.Context, id int) (*model.Key, error) {
	m, err := getKeyTx(ctx, s.bun, id)
	if err != nil {
		return nil, err
	}
	k := keyItemModelToModel(*m)
	return &k, nil
}

// GetKeysByFingerprint returns every key whose stored fingerprint equals
// fingerprint. Fingerprints are indexed but not unique.
func (s *bunStore) GetKeysByFingerprint(ctx context.Context, fingerprint string) ([]model.Key, error) {
	var ms []KeyItemModel
	if err := s.bun.NewSelect().Model(&ms).Where("fingerprint = ?", fingerprint).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return keyItemModelsToModels(ms), nil
}

// ListKeys returns all keys ordered by ID.
func (s *bunStore) ListKeys(ctx context.Context) ([]model.Key, error) {
	var ms []KeyItemModel
	if err := s.bun.NewSelect().Model(&ms).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return keyItemModelsToModels(ms), nil
}

func keyItemModelsToModels(ms []KeyItemModel) []model.Key {
	out := make([]model.Key, 0, len(ms))
	for _, m := range ms {
		out = append(out, keyItemModelToModel(m))
	}
	return out
}

// UpdateKeyValue replaces the raw value of a key. The fingerprint is
// recomputed and the name is only filled in when the row has none.
func (s *bunStore) UpdateKeyValue(ctx context.Context, id int, value string) (*model.Key, error) {
	var out model.Key
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m, err := getKeyTx(ctx, tx, id)
		if err != nil {
			return err
		}
		it := keyfield.Restore(m.Value, m.Fingerprint.String, m.Name.String)
		it.SetValue(value)

		m.Value = it.Value
		m.Fingerprint = nullString(it.Fingerprint)
		m.Name = nullString(it.Name)
		if _, err := tx.NewUpdate().Model(m).Column("value", "fingerprint", "name").WherePK().Exec(ctx); err != nil {
			return err
		}
		out = keyItemModelToModel(*m)
		return logActionTx(ctx, tx, "UPDATE_KEY_VALUE", fmt.Sprintf("id: %d, fingerprint: %s", id, it.Fingerprint))
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameKey sets the name of a key. Existence is checked by reading the row
// first, so renaming a key to its current name still succeeds.
func (s *bunStore) RenameKey(ctx context.Context, id int, name string) error {
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m, err := getKeyTx(ctx, tx, id)
		if err != nil {
			return err
		}
		it := keyfield.Restore(m.Value, m.Fingerprint.String, m.Name.String)
		it.Rename(name)

		m.Name = nullString(it.Name)
		if _, err := tx.NewUpdate().Model(m).Column("name").WherePK().Exec(ctx); err != nil {
			return err
		}
		return logActionTx(ctx, tx, "RENAME_KEY", fmt.Sprintf("id: %d, name: '%s'", id, name))
	})
}

// DeleteKey removes a key by its ID.
func (s *bunStore) DeleteKey(ctx context.Context, id int) error {
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m, err := getKeyTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model(m).WherePK().Exec(ctx); err != nil {
			return err
		}
		return logActionTx(ctx, tx, "DELETE_KEY", fmt.Sprintf("id: %d", id))
	})
}

// LogAction records an entry in the audit log.
func (s *bunStore) LogAction(ctx context.Context, action string, details string) error {
	return logActionTx(ctx, s.bun, action, details)
}

func logActionTx(ctx context.Context, q bun.IDB, action, details string) error {
	_, err := q.NewInsert().Model(&AuditLogModel{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Details:   details,
	}).Exec(ctx)
	return err
}

// GetAuditLog returns all audit log entries, newest first.
func (s *bunStore) GetAuditLog(ctx context.Context) ([]model.AuditLogEntry, error) {
	var ms []AuditLogModel
	if err := s.bun.NewSelect().Model(&ms).OrderExpr("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, model.AuditLogEntry{ID: m.ID, Timestamp: m.Timestamp, Action: m.Action, Details: m.Details})
	}
	return out, nil
}
