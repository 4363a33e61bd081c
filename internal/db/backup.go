// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/uptrace/bun"
)

// BackupVersion is the format version written by Export.
const BackupVersion = 1

// Backup is a portable snapshot of all stored key items.
type Backup struct {
	Version   int         `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	Keys      []BackupKey `json:"keys"`
}

// BackupKey is one key row inside a Backup. Fingerprint and name are kept
// verbatim so a restored database can be compared against recomputed values.
type BackupKey struct {
	ID          int       `json:"id"`
	Value       string    `json:"value"`
	Fingerprint string    `json:"fingerprint"`
	Name        string    `json:"name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Export snapshots every key row.
func (s *bunStore) Export(ctx context.Context) (*Backup, error) {
	var ms []KeyItemModel
	if err := s.bun.NewSelect().Model(&ms).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to export keys: %w", err)
	}
	b := &Backup{Version: BackupVersion, CreatedAt: time.Now().UTC(), Keys: make([]BackupKey, 0, len(ms))}
	for _, m := range ms {
		b.Keys = append(b.Keys, BackupKey{
			ID:          m.ID,
			Value:       m.Value,
			Fingerprint: m.Fingerprint.String,
			Name:        m.Name.String,
			CreatedAt:   m.CreatedAt,
		})
	}
	return b, nil
}

// Import inserts the rows of b in a single transaction and returns how many
// were written. With replace set, existing rows are removed first. Row IDs
// are reassigned by the database.
func (s *bunStore) Import(ctx context.Context, b *Backup, replace bool) (int, error) {
	if b == nil {
		return 0, fmt.Errorf("nil backup")
	}
	if b.Version != BackupVersion {
		return 0, fmt.Errorf("unsupported backup version %d", b.Version)
	}
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if replace {
			if _, err := ExecRaw(ctx, tx, "DELETE FROM sshkey_items"); err != nil {
				return err
			}
		}
		for _, k := range b.Keys {
			created := k.CreatedAt
			if created.IsZero() {
				created = time.Now().UTC()
			}
			m := KeyItemModel{
				Value:       k.Value,
				Fingerprint: nullString(k.Fingerprint),
				Name:        nullString(k.Name),
				CreatedAt:   created,
			}
			if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
				return MapDBError(err)
			}
		}
		return logActionTx(ctx, tx, "IMPORT_KEYS", fmt.Sprintf("rows: %d, replace: %t", len(b.Keys), replace))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import keys: %w", err)
	}
	return len(b.Keys), nil
}

// WriteBackup writes b to w as zstd-compressed JSON.
func WriteBackup(w io.Writer, b *Backup) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(b); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return enc.Close()
}

// ReadBackup reads a backup written by WriteBackup.
func ReadBackup(r io.Reader) (*Backup, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	var b Backup
	if err := json.NewDecoder(dec).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if b.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %d", b.Version)
	}
	return &b, nil
}
