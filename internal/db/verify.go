// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/toeirei/sshkeyfield/internal/keyfield"
	"github.com/uptrace/bun"
)

// Mismatch is a stored row whose fingerprint differs from the one derived
// from its current value.
type Mismatch struct {
	ID       int
	Stored   string
	Computed string
}

func findMismatches(ctx context.Context, q bun.IDB) (int, []Mismatch, error) {
	var ms []KeyItemModel
	if err := q.NewSelect().Model(&ms).Column("id", "value", "fingerprint").OrderExpr("id ASC").Scan(ctx); err != nil {
		return 0, nil, err
	}
	var out []Mismatch
	for _, m := range ms {
		if computed := keyfield.Fingerprint(m.Value); computed != m.Fingerprint.String {
			out = append(out, Mismatch{ID: m.ID, Stored: m.Fingerprint.String, Computed: computed})
		}
	}
	return len(ms), out, nil
}

// VerifyFingerprints recomputes the fingerprint of every stored value and
// reports the rows whose stored column disagrees.
func (s *bunStore) VerifyFingerprints(ctx context.Context) (int, []Mismatch, error) {
	checked, mismatches, err := findMismatches(ctx, s.bun)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to verify fingerprints: %w", err)
	}
	dbLogf("db: verified %d fingerprints, %d stale", checked, len(mismatches))
	return checked, mismatches, nil
}

// RecomputeFingerprints rewrites every stale fingerprint column and returns
// the number of rows changed. Names are left untouched.
func (s *bunStore) RecomputeFingerprints(ctx context.Context) (int, error) {
	var fixed int
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, mismatches, err := findMismatches(ctx, tx)
		if err != nil {
			return err
		}
		for _, mm := range mismatches {
			if _, err := tx.NewUpdate().Model((*KeyItemModel)(nil)).
				Set("fingerprint = ?", nullString(mm.Computed)).
				Where("id = ?", mm.ID).Exec(ctx); err != nil {
				return err
			}
		}
		fixed = len(mismatches)
		if fixed == 0 {
			return nil
		}
		return logActionTx(ctx, tx, "RECOMPUTE_FINGERPRINTS", fmt.Sprintf("rows: %d", fixed))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to recompute fingerprints: %w", err)
	}
	return fixed, nil
}
