// Copyright (c) 2025 ToeiRei
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/sshkeyfield/internal/keyfield"
	"github.com/toeirei/sshkeyfield/internal/model"
)

// Store defines every persistence operation on SSH key items.
type Store interface {
	// Key methods
	AddKey(ctx context.Context, it keyfield.Item) (int, error)
	GetKey(ctx context.Context, id int) (*model.Key, error)
	GetKeysByFingerprint(ctx context.Context, fingerprint string) ([]model.Key, error)
	ListKeys(ctx context.Context) ([]model.Key, error)
	UpdateKeyValue(ctx context.Context, id int, value string) (*model.Key, error)
	RenameKey(ctx context.Context, id int, name string) error
	DeleteKey(ctx context.Context, id int) error

	// Fingerprint maintenance
	VerifyFingerprints(ctx context.Context) (checked int, mismatches []Mismatch, err error)
	RecomputeFingerprints(ctx context.Context) (int, error)

	// Backup methods
	Export(ctx context.Context) (*Backup, error)
	Import(ctx context.Context, b *Backup, replace bool) (int, error)

	// Audit Log methods
	LogAction(ctx context.Context, action string, details string) error
	GetAuditLog(ctx context.Context) ([]model.AuditLogEntry, error)

	Close() error
}
