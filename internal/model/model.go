// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"time"

	"github.com/toeirei/sshkeyfield/internal/keyfield"
)

// Key is a stored SSH key item.
type Key struct {
	ID int
	keyfield.Item
	CreatedAt time.Time
}

// String returns the display label of the key: its name, or its fingerprint
// when it has none.
func (k Key) String() string {
	if k.Name != "" {
		return fmt.Sprintf("#%d %s", k.ID, k.Name)
	}
	return fmt.Sprintf("#%d %s", k.ID, k.Fingerprint)
}

// AuditLogEntry is a single row of the audit log.
type AuditLogEntry struct {
	ID        int
	Timestamp time.Time
	Action    string
	Details   string
}
