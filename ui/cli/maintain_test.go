// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toeirei/sshkeyfield/internal/db"
)

func TestVerifyCmd(t *testing.T) {
	setupTestDB(t)
	line, _ := newEd25519Line(t, "v")
	mustExecute(t, "key", "add", line)

	out := mustExecute(t, "verify")
	if !strings.Contains(out, "All 1 stored fingerprints match.") {
		t.Fatalf("unexpected verify output: %q", out)
	}

	s, ok := db.DefaultStore().(*db.SqliteStore)
	if !ok {
		t.Fatalf("expected sqlite store, got %T", db.DefaultStore())
	}
	if _, err := db.ExecRaw(context.Background(), s.BunDB(), "UPDATE sshkey_items SET fingerprint = 'stale'"); err != nil {
		t.Fatalf("tamper failed: %v", err)
	}

	out, err := executeCommand(t, "", "verify")
	if err == nil {
		t.Fatalf("expected verify to fail on stale rows:\n%s", out)
	}
	if !strings.Contains(out, "stored=stale") {
		t.Fatalf("expected mismatch listing, got:\n%s", out)
	}

	out = mustExecute(t, "verify", "--fix")
	if !strings.Contains(out, "Recomputed 1 fingerprints.") {
		t.Fatalf("unexpected fix output:\n%s", out)
	}
	mustExecute(t, "verify")
}

func TestBackupAndRestoreCmd(t *testing.T) {
	setupTestDB(t)
	a, _ := newEd25519Line(t, "a")
	b, _ := newEd25519Line(t, "b")
	mustExecute(t, "key", "add", a)
	mustExecute(t, "key", "add", b)

	file := filepath.Join(t.TempDir(), "keys.json")
	out := mustExecute(t, "backup", file)
	if !strings.Contains(out, "Backup with 2 keys") {
		t.Fatalf("unexpected backup output: %q", out)
	}
	if _, err := os.Stat(file + ".zst"); err != nil {
		t.Fatalf("expected .zst file: %v", err)
	}

	mustExecute(t, "key", "delete", "1")
	out = mustExecute(t, "restore", "--full", file+".zst")
	if !strings.Contains(out, "Restored 2 keys") {
		t.Fatalf("unexpected restore output: %q", out)
	}
	keys, err := db.DefaultStore().ListKeys(context.Background())
	if err != nil || len(keys) != 2 {
		t.Fatalf("expected 2 keys after full restore, got %d (%v)", len(keys), err)
	}
	mustExecute(t, "verify")

	out = mustExecute(t, "audit")
	if !strings.Contains(out, "BACKUP_KEYS") || !strings.Contains(out, "file: "+file+".zst, keys: 2") {
		t.Fatalf("expected backup in audit log, got:\n%s", out)
	}

	if _, err := executeCommand(t, "", "restore", filepath.Join(t.TempDir(), "missing.zst")); err == nil {
		t.Fatalf("expected error for missing backup file")
	}
}

func TestDBMaintainCmd(t *testing.T) {
	setupTestDB(t)
	path := filepath.Join(t.TempDir(), "maint.db")
	out := mustExecute(t, "--db-dsn", path, "db-maintain")
	if !strings.Contains(out, "Maintenance completed successfully.") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestAuditCmd(t *testing.T) {
	setupTestDB(t)
	out := mustExecute(t, "audit")
	if !strings.Contains(out, "The audit log is empty.") {
		t.Fatalf("unexpected output for empty log: %q", out)
	}

	line, _ := newEd25519Line(t, "audited")
	mustExecute(t, "key", "add", line)
	mustExecute(t, "key", "rename", "1", "renamed")
	mustExecute(t, "key", "rename", "1", "renamed")

	out = mustExecute(t, "audit")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "TIMESTAMP") {
		t.Fatalf("expected header and 3 entries, got:\n%s", out)
	}
	if !strings.Contains(lines[1], "RENAME_KEY") || !strings.Contains(lines[3], "ADD_KEY") {
		t.Fatalf("expected newest entry first, got:\n%s", out)
	}

	out = mustExecute(t, "audit", "-n", "1")
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected one entry with --limit 1, got:\n%s", out)
	}
}
