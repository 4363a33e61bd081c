// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/sshkeyfield/internal/db"
	"github.com/toeirei/sshkeyfield/internal/i18n"
	"github.com/toeirei/sshkeyfield/internal/logging"
)

func newVerifyCmd() *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-derive stored fingerprints and report stale rows",
		Long: `Recomputes the fingerprint of every stored key from its value and compares
it with the stored column. Use after migrations or restores. With --fix the
stale fingerprints are rewritten; names are never changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			checked, mismatches, err := st.VerifyFingerprints(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(mismatches) == 0 {
				fmt.Fprintln(out, validStyle.Render(i18n.T("cli.verify_ok", checked)))
				return nil
			}
			fmt.Fprintln(out, invalidStyle.Render(i18n.T("cli.verify_mismatch", len(mismatches), checked)))
			for _, m := range mismatches {
				fmt.Fprintf(out, "  #%d stored=%s computed=%s\n", m.ID, m.Stored, m.Computed)
			}
			if !fix {
				return fmt.Errorf("%d stale fingerprints", len(mismatches))
			}
			fixed, err := st.RecomputeFingerprints(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, i18n.T("cli.verify_fixed", fixed))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Rewrite stale fingerprints")
	return cmd
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON backup of all stored keys",
		Long: `Dumps every stored key, including its stored fingerprint and name, into a
Zstandard-compressed JSON file.

If an output file is specified, '.zst' will be appended to the name if it's not already present.
If no output file is specified, 'sshkeyfield-backup-YYYY-MM-DD.json.zst' is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputFile string
			if len(args) == 0 {
				outputFile = fmt.Sprintf("sshkeyfield-backup-%s.json.zst", time.Now().Format("2006-01-02"))
			} else {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".zst") {
					outputFile += ".zst"
				}
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			data, err := st.Export(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("could not create backup file: %w", err)
			}
			if err := db.WriteBackup(f, data); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("could not close backup file: %w", err)
			}
			if err := st.LogAction(cmd.Context(), "BACKUP_KEYS", fmt.Sprintf("file: %s, keys: %d", outputFile, len(data.Keys))); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.backup_written", len(data.Keys), outputFile))
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "restore <backup-file.zst>",
		Short: "Restore keys from a compressed JSON backup",
		Long: `Imports the keys of a backup written by 'backup'. By default the keys are
added to the existing ones. With --full all stored keys are deleted first.
Stored fingerprints are restored verbatim; run 'verify' afterwards to check
them against the restored values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open backup file: %w", err)
			}
			defer func() { _ = f.Close() }()
			data, err := db.ReadBackup(f)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			n, err := st.Import(cmd.Context(), data, full)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.restored", n, args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Delete all stored keys before importing")
	return cmd
}

func newDBMaintainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Long:  `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Infof("running %s maintenance", appConfig.Database.Type)
			if err := db.RunDBMaintenance(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.maintenance_done"))
			return nil
		},
	}
}

func newAuditCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log of key changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			entries, err := st.GetAuditLog(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read audit log: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, i18n.T("cli.no_audit_entries"))
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIMESTAMP\tACTION\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Timestamp.Format(time.RFC3339), e.Action, e.Details)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many entries (0 shows all)")
	return cmd
}
