// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/toeirei/sshkeyfield/internal/i18n"
	"github.com/toeirei/sshkeyfield/internal/keyfield"
	"github.com/toeirei/sshkeyfield/internal/model"
)

// newKeyCmd is the root command for stored key operations.
func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage stored SSH keys (add, list, show, rename, set, delete, find)",
		Long: `The 'key' command group manages the key database:
  - Add a key line; its fingerprint and default name are derived from it
  - List or show stored keys
  - Rename a key or replace its value (the name is kept)
  - Find keys by MD5 fingerprint`,
	}
	cmd.AddCommand(
		newKeyAddCmd(),
		newKeyListCmd(),
		newKeyShowCmd(),
		newKeyRenameCmd(),
		newKeySetCmd(),
		newKeyDeleteCmd(),
		newKeyFindCmd(),
	)
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid key ID: %w", err)
	}
	return id, nil
}

// violationsError joins field violations into a single error.
func violationsError(vs []keyfield.Violation) error {
	msgs := make([]string, 0, len(vs))
	for _, v := range vs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", v.Property, v.Message))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func newKeyAddCmd() *cobra.Command {
	var name string
	var force bool
	cmd := &cobra.Command{
		Use:   "add [key]",
		Short: "Add a public key",
		Long: `Stores a key line. Unless --force is given the key must pass validation
against the accepted algorithms. Without --name the key comment, or else the
fingerprint, becomes its name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readKeyInput(cmd, args)
			if err != nil {
				return err
			}
			it := keyfield.New(raw, name)
			if vs := it.Validate(fieldSettings()); len(vs) > 0 && !force {
				return violationsError(vs)
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			id, err := st.AddKey(cmd.Context(), it)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.key_added", id))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name for the key (defaults to its comment)")
	cmd.Flags().BoolVar(&force, "force", false, "Store the key even if it does not validate")
	cmd.Flags().StringSlice("algorithm", nil, "Accepted key algorithm (repeatable)")
	return cmd
}

func printKeyTable(cmd *cobra.Command, keys []model.Key) {
	out := cmd.OutOrStdout()
	if len(keys) == 0 {
		fmt.Fprintln(out, i18n.T("cli.no_keys"))
		return
	}
	f := keyfield.NameFormatter{FingerprintFormatter: keyfield.FingerprintFormatter{
		Prefix: appConfig.Format.Prefix,
		Suffix: appConfig.Format.Suffix,
	}}
	items := make([]keyfield.Item, len(keys))
	for i, k := range keys {
		items[i] = k.Item
	}
	names := f.FormatAll(items)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tALGORITHM\tFINGERPRINT")
	for i, k := range keys {
		p := k.Parsed()
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", k.ID, names[i], p.AlgorithmString(), k.Fingerprint)
	}
	_ = w.Flush()
}

func newKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			keys, err := st.ListKeys(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}
			printKeyTable(cmd, keys)
			return nil
		},
	}
}

func newKeyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show detailed key information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			k, err := st.GetKey(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %d\n", k.ID)
			fmt.Fprintf(out, "Name:        %s\n", k.Name)
			fmt.Fprintf(out, "Fingerprint: %s\n", k.Fingerprint)
			if sha := k.FingerprintSHA256(); sha != "" {
				fmt.Fprintf(out, "SHA256:      %s\n", sha)
			}
			fmt.Fprintf(out, "Created:     %s\n", k.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Value:       %s\n", k.Value)
			if vs := k.Validate(fieldSettings()); len(vs) > 0 {
				fmt.Fprintf(out, "%s %s\n", invalidStyle.Render("Status:"), violationsError(vs))
			}
			return nil
		},
	}
}

func newKeyRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a stored key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if utf8.RuneCountInString(args[1]) > keyfield.MaxNameLength {
				return errors.New(i18n.T("keyfield.name_too_long", keyfield.MaxNameLength))
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			if err := st.RenameKey(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.key_renamed", id))
			return nil
		},
	}
}

func newKeySetCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "set <id> [key]",
		Short: "Replace the value of a stored key",
		Long: `Replaces the key line of a stored key and recomputes its fingerprint.
The existing name is kept; a key without a name receives the default one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := readKeyInput(cmd, args[1:])
			if err != nil {
				return err
			}
			if vs := keyfield.New(raw, "").Validate(fieldSettings()); len(vs) > 0 && !force {
				return violationsError(vs)
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			if _, err := st.UpdateKeyValue(cmd.Context(), id, raw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.key_updated", id))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Store the key even if it does not validate")
	cmd.Flags().StringSlice("algorithm", nil, "Accepted key algorithm (repeatable)")
	return cmd
}

func newKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			if err := st.DeleteKey(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.key_deleted", id))
			return nil
		},
	}
}

func newKeyFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <fingerprint>",
		Short: "Find stored keys by MD5 fingerprint",
		Long:  `Accepts the fingerprint as 32 hex characters or in the colon-separated form.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(args[0], "MD5:"), ":", ""))
			st, err := openStore()
			if err != nil {
				return err
			}
			keys, err := st.GetKeysByFingerprint(cmd.Context(), fp)
			if err != nil {
				return fmt.Errorf("failed to find keys: %w", err)
			}
			printKeyTable(cmd, keys)
			return nil
		},
	}
}
