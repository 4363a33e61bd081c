// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/toeirei/sshkeyfield/internal/i18n"
	"github.com/toeirei/sshkeyfield/internal/logging"
	"github.com/toeirei/sshkeyfield/internal/sshkey"
	"golang.org/x/term"
)

var (
	validStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	invalidStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// errKeyInvalid makes `validate` exit non-zero without printing usage.
var errKeyInvalid = errors.New(sshkey.InvalidKeyMessage)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// readKeyInput returns the key line given as arguments, or read from stdin
// when no arguments were passed and stdin is not a terminal. Blank lines are
// skipped and more than one remaining line is an error.
func readKeyInput(cmd *cobra.Command, args []string) (string, error) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", errors.New(i18n.T("cli.no_key_input"))
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read key from stdin: %w", err)
		}
		text = string(data)
	}
	return singleKeyLine(text)
}

// singleKeyLine returns the only non-blank line of text.
func singleKeyLine(text string) (string, error) {
	var found []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			found = append(found, l)
		}
	}
	switch len(found) {
	case 0:
		return "", errors.New(i18n.T("cli.no_key_input"))
	case 1:
		return found[0], nil
	default:
		return "", errors.New(i18n.T("cli.multiple_keys", len(found)))
	}
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [key]",
		Short: "Split a public key line into algorithm, blob and comment",
		Long: `Splits a key line on whitespace into at most three fields. Missing fields
are shown as "-". Nothing is validated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readKeyInput(cmd, args)
			if err != nil {
				return err
			}
			p := sshkey.Parse(raw)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("algorithm:"), optional(p.Algorithm))
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("blob:     "), optional(p.Blob))
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("comment:  "), optional(p.Comment))
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "validate [key]",
		Short: "Check a public key against the accepted algorithms",
		Long: `Validates a key line: the algorithm must be accepted, the blob must be
standard base64 and the decoded blob must start with the encoded algorithm
name. Accepted algorithms come from --algorithm or the field.algorithms
config setting. Exits non-zero when the key is not valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readKeyInput(cmd, args)
			if err != nil {
				return err
			}
			res := sshkey.ValidateString(raw, appConfig.Field.Algorithms)
			out := cmd.OutOrStdout()
			if res.Valid {
				fmt.Fprintln(out, validStyle.Render(i18n.T("cli.valid")))
				return nil
			}
			fmt.Fprintf(out, "%s: %s\n", invalidStyle.Render(i18n.T("cli.invalid")), i18n.T("sshkey.invalid"))
			if explain {
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render("reason:"), res.Failure)
			}
			logging.Debugf("validate failed with %s for accepted set %v", res.Failure, appConfig.Field.Algorithms)
			return errKeyInvalid
		},
	}
	cmd.Flags().StringSlice("algorithm", nil, "Accepted key algorithm (repeatable)")
	cmd.Flags().BoolVar(&explain, "verbose", false, "Print the kind of validation failure")
	return cmd
}

func newFingerprintCmd() *cobra.Command {
	var copyToClipboard bool
	cmd := &cobra.Command{
		Use:   "fingerprint [key]",
		Short: "Print the MD5 and SHA-256 fingerprints of a public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readKeyInput(cmd, args)
			if err != nil {
				return err
			}
			p := sshkey.Parse(raw)
			if p.Blob == nil {
				return errors.New(i18n.T("sshkey.invalid"))
			}
			decoded, err := sshkey.DecodeBlob(*p.Blob)
			if err != nil {
				return fmt.Errorf("%s: %w", i18n.T("sshkey.invalid"), err)
			}
			md5 := sshkey.FingerprintMD5(decoded)
			sha := sshkey.FingerprintSHA256(decoded)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("md5:    "), md5)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("legacy: "), sshkey.FormatMD5(md5))
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("sha256: "), sha)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("openssh:"), sshkey.FormatSHA256(sha))
			if copyToClipboard {
				if err := writeClipboard(sshkey.FormatSHA256(sha)); err != nil {
					logging.Warnf("could not copy to clipboard: %v", err)
				} else {
					fmt.Fprintln(out, i18n.T("cli.copied"))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the SHA256 fingerprint to the clipboard")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [key]",
		Short: "Show the type and size encoded in a public key blob",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readKeyInput(cmd, args)
			if err != nil {
				return err
			}
			p := sshkey.Parse(raw)
			if p.Blob == nil {
				return errors.New(i18n.T("sshkey.invalid"))
			}
			decoded, err := sshkey.DecodeBlob(*p.Blob)
			if err != nil {
				return fmt.Errorf("%s: %w", i18n.T("sshkey.invalid"), err)
			}
			info, err := sshkey.Describe(decoded)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("type:   "), info.Type)
			if info.Bits > 0 {
				fmt.Fprintf(out, "%s %d\n", labelStyle.Render("bits:   "), info.Bits)
			}
			if p.Algorithm != nil && *p.Algorithm != info.Type {
				fmt.Fprintf(out, "%s declared %s\n", invalidStyle.Render("mismatch:"), *p.Algorithm)
			}
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("md5:    "), info.MD5)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("sha256: "), info.SHA)
			if warning := sshkey.CheckAlgorithmStrength(info); warning != "" {
				fmt.Fprintf(out, "%s %s\n", invalidStyle.Render("warning:"), warning)
			}
			return nil
		},
	}
}
