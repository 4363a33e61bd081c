// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/toeirei/sshkeyfield/internal/config"
	"github.com/toeirei/sshkeyfield/internal/i18n"
	"github.com/toeirei/sshkeyfield/internal/keyfield"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the effective configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(&appConfig)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			f := keyfield.FingerprintFormatter{Prefix: appConfig.Format.Prefix, Suffix: appConfig.Format.Suffix}
			for _, line := range f.Summary() {
				fmt.Fprintf(out, "# %s\n", line)
			}
			_, err = out.Write(data)
			return err
		},
	}

	var system bool
	var to string
	write := &cobra.Command{
		Use:   "write",
		Short: "Write the effective configuration to the user (or system) config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := to
			if path == "" {
				p, err := config.GetConfigPath(system)
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.WriteConfigFileTo(&appConfig, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.config_written", path))
			return nil
		},
	}
	write.Flags().BoolVar(&system, "system", false, "Write the system-wide config file")
	write.Flags().StringVar(&to, "to", "", "Write to this path instead")

	cmd.AddCommand(show, write)
	return cmd
}
