// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for sshkeyfield.
//
// Usage:
//
//	go run . [command] [flags]
//	./sshkeyfield validate "ssh-ed25519 AAAA... user@host"
//
// See --help for the available commands.
package main

import (
	"os"

	"github.com/toeirei/sshkeyfield/internal/logging"
	"github.com/toeirei/sshkeyfield/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
