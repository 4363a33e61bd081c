// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the sshkeyfield command-line interface using Cobra.
// It wires configuration, i18n and the key store, and provides commands that
// delegate to the sshkey, keyfield and db packages. CLI code should remain
// thin and leave parsing, validation and persistence to those packages.
package cli
