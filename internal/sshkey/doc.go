// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshkey parses, validates and fingerprints single-line OpenSSH public
// keys of the form "algorithm base64-blob [comment]".
//
// Everything in this package is pure: no I/O, no package state, and every
// function is safe for concurrent use. Parse never fails, Validate always
// returns a ValidationResult, and the fingerprint functions panic only when a
// caller hands them absent key bytes.
package sshkey
