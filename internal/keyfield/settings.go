// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package keyfield

import (
	"slices"
	"unicode/utf8"

	"github.com/toeirei/sshkeyfield/internal/i18n"
	"github.com/toeirei/sshkeyfield/internal/sshkey"
)

// AvailableAlgorithms are the algorithms a field can be configured to accept.
var AvailableAlgorithms = []string{"ssh-rsa", "ssh-dss", "ssh-ed25519"}

// Settings is the per-field configuration. With no algorithms enabled the
// field accepts no keys.
type Settings struct {
	Algorithms []string
}

// Enabled returns the configured algorithms without empty entries.
func (s Settings) Enabled() []string {
	out := make([]string, 0, len(s.Algorithms))
	for _, a := range s.Algorithms {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Unsupported returns the configured algorithms that are not in
// AvailableAlgorithms. They never match a key a field can be set up for.
func (s Settings) Unsupported() []string {
	var out []string
	for _, a := range s.Enabled() {
		if !slices.Contains(AvailableAlgorithms, a) {
			out = append(out, a)
		}
	}
	return out
}

// Violation is a single validation error attached to an item property.
type Violation struct {
	Property string
	Message  string
	// Failure is set for violations of the value property.
	Failure sshkey.Failure
}

// Validate checks the item against s. An empty item is not validated.
func (it Item) Validate(s Settings) []Violation {
	if it.IsEmpty() {
		return nil
	}
	var out []Violation
	if res := sshkey.ValidateString(it.Value, s.Enabled()); !res.Valid {
		out = append(out, Violation{
			Property: "value",
			Message:  i18n.T("sshkey.invalid"),
			Failure:  res.Failure,
		})
	}
	if utf8.RuneCountInString(it.Name) > MaxNameLength {
		out = append(out, Violation{
			Property: "name",
			Message:  i18n.T("keyfield.name_too_long", MaxNameLength),
		})
	}
	return out
}
