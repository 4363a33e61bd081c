// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package keyfield

import "github.com/toeirei/sshkeyfield/internal/i18n"

// FingerprintFormatter renders an item's fingerprint between an optional
// prefix and suffix.
type FingerprintFormatter struct {
	Prefix string
	Suffix string
}

// Format renders the stored fingerprint, or the placeholder when the item
// never held a key.
func (f FingerprintFormatter) Format(it Item) string {
	return f.wrap(it.Fingerprint)
}

// Summary lists the non-empty settings for display.
func (f FingerprintFormatter) Summary() []string {
	var summary []string
	if f.Prefix != "" {
		summary = append(summary, i18n.T("keyfield.summary_prefix", map[string]any{"Prefix": f.Prefix}))
	}
	if f.Suffix != "" {
		summary = append(summary, i18n.T("keyfield.summary_suffix", map[string]any{"Suffix": f.Suffix}))
	}
	return summary
}

func (f FingerprintFormatter) wrap(s string) string {
	if s == "" {
		return i18n.T("keyfield.placeholder")
	}
	return f.Prefix + s + f.Suffix
}

// NameFormatter renders the item name, falling back to the fingerprint.
type NameFormatter struct {
	FingerprintFormatter
}

// Format renders the name or fingerprint of it.
func (f NameFormatter) Format(it Item) string {
	if it.Name != "" {
		return f.wrap(it.Name)
	}
	return f.wrap(it.Fingerprint)
}

// FormatAll renders every item in order.
func (f NameFormatter) FormatAll(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = f.Format(it)
	}
	return out
}
