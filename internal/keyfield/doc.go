// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keyfield models a stored SSH key value together with its derived
// fingerprint and display name, the per-field settings that decide which
// algorithms are accepted, and the formatters used to render an item.
package keyfield
