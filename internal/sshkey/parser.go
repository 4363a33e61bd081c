// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"strings"
	"unicode"
)

// ParsedKey is the decomposition of a raw key line. A nil field means the
// corresponding segment was not present in the input.
type ParsedKey struct {
	Algorithm *string
	Blob      *string
	Comment   *string
}

// Parse splits a raw public key line into algorithm, base64 blob and comment.
// Runs of whitespace delimit the first two fields. Whatever follows the blob
// becomes the comment verbatim, minus its leading whitespace, so spacing
// inside the comment survives. Parse is total: missing segments stay nil.
func Parse(raw string) ParsedKey {
	var p ParsedKey

	alg, rest, ok := nextField(raw)
	if !ok {
		return p
	}
	p.Algorithm = &alg

	blob, rest, ok := nextField(rest)
	if !ok {
		return p
	}
	p.Blob = &blob

	if comment := strings.TrimLeftFunc(rest, unicode.IsSpace); comment != "" {
		p.Comment = &comment
	}
	return p
}

// nextField returns the first whitespace-delimited token of s and the
// unconsumed remainder, which still starts with the delimiting whitespace.
func nextField(s string) (field, rest string, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return "", "", false
	}
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, "", true
	}
	return s[:end], s[end:], true
}

// AlgorithmString returns the algorithm token or "" when absent.
func (p ParsedKey) AlgorithmString() string { return deref(p.Algorithm) }

// BlobString returns the encoded blob or "" when absent.
func (p ParsedKey) BlobString() string { return deref(p.Blob) }

// CommentString returns the comment or "" when absent.
func (p ParsedKey) CommentString() string { return deref(p.Comment) }

// String reassembles the present fields separated by single spaces.
func (p ParsedKey) String() string {
	parts := make([]string, 0, 3)
	for _, f := range []*string{p.Algorithm, p.Blob, p.Comment} {
		if f == nil {
			break
		}
		parts = append(parts, *f)
	}
	return strings.Join(parts, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
