// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package keyfield

import (
	"crypto/md5"
	"encoding/hex"
	"unicode/utf8"

	"github.com/toeirei/sshkeyfield/internal/sshkey"
)

// MaxNameLength is the maximum length of Item.Name in characters.
const MaxNameLength = 128

// Item is one SSH key value with its derived columns. Fingerprint is always
// a function of Value; Name is set once and then only changed explicitly.
type Item struct {
	Value       string
	Fingerprint string
	Name        string
}

// New returns an item for value. A non-empty name is kept as is; otherwise
// the fallback name is derived from the value.
func New(value, name string) Item {
	it := Item{Name: name}
	it.SetValue(value)
	return it
}

// Restore rebuilds an item from stored columns without recomputing anything.
func Restore(value, fingerprint, name string) Item {
	return Item{Value: value, Fingerprint: fingerprint, Name: name}
}

// SetValue replaces the raw value. The fingerprint is recomputed first and
// then, if the item has no name yet, a fallback name is assigned.
func (it *Item) SetValue(value string) {
	it.Value = value
	it.Fingerprint = Fingerprint(value)
	it.initName()
}

// Rename sets the display name explicitly.
func (it *Item) Rename(name string) {
	it.Name = name
}

func (it *Item) initName() {
	if it.Name != "" || it.Value == "" {
		return
	}
	it.Name = truncate(DefaultName(it.Value, it.Fingerprint), MaxNameLength)
}

// IsEmpty reports whether the item holds no key.
func (it Item) IsEmpty() bool {
	return it.Value == ""
}

// Parsed returns the decomposed value.
func (it Item) Parsed() sshkey.ParsedKey {
	return sshkey.Parse(it.Value)
}

// FingerprintSHA256 returns the SHA-256 identifier of the decoded key, or ""
// when the value holds no decodable blob.
func (it Item) FingerprintSHA256() string {
	decoded, ok := decodeValue(it.Value)
	if !ok {
		return ""
	}
	return sshkey.FingerprintSHA256(decoded)
}

// Fingerprint derives the stored fingerprint column from a raw value: the
// MD5 of the decoded blob when it decodes, otherwise the MD5 of the raw
// text so that rows holding rejected input still carry an identifier.
// The empty value has no fingerprint.
func Fingerprint(value string) string {
	if value == "" {
		return ""
	}
	if decoded, ok := decodeValue(value); ok {
		return sshkey.FingerprintMD5(decoded)
	}
	return LegacyFingerprint(value)
}

// LegacyFingerprint is the MD5 hex digest of the raw value text.
func LegacyFingerprint(value string) string {
	sum := md5.Sum([]byte(value))
	return hex.EncodeToString(sum[:])
}

// DefaultName is the name given to an unnamed item: the key comment when
// there is one, otherwise the fingerprint.
func DefaultName(value, fingerprint string) string {
	if c := sshkey.Parse(value).CommentString(); c != "" {
		return c
	}
	return fingerprint
}

func decodeValue(value string) ([]byte, bool) {
	p := sshkey.Parse(value)
	if p.Blob == nil {
		return nil, false
	}
	decoded, err := sshkey.DecodeBlob(*p.Blob)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
