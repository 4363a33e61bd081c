// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	// ErrMalformedBase64 is returned by DecodeBlob for anything that is not
	// canonical, padded, standard-alphabet base64.
	ErrMalformedBase64 = errors.New("sshkey: malformed base64 blob")
	// ErrNoKeyBytes is the panic value of the fingerprint functions when they
	// are called without decoded key bytes. It marks a wiring defect.
	ErrNoKeyBytes = errors.New("sshkey: fingerprint requested without decoded key bytes")
)

// DecodeBlob strictly decodes a base64 key blob. Padding is required and
// the trailing bits must be zero. Embedded CR and LF are rejected, which
// the Strict decoder alone would still skip.
func DecodeBlob(blob string) ([]byte, error) {
	if strings.ContainsAny(blob, "\r\n") {
		return nil, ErrMalformedBase64
	}
	b, err := base64.StdEncoding.Strict().DecodeString(blob)
	if err != nil {
		return nil, ErrMalformedBase64
	}
	return b, nil
}

// FingerprintMD5 returns the lowercase hex MD5 digest of the decoded key
// bytes. MD5 is kept only for compatibility with legacy stored identifiers.
func FingerprintMD5(b []byte) string {
	if b == nil {
		panic(ErrNoKeyBytes)
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// FingerprintSHA256 returns the padded standard base64 encoding of the
// SHA-256 digest of the decoded key bytes.
func FingerprintSHA256(b []byte) string {
	if b == nil {
		panic(ErrNoKeyBytes)
	}
	sum := sha256.Sum256(b)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// FormatMD5 renders a hex MD5 fingerprint in the colon separated form
// printed by older OpenSSH releases.
func FormatMD5(hexDigest string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(hexDigest); i += 2 {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(hexDigest[i : i+2])
	}
	return sb.String()
}

// FormatSHA256 renders a SHA-256 fingerprint the way ssh-keygen -l does.
func FormatSHA256(b64Digest string) string {
	return "SHA256:" + strings.TrimRight(b64Digest, "=")
}
