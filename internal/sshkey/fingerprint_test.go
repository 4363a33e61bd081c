// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.
package sshkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestFingerprint_KnownAnswers(t *testing.T) {
	in := []byte("abc")
	if got := FingerprintMD5(in); got != "900150983cd24fb0d6963f7d28e17f72" {
		t.Fatalf("md5 = %s", got)
	}
	if got := FingerprintSHA256(in); got != "ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=" {
		t.Fatalf("sha256 = %s", got)
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	b := wireBlob("ssh-ed25519", []byte("payload"))
	if FingerprintMD5(b) != FingerprintMD5(append([]byte(nil), b...)) {
		t.Fatalf("md5 not deterministic")
	}
	if FingerprintSHA256(b) != FingerprintSHA256(append([]byte(nil), b...)) {
		t.Fatalf("sha256 not deterministic")
	}
	if len(FingerprintMD5(b)) != 32 || strings.ToLower(FingerprintMD5(b)) != FingerprintMD5(b) {
		t.Fatalf("md5 must be 32 lowercase hex chars: %s", FingerprintMD5(b))
	}
}

func TestFingerprint_NilBytesPanics(t *testing.T) {
	for name, fn := range map[string]func([]byte) string{
		"md5":    FingerprintMD5,
		"sha256": FingerprintSHA256,
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrNoKeyBytes) {
					t.Fatalf("expected ErrNoKeyBytes panic, got %v", r)
				}
			}()
			fn(nil)
		})
	}
}

func TestDecodeBlob_Strict(t *testing.T) {
	for _, good := range []string{"QUJD", "QQ==", "QUI="} {
		if _, err := DecodeBlob(good); err != nil {
			t.Fatalf("DecodeBlob(%q) unexpected error: %v", good, err)
		}
	}
	// QR== and QUJ= carry non-zero bits after the last full byte.
	for _, bad := range []string{"QU\nJD", "QUJD\r", "QUJ", "QU=D", "QUJD!", "QUJD QUJD", "QR==", "QUJ="} {
		if _, err := DecodeBlob(bad); !errors.Is(err, ErrMalformedBase64) {
			t.Fatalf("DecodeBlob(%q) err = %v, want ErrMalformedBase64", bad, err)
		}
	}
}

// TestFingerprint_MatchesOpenSSH checks both fingerprints against the
// x/crypto/ssh implementations for a freshly generated key.
func TestFingerprint_MatchesOpenSSH(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("NewPublicKey: %v", err)
	}
	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub))) + " alice@example.com"

	p := Parse(line)
	if res := Validate(p, []string{ssh.KeyAlgoED25519}); !res.Valid {
		t.Fatalf("generated key rejected: %v", res.Failure)
	}
	decoded, err := DecodeBlob(p.BlobString())
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}
	if got, want := FormatMD5(FingerprintMD5(decoded)), ssh.FingerprintLegacyMD5(sshPub); got != want {
		t.Fatalf("md5 %s != %s", got, want)
	}
	if got, want := FormatSHA256(FingerprintSHA256(decoded)), ssh.FingerprintSHA256(sshPub); got != want {
		t.Fatalf("sha256 %s != %s", got, want)
	}
	if p.CommentString() != "alice@example.com" {
		t.Fatalf("unexpected comment %q", p.CommentString())
	}
}

func TestDescribe_RSAAndEd25519(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey: %v", err)
	}
	rsaPub, err := ssh.NewPublicKey(&rsaKey.PublicKey)
	if err != nil {
		t.Fatalf("NewPublicKey: %v", err)
	}
	line := "ssh-rsa " + base64.StdEncoding.EncodeToString(rsaPub.Marshal()) + " user@host"
	if res := ValidateString(line, []string{"ssh-rsa"}); !res.Valid {
		t.Fatalf("rsa key rejected: %v", res.Failure)
	}
	info, err := Describe(rsaPub.Marshal())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if info.Type != ssh.KeyAlgoRSA || info.Bits != 2048 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if w := CheckAlgorithmStrength(info); w != "" {
		t.Fatalf("did not expect warning, got %q", w)
	}

	edPub, _, _ := ed25519.GenerateKey(rand.Reader)
	sshEd, _ := ssh.NewPublicKey(edPub)
	info, err = Describe(sshEd.Marshal())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if info.Type != ssh.KeyAlgoED25519 || info.Bits != 256 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.MD5 != FingerprintMD5(sshEd.Marshal()) {
		t.Fatalf("md5 mismatch in KeyInfo")
	}
}

func TestDescribe_Errors(t *testing.T) {
	if _, err := Describe(nil); !errors.Is(err, ErrNoKeyBytes) {
		t.Fatalf("expected ErrNoKeyBytes, got %v", err)
	}
	// Valid prefix, garbage body.
	if _, err := Describe(wireBlob("ssh-ed25519", []byte{1, 2})); err == nil {
		t.Fatalf("expected parse error for truncated ed25519 blob")
	}
	if w := CheckAlgorithmStrength(KeyInfo{Type: "ssh-dss", Bits: 1024}); w == "" {
		t.Fatalf("expected warning for ssh-dss")
	}
}

func TestFormatMD5(t *testing.T) {
	if got := FormatMD5("900150983cd24fb0d6963f7d28e17f72"); got != "90:01:50:98:3c:d2:4f:b0:d6:96:3f:7d:28:e1:7f:72" {
		t.Fatalf("unexpected: %s", got)
	}
}
