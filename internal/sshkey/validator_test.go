// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.
package sshkey

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
	"testing"
)

// wireBlob builds a minimal SSH wire blob: the length-prefixed algorithm
// name followed by an opaque payload.
func wireBlob(alg string, payload []byte) []byte {
	b := make([]byte, 4, 4+len(alg)+len(payload))
	binary.BigEndian.PutUint32(b, uint32(len(alg)))
	b = append(b, alg...)
	return append(b, payload...)
}

func encodedBlob(t *testing.T, alg string, payload []byte) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(wireBlob(alg, payload))
}

var allAlgorithms = []string{"ssh-rsa", "ssh-dss", "ssh-ed25519"}

func TestValidate_Table(t *testing.T) {
	rsaBlob := encodedBlob(t, "ssh-rsa", []byte{0, 0, 0, 3, 1, 0, 1})
	dssBlob := encodedBlob(t, "ssh-dss", []byte{0, 0, 0, 1, 7})
	edBlob := encodedBlob(t, "ssh-ed25519", make([]byte, 36))

	cases := []struct {
		name     string
		raw      string
		accepted []string
		want     Failure
	}{
		{"valid rsa", "ssh-rsa " + rsaBlob + " user@host", []string{"ssh-rsa"}, FailureNone},
		{"valid ed25519 no comment", "ssh-ed25519 " + edBlob, allAlgorithms, FailureNone},
		{"empty input", "", allAlgorithms, FailureMissingField},
		{"whitespace only", "  \t ", allAlgorithms, FailureMissingField},
		{"algorithm only", "ssh-rsa", allAlgorithms, FailureMissingField},
		{"not accepted", "ssh-dss " + dssBlob, []string{"ssh-rsa", "ssh-ed25519"}, FailureAlgorithmNotAccepted},
		{"empty accepted set", "ssh-rsa " + rsaBlob, nil, FailureAlgorithmNotAccepted},
		{"only empty entries accepted", "ssh-rsa " + rsaBlob, []string{"", ""}, FailureAlgorithmNotAccepted},
		{"bad alphabet", "ssh-rsa not-base64!!! comment", []string{"ssh-rsa"}, FailureMalformedBase64},
		{"bad padding", "ssh-rsa " + strings.TrimRight(rsaBlob, "=") + "=", []string{"ssh-rsa"}, FailureMalformedBase64},
		{"truncated", "ssh-rsa " + rsaBlob[:len(rsaBlob)-1], []string{"ssh-rsa"}, FailureMalformedBase64},
		{"forged algorithm", "ssh-rsa " + dssBlob, allAlgorithms, FailurePrefixMismatch},
		{"not a key blob", "ssh-rsa " + base64.StdEncoding.EncodeToString([]byte("hello world")), allAlgorithms, FailurePrefixMismatch},
		{"blob shorter than prefix", "ssh-rsa AAAA", allAlgorithms, FailurePrefixMismatch},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := ValidateString(c.raw, c.accepted)
			if res.Failure != c.want {
				t.Fatalf("failure = %v, want %v", res.Failure, c.want)
			}
			if res.Valid != (c.want == FailureNone) {
				t.Fatalf("valid = %v for failure %v", res.Valid, res.Failure)
			}
			if res.Valid && res.Reason != "" {
				t.Fatalf("expected empty reason on success, got %q", res.Reason)
			}
			if !res.Valid && res.Reason != InvalidKeyMessage {
				t.Fatalf("unexpected reason %q", res.Reason)
			}
		})
	}
}

func TestValidate_DeterministicAndSideEffectFree(t *testing.T) {
	accepted := []string{"ssh-ed25519"}
	raw := "ssh-ed25519 " + encodedBlob(t, "ssh-ed25519", make([]byte, 36)) + " a"
	first := ValidateString(raw, accepted)
	second := ValidateString(raw, accepted)
	if first != second {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	if len(accepted) != 1 || accepted[0] != "ssh-ed25519" {
		t.Fatalf("accepted slice was modified: %v", accepted)
	}
}

func TestValidate_AdversarialInputDoesNotPanic(t *testing.T) {
	big := strings.Repeat("A", 1<<20)
	inputs := []string{
		"ssh-rsa " + big,
		"ssh-rsa " + big + "=",
		"ssh-rsa AAAA \xff\xfe\xfd",
		"\xff\xfe \xfd",
		"ssh-rsa ====",
		"ssh-rsa =",
	}
	for _, in := range inputs {
		res := ValidateString(in, allAlgorithms)
		if res.Valid {
			t.Fatalf("expected invalid for adversarial input of len %d", len(in))
		}
	}
}

func TestFailure_String(t *testing.T) {
	if FailurePrefixMismatch.String() != "algorithm prefix mismatch" {
		t.Fatalf("unexpected: %s", FailurePrefixMismatch)
	}
	if Failure(99).String() != "unknown" {
		t.Fatalf("unexpected: %s", Failure(99))
	}
}
