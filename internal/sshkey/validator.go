// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"bytes"
	"encoding/binary"
)

// InvalidKeyMessage is the single user-facing message reported for every
// rejected key. The message ID "sshkey.invalid" carries its translations.
const InvalidKeyMessage = "This key is not valid."

// Failure classifies why a key was rejected.
type Failure int

const (
	FailureNone Failure = iota
	// FailureMissingField: the algorithm or the blob token is absent.
	FailureMissingField
	// FailureAlgorithmNotAccepted: the algorithm is not in the accepted set.
	FailureAlgorithmNotAccepted
	// FailureMalformedBase64: the blob is not strict standard base64.
	FailureMalformedBase64
	// FailurePrefixMismatch: the decoded blob does not declare the same algorithm.
	FailurePrefixMismatch
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureMissingField:
		return "missing field"
	case FailureAlgorithmNotAccepted:
		return "algorithm not accepted"
	case FailureMalformedBase64:
		return "malformed base64"
	case FailurePrefixMismatch:
		return "algorithm prefix mismatch"
	default:
		return "unknown"
	}
}

// ValidationResult is the outcome of Validate. Reason is empty when Valid.
type ValidationResult struct {
	Valid   bool
	Failure Failure
	Reason  string
}

func invalid(f Failure) ValidationResult {
	return ValidationResult{Failure: f, Reason: InvalidKeyMessage}
}

// AcceptedSet drops empty entries from a caller supplied algorithm list.
func AcceptedSet(algorithms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(algorithms))
	for _, a := range algorithms {
		if a != "" {
			set[a] = struct{}{}
		}
	}
	return set
}

// Validate checks a parsed key against the accepted algorithms. Checks run
// in order and the first failure wins:
//
//  1. algorithm present and accepted
//  2. blob present and strict base64
//  3. decoded blob starts with uint32(len(algorithm)) || algorithm
//
// An empty accepted list rejects every key.
func Validate(p ParsedKey, accepted []string) ValidationResult {
	alg := p.AlgorithmString()
	if alg == "" {
		return invalid(FailureMissingField)
	}
	if _, ok := AcceptedSet(accepted)[alg]; !ok {
		return invalid(FailureAlgorithmNotAccepted)
	}

	blob := p.BlobString()
	if blob == "" {
		return invalid(FailureMissingField)
	}
	decoded, err := DecodeBlob(blob)
	if err != nil {
		return invalid(FailureMalformedBase64)
	}

	if !bytes.HasPrefix(decoded, algorithmPrefix(alg)) {
		return invalid(FailurePrefixMismatch)
	}
	return ValidationResult{Valid: true}
}

// ValidateString parses raw and validates the result.
func ValidateString(raw string, accepted []string) ValidationResult {
	return Validate(Parse(raw), accepted)
}

// algorithmPrefix is the SSH wire encoding of the algorithm name: a 4-byte
// big-endian length followed by the name bytes.
func algorithmPrefix(alg string) []byte {
	prefix := make([]byte, 4, 4+len(alg))
	binary.BigEndian.PutUint32(prefix, uint32(len(alg)))
	return append(prefix, alg...)
}
