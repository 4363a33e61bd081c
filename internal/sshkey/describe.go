// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"crypto/dsa" //nolint:staticcheck // ssh-dss keys still show up in the wild
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// KeyInfo describes the structure of a decoded public key blob.
type KeyInfo struct {
	Type string
	Bits int
	MD5  string
	SHA  string
}

// Describe parses decoded key bytes as an SSH wire-format public key and
// reports its type and size. Only the structure is inspected; nothing is
// signed or verified.
func Describe(decoded []byte) (KeyInfo, error) {
	if decoded == nil {
		return KeyInfo{}, ErrNoKeyBytes
	}
	pk, err := ssh.ParsePublicKey(decoded)
	if err != nil {
		return KeyInfo{}, fmt.Errorf("failed to parse public key blob: %w", err)
	}
	info := KeyInfo{
		Type: pk.Type(),
		MD5:  FingerprintMD5(decoded),
		SHA:  FingerprintSHA256(decoded),
	}
	if cpk, ok := pk.(ssh.CryptoPublicKey); ok {
		switch k := cpk.CryptoPublicKey().(type) {
		case *rsa.PublicKey:
			info.Bits = k.N.BitLen()
		case *dsa.PublicKey:
			info.Bits = k.P.BitLen()
		case *ecdsa.PublicKey:
			info.Bits = k.Curve.Params().BitSize
		case ed25519.PublicKey:
			info.Bits = 256
		}
	}
	return info, nil
}

// CheckAlgorithmStrength returns a warning for key types that modern OpenSSH
// refuses by default, or "" when the key is fine.
func CheckAlgorithmStrength(info KeyInfo) string {
	switch info.Type {
	case ssh.KeyAlgoDSA:
		return "ssh-dss keys are disabled by default since OpenSSH 7.0"
	case ssh.KeyAlgoRSA:
		if info.Bits > 0 && info.Bits < 2048 {
			return fmt.Sprintf("RSA key of %d bits is below the recommended 2048", info.Bits)
		}
	}
	return ""
}
