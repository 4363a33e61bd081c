// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time, e.g.
//
//	go build -ldflags "-X github.com/toeirei/sshkeyfield/buildvars.Version=v0.3.0 -X github.com/toeirei/sshkeyfield/buildvars.Commit=$(git rev-parse --short HEAD)"
//
// They are empty for local or development builds.
package buildvars

var (
	Version string
	Commit  string
	Date    string
)

// VersionOrDefault returns Version if set, otherwise def.
func VersionOrDefault(def string) string { return orDefault(Version, def) }

// CommitOrDefault returns Commit if set, otherwise def.
func CommitOrDefault(def string) string { return orDefault(Commit, def) }

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
