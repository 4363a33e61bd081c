package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/toeirei/sshkeyfield/internal/config"
)

// isolate points the user config dir and cwd at a fresh temp directory so no
// real sshkeyfield.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	t.Setenv("APPDATA", tmp)
	t.Chdir(tmp)
	return tmp
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
	if c.Database.Type != "sqlite" || c.Language != "en" {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if strings.Join(c.Field.Algorithms, ",") != "ssh-rsa,ssh-ed25519" {
		t.Fatalf("unexpected default algorithms: %v", c.Field.Algorithms)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := isolate(t)
	yaml := "database:\n  type: postgres\n  dsn: postgresql://user@/db\nlanguage: de\nfield:\n  algorithms:\n    - ssh-ed25519\nformat:\n  prefix: \"[\"\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Database.Type != "postgres" || c.Language != "de" || c.Format.Prefix != "[" {
		t.Fatalf("file values not applied: %+v", c)
	}
	if len(c.Field.Algorithms) != 1 || c.Field.Algorithms[0] != "ssh-ed25519" {
		t.Fatalf("unexpected algorithms: %v", c.Field.Algorithms)
	}
}

func TestLoadConfig_EnvAndFlagsOverride(t *testing.T) {
	isolate(t)
	t.Setenv("SSHKEYFIELD_LANGUAGE", "de")

	cmd := &cobra.Command{}
	cmd.Flags().String("db-type", "sqlite", "")
	if err := cmd.Flags().Set("db-type", "mysql"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	c, _ := cfg.LoadConfig[cfg.Config](cmd, cfg.Defaults(), nil)
	if c.Language != "de" {
		t.Fatalf("env override not applied: %q", c.Language)
	}
	if c.Database.Type != "mysql" {
		t.Fatalf("flag override not applied: %q", c.Database.Type)
	}
}

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	tmp := isolate(t)

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.Dsn = "./keys.db"
	c.Language = "en"
	c.Field.Algorithms = []string{"ssh-rsa"}

	path := filepath.Join(tmp, "out", "sshkeyfield.yaml")
	if err := cfg.WriteConfigFileTo(&c, path); err != nil {
		t.Fatalf("WriteConfigFileTo failed: %v", err)
	}
	got, err := cfg.LoadConfig[cfg.Config](nil, cfg.Defaults(), &path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.Database.Dsn != "./keys.db" || len(got.Field.Algorithms) != 1 {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestGetConfigPath_UserDir(t *testing.T) {
	tmp := isolate(t)
	p, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath: %v", err)
	}
	if !strings.HasPrefix(p, tmp) || filepath.Base(p) != "sshkeyfield.yaml" {
		t.Fatalf("unexpected path %s", p)
	}
}
