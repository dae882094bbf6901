package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "credentials", c.CredentialsDir)
	assert.Equal(t, "keys", c.KeysDir)
	assert.Equal(t, "profiles.db", c.ProfilesDB)
	assert.Equal(t, "audit.log", c.AuditLog)
	assert.Equal(t, 5*time.Minute, c.SessionTimeout)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadConfig_WithoutArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"credvault"}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "credentials", cfg.CredentialsDir)
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout)
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"credentials_dir": "/mnt/usb/creds",
		"keys_dir":        "/home/bob/keys",
		"session_timeout": "90s",
	})

	t.Run("partial overlay", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", path}))

		assert.Equal(t, "/mnt/usb/creds", cfg.CredentialsDir)
		assert.Equal(t, "/home/bob/keys", cfg.KeysDir)
		assert.Equal(t, 90*time.Second, cfg.SessionTimeout)
		assert.Equal(t, "profiles.db", cfg.ProfilesDB, "absent fields keep their value")
	})

	t.Run("no config flag", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-d", "x"}))
		assert.Equal(t, "credentials", cfg.CredentialsDir)
	})

	t.Run("nanosecond duration", func(t *testing.T) {
		p := writeTempJSON(t, map[string]any{"session_timeout": int64(2 * time.Minute)})
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config=" + p}))
		assert.Equal(t, 2*time.Minute, cfg.SessionTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{}
		require.Error(t, parseJson(cfg, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})

	t.Run("invalid json", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(p, []byte("{"), 0o600))
		cfg := &Config{}
		require.Error(t, parseJson(cfg, []string{"-c", p}))
	})
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, c *Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-d", "/a", "-k", "/b", "-p", "p.db", "-l", "a.log", "-t", "30", "-v", "debug"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "/a", c.CredentialsDir)
				assert.Equal(t, "/b", c.KeysDir)
				assert.Equal(t, "p.db", c.ProfilesDB)
				assert.Equal(t, "a.log", c.AuditLog)
				assert.Equal(t, 30*time.Second, c.SessionTimeout)
				assert.Equal(t, "debug", c.LogLevel)
			},
		},
		{
			name: "unknown flags ignored",
			args: []string{"-c", "cfg.json", "-x", "-k=/keys"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "/keys", c.KeysDir)
				assert.Equal(t, "credentials", c.CredentialsDir)
			},
		},
		{name: "bad timeout", args: []string{"-t", "soon"}, wantErr: true},
		{name: "zero timeout", args: []string{"-t", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.LoadDefaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_FlagsOverrideJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"credentials_dir": "/from/json",
		"audit_log":       "/from/json/audit.log",
	})

	cfg, err := load([]string{"-c", path, "-d", "/from/flags"})
	require.NoError(t, err)
	assert.Equal(t, "/from/flags", cfg.CredentialsDir)
	assert.Equal(t, "/from/json/audit.log", cfg.AuditLog)
}
