package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the credvault CLI.
type Config struct {
	CredentialsDir string
	KeysDir        string
	ProfilesDB     string
	AuditLog       string
	SessionTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with defaults relative to the working directory.
func (c *Config) LoadDefaults() {
	c.CredentialsDir = "credentials"
	c.KeysDir = "keys"
	c.ProfilesDB = "profiles.db"
	c.AuditLog = "audit.log"
	c.SessionTimeout = 5 * time.Minute
	c.LogLevel = "warn"
}

// LoadConfig builds a Config from defaults, then the JSON file named on the
// command line (if any), then command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
