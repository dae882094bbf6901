package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/credvault/internal/flagx"
	"github.com/dmitrijs2005/credvault/internal/timex"
)

// JsonConfig is the on-disk form of Config. Pointer fields tell "absent"
// apart from "empty".
type JsonConfig struct {
	CredentialsDir *string         `json:"credentials_dir"`
	KeysDir        *string         `json:"keys_dir"`
	ProfilesDB     *string         `json:"profiles_db"`
	AuditLog       *string         `json:"audit_log"`
	SessionTimeout *timex.Duration `json:"session_timeout"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file given by -c/-config in args.
// Without such a flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFromArgs(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.CredentialsDir, jc.CredentialsDir)
	setString(&cfg.KeysDir, jc.KeysDir)
	setString(&cfg.ProfilesDB, jc.ProfilesDB)
	setString(&cfg.AuditLog, jc.AuditLog)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.SessionTimeout != nil {
		cfg.SessionTimeout = jc.SessionTimeout.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
