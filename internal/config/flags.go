package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/credvault/internal/flagx"
)

var knownFlags = []string{"-d", "-k", "-p", "-l", "-t", "-v"}

// parseFlags applies the flags this package owns; everything else in args
// is ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("credvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.CredentialsDir, "d", cfg.CredentialsDir, "credentials directory")
	fs.StringVar(&cfg.KeysDir, "k", cfg.KeysDir, "keys directory")
	fs.StringVar(&cfg.ProfilesDB, "p", cfg.ProfilesDB, "profiles database file")
	fs.StringVar(&cfg.AuditLog, "l", cfg.AuditLog, "audit log file")
	timeout := fs.Int("t", int(cfg.SessionTimeout.Seconds()), "session idle timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *timeout <= 0 {
		return fmt.Errorf("session timeout must be positive, got %d", *timeout)
	}
	cfg.SessionTimeout = time.Duration(*timeout) * time.Second
	return nil
}
