// Package config loads runtime configuration for the credvault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   credentials (blob) directory
//	-k string   keys directory
//	-p string   profiles database file
//	-l string   audit log file
//	-t int      session idle timeout (seconds)
//	-v string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so "5m" and integer nanoseconds both work.
// Fields left out keep their earlier value.
//
//	{
//	  "credentials_dir": "/mnt/usb/credentials",
//	  "keys_dir": "/home/bob/.credvault/keys",
//	  "profiles_db": "/home/bob/.credvault/profiles.db",
//	  "audit_log": "/home/bob/.credvault/audit.log",
//	  "session_timeout": "5m",
//	  "log_level": "warn"
//	}
//
// The credentials and keys directories should live on different storage.
package config
