// Copyright (c) 2026 Kyle McDowell.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3414)
  - DatabaseURL: Connection string (defaults to file:tablepick.db for sqlite)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - HostKeySalt: Secret for host key HMAC (required)
  - BatchSize: Default pass-the-phone batch size (0 = engine default)
  - SingleDevice: Whether sessions run on one shared phone (default: true)
  - Seed: Seed the sample restaurant catalog on startup

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type (sqlite or postgres)
	-batch          Pass-the-phone batch size
	-single-device  true/false
	-seed           Seed sample catalog
	-host-salt      Host key salt

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	BATCH_SIZE    → -batch
	SINGLE_DEVICE → -single-device
	HOST_KEY_SALT → -host-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - HOST_KEY_SALT must be provided
  - DATABASE_URL must be provided when the database type is postgres

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(db, cfg)
*/
package cliparse
