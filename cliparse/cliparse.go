package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	HostKeySalt  string
	BatchSize    int
	SingleDevice bool
	Seed         bool
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("tablepick", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Session defaults
	fs.IntVar(&cfg.BatchSize, "batch", 0, "Pass-the-phone batch size")
	singleDevice := fs.String("single-device", "", "Sessions run on one shared phone (true/false)")
	fs.BoolVar(&cfg.Seed, "seed", false, "Seed the sample restaurant catalog on startup")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.HostKeySalt, "host-salt", "", "Host key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3414 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// SQLite can run off a local file out of the box; Postgres needs a URL.
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:tablepick.db"
	}

	if cfg.BatchSize == 0 {
		if batchStr := os.Getenv("BATCH_SIZE"); batchStr != "" {
			batch, err := strconv.Atoi(batchStr)
			if err != nil {
				return Config{}, errors.New("invalid BATCH_SIZE env variable")
			}
			cfg.BatchSize = batch
		}
	}
	if cfg.BatchSize < 0 {
		return Config{}, errors.New("batch size must be positive")
	}

	switch *singleDevice {
	case "":
		cfg.SingleDevice = os.Getenv("SINGLE_DEVICE") != "false"
	case "true":
		cfg.SingleDevice = true
	case "false":
		cfg.SingleDevice = false
	default:
		return Config{}, errors.New("single-device must be true or false")
	}

	// Secrets - MUST be provided
	if cfg.HostKeySalt == "" {
		cfg.HostKeySalt = os.Getenv("HOST_KEY_SALT")
	}
	if cfg.HostKeySalt == "" {
		return Config{}, errors.New("HOST_KEY_SALT required")
	}

	return cfg, nil
}
