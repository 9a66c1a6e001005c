package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port              int
	Store             string
	DatabaseURL       string
	SeedFile          string
	CurrentMemberID   string
	AllowMemberHeader bool
	AllowClosedVoting bool
	LogFormat         string
	LogLevel          string
	EnvFile           string
}

// ParseFlags parses CLI args, loads the .env file and fills anything not
// given on the command line from the environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	flagSet := pflag.NewFlagSet("boardroom", pflag.ContinueOnError)

	// Network and storage
	flagSet.IntVarP(&cfg.Port, "port", "p", 3318, "Server port")
	flagSet.StringVarP(&cfg.Store, "store", "s", StoreMemory, "Board store (memory or sqlite)")
	flagSet.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "SQLite DSN for the sqlite store")
	flagSet.StringVar(&cfg.SeedFile, "seed", "", "YAML seed file (default: built-in data)")

	// Acting member
	flagSet.StringVar(&cfg.CurrentMemberID, "member", "bm1", "Board member id of the current user")
	flagSet.BoolVar(&cfg.AllowMemberHeader, "allow-member-header", false, "Honor X-Member-ID (development only)")
	flagSet.BoolVar(&cfg.AllowClosedVoting, "allow-closed-voting", false, "Accept votes on closed tallies")

	// Logging
	flagSet.StringVar(&cfg.LogFormat, "log-format", "auto", "Log format (auto, text or json)")
	flagSet.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	flagSet.StringVar(&cfg.EnvFile, "env-file", ".env", "Environment file to load")

	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}

	if !flagSet.Changed("env-file") {
		if v := os.Getenv("ENV_FILE"); v != "" {
			cfg.EnvFile = v
		}
	}
	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if !flagSet.Changed("port") {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		}
	}
	envString(flagSet, "store", "STORE", &cfg.Store)
	envString(flagSet, "database-url", "DATABASE_URL", &cfg.DatabaseURL)
	envString(flagSet, "seed", "SEED_FILE", &cfg.SeedFile)
	envString(flagSet, "member", "CURRENT_MEMBER_ID", &cfg.CurrentMemberID)
	envString(flagSet, "log-format", "LOG_FORMAT", &cfg.LogFormat)
	envString(flagSet, "log-level", "LOG_LEVEL", &cfg.LogLevel)
	if err := envBool(flagSet, "allow-member-header", "ALLOW_MEMBER_HEADER", &cfg.AllowMemberHeader); err != nil {
		return Config{}, err
	}
	if err := envBool(flagSet, "allow-closed-voting", "ALLOW_CLOSED_VOTING", &cfg.AllowClosedVoting); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port out of range: %d", cfg.Port)
	}
	if cfg.Store != StoreMemory && cfg.Store != StoreSQLite {
		return Config{}, fmt.Errorf("unknown store %q (use memory or sqlite)", cfg.Store)
	}
	if cfg.CurrentMemberID == "" {
		return Config{}, errors.New("current member id required (use --member or CURRENT_MEMBER_ID env)")
	}

	return cfg, nil
}

// loadEnvFile reads KEY=value pairs into the environment. Variables that are
// already set win, and a missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func envString(flagSet *pflag.FlagSet, flag, key string, dst *string) {
	if flagSet.Changed(flag) {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envBool(flagSet *pflag.FlagSet, flag, key string, dst *bool) error {
	if flagSet.Changed(flag) {
		return nil
	}
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s env variable", key)
	}
	*dst = b
	return nil
}
