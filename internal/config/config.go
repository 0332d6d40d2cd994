// Package config resolves runtime settings. Sources are applied in order,
// later ones winning: built-in defaults, an optional .env file, the process
// environment, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL     = "CPPHUB_API_URL"
	EnvDataDir    = "CPPHUB_DATA_DIR"
	EnvTimeout    = "CPPHUB_TIMEOUT"
	EnvCatalogTTL = "CPPHUB_CATALOG_TTL"
	EnvDebug      = "CPPHUB_DEBUG"
)

type Config struct {
	APIURL     string
	DataDir    string
	Timeout    time.Duration
	CatalogTTL time.Duration
	Debug      bool

	// EnvFile is the dotenv file consulted before the environment. A
	// missing file is not an error.
	EnvFile string
}

func Default() Config {
	return Config{
		APIURL:     "http://localhost:8000/api",
		DataDir:    filepath.Join(userConfigDir(), "cpphub"),
		Timeout:    10 * time.Second,
		CatalogTTL: 15 * time.Minute,
		EnvFile:    ".env",
	}
}

// DBPath is the SQLite database holding the session and catalog cache.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "cpphub.db")
}

// LogPath is the debug log written while the TUI owns the terminal.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "debug.log")
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api url %q must use http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api url %q has no host", c.APIURL)
	}
	if c.DataDir == "" {
		return errors.New("data dir is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.CatalogTTL <= 0 {
		return fmt.Errorf("catalog ttl must be positive, got %s", c.CatalogTTL)
	}
	return nil
}

// Load builds the configuration from args (usually os.Args[1:]) and
// returns it with the arguments left after the flags.
func Load(args []string) (Config, []string, error) {
	return load(args, os.LookupEnv, os.Stderr)
}

func load(args []string, lookup func(string) (string, bool), usage io.Writer) (Config, []string, error) {
	cfg := Default()

	fset := flag.NewFlagSet("cpphub", flag.ContinueOnError)
	fset.SetOutput(usage)
	var (
		apiURL  = fset.String("api", cfg.APIURL, "base URL of the C++ Hub API")
		dataDir = fset.String("data-dir", cfg.DataDir, "directory for the database and log")
		timeout = fset.Duration("timeout", cfg.Timeout, "per-request HTTP timeout")
		debug   = fset.Bool("debug", cfg.Debug, "log at debug level")
		envFile = fset.String("env", cfg.EnvFile, "dotenv file read before the environment")
	)
	if err := fset.Parse(args); err != nil {
		return Config{}, nil, err
	}
	cfg.EnvFile = *envFile

	fileEnv, err := readEnvFile(cfg.EnvFile)
	if err != nil {
		return Config{}, nil, err
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}
	if err := applyEnv(&cfg, get); err != nil {
		return Config{}, nil, err
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api":
			cfg.APIURL = *apiURL
		case "data-dir":
			cfg.DataDir = *dataDir
		case "timeout":
			cfg.Timeout = *timeout
		case "debug":
			cfg.Debug = *debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fset.Args(), nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

func applyEnv(cfg *Config, get func(string) (string, bool)) error {
	if v, ok := get(EnvAPIURL); ok {
		cfg.APIURL = v
	}
	if v, ok := get(EnvDataDir); ok {
		cfg.DataDir = v
	}
	if v, ok := get(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v, ok := get(EnvCatalogTTL); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCatalogTTL, err)
		}
		cfg.CatalogTTL = d
	}
	if v, ok := get(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		cfg.Debug = b
	}
	return nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
