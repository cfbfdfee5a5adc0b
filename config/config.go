// Package config resolves run settings and the store credential.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// environment variables (a .env file in the working directory is loaded into
// the environment first). Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Renderer kinds
const (
	RendererChrome = "chrome"
	RendererHTTP   = "http"
)

// Config holds every tunable of a run
type Config struct {
	URL string `yaml:"url"`
	// Settle is the fixed wait for client-side rendering
	Settle time.Duration `yaml:"settle"`
	// ZeroThreshold aborts a run when this many scraped fields read zero
	ZeroThreshold int    `yaml:"zero_threshold"`
	Renderer      string `yaml:"renderer"`
	ChromePath    string `yaml:"chrome_path"`
	UserAgent     string `yaml:"user_agent"`

	// Zero timeouts block indefinitely
	RenderTimeout  time.Duration `yaml:"render_timeout"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`

	DatabaseURL     string `yaml:"database_url"`
	Path            string `yaml:"path"`
	CredentialsFile string `yaml:"credentials_file"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	HistoryPath string `yaml:"history_path"`
	Port        string `yaml:"port"`
}

// Default returns the settings the scraper ships with
func Default() Config {
	return Config{
		URL:             "https://metaplanet.jp/jp/analytics",
		Settle:          15 * time.Second,
		ZeroThreshold:   2,
		Renderer:        RendererChrome,
		DatabaseURL:     "https://metaplanet-mnav-default-rtdb.firebaseio.com/",
		Path:            "/params",
		CredentialsFile: "serviceAccountKey.json",
		RedisPrefix:     "mnav:",
		Port:            "8000",
	}
}

// Load builds a Config from defaults, the YAML file at path (if non-empty),
// .env and the environment
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, &InitError{Op: "read config", Err: err}
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, &InitError{Op: "parse config", Err: err}
		}
	}

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, &InitError{Op: "load .env", Err: err}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("MNAV_URL", &c.URL)
	str("MNAV_RENDERER", &c.Renderer)
	str("MNAV_CHROME_PATH", &c.ChromePath)
	str("FIREBASE_DATABASE_URL", &c.DatabaseURL)
	str("MNAV_PATH", &c.Path)
	str("MNAV_CREDENTIALS_FILE", &c.CredentialsFile)
	str("MNAV_REDIS_ADDR", &c.RedisAddr)
	str("MNAV_REDIS_PASSWORD", &c.RedisPassword)
	str("MNAV_HISTORY_PATH", &c.HistoryPath)
	str("PORT", &c.Port)

	if v, ok := lookup("MNAV_SETTLE"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &InitError{Op: "parse MNAV_SETTLE", Err: err}
		}
		c.Settle = d
	}
	if v, ok := lookup("MNAV_ZERO_THRESHOLD"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &InitError{Op: "parse MNAV_ZERO_THRESHOLD", Err: err}
		}
		c.ZeroThreshold = n
	}

	return nil
}

// Validate rejects settings a run cannot use
func (c Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InitError{Op: "validate url", Err: fmt.Errorf("invalid page url %q", c.URL)}
	}
	if c.Settle < 0 {
		return &InitError{Op: "validate settle", Err: fmt.Errorf("settle must not be negative, got %s", c.Settle)}
	}
	if c.ZeroThreshold < 1 {
		return &InitError{Op: "validate zero_threshold", Err: fmt.Errorf("zero threshold must be at least 1, got %d", c.ZeroThreshold)}
	}
	if c.Renderer != RendererChrome && c.Renderer != RendererHTTP {
		return &InitError{Op: "validate renderer", Err: fmt.Errorf("unknown renderer %q", c.Renderer)}
	}
	if c.Path == "" {
		return &InitError{Op: "validate path", Err: errors.New("document path is empty")}
	}
	return nil
}
