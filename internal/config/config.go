package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultAPIKeyEnv is the environment variable holding the API credential.
const DefaultAPIKeyEnv = "OPEN_API_KEY_COMMIT"

// DefaultMaxDiffChars is the character budget for the diff embedded in the prompt.
const DefaultMaxDiffChars = 4000

// Config represents the quill configuration.
type Config struct {
	Model            string        `yaml:"model" json:"model"`
	APIURL           string        `yaml:"apiURL" json:"apiURL"`
	APIKeyEnv        string        `yaml:"apiKeyEnv" json:"apiKeyEnv"`
	MaxDiffChars     int           `yaml:"maxDiffChars" json:"maxDiffChars"`
	ContextLines     int           `yaml:"contextLines" json:"contextLines"`
	Include          []string      `yaml:"include" json:"include"`
	Exclude          []string      `yaml:"exclude" json:"exclude"`
	TimeoutSeconds   int           `yaml:"timeoutSeconds" json:"timeoutSeconds"`
	Retries          int           `yaml:"retries" json:"retries"`
	MaxTokens        int           `yaml:"maxTokens" json:"maxTokens"`
	Temperature      float64       `yaml:"temperature" json:"temperature"`
	Language         string        `yaml:"language" json:"language"`
	NamingConvention string        `yaml:"namingConvention" json:"namingConvention"`
	Cache            CacheConfig   `yaml:"cache" json:"cache"`
	Privacy          PrivacyConfig `yaml:"privacy" json:"privacy"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Dir        string `yaml:"dir,omitempty" json:"dir,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds" json:"ttlSeconds"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool     `yaml:"redactSecrets" json:"redactSecrets"`
	RedactPaths   []string `yaml:"redactPaths,omitempty" json:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Model:            "gpt-4o-mini",
		APIURL:           "https://api.chatanywhere.org/v1/chat/completions",
		APIKeyEnv:        DefaultAPIKeyEnv,
		MaxDiffChars:     DefaultMaxDiffChars,
		Include:          []string{"**/*"},
		Exclude:          []string{"**/*.min.*"},
		TimeoutSeconds:   120,
		Retries:          2,
		Language:         "Traditional Chinese",
		NamingConvention: "lowerCamelCase",
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// APIKey returns the credential from the configured environment variable.
func (c Config) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model must not be empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("apiURL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.APIKeyEnv == "" {
		return errors.New("apiKeyEnv must not be empty")
	}
	if c.MaxDiffChars < 0 {
		return fmt.Errorf("maxDiffChars must be >= 0, got %d", c.MaxDiffChars)
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("contextLines must be >= 0, got %d", c.ContextLines)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeoutSeconds must be > 0, got %d", c.TimeoutSeconds)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0, got %d", c.Retries)
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for quill.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quill"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "quill"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "quill"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "quill"), nil
	default:
		return filepath.Join(home, ".config", "quill"), nil
	}
}

// ConfigPath returns the full path to the config file. QUILL_CONFIG wins
// over the platform default.
func ConfigPath() (string, error) {
	if p := os.Getenv("QUILL_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile returns the defaults overlaid with the config file. A missing
// file yields the defaults.
func LoadFile() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	// yaml.v3 leaves keys absent from the file untouched, so explicit
	// false values survive and unset ones keep their defaults.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- .env/env <- overrides.
// The overrides map comes from CLI flags (only flags given explicitly).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := LoadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set are not overridden; a missing file is not
// an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("QUILL_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("QUILL_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("QUILL_API_KEY_ENV"); v != "" {
		cfg.APIKeyEnv = v
	}
	if v := os.Getenv("QUILL_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("QUILL_MAX_DIFF_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffChars = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["apiURL"]; ok && v != "" {
		cfg.APIURL = v
	}
	if v, ok := overrides["language"]; ok && v != "" {
		cfg.Language = v
	}
	if v, ok := overrides["maxDiffChars"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffChars = n
		}
	}
	if v, ok := overrides["contextLines"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ContextLines = n
		}
	}
	if v, ok := overrides["exclude"]; ok && v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Exclude = append(cfg.Exclude, p)
			}
		}
	}
}

// SetField sets a single config field by its YAML key. Nested keys use dots
// ("cache.enabled"); list values are comma-separated. Returns an error if the
// key is unknown or the value does not fit the field.
func SetField(cfg *Config, key, value string) error {
	parts := strings.Split(key, ".")
	var input any = value
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "" {
			return fmt.Errorf("unknown config key: %s", key)
		}
		input = map[string]any{parts[i]: input}
	}

	next := *cfg
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		if strings.Contains(err.Error(), "invalid keys") {
			return fmt.Errorf("unknown config key: %s", key)
		}
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	*cfg = next
	return nil
}
