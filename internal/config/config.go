package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultListenAddr    = ":8750"
	DefaultHoverDelay    = 150 * time.Millisecond
	DefaultOffsetX       = 20
	DefaultOffsetY       = 20
	DefaultPlaceholderW  = 120
	DefaultPlaceholderH  = 90
	DefaultCacheCapacity = 50
	DefaultLoadTimeout   = 10 * time.Second
	DefaultMaxBodyBytes  = 20 << 20
	DefaultAuthHeader    = "x-api-key"
)

// Config is the top-level daemon configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Daemon  DaemonConfig  `yaml:"daemon"`
	Preview PreviewConfig `yaml:"preview"`
	Cache   CacheConfig   `yaml:"cache"`
	Loader  LoaderConfig  `yaml:"loader"`
	Matcher MatcherConfig `yaml:"matcher"`
}

// DaemonConfig holds process-level settings.
type DaemonConfig struct {
	// ListenAddr is the host:port the HTTP server (WebSocket bridge,
	// admin API, metrics) binds to.
	ListenAddr string `yaml:"listen_addr"`

	// Auth configures API key authentication for the admin API.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig configures admin API authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header the key is expected in.
	// Defaults to "x-api-key".
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable holding the expected key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default.
func (a AuthConfig) EffectiveHeader() string {
	if a.Header == "" {
		return DefaultAuthHeader
	}
	return a.Header
}

// PreviewConfig holds the hover preview tunables. These are hot-reloadable.
type PreviewConfig struct {
	// HoverDelay is the debounce interval between pointer-enter and the
	// image load starting.
	HoverDelay time.Duration `yaml:"hover_delay"`

	// OffsetX/OffsetY is the margin between the pointer and the preview
	// container, in pixels.
	OffsetX int `yaml:"offset_x"`
	OffsetY int `yaml:"offset_y"`

	// PlaceholderWidth/PlaceholderHeight are the container dimensions
	// assumed when an image's intrinsic size is unknown.
	PlaceholderWidth  int `yaml:"placeholder_width"`
	PlaceholderHeight int `yaml:"placeholder_height"`
}

// CacheConfig holds image cache settings.
type CacheConfig struct {
	// Capacity is the maximum number of cached image entries.
	Capacity int `yaml:"capacity"`
}

// LoaderConfig holds image fetch settings.
type LoaderConfig struct {
	// Timeout bounds a single image fetch.
	Timeout time.Duration `yaml:"timeout"`

	// MaxBodyBytes limits how much of a response body is read when
	// probing image dimensions.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// MatcherConfig holds link matching settings.
type MatcherConfig struct {
	// ExtraExtensions are additional image suffixes accepted by the path
	// rule, each with a leading dot (e.g. ".avif").
	ExtraExtensions []string `yaml:"extra_extensions"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Daemon: DaemonConfig{
			ListenAddr: DefaultListenAddr,
		},
		Preview: PreviewConfig{
			HoverDelay:        DefaultHoverDelay,
			OffsetX:           DefaultOffsetX,
			OffsetY:           DefaultOffsetY,
			PlaceholderWidth:  DefaultPlaceholderW,
			PlaceholderHeight: DefaultPlaceholderH,
		},
		Cache: CacheConfig{
			Capacity: DefaultCacheCapacity,
		},
		Loader: LoaderConfig{
			Timeout:      DefaultLoadTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Daemon.ListenAddr == "" {
		return fmt.Errorf("daemon.listen_addr is required")
	}
	switch cfg.Daemon.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("daemon.auth: unknown mode %q", cfg.Daemon.Auth.Mode)
	}
	if cfg.Preview.HoverDelay <= 0 {
		return fmt.Errorf("preview.hover_delay must be positive")
	}
	if cfg.Preview.OffsetX < 0 || cfg.Preview.OffsetY < 0 {
		return fmt.Errorf("preview.offset_x/offset_y must not be negative")
	}
	if cfg.Preview.PlaceholderWidth <= 0 || cfg.Preview.PlaceholderHeight <= 0 {
		return fmt.Errorf("preview.placeholder dimensions must be positive")
	}
	if cfg.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be positive")
	}
	if cfg.Loader.Timeout <= 0 {
		return fmt.Errorf("loader.timeout must be positive")
	}
	if cfg.Loader.MaxBodyBytes <= 0 {
		return fmt.Errorf("loader.max_body_bytes must be positive")
	}
	for i, ext := range cfg.Matcher.ExtraExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("matcher.extra_extensions[%d]: %q must start with a dot", i, ext)
		}
	}
	return nil
}
