package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Constants ConstantsConfig `toml:"constants"`
	Endpoints EndpointsConfig `toml:"endpoints"`
	Creds     CredsConfig     `toml:"creds"`
	Cache     CacheConfig     `toml:"cache"`

	// dir is the directory of the file the config was loaded from.
	dir string
}

// ConstantsConfig holds values sent to, or registered with, the provider.
type ConstantsConfig struct {
	Country     string   `toml:"country"`
	RedirectURI string   `toml:"redirect_uri"`
	Scopes      []string `toml:"scopes"`
	APIURL      string   `toml:"api_url"`
}

// EndpointsConfig holds the OAuth endpoints.
type EndpointsConfig struct {
	Auth  string `toml:"auth"`
	OAuth string `toml:"oauth"`
}

// CredsConfig points at the credentials file.
type CredsConfig struct {
	Path string `toml:"path"`
}

// CacheConfig points at the token cache database.
type CacheConfig struct {
	Path string `toml:"path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Fields absent from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		config.dir = abs
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the fields every run depends on.
func (c *Config) Validate() error {
	var missing []string
	if c.Constants.Country == "" {
		missing = append(missing, "constants.country")
	}
	if c.Constants.RedirectURI == "" {
		missing = append(missing, "constants.redirect_uri")
	}
	if c.Creds.Path == "" {
		missing = append(missing, "creds.path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	if _, err := c.CallbackAddr(); err != nil {
		return err
	}
	return nil
}

// CredentialsPath returns creds.path, resolved against the config file's directory when relative.
func (c *Config) CredentialsPath() string {
	return c.resolve(c.Creds.Path)
}

// CachePath returns cache.path, resolved against the config file's directory when relative.
func (c *Config) CachePath() string {
	if c.Cache.Path == ":memory:" {
		return c.Cache.Path
	}
	return c.resolve(c.Cache.Path)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// CallbackAddr returns the host:port the local OAuth callback server listens on, taken from the redirect URI.
func (c *Config) CallbackAddr() (string, error) {
	u, err := url.Parse(c.Constants.RedirectURI)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: redirect_uri %q", ErrInvalidConfig, c.Constants.RedirectURI)
	}

	host, port := u.Hostname(), u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(host, port), nil
}

// CallbackPath returns the path component of the redirect URI.
func (c *Config) CallbackPath() string {
	u, err := url.Parse(c.Constants.RedirectURI)
	if err != nil || u.Path == "" {
		return "/callback"
	}
	return u.Path
}
