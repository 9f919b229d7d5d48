package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Environment variables that override the credentials file.
const (
	EnvClientID     = "SPOTIFY_ID"
	EnvClientSecret = "SPOTIFY_SECRET"
)

// Credentials is the provider application's client ID/secret pair.
type Credentials struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// LoadCredentials reads a TOML credentials file, then applies [EnvClientID] and [EnvClientSecret] when set.
//
// A missing file is not an error when both values come from the environment.
func LoadCredentials(path string) (*Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(path)
	missing := errors.Is(err, fs.ErrNotExist)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &creds); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidCredentials, path, err)
		}
	case missing:
	default:
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if v := os.Getenv(EnvClientID); v != "" {
		creds.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		creds.ClientSecret = v
	}

	if err := creds.Validate(); err != nil {
		if missing {
			return nil, fmt.Errorf("%w: credentials file %s not found", ErrMissingCredentials, path)
		}
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return &creds, nil
}

// Validate reports which half of the pair is missing.
func (c *Credentials) Validate() error {
	switch {
	case c.ClientID == "" && c.ClientSecret == "":
		return fmt.Errorf("%w: client_id and client_secret", ErrMissingCredentials)
	case c.ClientID == "":
		return fmt.Errorf("%w: client_id", ErrMissingCredentials)
	case c.ClientSecret == "":
		return fmt.Errorf("%w: client_secret", ErrMissingCredentials)
	}
	return nil
}
