package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Constants.Country != "US" {
			t.Errorf("expected country US, got %s", config.Constants.Country)
		}

		if config.Constants.RedirectURI != "http://127.0.0.1:8080/callback" {
			t.Errorf("expected default redirect URI, got %s", config.Constants.RedirectURI)
		}

		if len(config.Constants.Scopes) != 4 {
			t.Errorf("expected 4 scopes, got %v", config.Constants.Scopes)
		}

		if config.Creds.Path != "creds.toml" {
			t.Errorf("expected creds path creds.toml, got %s", config.Creds.Path)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Constants.Country != defaultConfig.Constants.Country {
			t.Errorf("created config country doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[constants]
country = "GB"
redirect_uri = "http://localhost:9999/auth/done"
scopes = ["user-library-read"]

[creds]
path = "secrets/creds.toml"

[cache]
path = "/var/cache/spotseed.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Constants.Country != "GB" {
			t.Errorf("expected country GB, got %s", config.Constants.Country)
		}

		if len(config.Constants.Scopes) != 1 || config.Constants.Scopes[0] != "user-library-read" {
			t.Errorf("expected scopes to be replaced, got %v", config.Constants.Scopes)
		}

		if config.Constants.APIURL != "https://api.spotify.com/v1/" {
			t.Errorf("expected api_url to keep default, got %s", config.Constants.APIURL)
		}

		if got, want := config.CredentialsPath(), filepath.Join(tmpDir, "secrets", "creds.toml"); got != want {
			t.Errorf("expected creds path %s, got %s", want, got)
		}

		if got := config.CachePath(); got != "/var/cache/spotseed.db" {
			t.Errorf("expected absolute cache path to be kept, got %s", got)
		}

		addr, err := config.CallbackAddr()
		if err != nil {
			t.Fatalf("CallbackAddr() error = %v", err)
		}
		if addr != "localhost:9999" {
			t.Errorf("expected callback addr localhost:9999, got %s", addr)
		}

		if path := config.CallbackPath(); path != "/auth/done" {
			t.Errorf("expected callback path /auth/done, got %s", path)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Malformed", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[constants\ncountry ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(c *Config)
		}{
			{name: "empty country", mutate: func(c *Config) { c.Constants.Country = "" }},
			{name: "empty redirect", mutate: func(c *Config) { c.Constants.RedirectURI = "" }},
			{name: "relative redirect", mutate: func(c *Config) { c.Constants.RedirectURI = "/callback" }},
			{name: "empty creds path", mutate: func(c *Config) { c.Creds.Path = "" }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)

				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("CallbackAddr Default Ports", func(t *testing.T) {
		config := DefaultConfig()

		config.Constants.RedirectURI = "http://example.com/callback"
		if addr, _ := config.CallbackAddr(); addr != "example.com:80" {
			t.Errorf("expected example.com:80, got %s", addr)
		}

		config.Constants.RedirectURI = "https://example.com/callback"
		if addr, _ := config.CallbackAddr(); addr != "example.com:443" {
			t.Errorf("expected example.com:443, got %s", addr)
		}
	})
}

func TestLoadCredentials(t *testing.T) {
	t.Run("from file", func(t *testing.T) {
		t.Setenv(EnvClientID, "")
		t.Setenv(EnvClientSecret, "")

		path := filepath.Join(t.TempDir(), "creds.toml")
		content := "client_id = \"abc\"\nclient_secret = \"xyz\"\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write creds: %v", err)
		}

		creds, err := LoadCredentials(path)
		if err != nil {
			t.Fatalf("LoadCredentials() error = %v", err)
		}
		if creds.ClientID != "abc" || creds.ClientSecret != "xyz" {
			t.Errorf("unexpected credentials %+v", creds)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv(EnvClientID, "env-id")
		t.Setenv(EnvClientSecret, "")

		path := filepath.Join(t.TempDir(), "creds.toml")
		content := "client_id = \"abc\"\nclient_secret = \"xyz\"\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write creds: %v", err)
		}

		creds, err := LoadCredentials(path)
		if err != nil {
			t.Fatalf("LoadCredentials() error = %v", err)
		}
		if creds.ClientID != "env-id" {
			t.Errorf("expected env client id, got %s", creds.ClientID)
		}
		if creds.ClientSecret != "xyz" {
			t.Errorf("expected file client secret, got %s", creds.ClientSecret)
		}
	})

	t.Run("environment only", func(t *testing.T) {
		t.Setenv(EnvClientID, "env-id")
		t.Setenv(EnvClientSecret, "env-secret")

		creds, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("LoadCredentials() error = %v", err)
		}
		if creds.ClientID != "env-id" || creds.ClientSecret != "env-secret" {
			t.Errorf("unexpected credentials %+v", creds)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv(EnvClientID, "")
		t.Setenv(EnvClientSecret, "")

		_, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv(EnvClientID, "")
		t.Setenv(EnvClientSecret, "")

		path := filepath.Join(t.TempDir(), "creds.toml")
		if err := os.WriteFile(path, []byte("client_id = \"abc\"\n"), 0600); err != nil {
			t.Fatalf("failed to write creds: %v", err)
		}

		_, err := LoadCredentials(path)
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Setenv(EnvClientID, "")
		t.Setenv(EnvClientSecret, "")

		path := filepath.Join(t.TempDir(), "creds.toml")
		if err := os.WriteFile(path, []byte("client_id = "), 0600); err != nil {
			t.Fatalf("failed to write creds: %v", err)
		}

		_, err := LoadCredentials(path)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
