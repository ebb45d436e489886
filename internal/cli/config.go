package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aussiebroadwan/alumni/pkg/credstore"
)

const (
	envPrefix      = "ALUMNI"
	configDir      = ".config/alumni"
	configFileName = "config"
	defaultURL     = "http://localhost:8080"
)

// Config is the resolved CLI configuration. Precedence is flags, then
// ALUMNI_* environment variables, then ~/.config/alumni/config.yaml.
type Config struct {
	URL               string        `mapstructure:"url"`
	CredentialBackend string        `mapstructure:"credential_backend"` // file | keyring
	CredentialsFile   string        `mapstructure:"credentials_file"`
	SessionFile       string        `mapstructure:"session_file"`
	Timeout           time.Duration `mapstructure:"timeout"`
	JSON              bool          `mapstructure:"json"`
	Verbose           bool          `mapstructure:"verbose"`
}

// newViper creates a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("url", defaultURL)
	v.SetDefault("credential_backend", credstore.BackendFile)
	v.SetDefault("credentials_file", "")
	v.SetDefault("session_file", "")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("json", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// bindFlags maps the persistent flags onto their config keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"url":                "url",
		"credential_backend": "credential-backend",
		"timeout":            "timeout",
		"json":               "json",
		"verbose":            "verbose",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig reads the config file (path, or the default location when
// empty) and unmarshals the merged settings. A missing default file is fine.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, configDir))
		}
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.URL = strings.TrimSuffix(strings.TrimSpace(cfg.URL), "/")
	return cfg, cfg.Validate()
}

// Validate checks the values viper cannot.
func (c Config) Validate() error {
	if c.URL == "" {
		return usageErrorf("url must not be empty")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return usageErrorf("url must start with http:// or https://")
	}
	if c.CredentialBackend != credstore.BackendFile && c.CredentialBackend != credstore.BackendKeyring {
		return usageErrorf("credential_backend must be %q or %q", credstore.BackendFile, credstore.BackendKeyring)
	}
	if c.Timeout <= 0 {
		return usageErrorf("timeout must be positive")
	}
	return nil
}
