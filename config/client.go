package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ClientSettings are the connection settings of the command line client.
// They live in a small TOML file:
//
//	[server]
//	host = "127.0.0.1"
//	port = 8000
//	token = ""
type ClientSettings struct {
	Host  string
	Port  int
	Token string
}

const (
	DefaultClientHost = "127.0.0.1"
	DefaultClientPort = 8000
)

// DefaultSettingsPath returns the per-user location of settings.toml
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "scouting", "settings.toml")
}

// BaseURL is the root URL of the API server
func (s ClientSettings) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", s.Host, s.Port)
}

func newSettingsViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("server.host", DefaultClientHost)
	v.SetDefault("server.port", DefaultClientPort)
	v.SetDefault("server.token", "")
	return v
}

// LoadClientSettings reads path, falling back to defaults when the file does not exist yet
func LoadClientSettings(path string) (ClientSettings, error) {
	v := newSettingsViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return ClientSettings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	return ClientSettings{
		Host:  v.GetString("server.host"),
		Port:  v.GetInt("server.port"),
		Token: v.GetString("server.token"),
	}, nil
}

// SaveClientSettings writes the settings back to path, creating the directory if needed
func SaveClientSettings(path string, s ClientSettings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	v := newSettingsViper(path)
	v.Set("server.host", s.Host)
	v.Set("server.port", s.Port)
	v.Set("server.token", s.Token)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}
