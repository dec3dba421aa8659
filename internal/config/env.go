package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

var ErrMissingCredential = errors.New("missing API key")

// CredentialEnvVars lists the environment variables checked for provider,
// in order.
func CredentialEnvVars(provider string) []string {
	switch provider {
	case "openai":
		return []string{"OPENAI_API_KEY"}
	default:
		return []string{"GEMINI_API_KEY", "API_KEY"}
	}
}

// LoadEnv loads .env files from the working directory and the config
// directory. Variables already set in the process win.
func LoadEnv() {
	paths := []string{".env"}
	if dir, err := GetConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Warn("Config: failed to load env file", "path", path, "err", err)
			continue
		}
		log.Debug("Config: loaded env file", "path", path)
	}
}

// LoadCredential returns the API key for provider from the environment.
func LoadCredential(provider string) (string, error) {
	vars := CredentialEnvVars(provider)
	for _, name := range vars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: set %s", ErrMissingCredential, strings.Join(vars, " or "))
}

// ResolveCredential fills Transcription.APIKey for the configured provider.
func (c *Config) ResolveCredential() error {
	key, err := LoadCredential(c.Transcription.Provider)
	if err != nil {
		return err
	}
	c.Transcription.APIKey = key
	return nil
}

// WriteCredential stores the key for provider in the .env file of the config
// directory, keeping any other entries.
func WriteCredential(provider, key string) (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ".env")

	env := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		if env, err = godotenv.Read(path); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	env[CredentialEnvVars(provider)[0]] = key

	if err := godotenv.Write(env, path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return "", fmt.Errorf("failed to restrict %s: %w", path, err)
	}
	return path, nil
}
