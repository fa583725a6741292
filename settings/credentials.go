// Package settings stores extloc user settings — the DeepSeek API key —
// and resolves the key to use for a run.
//
// Stored credentials live in the XDG data directory:
//
//	$XDG_DATA_HOME/extloc/auth.json  (default: ~/.local/share/extloc/auth.json)
//
// File permissions are 0600 (owner read/write only).
//
// Resolution order (first non-empty wins):
//  1. --api-key flag
//  2. environment variable named by --key-env
//  3. DEEPSEEK_API_KEY environment variable
//  4. this credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "extloc"
	fileName    = "auth.json"
)

// DefaultKeyEnv is the environment variable consulted when no explicit
// key or variable name is given.
const DefaultKeyEnv = "DEEPSEEK_API_KEY"

// Credentials is the stored auth.json content.
type Credentials struct {
	// Key is the DeepSeek API key.
	Key string `json:"key"`
	// BaseURL optionally overrides the API endpoint.
	BaseURL string `json:"baseUrl,omitempty"`
}

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for extloc.
// Respects $XDG_DATA_HOME, falling back to ~/.local/share.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads stored credentials. Returns nil if none are stored or the
// file is unreadable.
func Load() *Credentials {
	path, err := filePath()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil
	}
	return &creds
}

// Save writes credentials to disk with 0600 permissions.
func Save(creds *Credentials) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// Remove deletes stored credentials.
func Remove() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// ResolveAPIKey resolves the API key for a run following the documented
// precedence. It returns the key and a human-readable description of the
// source it came from; an empty key means nothing usable was found.
func ResolveAPIKey(flagValue, envName string) (key, source string) {
	if flagValue != "" {
		return flagValue, "--api-key flag"
	}
	if envName != "" {
		if v := os.Getenv(envName); v != "" {
			return v, "$" + envName
		}
	}
	if v := os.Getenv(DefaultKeyEnv); v != "" {
		return v, "$" + DefaultKeyEnv
	}
	if creds := Load(); creds != nil && creds.Key != "" {
		return creds.Key, "stored credentials"
	}
	return "", ""
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
