// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Key file names.
const (
	AnthropicKey = "anthropic-api-key"
	GeminiKey    = "gemini-api-key"
)

// envVars lists the environment variables consulted for each key file,
// in order of preference.
var envVars = map[string][]string{
	AnthropicKey: {"ANTHROPIC_API_KEY"},
	GeminiKey:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// KeyFor returns the key file name holding the API key for an LLM provider.
func KeyFor(provider string) (string, bool) {
	switch provider {
	case "anthropic":
		return AnthropicKey, true
	case "gemini":
		return GeminiKey, true
	}
	return "", false
}

// Lookup returns the named secret. Environment variables win over files.
func Lookup(secrets map[string]string, key string) string {
	for _, env := range envVars[key] {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return secrets[key]
}
