// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed
// contents are the value. Environment variables take precedence over files.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Key file names and the environment variables that override them.
const (
	KeyOpenAI       = "openai-api-key"
	KeySMTPPassword = "smtp-password"

	EnvOpenAI       = "OPENAI_API_KEY"
	EnvSMTPPassword = "SMTP_PASSWORD"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields an empty set. Unreadable files are logged and skipped.
func Load(dir string, log *slog.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
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
			log.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Lookup returns the value of env when set, otherwise the file secret key.
// The empty string means neither source provides it.
func (s Secrets) Lookup(key, env string) string {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return s[key]
}

// OpenAIKey returns the language model API key.
func (s Secrets) OpenAIKey() string { return s.Lookup(KeyOpenAI, EnvOpenAI) }

// SMTPPassword returns the mail server password.
func (s Secrets) SMTPPassword() string { return s.Lookup(KeySMTPPassword, EnvSMTPPassword) }
