package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when a source has no file, value or env var set.
var ErrNotConfigured = errors.New("secret is not configured")

// Source describes where a secret such as the database password comes from.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline value from the config file or flags.
	Value string
	// File points to a file with the value. It takes precedence over Value.
	File string
	// Env names an environment variable consulted when File and Value are empty.
	Env string
}

// IsSet reports whether any location is configured for the source.
func (s Source) IsSet() bool {
	return strings.TrimSpace(s.File) != "" ||
		strings.TrimSpace(s.Value) != "" ||
		(strings.TrimSpace(s.Env) != "" && strings.TrimSpace(os.Getenv(s.Env)) != "")
}

// Load resolves the secret with precedence File, Value, Env. The result is
// trimmed. An empty file is an error; an unconfigured source wraps
// ErrNotConfigured.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	return "", fmt.Errorf("%s: %w", name, ErrNotConfigured)
}
