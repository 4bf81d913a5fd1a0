// Package config resolves the JIRA credentials jit needs from an ordered list of sources.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielolaszy/jit/internal/logging"
	"github.com/spf13/viper"
)

// Required configuration keys, in the order they are reported when missing.
const (
	KeyBaseURL   = "JIRA_BASE_URL"
	KeyAPIToken  = "JIRA_API_TOKEN"
	KeyUserEmail = "JIRA_USER_EMAIL"
)

// EnvFileName is the dotenv file looked up in the working and config directories.
const EnvFileName = ".env"

// RequiredKeys lists every key a source must supply to be used.
var RequiredKeys = []string{KeyBaseURL, KeyAPIToken, KeyUserEmail}

// ErrInvalidEnvFile reports a dotenv file that could not be parsed. A single line
// that is not KEY=VALUE rejects the whole file.
var ErrInvalidEnvFile = errors.New("invalid env file")

// Credentials holds the values needed to talk to JIRA.
type Credentials struct {
	BaseURL   string
	APIToken  string
	UserEmail string
}

// MissingCredentialsError reports that no source supplied a complete set of credentials.
type MissingCredentialsError struct {
	// Field is the first required key absent from the closest matching source.
	Field string
	// Source names that source.
	Source string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%s not set (checked %s). Set it in a .env file or as an environment variable", e.Field, e.Source)
}

// Source is a place credentials can be read from.
type Source interface {
	Name() string
	Load() (map[string]string, error)
}

// FileSource reads KEY=VALUE lines from a dotenv file.
type FileSource struct {
	Path string
	// Explicit marks a file the user asked for; a missing explicit file is reported.
	Explicit bool
}

// Name returns the file path.
func (s FileSource) Name() string {
	return s.Path
}

// Load parses the file. A file that does not exist yields no values.
func (s FileSource) Load() (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(s.Path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if s.Explicit {
				logging.Warn("specified env file not found", "path", s.Path)
			} else {
				logging.Debug("env file not present", "path", s.Path)
			}
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidEnvFile, s.Path, err)
	}

	return collect(v), nil
}

// EnvSource reads the process environment.
type EnvSource struct{}

// Name returns "environment".
func (EnvSource) Name() string {
	return "environment"
}

// Load reads the required keys from the environment.
func (EnvSource) Load() (map[string]string, error) {
	v := viper.New()
	for _, key := range RequiredKeys {
		if err := v.BindEnv(strings.ToLower(key), key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return collect(v), nil
}

// collect extracts the required keys from v, leaving out empty values.
func collect(v *viper.Viper) map[string]string {
	values := make(map[string]string, len(RequiredKeys))
	for _, key := range RequiredKeys {
		if value := strings.TrimSpace(v.GetString(strings.ToLower(key))); value != "" {
			values[key] = value
		}
	}
	return values
}

// ConfigDir returns the per-user configuration directory ($HOME/.config/jit).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "jit"), nil
}

// DefaultSources returns the sources in precedence order: the explicit env file (if any),
// ./.env, the user config directory's .env, then the environment.
func DefaultSources(envFile string) []Source {
	var sources []Source
	if envFile != "" {
		sources = append(sources, FileSource{Path: envFile, Explicit: true})
	}
	sources = append(sources, FileSource{Path: EnvFileName})
	if dir, err := ConfigDir(); err == nil {
		sources = append(sources, FileSource{Path: filepath.Join(dir, EnvFileName)})
	} else {
		logging.Debug("skipping user config directory", "error", err)
	}
	return append(sources, EnvSource{})
}

// Resolve returns the credentials of the first source that supplies every required key.
// Sources are never merged; a source with only some of the keys is skipped. A source
// that fails to load is skipped too, unless it is an explicit env file.
func Resolve(sources []Source) (Credentials, error) {
	var (
		best      map[string]string
		bestName  string
		bestCount = -1
	)

	for _, source := range sources {
		values, err := source.Load()
		if err != nil {
			if file, ok := source.(FileSource); ok && file.Explicit {
				return Credentials{}, err
			}
			logging.Warn("skipping credential source", "source", source.Name(), "error", err)
			continue
		}

		if len(values) == len(RequiredKeys) {
			creds := Credentials{
				BaseURL:   strings.TrimRight(values[KeyBaseURL], "/"),
				APIToken:  values[KeyAPIToken],
				UserEmail: values[KeyUserEmail],
			}
			logging.Info("resolved credentials",
				"source", source.Name(),
				"base_url", creds.BaseURL,
				"user_email", creds.UserEmail,
				"api_token", logging.MaskSensitive(creds.APIToken))
			return creds, nil
		}

		logging.Debug("incomplete credential source",
			"source", source.Name(),
			"keys_found", len(values))

		if len(values) > bestCount {
			best, bestName, bestCount = values, source.Name(), len(values)
		}
	}

	missing := &MissingCredentialsError{Field: KeyBaseURL, Source: "no sources"}
	if bestCount >= 0 {
		missing.Source = bestName
		for _, key := range RequiredKeys {
			if _, ok := best[key]; !ok {
				missing.Field = key
				break
			}
		}
	}
	return Credentials{}, missing
}

// EnsureConfigDir creates the user config directory if it does not exist yet.
// It reports whether the directory was created by this call.
func EnsureConfigDir() (string, bool, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(dir); err == nil {
		return dir, false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dir, false, fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, true, nil
}
