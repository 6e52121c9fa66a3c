package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/binary"
)

// Config represents the complete qjsup configuration.
type Config struct {
	// Host home directory (supports ~). The interpreter is installed under
	// {Home}/system/quickjs.
	Home string `json:"home"`

	// Base URL of the QuickJS binary releases.
	BaseURL string `json:"base_url"`

	// BCP 47 tag selecting the string catalog language.
	Language string `json:"language"`

	// Answer yes to the install prompt when there is no terminal.
	AssumeYes bool `json:"assume_yes,omitempty"`

	// logrus level name
	LogLevel string `json:"log_level"`

	// HTTP timeout; zero disables it.
	Timeout time.Duration `json:"timeout"`

	UserAgent string `json:"user_agent,omitempty"`

	// Optional archive verification
	Verify Verify `json:"verify,omitempty"`
}

// Verify selects optional archive verification.
type Verify struct {
	// Path to an OpenPGP public keyring (supports ~)
	Keyring string `json:"keyring,omitempty"`

	// Name of a sha256sum-style file under the base URL
	Checksums string `json:"checksums,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Home:      DefaultHome,
		BaseURL:   binary.DefaultBaseURL,
		Language:  DefaultLanguage,
		LogLevel:  DefaultLogLevel,
		Timeout:   DefaultTimeoutSeconds * time.Second,
		UserAgent: binary.DefaultUserAgent,
	}
}

// InstallDir returns the expanded directory the interpreter is installed in.
func (c *Config) InstallDir() (string, error) {
	home, err := ExpandPath(c.Home)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, filepath.FromSlash(InstallSubdir)), nil
}

// InstallPath returns the expanded path of the installed interpreter.
func (c *Config) InstallPath() (string, error) {
	dir, err := c.InstallDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, binary.Member), nil
}

// VerifyOptions returns the verification settings with paths expanded.
func (c *Config) VerifyOptions() (binary.VerifyOptions, error) {
	opts := binary.VerifyOptions{Checksums: c.Verify.Checksums}
	if c.Verify.Keyring != "" {
		keyring, err := ExpandPath(c.Verify.Keyring)
		if err != nil {
			return binary.VerifyOptions{}, err
		}
		opts.Keyring = keyring
	}
	return opts, nil
}

// Validate checks every field and reports all problems at once. The
// returned error is a *multierror.Error whose entries are *ValidationError.
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.Home) == "" {
		result = multierror.Append(result, &ValidationError{Field: luaFieldHome, Message: "cannot be empty"})
	}

	if err := validateBaseURL(c.BaseURL); err != nil {
		result = multierror.Append(result, &ValidationError{Field: luaFieldBaseURL, Message: err.Error()})
	}

	if _, err := language.Parse(c.Language); err != nil {
		result = multierror.Append(result, &ValidationError{
			Field:   luaFieldLanguage,
			Message: fmt.Sprintf("invalid language tag %q", c.Language),
		})
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, &ValidationError{
			Field:   luaFieldLogLevel,
			Message: fmt.Sprintf("unknown level %q", c.LogLevel),
		})
	}

	if c.Timeout < 0 {
		result = multierror.Append(result, &ValidationError{
			Field:   luaFieldTimeout,
			Message: fmt.Sprintf("must not be negative (got %s)", c.Timeout),
		})
	}

	if c.Verify.Checksums != "" && strings.ContainsAny(c.Verify.Checksums, `/\`) {
		result = multierror.Append(result, &ValidationError{
			Field:   luaFieldVerify + "." + luaFieldChecksums,
			Message: "must be a file name under base_url, not a path",
		})
	}

	return result.ErrorOrNil()
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// validateBaseURL requires an absolute http(s) URL.
func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("must use https:// or http:// scheme (got: %q)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("missing host")
	}

	return nil
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, filepath.FromSlash(path[2:])), nil
}
