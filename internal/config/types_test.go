package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Home != "~/.kodi" {
		t.Errorf("Home = %q, want ~/.kodi", cfg.Home)
	}
	if cfg.BaseURL != "https://bellard.org/quickjs/binary_releases" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", cfg.Timeout)
	}
	if cfg.AssumeYes {
		t.Error("AssumeYes should default to false")
	}

	// Each call returns a fresh value.
	cfg.Home = "changed"
	if Default().Home != "~/.kodi" {
		t.Error("Default() returned shared state")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *Config)
		wantFields []string
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:   "zero timeout disables it",
			mutate: func(c *Config) { c.Timeout = 0 },
		},
		{
			name:   "http base url",
			mutate: func(c *Config) { c.BaseURL = "http://127.0.0.1:8080/releases" },
		},
		{
			name:       "empty home",
			mutate:     func(c *Config) { c.Home = "  " },
			wantFields: []string{"home"},
		},
		{
			name:       "ftp base url",
			mutate:     func(c *Config) { c.BaseURL = "ftp://example.com/quickjs" },
			wantFields: []string{"base_url"},
		},
		{
			name:       "relative base url",
			mutate:     func(c *Config) { c.BaseURL = "binary_releases" },
			wantFields: []string{"base_url"},
		},
		{
			name:       "bad language",
			mutate:     func(c *Config) { c.Language = "not a tag!" },
			wantFields: []string{"language"},
		},
		{
			name:       "unknown log level",
			mutate:     func(c *Config) { c.LogLevel = "chatty" },
			wantFields: []string{"log_level"},
		},
		{
			name:       "negative timeout",
			mutate:     func(c *Config) { c.Timeout = -time.Second },
			wantFields: []string{"timeout"},
		},
		{
			name:       "checksums must be a file name",
			mutate:     func(c *Config) { c.Verify.Checksums = "../SHA256SUMS" },
			wantFields: []string{"verify.checksums"},
		},
		{
			name: "every problem reported",
			mutate: func(c *Config) {
				c.Home = ""
				c.BaseURL = ""
				c.LogLevel = ""
				c.Timeout = -1
			},
			wantFields: []string{"home", "base_url", "log_level", "timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var merr *multierror.Error
			if !errors.As(err, &merr) {
				t.Fatalf("Validate() error = %v (%T), want *multierror.Error", err, err)
			}
			if len(merr.Errors) != len(tt.wantFields) {
				t.Fatalf("got %d errors, want %d: %v", len(merr.Errors), len(tt.wantFields), err)
			}
			for i, field := range tt.wantFields {
				verr, ok := merr.Errors[i].(*ValidationError)
				if !ok {
					t.Fatalf("error %d is %T, want *ValidationError", i, merr.Errors[i])
				}
				if verr.Field != field {
					t.Errorf("error %d field = %q, want %q", i, verr.Field, field)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	withField := &ValidationError{Field: "home", Message: "cannot be empty"}
	if got := withField.Error(); got != "config validation failed for home: cannot be empty" {
		t.Errorf("Error() = %q", got)
	}

	noField := &ValidationError{Message: "bad"}
	if got := noField.Error(); got != "config validation failed: bad" {
		t.Errorf("Error() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		in   string
		want string
	}{
		{in: "~", want: home},
		{in: "~/.kodi", want: filepath.Join(home, ".kodi")},
		{in: "~/a/b", want: filepath.Join(home, "a", "b")},
		{in: "/abs/path", want: "/abs/path"},
		{in: "relative", want: "relative"},
		{in: "~user/x", want: "~user/x"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfig_InstallPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cfg := Default()

	dir, err := cfg.InstallDir()
	if err != nil {
		t.Fatalf("InstallDir() error = %v", err)
	}
	if want := filepath.Join(home, ".kodi", "system", "quickjs"); dir != want {
		t.Errorf("InstallDir() = %q, want %q", dir, want)
	}

	path, err := cfg.InstallPath()
	if err != nil {
		t.Fatalf("InstallPath() error = %v", err)
	}
	if want := filepath.Join(home, ".kodi", "system", "quickjs", "qjs"); path != want {
		t.Errorf("InstallPath() = %q, want %q", path, want)
	}

	cfg.Home = "/opt/kodi"
	path, _ = cfg.InstallPath()
	if want := filepath.Join("/opt/kodi", "system", "quickjs", "qjs"); path != want {
		t.Errorf("InstallPath() = %q, want %q", path, want)
	}
}

func TestConfig_VerifyOptions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cfg := Default()
	opts, err := cfg.VerifyOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Keyring != "" || opts.Checksums != "" {
		t.Errorf("default VerifyOptions = %+v, want empty", opts)
	}

	cfg.Verify = Verify{Keyring: "~/.config/qjsup/quickjs.asc", Checksums: "SHA256SUMS"}
	opts, err = cfg.VerifyOptions()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(opts.Keyring, home) {
		t.Errorf("Keyring = %q, want expanded under %q", opts.Keyring, home)
	}
	if opts.Checksums != "SHA256SUMS" {
		t.Errorf("Checksums = %q", opts.Checksums)
	}
}
