package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/platform"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// Load reads and parses the config file at path. A missing file is not an
// error: the defaults are returned.
func (p *Parser) Load(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the user's own config file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(content) > MaxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, MaxConfigFileSize)
	}

	return p.ParseString(ctx, string(content))
}

// ParseString parses a Lua config from a string.
// Fields the config does not set keep their defaults.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	// Detect platform and inject platform table
	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	// Execute Lua code
	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "qjsup" table over the defaults and
// validates the result.
func extractConfig(L *lua.LState) (*Config, error) {
	root := L.GetGlobal(luaGlobalQJSUP)
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: fmt.Sprintf("missing or invalid '%s' table", luaGlobalQJSUP),
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	cfg := Default()
	table := root.(*lua.LTable)
	var errs *multierror.Error

	str := func(t *lua.LTable, field, prefix string, dst *string) {
		switch v := t.RawGetString(field); v.Type() {
		case lua.LTNil:
		case lua.LTString:
			*dst = v.String()
		default:
			errs = multierror.Append(errs, typeError(prefix+field, "string", v))
		}
	}

	str(table, luaFieldHome, "", &cfg.Home)
	str(table, luaFieldBaseURL, "", &cfg.BaseURL)
	str(table, luaFieldLanguage, "", &cfg.Language)
	str(table, luaFieldLogLevel, "", &cfg.LogLevel)
	str(table, luaFieldUserAgent, "", &cfg.UserAgent)

	switch v := table.RawGetString(luaFieldAssumeYes); v.Type() {
	case lua.LTNil:
	case lua.LTBool:
		cfg.AssumeYes = bool(v.(lua.LBool))
	default:
		errs = multierror.Append(errs, typeError(luaFieldAssumeYes, "boolean", v))
	}

	switch v := table.RawGetString(luaFieldTimeout); v.Type() {
	case lua.LTNil:
	case lua.LTNumber:
		cfg.Timeout = time.Duration(float64(lua.LVAsNumber(v)) * float64(time.Second))
	default:
		errs = multierror.Append(errs, typeError(luaFieldTimeout, "number", v))
	}

	switch v := table.RawGetString(luaFieldVerify); v.Type() {
	case lua.LTNil:
	case lua.LTTable:
		verify := v.(*lua.LTable)
		str(verify, luaFieldKeyring, luaFieldVerify+".", &cfg.Verify.Keyring)
		str(verify, luaFieldChecksums, luaFieldVerify+".", &cfg.Verify.Checksums)
	default:
		errs = multierror.Append(errs, typeError(luaFieldVerify, "table", v))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func typeError(field, want string, got lua.LValue) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// FormatError formats a config error for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		// Extract the most relevant part of the error
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		lines := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			lines = append(lines, "  - "+e.Error())
		}
		return "invalid configuration:\n" + strings.Join(lines, "\n")
	}

	return err.Error()
}
