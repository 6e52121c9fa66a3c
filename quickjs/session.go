// Package quickjs gives host plugins a QuickJS interpreter path.
//
// Each query first makes sure qjs is installed and current, asking the user
// through the host UI before downloading anything:
//
//	s, err := quickjs.NewSession(quickjs.Options{Home: kodiHome, UI: hostUI})
//	if err != nil {
//		return err
//	}
//	path, ok, err := s.Path(ctx)
//	if err != nil || !ok {
//		return err // declined or failed
//	}
//	// run path
package quickjs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/binary"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/config"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/installer"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/l10n"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/platform"
)

type (
	// UI is the host dialog surface.
	UI = installer.UI
	// Progress is an open progress indicator.
	Progress = installer.Progress
	// Strings resolves localized strings by id.
	Strings = installer.Strings
	// VerifyOptions enables archive verification.
	VerifyOptions = binary.VerifyOptions
	// Detector reports the host platform.
	Detector = platform.Detector
	// State is the outcome of the last install check.
	State = installer.State
)

// Options configures a Session.
type Options struct {
	// Home is the host's home directory. The interpreter is kept at
	// Home/system/quickjs/qjs.
	Home string
	// Dir overrides the install directory derived from Home.
	Dir string
	// BaseURL is the release directory. Empty means the QuickJS site.
	BaseURL string
	// UI shows prompts and progress. Required.
	UI UI
	// Strings overrides the built-in catalog.
	Strings Strings
	// Language picks the built-in catalog language when Strings is nil.
	Language string
	Verify   VerifyOptions
	// Platform overrides platform detection.
	Platform Detector
	// UserAgent overrides the HTTP User-Agent when set.
	UserAgent string
	// Timeout bounds each HTTP request. Zero keeps the default and a
	// negative value disables it.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Session answers path and version queries for one host session. The
// user's answer to the install prompt is remembered for its lifetime.
type Session struct {
	inst *installer.Installer
}

// NewSession creates a session. Nothing is checked until the first query.
func NewSession(opts Options) (*Session, error) {
	dir := opts.Dir
	if dir == "" {
		if opts.Home == "" {
			return nil, fmt.Errorf("home or dir is required")
		}
		dir = filepath.Join(opts.Home, filepath.FromSlash(config.InstallSubdir))
	}

	strs := opts.Strings
	if strs == nil {
		lang := opts.Language
		if lang == "" {
			lang = config.DefaultLanguage
		}
		cat, err := l10n.New(lang)
		if err != nil {
			return nil, err
		}
		strs = cat
	}

	var instOpts []installer.Option
	if opts.Platform != nil {
		instOpts = append(instOpts, installer.WithDetector(opts.Platform))
	}
	if opts.Logger != nil {
		instOpts = append(instOpts, installer.WithLogger(opts.Logger))
	}
	if opts.UserAgent != "" || opts.Timeout != 0 {
		dlOpts := []binary.DownloaderOption{binary.WithUserAgent(opts.UserAgent)}
		switch {
		case opts.Timeout < 0:
			dlOpts = append(dlOpts, binary.WithTimeout(0))
		case opts.Timeout > 0:
			dlOpts = append(dlOpts, binary.WithTimeout(opts.Timeout))
		}
		instOpts = append(instOpts, installer.WithDownloader(binary.NewDownloader(dlOpts...)))
	}

	inst, err := installer.New(installer.Config{
		Dir:     dir,
		BaseURL: opts.BaseURL,
		UI:      opts.UI,
		Strings: strs,
		Verify:  opts.Verify,
	}, instOpts...)
	if err != nil {
		return nil, fmt.Errorf("create installer: %w", err)
	}

	return &Session{inst: inst}, nil
}

// Path returns the interpreter path. ok is false when qjs is not installed,
// for example because the user declined.
func (s *Session) Path(ctx context.Context) (path string, ok bool, err error) {
	if _, err := s.inst.Check(ctx); err != nil {
		return "", false, err
	}
	if !s.inst.Installed() {
		return "", false, nil
	}
	return s.inst.Path(), true, nil
}

// Version returns the installed interpreter version. ok is false when qjs
// is not installed.
func (s *Session) Version(ctx context.Context) (version string, ok bool, err error) {
	if _, err := s.inst.Check(ctx); err != nil {
		return "", false, err
	}
	if !s.inst.Installed() {
		return "", false, nil
	}
	v, err := s.inst.CurrentVersion(ctx)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Check runs the install check without querying anything.
func (s *Session) Check(ctx context.Context) (State, error) {
	return s.inst.Check(ctx)
}

// Target returns the release name prefix for this machine.
func (s *Session) Target(ctx context.Context) (string, error) {
	return s.inst.TargetDescriptor(ctx)
}

// Dir returns the install directory.
func (s *Session) Dir() string {
	return s.inst.Dir()
}
