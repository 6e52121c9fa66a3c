package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/config"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/logging"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/platform"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/ui"
	"github.com/ZebulonRouseFrantzich/qjsup/quickjs"
)

// Flag names double as viper keys; QJSUP_BASE_URL sets base-url.
const (
	keyConfig   = "config"
	keyHome     = "home"
	keyBaseURL  = "base-url"
	keyLang     = "lang"
	keyYes      = "yes"
	keyLogLevel = "log-level"
)

const envPrefix = "QJSUP"

var errNotInstalled = errors.New("QuickJS is not installed")

// app carries state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgPath string
	stdout  io.Writer
	stderr  io.Writer

	// interactive overrides TTY detection when set.
	interactive *bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return newApp(stdout, stderr).rootCmd()
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{v: viper.New(), stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qjsup",
		Short: "Keep the QuickJS interpreter installed and up to date",
		Long: `qjsup installs the QuickJS interpreter (qjs) into a media center
host's home directory and updates it when a newer release is published.

Queries such as "qjsup path" check for updates first and ask before
downloading anything.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd.Context())
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetVersionTemplate("qjsup {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.String(keyConfig, "", "config file (default $XDG_CONFIG_HOME/qjsup/config.lua)")
	flags.String(keyHome, "", "host home directory (default ~/.kodi)")
	flags.String(keyBaseURL, "", "QuickJS release directory URL")
	flags.String(keyLang, "", "language for messages, e.g. en, de, fr")
	flags.BoolP(keyYes, "y", false, "install without asking")
	flags.String(keyLogLevel, "", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlags(flags)
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(
		newPathCmd(a),
		newVersionCmd(a),
		newCheckCmd(a),
		newTargetCmd(a),
		newStatusCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine config directory: %w", err)
	}
	return filepath.Join(dir, "qjsup", "config.lua"), nil
}

// loadConfig reads the Lua config file and lays flags and QJSUP_*
// environment variables over it.
func (a *app) loadConfig(ctx context.Context) error {
	path := a.v.GetString(keyConfig)
	if path == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return err
	}

	cfg, err := config.NewParser(platform.NewDetector()).Load(ctx, path)
	if err != nil {
		return errors.New(config.FormatError(err, false))
	}

	if a.v.IsSet(keyHome) {
		cfg.Home = a.v.GetString(keyHome)
	}
	if a.v.IsSet(keyBaseURL) {
		cfg.BaseURL = a.v.GetString(keyBaseURL)
	}
	if a.v.IsSet(keyLang) {
		cfg.Language = a.v.GetString(keyLang)
	}
	if a.v.IsSet(keyYes) {
		cfg.AssumeYes = a.v.GetBool(keyYes)
	}
	if a.v.IsSet(keyLogLevel) {
		cfg.LogLevel = a.v.GetString(keyLogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return errors.New(config.FormatError(err, false))
	}

	_ = logging.Set(logging.Output(a.stderr, a.stderr))
	_ = logging.Set(logging.Level(cfg.LogLevel))

	a.cfg = cfg
	a.cfgPath = path
	return nil
}

func (a *app) newUI() *ui.Terminal {
	opts := []ui.Option{ui.WithOutput(a.stderr), ui.WithAssumeYes(a.cfg.AssumeYes)}
	if a.interactive != nil {
		opts = append(opts, ui.WithInteractive(*a.interactive))
	}
	return ui.New(opts...)
}

func (a *app) newSession() (*quickjs.Session, error) {
	dir, err := a.cfg.InstallDir()
	if err != nil {
		return nil, err
	}
	verify, err := a.cfg.VerifyOptions()
	if err != nil {
		return nil, err
	}

	timeout := a.cfg.Timeout
	if timeout == 0 {
		timeout = -time.Nanosecond
	}

	return quickjs.NewSession(quickjs.Options{
		Dir:       dir,
		BaseURL:   a.cfg.BaseURL,
		UI:        a.newUI(),
		Language:  a.cfg.Language,
		Verify:    verify,
		UserAgent: a.cfg.UserAgent,
		Timeout:   timeout,
		Logger:    logging.New("installer"),
	})
}
