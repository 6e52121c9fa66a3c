// Package installer keeps a QuickJS interpreter installed and current.
//
// An Installer checks whether the qjs binary exists, compares its version
// with the latest published release and, once the user agrees, downloads
// the platform archive and unpacks the binary in place. User interaction
// goes through the host UI interfaces so the same flow runs in a plugin
// host or a terminal.
package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/binary"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/l10n"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/logging"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/platform"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/transaction"
)

// ErrNoVersionOutput is returned when qjs -h prints nothing usable.
var ErrNoVersionOutput = errors.New("qjs printed no version")

// State is the outcome of the last Check.
type State int

const (
	StateUnchecked State = iota
	StateUpToDate
	StateNeedsInstall
	StateInstalled
	StateDeclined
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateUpToDate:
		return "up-to-date"
	case StateNeedsInstall:
		return "needs-install"
	case StateInstalled:
		return "installed"
	case StateDeclined:
		return "declined"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds installer configuration
type Config struct {
	// Dir is the install directory; the binary lives at Dir/qjs.
	Dir string
	// BaseURL is the release directory holding LATEST.json and archives.
	// Empty means binary.DefaultBaseURL.
	BaseURL string
	// UI shows prompts and progress. Required.
	UI UI
	// Strings resolves message ids. Empty means the English catalog.
	Strings Strings
	// Verify enables signature or checksum checks on the archive.
	Verify binary.VerifyOptions
}

// Option customizes an Installer.
type Option func(*Installer)

// WithVersionSource replaces the LATEST.json manifest lookup.
func WithVersionSource(src VersionSource) Option {
	return func(i *Installer) {
		i.source = src
	}
}

// WithDownloader sets the downloader used for the manifest, archive and
// verification files.
func WithDownloader(d *binary.Downloader) Option {
	return func(i *Installer) {
		i.downloader = d
	}
}

// WithDetector sets the platform detector used for the target descriptor.
func WithDetector(d platform.Detector) Option {
	return func(i *Installer) {
		i.detector = d
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(i *Installer) {
		i.log = log
	}
}

// Installer manages one qjs binary. It caches the current version, the
// latest version and the user's answer, and is not safe for concurrent use.
type Installer struct {
	dir        string
	path       string
	baseURL    string
	verifyOpts binary.VerifyOptions

	ui         UI
	strings    Strings
	source     VersionSource
	downloader *binary.Downloader
	extractor  *binary.Extractor
	verifier   *binary.Verifier
	detector   platform.Detector
	log        logrus.FieldLogger

	current   *string
	latest    *string
	confirmed *bool
	target    string
	state     State
}

// New creates an installer.
func New(cfg Config, opts ...Option) (*Installer, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("install directory is required")
	}
	if cfg.UI == nil {
		return nil, fmt.Errorf("UI is required")
	}

	i := &Installer{
		dir:        cfg.Dir,
		path:       filepath.Join(cfg.Dir, binary.Member),
		baseURL:    cfg.BaseURL,
		verifyOpts: cfg.Verify,
		ui:         cfg.UI,
		strings:    cfg.Strings,
		extractor:  binary.NewExtractor(),
	}
	if i.baseURL == "" {
		i.baseURL = binary.DefaultBaseURL
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.strings == nil {
		cat, err := l10n.New("en")
		if err != nil {
			return nil, fmt.Errorf("load strings: %w", err)
		}
		i.strings = cat
	}
	if i.downloader == nil {
		i.downloader = binary.NewDownloader()
	}
	if i.detector == nil {
		i.detector = platform.NewDetector()
	}
	if i.log == nil {
		i.log = logging.New("installer")
	}
	if i.source == nil {
		src, err := NewManifestSource(i.baseURL, i.downloader)
		if err != nil {
			return nil, err
		}
		i.source = src
	}
	i.verifier = binary.NewVerifier(i.verifyOpts, i.downloader)

	return i, nil
}

// Path returns where the binary is installed.
func (i *Installer) Path() string {
	return i.path
}

// Dir returns the install directory.
func (i *Installer) Dir() string {
	return i.dir
}

// State returns the outcome of the last Check.
func (i *Installer) State() State {
	return i.state
}

// Installed reports whether the binary exists as a regular file this
// process is allowed to execute.
func (i *Installer) Installed() bool {
	info, err := os.Stat(i.path)
	if err != nil {
		return false
	}
	if !info.Mode().IsRegular() {
		return false
	}
	return executable(i.path, info.Mode())
}

// CurrentVersion runs `qjs -h` and returns the last word of the first line
// it prints. The interpreter exits non-zero after printing usage, so exit
// status is ignored.
func (i *Installer) CurrentVersion(ctx context.Context) (string, error) {
	if i.current != nil {
		return *i.current, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, i.path, "-h")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		i.log.WithError(err).Debug("qjs -h did not exit cleanly")
	}

	line, _, _ := strings.Cut(stdout.String(), "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: %s -h", ErrNoVersionOutput, i.path)
	}

	v := fields[len(fields)-1]
	i.current = &v
	i.log.WithField("version", v).Debug("current version")
	return v, nil
}

// LatestVersion returns the latest published version. It is fetched once
// per Installer.
func (i *Installer) LatestVersion(ctx context.Context) (string, error) {
	if i.latest != nil {
		return *i.latest, nil
	}

	v, err := i.source.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("get latest version: %w", err)
	}

	i.latest = &v
	i.log.WithField("version", v).Debug("latest version")
	return v, nil
}

// Confirm asks the user whether to install the latest version. The answer
// is remembered, so the prompt is shown at most once.
func (i *Installer) Confirm(ctx context.Context) (bool, error) {
	if i.confirmed != nil {
		return *i.confirmed, nil
	}

	latest, err := i.LatestVersion(ctx)
	if err != nil {
		return false, err
	}

	ok, err := i.ui.Confirm(ctx,
		i.strings.String(l10n.Heading),
		i.strings.String(l10n.ConfirmInstall, latest))
	if err != nil {
		return false, fmt.Errorf("confirm install: %w", err)
	}

	i.confirmed = &ok
	return ok, nil
}

// TargetDescriptor returns the release name prefix for this machine, such
// as "quickjs-linux-x86_64".
func (i *Installer) TargetDescriptor(ctx context.Context) (string, error) {
	if i.target != "" {
		return i.target, nil
	}

	info, err := i.detector.Detect(ctx)
	if err != nil {
		return "", fmt.Errorf("detect platform: %w", err)
	}

	target, err := binary.TargetDescriptor(info)
	if err != nil {
		return "", err
	}

	i.target = target
	return target, nil
}

// Reset forgets the cached current version.
func (i *Installer) Reset() {
	i.current = nil
}

// Install downloads the latest release archive and unpacks qjs into the
// install directory. Nothing is rolled back on failure.
func (i *Installer) Install(ctx context.Context) error {
	latest, err := i.LatestVersion(ctx)
	if err != nil {
		return err
	}
	target, err := i.TargetDescriptor(ctx)
	if err != nil {
		return err
	}

	lock, err := transaction.AcquireLock(ctx, i.dir, transaction.InstallLockName)
	if err != nil {
		return fmt.Errorf("lock install directory: %w", err)
	}
	defer lock.Release()

	info, err := binary.ConstructDownloadInfo(i.baseURL, target, latest, i.verifyOpts)
	if err != nil {
		return fmt.Errorf("construct download info: %w", err)
	}

	var from string
	if i.current != nil {
		from = *i.current
	}
	txn := transaction.New(target, from, latest, info.URL)

	log := i.log.WithFields(logrus.Fields{"version": latest, "url": info.URL})
	log.Info("installing QuickJS")

	txn.UpdateStep(transaction.StepDownload, transaction.StateInProgress, nil)
	i.saveJournal(txn)

	progress := i.ui.StartProgress(
		i.strings.String(l10n.Heading),
		i.strings.String(l10n.Downloading, latest))
	archive, err := i.downloader.DownloadTemp(ctx, info.URL, progress.Update)
	progress.Close()
	if err != nil {
		return i.fail(txn, transaction.StepDownload, fmt.Errorf("download %s: %w", info.Archive, err))
	}
	defer os.Remove(archive)
	txn.UpdateStep(transaction.StepDownload, transaction.StateCompleted, nil)

	if i.verifier.Enabled() {
		result, err := i.verifier.Verify(ctx, archive, info)
		if err != nil {
			return i.fail(txn, transaction.StepVerify, fmt.Errorf("verify %s: %w", info.Archive, err))
		}
		log.WithField("method", result.Method).Debug("archive verified")
		txn.UpdateStep(transaction.StepVerify, transaction.StateCompleted, nil)
	} else {
		txn.UpdateStep(transaction.StepVerify, transaction.StateSkipped, nil)
	}

	if err := os.MkdirAll(i.dir, 0755); err != nil {
		return i.fail(txn, transaction.StepExtract, fmt.Errorf("create install directory: %w", err))
	}

	path, err := i.extractor.ExtractMember(archive, i.dir, binary.Member)
	if err != nil {
		return i.fail(txn, transaction.StepExtract, fmt.Errorf("extract %s: %w", binary.Member, err))
	}
	txn.UpdateStep(transaction.StepExtract, transaction.StateCompleted, nil)

	if err := os.Remove(archive); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Debug("remove archive")
	}

	if err := binary.SetMode(path, binary.InstallMode); err != nil {
		return i.fail(txn, transaction.StepChmod, err)
	}
	txn.UpdateStep(transaction.StepChmod, transaction.StateCompleted, nil)
	i.saveJournal(txn)

	i.Reset()
	log.Info("QuickJS installed")

	if err := i.ui.Notify(ctx,
		i.strings.String(l10n.Heading),
		i.strings.String(l10n.InstallDone, latest)); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	return nil
}

func (i *Installer) fail(txn *transaction.InstallTxn, step transaction.Step, err error) error {
	txn.UpdateStep(step, transaction.StateFailed, err)
	i.saveJournal(txn)
	return err
}

// saveJournal records install progress. The journal is informational, so a
// write failure does not stop the install.
func (i *Installer) saveJournal(txn *transaction.InstallTxn) {
	if err := txn.Save(i.dir); err != nil {
		i.log.WithError(err).Warn("failed to save install journal")
	}
}

// Check decides whether qjs needs installing or updating and, if the user
// agrees, installs it. When qjs is present the latest version is always
// fetched, even if the installed copy turns out to be current.
func (i *Installer) Check(ctx context.Context) (State, error) {
	needs := true
	if i.Installed() {
		current, err := i.CurrentVersion(ctx)
		if err != nil {
			return i.state, err
		}
		latest, err := i.LatestVersion(ctx)
		if err != nil {
			return i.state, err
		}
		needs, err = IsOlder(current, latest)
		if err != nil {
			return i.state, err
		}
		i.log.WithFields(logrus.Fields{"current": current, "latest": latest}).Debug("compared versions")
	}

	if !needs {
		i.state = StateUpToDate
		return i.state, nil
	}
	i.state = StateNeedsInstall

	ok, err := i.Confirm(ctx)
	if err != nil {
		return i.state, err
	}
	if !ok {
		i.log.Info("install declined")
		i.state = StateDeclined
		return i.state, nil
	}

	if err := i.Install(ctx); err != nil {
		return i.state, err
	}
	i.state = StateInstalled
	return i.state, nil
}
