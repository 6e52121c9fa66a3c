package binary

import (
	"errors"
	"os"
)

// Member is the archive member holding the QuickJS interpreter.
const Member = "qjs"

// InstallMode is the permission mode every installed binary ends up with:
// rwx for owner and group, r-x for others.
const InstallMode os.FileMode = 0o775

var (
	// ErrDownloadFailed wraps transport and HTTP status failures.
	ErrDownloadFailed = errors.New("download failed")
	// ErrExtractionFailed wraps unreadable or corrupt archives.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrMemberNotFound is returned when the archive lacks the requested member.
	ErrMemberNotFound = errors.New("member not found in archive")
	// ErrVerificationFailed is returned when a signature or checksum does not match.
	ErrVerificationFailed = errors.New("verification failed")
)

// ProgressFunc receives download progress as a whole percentage.
// It is called on the downloading goroutine.
type ProgressFunc func(percent int)

// VerificationMethod indicates how an archive was verified
type VerificationMethod int

const (
	// VerificationNone indicates verification was not configured
	VerificationNone VerificationMethod = iota
	// VerificationGPG indicates GPG signature verification was used
	VerificationGPG
	// VerificationSHA256 indicates SHA256 checksum verification was used
	VerificationSHA256
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// VerifyOptions selects optional archive verification.
type VerifyOptions struct {
	// Keyring is a path to an OpenPGP public keyring. When set, a detached
	// signature is fetched from "<archive url>.sig".
	Keyring string
	// Checksums is the name of a sha256sum-style file under the base URL.
	Checksums string
}

// DownloadInfo contains metadata needed to download a release archive
type DownloadInfo struct {
	Target       string // target descriptor, e.g. "quickjs-linux-x86_64"
	Version      string // release version as published in the manifest
	Archive      string // archive file name
	URL          string // archive URL
	SignatureURL string // detached signature URL (may be empty)
	ChecksumURL  string // checksum file URL (may be empty)
}

// VerificationResult contains the outcome of a verification attempt
type VerificationResult struct {
	Method  VerificationMethod
	Success bool
	Error   error
}
