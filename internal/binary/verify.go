package binary

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier handles optional verification of downloaded archives.
// With neither a keyring nor a checksum file configured it accepts
// everything and reports VerificationNone.
type Verifier struct {
	opts       VerifyOptions
	downloader *Downloader
}

// NewVerifier creates a new verifier that fetches signatures and checksum
// files through downloader.
func NewVerifier(opts VerifyOptions, downloader *Downloader) *Verifier {
	return &Verifier{
		opts:       opts,
		downloader: downloader,
	}
}

// Enabled reports whether any verification method is configured.
func (v *Verifier) Enabled() bool {
	return v.opts.Keyring != "" || v.opts.Checksums != ""
}

// Verify checks archivePath using the configured method. GPG is preferred
// when a keyring is configured; there is no fallback from a failed GPG check
// to SHA256.
func (v *Verifier) Verify(ctx context.Context, archivePath string, info *DownloadInfo) (*VerificationResult, error) {
	if info == nil {
		return nil, fmt.Errorf("download info is required")
	}

	switch {
	case v.opts.Keyring != "":
		if info.SignatureURL == "" {
			return nil, fmt.Errorf("%w: no signature URL for %s", ErrVerificationFailed, info.Archive)
		}
		sig, err := v.downloader.Fetch(ctx, info.SignatureURL)
		if err != nil {
			return nil, fmt.Errorf("download signature: %w", err)
		}
		return v.verifyGPG(archivePath, sig)

	case v.opts.Checksums != "":
		if info.ChecksumURL == "" {
			return nil, fmt.Errorf("%w: no checksum URL for %s", ErrVerificationFailed, info.Archive)
		}
		sums, err := v.downloader.Fetch(ctx, info.ChecksumURL)
		if err != nil {
			return nil, fmt.Errorf("download checksums: %w", err)
		}
		return verifySHA256(archivePath, info.Archive, sums)

	default:
		return &VerificationResult{Method: VerificationNone, Success: true}, nil
	}
}

// verifyGPG verifies a file against a detached signature
func (v *Verifier) verifyGPG(archivePath string, signature []byte) (*VerificationResult, error) {
	fail := func(err error) (*VerificationResult, error) {
		return &VerificationResult{Method: VerificationGPG, Success: false, Error: err},
			fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	keyring, err := loadKeyring(v.opts.Keyring)
	if err != nil {
		return fail(fmt.Errorf("load keyring: %w", err))
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fail(fmt.Errorf("open archive: %w", err))
	}
	defer archiveFile.Close()

	// Try armored first, then binary
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, archiveFile, bytes.NewReader(signature), nil)
	if err != nil {
		if _, seekErr := archiveFile.Seek(0, io.SeekStart); seekErr != nil {
			return fail(fmt.Errorf("rewind archive: %w", seekErr))
		}
		_, err = openpgp.CheckDetachedSignature(keyring, archiveFile, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fail(fmt.Errorf("verify signature: %w", err))
	}

	return &VerificationResult{Method: VerificationGPG, Success: true}, nil
}

// verifySHA256 verifies a file using a sha256sum-style listing
func verifySHA256(archivePath, archiveName string, sums []byte) (*VerificationResult, error) {
	fail := func(err error) (*VerificationResult, error) {
		return &VerificationResult{Method: VerificationSHA256, Success: false, Error: err},
			fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	actualChecksum, err := calculateSHA256(archivePath)
	if err != nil {
		return fail(fmt.Errorf("calculate checksum: %w", err))
	}

	expectedChecksum, err := findChecksum(bytes.NewReader(sums), archiveName)
	if err != nil {
		return fail(fmt.Errorf("find checksum: %w", err))
	}

	if !strings.EqualFold(actualChecksum, expectedChecksum) {
		return fail(fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s",
			actualChecksum, expectedChecksum))
	}

	return &VerificationResult{Method: VerificationSHA256, Success: true}, nil
}

// loadKeyring loads an armored or binary OpenPGP keyring
func loadKeyring(keyringPath string) (openpgp.EntityList, error) {
	if !fileExists(keyringPath) {
		return nil, fmt.Errorf("keyring %s is missing or empty", keyringPath)
	}

	keyringFile, err := os.Open(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		if _, seekErr := keyringFile.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", seekErr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum finds the checksum for a specific filename in a checksum listing
// Format: "abc123def456  filename.zip" (a leading '*' marks binary mode)
func findChecksum(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		checksumFilename := strings.TrimPrefix(parts[1], "*")
		if checksumFilename == filename || filepath.Base(checksumFilename) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}

	return "", fmt.Errorf("checksum not found for %s", filename)
}
