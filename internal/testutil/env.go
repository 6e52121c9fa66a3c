// Package testutil provides utilities for testing qjsup in isolation.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

// SetupTestEnv creates isolated directories for a test and points the
// qjsup environment at them. It returns the fake host home directory.
//
// This keeps tests away from:
//   - a real QuickJS install under the user's host home
//   - the user's qjsup config file
//
// Cleanup is handled by t.TempDir() and t.Setenv().
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	home := filepath.Join(tmpDir, "home")

	t.Setenv("HOME", filepath.Join(tmpDir, "user"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("TMPDIR", filepath.Join(tmpDir, "tmp"))
	t.Setenv("QJSUP_HOME", home)
	t.Setenv("QJSUP_TEST_MODE", "1")

	dirs := []string{
		home,
		filepath.Join(tmpDir, "user"),
		filepath.Join(tmpDir, "config"),
		filepath.Join(tmpDir, "tmp"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return home
}

// SkipIfNoShell skips tests that execute the fake interpreter script.
func SkipIfNoShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake qjs is a POSIX shell script")
	}
}

// FakeQJSScript returns a shell script that mimics `qjs -h` by printing a
// usage banner whose first line ends with version.
func FakeQJSScript(version string) []byte {
	return []byte(fmt.Sprintf("#!/bin/sh\necho 'QuickJS version %s'\necho 'usage: qjs [options] [file [args]]'\nexit 1\n", version))
}

// WriteFakeQJS writes an executable fake interpreter at path.
func WriteFakeQJS(t *testing.T, path, version string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for fake qjs: %v", err)
	}
	if err := os.WriteFile(path, FakeQJSScript(version), 0o755); err != nil {
		t.Fatalf("failed to write fake qjs: %v", err)
	}
}

// BuildZip returns an in-memory zip archive containing files. Members are
// written in name order with mode 0600 so tests can check that installers
// do not trust stored permissions.
func BuildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		header.SetMode(0o600)
		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to add %s to zip: %v", name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			t.Fatalf("failed to write %s to zip: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	return buf.Bytes()
}

// WriteZip writes BuildZip output to a file in a temp dir and returns its path.
func WriteZip(t *testing.T, files map[string][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.zip")
	if err := os.WriteFile(path, BuildZip(t, files), 0o644); err != nil {
		t.Fatalf("failed to write zip: %v", err)
	}
	return path
}
