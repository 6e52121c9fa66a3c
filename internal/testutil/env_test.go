package testutil_test

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	home := testutil.SetupTestEnv(t)

	if got := os.Getenv("QJSUP_HOME"); got != home {
		t.Errorf("QJSUP_HOME = %q, want %q", got, home)
	}

	if os.Getenv("QJSUP_TEST_MODE") != "1" {
		t.Errorf("QJSUP_TEST_MODE = %q, want \"1\"", os.Getenv("QJSUP_TEST_MODE"))
	}

	for _, env := range []string{"HOME", "XDG_CONFIG_HOME", "TMPDIR"} {
		dir := os.Getenv(env)
		if dir == "" {
			t.Errorf("%s not set", env)
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s directory %s not created", env, dir)
		}
	}

	if info, err := os.Stat(home); err != nil || !info.IsDir() {
		t.Errorf("home directory %s not created", home)
	}
}

func TestWriteFakeQJS(t *testing.T) {
	testutil.SkipIfNoShell(t)

	path := filepath.Join(t.TempDir(), "bin", "qjs")
	testutil.WriteFakeQJS(t, path, "2024-01-13")

	// The fake exits non-zero like `qjs -h` does; output is still produced.
	out, _ := exec.Command(path, "-h").Output()
	first := strings.SplitN(string(out), "\n", 2)[0]
	if first != "QuickJS version 2024-01-13" {
		t.Errorf("first line = %q", first)
	}
}

func TestBuildZip(t *testing.T) {
	data := testutil.BuildZip(t, map[string][]byte{
		"qjs":    []byte("binary"),
		"README": []byte("readme"),
	})

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}

	if len(reader.File) != 2 {
		t.Fatalf("got %d members, want 2", len(reader.File))
	}
	if reader.File[0].Name != "README" || reader.File[1].Name != "qjs" {
		t.Errorf("members not sorted: %s, %s", reader.File[0].Name, reader.File[1].Name)
	}
	if mode := reader.File[1].Mode().Perm(); mode != 0o600 {
		t.Errorf("stored mode = %#o, want 0600", mode)
	}

	rc, err := reader.File[1].Open()
	if err != nil {
		t.Fatalf("open member: %v", err)
	}
	defer rc.Close()
	content, _ := io.ReadAll(rc)
	if string(content) != "binary" {
		t.Errorf("content = %q", content)
	}
}
