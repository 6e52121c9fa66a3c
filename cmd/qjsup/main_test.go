package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/binary"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/platform"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/testutil"
)

// run executes the CLI with TTY detection forced off.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)
	interactive := false
	a.interactive = &interactive

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func hostTarget(t *testing.T) string {
	t.Helper()

	info, err := platform.NewDetector().Detect(context.Background())
	require.NoError(t, err)
	target, err := binary.TargetDescriptor(info)
	require.NoError(t, err)
	return target
}

func newReleaseServer(t *testing.T, latest string) *httptest.Server {
	t.Helper()

	archive := fmt.Sprintf("/%s-%s.zip", hostTarget(t), latest)
	zip := testutil.BuildZip(t, map[string][]byte{binary.Member: testutil.FakeQJSScript(latest)})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + binary.ManifestName:
			fmt.Fprintf(w, `{"version": %q}`, latest)
		case archive:
			w.Write(zip)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersionFlag(t *testing.T) {
	testutil.SetupTestEnv(t)

	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "qjsup "+Version+"\n", stdout)
}

func TestTarget(t *testing.T) {
	testutil.SetupTestEnv(t)

	stdout, _, err := run(t, "target")
	require.NoError(t, err)
	assert.Equal(t, hostTarget(t)+"\n", stdout)
}

func TestPath_InstallThenQuery(t *testing.T) {
	testutil.SkipIfNoShell(t)
	home := testutil.SetupTestEnv(t)
	srv := newReleaseServer(t, "0.2.0")
	want := filepath.Join(home, "system", "quickjs", "qjs")

	stdout, stderr, err := run(t, "path", "--yes", "--base-url", srv.URL)
	require.NoError(t, err, stderr)
	assert.Equal(t, want+"\n", stdout)
	assert.Contains(t, stderr, "QuickJS 0.2.0 has been installed.")

	stdout, _, err = run(t, "version", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "0.2.0\n", stdout)

	stdout, _, err = run(t, "check", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "up-to-date\n", stdout)

	stdout, _, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Binary: "+want+"\n")
	assert.Contains(t, stdout, "Last install: none -> 0.2.0")
	assert.Contains(t, stdout, "State: completed")
	assert.Contains(t, stdout, "verify    skipped")
}

func TestPath_DeclinedWithoutTerminal(t *testing.T) {
	testutil.SetupTestEnv(t)
	srv := newReleaseServer(t, "0.2.0")

	stdout, _, err := run(t, "path", "--base-url", srv.URL)
	assert.ErrorIs(t, err, errNotInstalled)
	assert.Empty(t, stdout)

	_, _, err = run(t, "version", "--base-url", srv.URL)
	assert.ErrorIs(t, err, errNotInstalled)

	stdout, _, err = run(t, "check", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "declined\n", stdout)
}

func TestEnvironmentOverrides(t *testing.T) {
	testutil.SkipIfNoShell(t)
	testutil.SetupTestEnv(t)
	srv := newReleaseServer(t, "0.2.0")

	t.Setenv("QJSUP_BASE_URL", srv.URL)
	t.Setenv("QJSUP_YES", "true")

	stdout, _, err := run(t, "check")
	require.NoError(t, err)
	assert.Equal(t, "installed\n", stdout)
}

func TestConfigFile(t *testing.T) {
	testutil.SkipIfNoShell(t)
	home := testutil.SetupTestEnv(t)
	srv := newReleaseServer(t, "0.2.0")

	cfgPath := filepath.Join(t.TempDir(), "config.lua")
	lua := fmt.Sprintf("qjsup = {\n  base_url = %q,\n  assume_yes = true,\n  language = \"de\",\n}\n", srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(lua), 0644))

	stdout, stderr, err := run(t, "path", "--config", cfgPath)
	require.NoError(t, err, stderr)
	assert.Equal(t, filepath.Join(home, "system", "quickjs", "qjs")+"\n", stdout)
	assert.Contains(t, stderr, "QuickJS 0.2.0 wurde installiert.")
}

func TestConfigFile_Invalid(t *testing.T) {
	testutil.SetupTestEnv(t)

	cfgPath := filepath.Join(t.TempDir(), "config.lua")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`qjsup = { base_url = "ftp://example.com" }`), 0644))

	_, _, err := run(t, "target", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")

	_, _, err = run(t, "target", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestConfigInitAndShow(t *testing.T) {
	testutil.SetupTestEnv(t)
	cfgPath, err := defaultConfigPath()
	require.NoError(t, err)

	stdout, _, err := run(t, "config", "init", "--home", "/srv/kodi")
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+cfgPath+"\n", stdout)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `home = "/srv/kodi"`)

	_, _, err = run(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "config", "init", "--force")
	require.NoError(t, err)

	// QJSUP_HOME from the test environment overrides the file.
	stdout, _, err = run(t, "config", "show", "--lang", "fr")
	require.NoError(t, err)
	assert.Contains(t, stdout, "qjsup = {")
	assert.Contains(t, stdout, `home = "`+os.Getenv("QJSUP_HOME")+`"`)
	assert.Contains(t, stdout, `language = "fr"`)
}

func TestStatus_NoInstall(t *testing.T) {
	testutil.SetupTestEnv(t)

	stdout, _, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(missing)")
	assert.True(t, strings.HasSuffix(stdout, "No install recorded.\n"))
}
