package installer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/binary"
)

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "dated", body: `{"version": "2024-01-13"}`, want: "2024-01-13"},
		{name: "extra fields", body: `{"version": "0.2.0", "date": "today"}`, want: "0.2.0"},
		{name: "missing", body: `{"tag": "0.2.0"}`, wantErr: true},
		{name: "number", body: `{"version": 2}`, wantErr: true},
		{name: "null", body: `{"version": null}`, wantErr: true},
		{name: "empty", body: `{"version": ""}`, wantErr: true},
		{name: "array", body: `["0.2.0"]`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseManifest([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidManifest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManifestSource_Latest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/releases/LATEST.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"version": "2024-01-13"}`))
	}))
	defer srv.Close()

	src, err := NewManifestSource(srv.URL+"/releases/", binary.NewDownloader())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/releases/LATEST.json", src.URL())

	v, err := src.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-13", v)

	_, err = src.Latest(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load(), "the source itself does not cache")
}

func TestManifestSource_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	src, err := NewManifestSource(srv.URL, binary.NewDownloader())
	require.NoError(t, err)

	_, err = src.Latest(context.Background())
	assert.ErrorIs(t, err, binary.ErrDownloadFailed)
}

func TestNewManifestSource_BadURL(t *testing.T) {
	_, err := NewManifestSource("relative/path", binary.NewDownloader())
	assert.Error(t, err)
}
