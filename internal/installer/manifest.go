package installer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/binary"
)

// ErrInvalidManifest is returned when LATEST.json lacks a usable version.
var ErrInvalidManifest = errors.New("invalid release manifest")

// VersionSource reports the latest published QuickJS version.
type VersionSource interface {
	Latest(ctx context.Context) (string, error)
}

// ManifestSource reads the version from {base}/LATEST.json:
//
//	{"version": "2024-01-13"}
type ManifestSource struct {
	url        string
	downloader *binary.Downloader
}

// NewManifestSource creates a source for the releases under baseURL.
func NewManifestSource(baseURL string, downloader *binary.Downloader) (*ManifestSource, error) {
	url, err := binary.ResolveURL(baseURL, binary.ManifestName)
	if err != nil {
		return nil, fmt.Errorf("manifest url: %w", err)
	}
	return &ManifestSource{url: url, downloader: downloader}, nil
}

// URL returns the manifest location.
func (s *ManifestSource) URL() string {
	return s.url
}

// Latest fetches the manifest. Every call makes a request.
func (s *ManifestSource) Latest(ctx context.Context) (string, error) {
	body, err := s.downloader.Fetch(ctx, s.url)
	if err != nil {
		return "", fmt.Errorf("fetch manifest: %w", err)
	}
	return parseManifest(body)
}

func parseManifest(body []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	raw, ok := fields["version"]
	if !ok {
		return "", fmt.Errorf("%w: missing version", ErrInvalidManifest)
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%w: version is not a string: %s", ErrInvalidManifest, raw)
	}
	if v == "" {
		return "", fmt.Errorf("%w: empty version", ErrInvalidManifest)
	}

	return v, nil
}
