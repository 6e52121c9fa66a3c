package binary

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/platform"
)

// DefaultBaseURL is where QuickJS publishes binary releases.
const DefaultBaseURL = "https://bellard.org/quickjs/binary_releases"

// ManifestName is the release manifest file under the base URL.
const ManifestName = "LATEST.json"

// TargetDescriptor returns the archive name prefix for a platform:
// quickjs-{sys_platform}-{machine}
func TargetDescriptor(info *platform.Info) (string, error) {
	if info == nil {
		return "", fmt.Errorf("platform info is required")
	}
	if info.OS == "" || info.Machine == "" {
		return "", fmt.Errorf("incomplete platform info: os=%q machine=%q", info.OS, info.Machine)
	}
	return fmt.Sprintf("quickjs-%s-%s", info.SysPlatform(), info.Machine), nil
}

// ResolveURL appends name to the path of base, keeping any query string.
// Pattern: {base}/{name}
func ResolveURL(base, name string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base URL must be absolute: %q", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + name
	u.RawPath = ""
	return u.String(), nil
}

// ConstructDownloadInfo builds the archive, signature and checksum URLs.
// Pattern: {base}/{target}-{version}.zip
func ConstructDownloadInfo(base, target, version string, verify VerifyOptions) (*DownloadInfo, error) {
	if target == "" {
		return nil, fmt.Errorf("target is required")
	}
	if version == "" {
		return nil, fmt.Errorf("version is required")
	}

	info := &DownloadInfo{
		Target:  target,
		Version: version,
		Archive: fmt.Sprintf("%s-%s.zip", target, version),
	}

	archiveURL, err := ResolveURL(base, info.Archive)
	if err != nil {
		return nil, err
	}
	info.URL = archiveURL

	if verify.Keyring != "" {
		info.SignatureURL, err = ResolveURL(base, info.Archive+".sig")
		if err != nil {
			return nil, err
		}
	}

	if verify.Checksums != "" {
		info.ChecksumURL, err = ResolveURL(base, verify.Checksums)
		if err != nil {
			return nil, err
		}
	}

	return info, nil
}
