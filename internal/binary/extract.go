package binary

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Extractor handles archive extraction
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractMember extracts the zip member named member into destDir and
// returns the written path. The member name is matched exactly, the same
// way zip tools address members, and keeps its relative path under destDir.
//
// The file is written with default permissions regardless of the mode
// stored in the archive; callers set the final mode with SetMode.
func (e *Extractor) ExtractMember(archivePath, destDir, member string) (string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("%w: open archive: %v", ErrExtractionFailed, err)
	}
	defer reader.Close()

	var file *zip.File
	for _, f := range reader.File {
		if f.Name == member {
			file = f
			break
		}
	}
	if file == nil || file.FileInfo().IsDir() {
		return "", fmt.Errorf("%w: %s", ErrMemberNotFound, member)
	}

	target, err := memberPath(destDir, file.Name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open member %s: %v", ErrExtractionFailed, member, err)
	}
	defer src.Close()

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", target, err)
	}

	// Copy verifies the member CRC at EOF.
	if _, err := io.Copy(outFile, src); err != nil {
		outFile.Close()
		return "", fmt.Errorf("%w: write file %s: %v", ErrExtractionFailed, target, err)
	}

	if err := outFile.Close(); err != nil {
		return "", fmt.Errorf("close file %s: %w", target, err)
	}

	return target, nil
}

// memberPath joins a zip member name onto destDir, rejecting names that
// would escape it.
func memberPath(destDir, name string) (string, error) {
	cleaned := path.Clean("/" + name)
	if strings.Contains(name, `\`) || cleaned == "/" || cleaned != "/"+strings.TrimPrefix(name, "./") {
		return "", fmt.Errorf("illegal file path: %s", name)
	}

	target := filepath.Join(destDir, filepath.FromSlash(cleaned[1:]))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return target, nil
}

// SetMode sets the permission bits on path, ignoring whatever mode it had.
func SetMode(path string, mode os.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("set mode %#o: %w", mode, err)
	}
	return nil
}
