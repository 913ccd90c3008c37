package platform

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytget/modelfetch/internal/model"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Descriptor file consumed by the model tool. The template is an external
// contract: the tool reads exactly "FROM <path>".
const (
	DescriptorFileName = "ModelFile"
	DescriptorTemplate = "FROM %s"
)

// Fallback output name used when the URL carries no usable file name
const (
	FallbackFilePrefix      = "download_"
	FallbackFileExtension   = ".bin"
	FallbackTimestampLayout = "20060102_150405"
)

// Resolver derives output paths for downloads
type Resolver struct {
	// Now returns the current time; the fallback file name uses its UTC value.
	Now func() time.Time
}

// NewResolver creates a resolver using the wall clock
func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

// ResolveOutputPath picks the output file name and joins it to directory,
// creating the directory tree when it does not exist yet.
func (r *Resolver) ResolveOutputPath(rawURL, directory, filename string) (string, error) {
	name := filename
	if name == "" {
		derived, err := DeriveFilename(rawURL, r.now())
		if err != nil {
			return "", err
		}
		name = derived
	}

	if err := CreateDirectoryIfNotExists(directory); err != nil {
		return "", model.NewError(model.KindIO, fmt.Sprintf("failed to create directory %s", directory), err)
	}

	return filepath.Join(directory, name), nil
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// DeriveFilename returns the last non-empty path segment of rawURL when it
// contains a dot, otherwise a timestamped fallback name. Dot segments are
// resolved first, so "/models/.." names nothing.
func DeriveFilename(rawURL string, now time.Time) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", model.NewError(model.KindInvalidURL, "failed to parse url", err)
	}
	if u.Scheme == "" {
		return "", model.NewError(model.KindInvalidURL, "failed to parse url", fmt.Errorf("relative url without scheme: %q", rawURL))
	}

	segments := strings.Split(path.Clean("/"+u.EscapedPath()), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		if strings.Contains(segments[i], ".") {
			return segments[i], nil
		}
		break
	}

	return FallbackFilePrefix + now.UTC().Format(FallbackTimestampLayout) + FallbackFileExtension, nil
}

// CreateDirectoryIfNotExists creates directory and its parents if they don't
// exist. A file in the way or a permission problem is returned as an error.
func CreateDirectoryIfNotExists(dirPath string) error {
	return os.MkdirAll(dirPath, DefaultDirPermissions)
}

// DescriptorPath returns where the descriptor lives for a destination directory
func DescriptorPath(directory string) string {
	return filepath.Join(directory, DescriptorFileName)
}

// DescriptorContent renders the descriptor line for a downloaded file
func DescriptorContent(outputPath string) (string, error) {
	absPath, err := CanonicalPath(outputPath)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(DescriptorTemplate, absPath), nil
}

// WriteDescriptor writes content to path, replacing any previous file, and
// returns the canonical path of the written file.
func WriteDescriptor(path string, content []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return "", model.NewError(model.KindIO, "failed to create descriptor directory", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, DefaultFilePermissions)
	if err != nil {
		return "", model.NewError(model.KindIO, "failed to open descriptor", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return "", model.NewError(model.KindIO, "failed to write descriptor", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", model.NewError(model.KindIO, "failed to flush descriptor", err)
	}
	if err := f.Close(); err != nil {
		return "", model.NewError(model.KindIO, "failed to close descriptor", err)
	}

	return CanonicalPath(path)
}

// CanonicalPath returns the absolute, symlink-resolved form of path
func CanonicalPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", model.NewError(model.KindIO, "failed to get absolute path", err)
	}
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", model.NewError(model.KindIO, "failed to resolve path", err)
	}
	return resolved, nil
}
