package downloader

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cpxfetch/internal"
)

// ZipExtractor unpacks a downloaded zip archive into the destination
// directory. Any other archive format is rejected; the raw file is
// never removed on failure.
type ZipExtractor struct{}

// NewZipExtractor creates a new ZipExtractor
func NewZipExtractor() *ZipExtractor {
	return &ZipExtractor{}
}

// Extract opens the archive and extracts every entry into destDir,
// recreating subdirectories. Entries whose cleaned path would escape
// destDir are rejected.
func (x *ZipExtractor) Extract(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return internal.NewArchiveError(archivePath, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return internal.NewGatewayError(0, fmt.Sprintf("cannot create extraction directory: %v", err), internal.ErrPermissionDenied)
	}

	cleanDest := filepath.Clean(destDir)

	for _, entry := range reader.File {
		if err := x.extractEntry(entry, cleanDest); err != nil {
			return err
		}
	}

	internal.LogInfo("Extracted %d entries from %s into %s", len(reader.File), archivePath, destDir)
	return nil
}

func (x *ZipExtractor) extractEntry(entry *zip.File, destDir string) error {
	entryPath := filepath.Clean(filepath.Join(destDir, entry.Name))
	if entryPath != destDir && !strings.HasPrefix(entryPath, destDir+string(os.PathSeparator)) {
		return internal.NewGatewayError(0, fmt.Sprintf("unsafe archive entry path: %s", entry.Name), internal.ErrArchive)
	}

	// Symlinks and other special entries could point outside destDir.
	if entry.Mode()&os.ModeSymlink != 0 {
		return internal.NewGatewayError(0, fmt.Sprintf("unsafe symlink entry: %s", entry.Name), internal.ErrArchive)
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(entryPath, 0755)
	}

	if !entry.Mode().IsRegular() {
		return internal.NewGatewayError(0, fmt.Sprintf("unsupported entry type: %s", entry.Name), internal.ErrArchive)
	}

	if err := os.MkdirAll(filepath.Dir(entryPath), 0755); err != nil {
		return err
	}

	outFile, err := os.OpenFile(entryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer outFile.Close()

	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := io.Copy(outFile, rc); err != nil {
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}

	return nil
}
