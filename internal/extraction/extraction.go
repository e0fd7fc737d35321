package extraction

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"drawing-service/internal/normalizer"
)

// ExtractArchive unpacks a drawing-set archive (zip, tar, 7z, rar, ...) into
// destDir and returns the written paths. Entry names are NFD-normalized so
// they match the image files referenced by the catalog. System files are
// skipped.
func ExtractArchive(ctx context.Context, archivePath, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open archive %s: %w", archivePath, err)
	}

	var files []string
	err = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name != "." && ShouldIgnoreFile(path.Base(name)) {
				return fs.SkipDir
			}
			return nil
		}
		if ShouldIgnoreFile(path.Base(name)) {
			return nil
		}

		destPath, err := destination(destDir, name)
		if err != nil {
			return err
		}
		if err := copyEntry(fsys, name, destPath); err != nil {
			return err
		}
		files = append(files, destPath)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ShouldIgnoreFile reports system and hidden files that are never drawings.
func ShouldIgnoreFile(filename string) bool {
	switch {
	case filename == "" || strings.HasSuffix(filename, "/"):
		return true
	case strings.HasPrefix(filename, "._"), strings.HasPrefix(filename, "."):
		return true
	case filename == "__MACOSX":
		return true
	case strings.ToLower(filename) == "thumbs.db":
		return true
	}
	return false
}

func destination(destDir, name string) (string, error) {
	cleaned := path.Clean(normalizer.NormalizeFilename(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
		return "", fmt.Errorf("archive entry %q escapes the destination", name)
	}
	return filepath.Join(destDir, filepath.FromSlash(cleaned)), nil
}

func copyEntry(fsys fs.FS, name, destPath string) error {
	reader, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, reader)
	return err
}
