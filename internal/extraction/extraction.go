package extraction

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
	"github.com/pkg/errors"
)

// ExtractArchive extracts every regular file of a ZIP, RAR, 7z or tar archive
// into a new temporary directory. The caller removes destDir.
func ExtractArchive(ctx context.Context, archivePath string) (files []string, destDir string, err error) {
	destDir, err = os.MkdirTemp("", "extract-*")
	if err != nil {
		return nil, "", err
	}

	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		os.RemoveAll(destDir)
		return nil, "", errors.Wrap(err, "open archive")
	}

	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		destPath := filepath.Join(destDir, filepath.FromSlash(path))
		if err := copyOut(fsys, path, destPath); err != nil {
			return err
		}
		files = append(files, destPath)
		return nil
	})
	if err != nil {
		os.RemoveAll(destDir)
		return nil, "", errors.Wrap(err, "extract archive")
	}

	return files, destDir, nil
}

func copyOut(fsys fs.FS, path, destPath string) error {
	reader, err := fsys.Open(path)
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
