package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNoModel        = errors.New("no 3d model file found in archive")
	ErrMultipleModels = errors.New("multiple model files found in archive")
)

// Bundle is an extracted model archive.
type Bundle struct {
	ModelPath string
	Resources []string

	dirs []string
}

// Close removes the extracted files.
func (b *Bundle) Close() error {
	var first error
	for _, dir := range b.dirs {
		if err := os.RemoveAll(dir); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ModelExt returns the lower-case extension of the primary model file.
func (b *Bundle) ModelExt() string {
	return strings.ToLower(filepath.Ext(b.ModelPath))
}

// OpenBundle extracts archivePath and locates its single primary model file.
// When the archive holds no model but wraps another archive, the first
// nested archive is searched instead.
func OpenBundle(ctx context.Context, archivePath string) (*Bundle, error) {
	files, dir, err := ExtractArchive(ctx, archivePath)
	if err != nil {
		return nil, err
	}
	b := &Bundle{dirs: []string{dir}}

	model, resources, nested, err := classify(files)
	if err != nil {
		b.Close()
		return nil, err
	}
	if model == "" && len(nested) > 0 {
		nestedFiles, nestedDir, err := ExtractArchive(ctx, nested[0])
		if err != nil {
			b.Close()
			return nil, errors.Wrapf(err, "nested archive %s", filepath.Base(nested[0]))
		}
		b.dirs = append(b.dirs, nestedDir)
		var nestedResources []string
		model, nestedResources, _, err = classify(nestedFiles)
		if err != nil {
			b.Close()
			return nil, err
		}
		resources = append(resources, nestedResources...)
	}
	if model == "" {
		b.Close()
		return nil, ErrNoModel
	}

	b.ModelPath = model
	b.Resources = resources
	return b, nil
}

func classify(files []string) (model string, resources, nested []string, err error) {
	var models []string
	for _, path := range files {
		filename := filepath.Base(path)
		if shouldIgnoreFile(filename) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(filename))
		switch {
		case IsModelExt(ext):
			models = append(models, filename)
			model = path
		case isResourceFile(ext):
			resources = append(resources, path)
		case IsArchiveExt(ext):
			nested = append(nested, path)
		}
	}
	if len(models) > 1 {
		return "", nil, nil, errors.Wrap(ErrMultipleModels, fmt.Sprint(models))
	}
	return model, resources, nested, nil
}

// IsModelExt reports whether ext names a primary 3D model format.
func IsModelExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".fbx", ".obj", ".dae", ".stl", ".gltf", ".glb":
		return true
	}
	return false
}

// IsArchiveExt reports whether ext names an archive format that can be extracted.
func IsArchiveExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".zip", ".rar", ".7z", ".tar", ".gz":
		return true
	}
	return false
}

// Textures, materials and glTF buffers.
func isResourceFile(ext string) bool {
	switch ext {
	case ".bin", ".mtl", ".jpg", ".jpeg", ".png", ".tga", ".bmp", ".tiff",
		".exr", ".hdr", ".dds", ".ktx", ".basis":
		return true
	}
	return false
}

// shouldIgnoreFile skips hidden files, macOS resource forks and Thumbs.db.
func shouldIgnoreFile(filename string) bool {
	if filename == "" || strings.HasPrefix(filename, ".") {
		return true
	}
	return strings.EqualFold(filename, "thumbs.db")
}
