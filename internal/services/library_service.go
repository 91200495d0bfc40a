package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"twin-editor/internal/conversion"
	"twin-editor/internal/extraction"
	"twin-editor/internal/models"
)

// ErrUnsupportedFile is returned for uploads that are neither a model nor an
// archive containing one.
var ErrUnsupportedFile = errors.New("unsupported file type")

// LibraryService manages the asset catalog shown in the editor sidebar.
type LibraryService struct {
	backend   LibraryBackend
	resolver  ModelResolver
	converter ModelConverter
	cache     *CatalogCache
	logger    *zap.Logger
}

func NewLibraryService(backend LibraryBackend, resolver ModelResolver, converter ModelConverter, catalog *CatalogCache, logger *zap.Logger) *LibraryService {
	if resolver == nil {
		resolver = passthroughResolver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryService{
		backend:   backend,
		resolver:  resolver,
		converter: converter,
		cache:     catalog,
		logger:    logger.With(zap.String("component", "library")),
	}
}

// List returns the catalog with model files resolved to URLs.
func (s *LibraryService) List(ctx context.Context) ([]models.LibraryAsset, error) {
	assets, err := readThrough(ctx, s.cache, libraryCacheKey, s.backend.LibraryAssets)
	if err != nil {
		return nil, errors.Wrap(err, "list library assets")
	}
	for i := range assets {
		if err := s.resolve(ctx, &assets[i]); err != nil {
			return nil, err
		}
	}
	return assets, nil
}

// Get returns one catalog entry.
func (s *LibraryService) Get(ctx context.Context, id string) (models.LibraryAsset, error) {
	asset, err := s.backend.LibraryAsset(ctx, id)
	if err != nil {
		return models.LibraryAsset{}, errors.Wrapf(err, "get library asset %s", id)
	}
	if err := s.resolve(ctx, &asset); err != nil {
		return models.LibraryAsset{}, err
	}
	return asset, nil
}

// Upload adds a model to the catalog. Archives are unpacked with
// UploadBundle; other model formats are converted to GLB when a converter is
// available.
func (s *LibraryService) Upload(ctx context.Context, upload models.LibraryUpload, filename string, file io.Reader) (models.LibraryAsset, error) {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case extraction.IsArchiveExt(ext):
		path, cleanup, err := spool(file, ext)
		if err != nil {
			return models.LibraryAsset{}, err
		}
		defer cleanup()
		return s.UploadBundle(ctx, upload, filename, path)
	case !extraction.IsModelExt(ext):
		return models.LibraryAsset{}, errors.Wrapf(ErrUnsupportedFile, "%s", filename)
	case ext == ".glb" || ext == ".gltf" || s.converter == nil:
		return s.create(ctx, upload, filename, file)
	}

	path, cleanup, err := spool(file, ext)
	if err != nil {
		return models.LibraryAsset{}, err
	}
	defer cleanup()

	glbPath, err := s.converter.ConvertToGLB(ctx, path)
	switch {
	case errors.Is(err, conversion.ErrUnavailable):
		s.logger.Warn("Model converter unavailable, uploading original file", zap.String("filename", filename))
		return s.createFromPath(ctx, upload, filename, path)
	case err != nil:
		return models.LibraryAsset{}, errors.Wrap(err, "conversion to glb failed")
	}
	defer os.Remove(glbPath)
	return s.createFromPath(ctx, upload, glbName(filename), glbPath)
}

// UploadBundle adds the single model contained in an archive, converting it
// to a self-contained GLB so textures and materials travel with it.
func (s *LibraryService) UploadBundle(ctx context.Context, upload models.LibraryUpload, archiveName, archivePath string) (models.LibraryAsset, error) {
	bundle, err := extraction.OpenBundle(ctx, archivePath)
	if err != nil {
		return models.LibraryAsset{}, errors.Wrapf(err, "bundle %s", archiveName)
	}
	defer bundle.Close()

	modelName := filepath.Base(bundle.ModelPath)
	if upload.Name == "" {
		upload.Name = strings.TrimSuffix(modelName, filepath.Ext(modelName))
	}
	s.logger.Info("Extracted model bundle",
		zap.String("archive", archiveName),
		zap.String("model", modelName),
		zap.Int("resources", len(bundle.Resources)),
	)

	if bundle.ModelExt() == ".glb" {
		return s.createFromPath(ctx, upload, modelName, bundle.ModelPath)
	}
	if s.converter == nil {
		return models.LibraryAsset{}, conversion.ErrUnavailable
	}
	glbPath, err := s.converter.ConvertToGLB(ctx, bundle.ModelPath)
	if err != nil {
		return models.LibraryAsset{}, errors.Wrap(err, "conversion to glb failed")
	}
	return s.createFromPath(ctx, upload, glbName(modelName), glbPath)
}

// Delete removes a catalog entry.
func (s *LibraryService) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteLibraryAsset(ctx, id); err != nil {
		return errors.Wrapf(err, "delete library asset %s", id)
	}
	s.cache.invalidate(ctx, libraryCacheKey)
	s.logger.Info("Deleted library asset", zap.String("asset_id", id))
	return nil
}

func (s *LibraryService) create(ctx context.Context, upload models.LibraryUpload, filename string, file io.Reader) (models.LibraryAsset, error) {
	if upload.Name == "" {
		upload.Name = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	upload.Category = models.ParseCategory(string(upload.Category))

	asset, err := s.backend.CreateLibraryAsset(ctx, upload, filename, file)
	if err != nil {
		return models.LibraryAsset{}, errors.Wrap(err, "create library asset")
	}
	s.cache.invalidate(ctx, libraryCacheKey)
	s.logger.Info("Created library asset",
		zap.String("asset_id", asset.ID.String()),
		zap.String("name", asset.Name),
		zap.String("category", string(asset.Category)),
	)
	if err := s.resolve(ctx, &asset); err != nil {
		return models.LibraryAsset{}, err
	}
	return asset, nil
}

func (s *LibraryService) createFromPath(ctx context.Context, upload models.LibraryUpload, filename, path string) (models.LibraryAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.LibraryAsset{}, errors.Wrap(err, "open model file")
	}
	defer f.Close()
	return s.create(ctx, upload, filename, f)
}

func (s *LibraryService) resolve(ctx context.Context, asset *models.LibraryAsset) error {
	url, err := s.resolver.ResolveModelURL(ctx, asset.File)
	if err != nil {
		return errors.Wrapf(err, "resolve model of asset %s", asset.ID)
	}
	asset.File = url
	return nil
}

// spool copies an upload to a temporary file.
func spool(r io.Reader, ext string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "upload-*")
	if err != nil {
		return "", nil, errors.Wrap(err, "could not create temporary directory")
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	path := filepath.Join(tmpDir, "upload"+ext)
	f, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, errors.Wrap(err, "could not create temporary file")
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, errors.Wrap(err, "failed to write upload")
	}
	return path, cleanup, nil
}

func glbName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".glb"
}
