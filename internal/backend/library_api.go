package backend

import (
	"context"
	"io"
	"strconv"

	"github.com/go-resty/resty/v2"

	"twin-editor/internal/models"
)

const libraryPath = "library/assets/"

// LibraryAssets lists the asset catalog.
func (c *Client) LibraryAssets(ctx context.Context) ([]models.LibraryAsset, error) {
	return fetchList[models.LibraryAsset](ctx, c, "list library assets", c.httpClient.R(), libraryPath)
}

// LibraryAsset fetches one catalog entry.
func (c *Client) LibraryAsset(ctx context.Context, id string) (models.LibraryAsset, error) {
	var asset models.LibraryAsset
	err := c.do(ctx, "get library asset", c.httpClient.R(), resty.MethodGet, itemPath(libraryPath, id), &asset)
	return asset, err
}

// CreateLibraryAsset uploads a model file as a new catalog entry.
func (c *Client) CreateLibraryAsset(ctx context.Context, upload models.LibraryUpload, filename string, file io.Reader) (models.LibraryAsset, error) {
	fields := map[string]string{
		"name":     upload.Name,
		"category": string(models.ParseCategory(string(upload.Category))),
	}
	if upload.DefaultScale > 0 {
		fields["default_scale"] = strconv.FormatFloat(upload.DefaultScale, 'f', -1, 64)
	}
	req := c.httpClient.R().
		SetMultipartFormData(fields).
		SetFileReader("file", filename, file)

	var asset models.LibraryAsset
	err := c.do(ctx, "create library asset", req, resty.MethodPost, libraryPath, &asset)
	return asset, err
}

// DeleteLibraryAsset removes a catalog entry.
func (c *Client) DeleteLibraryAsset(ctx context.Context, id string) error {
	return c.do(ctx, "delete library asset", c.httpClient.R(), resty.MethodDelete, itemPath(libraryPath, id), nil)
}
