package backend

import (
	"context"

	"github.com/go-resty/resty/v2"

	"twin-editor/internal/models"
)

const plantAssetsPath = "assets/"

// PlantAssets lists the placed assets persisted for a plant.
func (c *Client) PlantAssets(ctx context.Context, plantID string) ([]models.PlantAssetRecord, error) {
	req := c.httpClient.R().SetQueryParam("plant", plantID)
	return fetchList[models.PlantAssetRecord](ctx, c, "list plant assets", req, plantAssetsPath)
}

// SaveScene replaces the plant's placed assets with the given batch.
func (c *Client) SaveScene(ctx context.Context, payload models.SaveSceneRequest) error {
	if payload.Assets == nil {
		payload.Assets = []models.PlacedAsset{}
	}
	req := c.httpClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	return c.do(ctx, "save scene", req, resty.MethodPost, plantAssetsPath+"save_scene/", nil)
}
