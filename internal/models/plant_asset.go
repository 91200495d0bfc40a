package models

// PlantAssetRecord is a placed asset as the backend persists it for a plant.
// Transforms are stored as scalar triples; the library asset and the bound
// device are nested records.
type PlantAssetRecord struct {
	ID           Ref           `json:"id"`
	Plant        Ref           `json:"plant"`
	Name         string        `json:"name"`
	LibraryAsset *LibraryAsset `json:"library_asset"`
	Device       *Device       `json:"device"`

	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	PositionZ float64 `json:"position_z"`

	RotationX float64 `json:"rotation_x"`
	RotationY float64 `json:"rotation_y"`
	RotationZ float64 `json:"rotation_z"`

	// Scale fields missing from the payload default to 1.
	ScaleX *float64 `json:"scale_x"`
	ScaleY *float64 `json:"scale_y"`
	ScaleZ *float64 `json:"scale_z"`

	TelemetryMapping TelemetryMapping `json:"telemetry_mapping"`
}

func (r PlantAssetRecord) Position() Vec3 {
	return Vec3{r.PositionX, r.PositionY, r.PositionZ}
}

func (r PlantAssetRecord) Rotation() Vec3 {
	return Vec3{r.RotationX, r.RotationY, r.RotationZ}
}

func (r PlantAssetRecord) Scale() Vec3 {
	return Vec3{orOne(r.ScaleX), orOne(r.ScaleY), orOne(r.ScaleZ)}
}

func orOne(v *float64) float64 {
	if v == nil {
		return 1
	}
	return *v
}

// SaveSceneRequest replaces every placed asset of a plant in one batch.
// Assets are sent in the editor's native shape, generated ids included.
type SaveSceneRequest struct {
	PlantID Ref           `json:"plant_id"`
	Assets  []PlacedAsset `json:"assets"`
}
