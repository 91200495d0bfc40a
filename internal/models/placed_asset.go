package models

// PlacedAsset is one instance of a library asset positioned within a plant's scene.
type PlacedAsset struct {
	// ID is generated by the editor and only stable for one in-memory session.
	ID string `json:"id"`
	// AssetID references the library asset the instance was created from.
	// It is not re-validated after a reload.
	AssetID *Ref   `json:"assetId"`
	Name    string `json:"name"`
	// ModelURL points at the renderable model; empty means render a placeholder.
	ModelURL         string           `json:"modelUrl,omitempty"`
	Position         Vec3             `json:"position"`
	Rotation         Vec3             `json:"rotation"`
	Scale            Vec3             `json:"scale"`
	BoundDeviceID    *Ref             `json:"boundDeviceId,omitempty"`
	TelemetryMapping TelemetryMapping `json:"telemetryMapping,omitempty"`
}

// Clone returns a deep copy.
func (p PlacedAsset) Clone() PlacedAsset {
	p.AssetID = cloneRef(p.AssetID)
	p.BoundDeviceID = cloneRef(p.BoundDeviceID)
	p.TelemetryMapping = p.TelemetryMapping.Clone()
	return p
}

// HasModel reports whether a model can be rendered instead of the placeholder shape.
func (p PlacedAsset) HasModel() bool {
	return p.ModelURL != ""
}

// Bound reports whether telemetry from a device drives the asset.
func (p PlacedAsset) Bound() bool {
	return p.BoundDeviceID != nil && !p.BoundDeviceID.IsZero() && len(p.TelemetryMapping) > 0
}

// NewPlacedAsset instantiates a library asset at the origin with its default scale.
func NewPlacedAsset(id string, asset LibraryAsset) PlacedAsset {
	var assetID *Ref
	if !asset.ID.IsZero() {
		assetID = asset.ID.Ptr()
	}
	return PlacedAsset{
		ID:       id,
		AssetID:  assetID,
		Name:     asset.Name,
		ModelURL: asset.File,
		Position: Vec3{},
		Rotation: Vec3{},
		Scale:    Uniform(asset.Scale()),
	}
}
