package models

import (
	"strings"
	"time"
)

// AssetCategory classifies library assets.
type AssetCategory string

const (
	CategoryMachine        AssetCategory = "MACHINE"
	CategorySensor         AssetCategory = "SENSOR"
	CategoryInfrastructure AssetCategory = "INFRASTRUCTURE"
	CategoryOther          AssetCategory = "OTHER"
)

// ParseCategory maps free text to a category, defaulting to OTHER.
func ParseCategory(s string) AssetCategory {
	switch c := AssetCategory(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryMachine, CategorySensor, CategoryInfrastructure:
		return c
	default:
		return CategoryOther
	}
}

// LibraryAsset is a reusable 3D model template from the backend catalog.
type LibraryAsset struct {
	ID           Ref           `json:"id"`
	Name         string        `json:"name"`
	File         string        `json:"file"`
	Thumbnail    string        `json:"thumbnail,omitempty"`
	Category     AssetCategory `json:"category,omitempty"`
	DefaultScale float64       `json:"default_scale"`
	CreatedAt    *time.Time    `json:"created_at,omitempty"`
}

// Scale returns the uniform scale new instances start with.
// Non-positive values fall back to 1.
func (a LibraryAsset) Scale() float64 {
	if a.DefaultScale <= 0 {
		return 1
	}
	return a.DefaultScale
}

// LibraryUpload carries the form fields of a catalog upload.
type LibraryUpload struct {
	Name         string        `json:"name"`
	Category     AssetCategory `json:"category"`
	DefaultScale float64       `json:"default_scale"`
}
