package models

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Vec3 is an x/y/z triple used for position, rotation (radians) and scale.
// It always carries exactly three components.
type Vec3 [3]float64

// NewVec3 builds a vector from its components.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Uniform replicates s across all three axes.
func Uniform(s float64) Vec3 {
	return Vec3{s, s, s}
}

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

// UnmarshalJSON rejects arrays that do not have exactly three components, so a
// partial update can never leave a shorter vector behind.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var parts []float64
	if err := json.Unmarshal(data, &parts); err != nil {
		return errors.Wrap(err, "vector must be an array of numbers")
	}
	if len(parts) != 3 {
		return errors.Errorf("vector must have 3 components, got %d", len(parts))
	}
	copy(v[:], parts)
	return nil
}
