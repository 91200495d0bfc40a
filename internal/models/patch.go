package models

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// OptionalRef distinguishes "leave untouched" from "clear" in a patch.
// A JSON null or empty string clears the reference.
type OptionalRef struct {
	Set   bool
	Value *Ref
}

func (o *OptionalRef) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if string(data) == "null" {
		return nil
	}
	var r Ref
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if !r.IsZero() {
		o.Value = &r
	}
	return nil
}

func (o OptionalRef) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// ObjectPatch is a partial update of a placed asset. Nil fields are left
// untouched and vectors are always replaced whole.
type ObjectPatch struct {
	Position         *Vec3             `json:"position,omitempty"`
	Rotation         *Vec3             `json:"rotation,omitempty"`
	Scale            *Vec3             `json:"scale,omitempty"`
	BoundDeviceID    OptionalRef       `json:"boundDeviceId,omitzero"`
	TelemetryMapping *TelemetryMapping `json:"telemetryMapping,omitempty"`
}

func (p ObjectPatch) WithPosition(v Vec3) ObjectPatch {
	p.Position = &v
	return p
}

func (p ObjectPatch) WithRotation(v Vec3) ObjectPatch {
	p.Rotation = &v
	return p
}

func (p ObjectPatch) WithScale(v Vec3) ObjectPatch {
	p.Scale = &v
	return p
}

func (p ObjectPatch) WithBoundDevice(id Ref) ObjectPatch {
	p.BoundDeviceID = OptionalRef{Set: true}
	if !id.IsZero() {
		p.BoundDeviceID.Value = &id
	}
	return p
}

func (p ObjectPatch) WithoutBoundDevice() ObjectPatch {
	p.BoundDeviceID = OptionalRef{Set: true}
	return p
}

func (p ObjectPatch) WithTelemetryMapping(m TelemetryMapping) ObjectPatch {
	c := m.Clone()
	p.TelemetryMapping = &c
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (p ObjectPatch) IsEmpty() bool {
	return p.Position == nil && p.Rotation == nil && p.Scale == nil &&
		!p.BoundDeviceID.Set && p.TelemetryMapping == nil
}

// Validate checks the patch before it reaches a store.
func (p ObjectPatch) Validate() error {
	if p.TelemetryMapping != nil {
		if err := p.TelemetryMapping.Validate(); err != nil {
			return errors.Wrap(err, "telemetryMapping")
		}
	}
	return nil
}

// Apply merges the patch into obj and reports whether anything changed.
func (p ObjectPatch) Apply(obj *PlacedAsset) bool {
	changed := false
	if p.Position != nil && *p.Position != obj.Position {
		obj.Position = *p.Position
		changed = true
	}
	if p.Rotation != nil && *p.Rotation != obj.Rotation {
		obj.Rotation = *p.Rotation
		changed = true
	}
	if p.Scale != nil && *p.Scale != obj.Scale {
		obj.Scale = *p.Scale
		changed = true
	}
	if p.BoundDeviceID.Set && !RefPtrEqual(p.BoundDeviceID.Value, obj.BoundDeviceID) {
		obj.BoundDeviceID = cloneRef(p.BoundDeviceID.Value)
		changed = true
	}
	if p.TelemetryMapping != nil {
		next := p.TelemetryMapping.Normalized()
		if !next.Equal(obj.TelemetryMapping) {
			obj.TelemetryMapping = next
			changed = true
		}
	}
	return changed
}
