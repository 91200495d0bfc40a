package models

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// VisualProperty is a property of a placed asset that can be driven by device telemetry.
type VisualProperty string

const (
	VisualRotationY VisualProperty = "rotation_y"
	VisualColor     VisualProperty = "color"
	VisualScaleY    VisualProperty = "scale_y"
	VisualVisible   VisualProperty = "visible"
)

var visualProperties = map[VisualProperty]struct{}{
	VisualRotationY: {},
	VisualColor:     {},
	VisualScaleY:    {},
	VisualVisible:   {},
}

// Valid reports whether p belongs to the fixed set of bindable properties.
func (p VisualProperty) Valid() bool {
	_, ok := visualProperties[p]
	return ok
}

// VisualProperties lists the bindable properties in a stable order.
func VisualProperties() []VisualProperty {
	props := make([]VisualProperty, 0, len(visualProperties))
	for p := range visualProperties {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i] < props[j] })
	return props
}

// TelemetryMapping binds visual properties to field names of a device's
// telemetry payload. Only active bindings are ever stored.
type TelemetryMapping map[VisualProperty]string

// Clone returns an independent copy; nil stays nil.
func (m TelemetryMapping) Clone() TelemetryMapping {
	if m == nil {
		return nil
	}
	out := make(TelemetryMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Normalized drops empty bindings. It returns nil when nothing is left.
func (m TelemetryMapping) Normalized() TelemetryMapping {
	var out TelemetryMapping
	for k, v := range m {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if out == nil {
			out = make(TelemetryMapping, len(m))
		}
		out[k] = v
	}
	return out
}

// With returns a copy with property bound to field, or unbound when field is empty.
func (m TelemetryMapping) With(property VisualProperty, field string) TelemetryMapping {
	out := m.Clone()
	if out == nil {
		out = TelemetryMapping{}
	}
	out[property] = field
	return out.Normalized()
}

// Validate rejects properties outside the bindable set.
func (m TelemetryMapping) Validate() error {
	var unknown []string
	for k := range m {
		if !k.Valid() {
			unknown = append(unknown, string(k))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return errors.Errorf("unknown visual properties: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// Equal compares two mappings, treating nil and empty as equal.
func (m TelemetryMapping) Equal(other TelemetryMapping) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
