// Package telemetry derives the live visual state of placed assets from the
// latest telemetry of their bound devices.
package telemetry

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"twin-editor/internal/models"
)

// Status colors.
const (
	ColorNormal   = "#22c55e"
	ColorWarning  = "#f59e0b"
	ColorCritical = "#ef4444"
	ColorOffline  = "#64748b"
)

var statusColors = map[string]string{
	"normal":   ColorNormal,
	"ok":       ColorNormal,
	"running":  ColorNormal,
	"online":   ColorNormal,
	"warning":  ColorWarning,
	"warn":     ColorWarning,
	"degraded": ColorWarning,
	"critical": ColorCritical,
	"error":    ColorCritical,
	"alarm":    ColorCritical,
	"fault":    ColorCritical,
	"offline":  ColorOffline,
	"stopped":  ColorOffline,
	"idle":     ColorOffline,
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// VisualState is what the 3D view applies to one object on top of its
// editor transform.
type VisualState struct {
	ObjectID string      `json:"objectId"`
	DeviceID *models.Ref `json:"deviceId,omitempty"`

	// Radians per second around the Y axis, from an RPM reading.
	SpinRate *float64 `json:"spinRate,omitempty"`
	Color    string   `json:"color,omitempty"`
	ScaleY   *float64 `json:"scaleY,omitempty"`
	Visible  *bool    `json:"visible,omitempty"`

	// Properties whose telemetry field was absent or unusable.
	Missing []models.VisualProperty `json:"missing,omitempty"`
}

// Resolve maps each bound visual property of obj to a value read from data.
// Field names may address nested objects with dots ("motor.rpm").
func Resolve(obj models.PlacedAsset, data map[string]any) VisualState {
	state := VisualState{ObjectID: obj.ID, DeviceID: obj.BoundDeviceID}

	props := make([]models.VisualProperty, 0, len(obj.TelemetryMapping))
	for p := range obj.TelemetryMapping {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i] < props[j] })

	for _, prop := range props {
		raw, ok := Lookup(data, obj.TelemetryMapping[prop])
		if ok && !apply(&state, prop, raw) {
			ok = false
		}
		if !ok {
			state.Missing = append(state.Missing, prop)
		}
	}
	return state
}

func apply(state *VisualState, prop models.VisualProperty, raw any) bool {
	switch prop {
	case models.VisualRotationY:
		rpm, ok := toFloat(raw)
		if !ok {
			return false
		}
		rate := rpm * 2 * math.Pi / 60
		state.SpinRate = &rate
	case models.VisualColor:
		color, ok := StatusColor(raw)
		if !ok {
			return false
		}
		state.Color = color
	case models.VisualScaleY:
		v, ok := toFloat(raw)
		if !ok {
			return false
		}
		state.ScaleY = &v
	case models.VisualVisible:
		v, ok := toBool(raw)
		if !ok {
			return false
		}
		state.Visible = &v
	default:
		return false
	}
	return true
}

// Lookup reads a dotted field path from a telemetry document.
func Lookup(data map[string]any, field string) (any, bool) {
	if data == nil || field == "" {
		return nil, false
	}
	if v, ok := data[field]; ok {
		return v, v != nil
	}
	var cur any = data
	for _, part := range strings.Split(field, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// StatusColor maps a status reading to a display color. Hex colors pass
// through; booleans read as running or stopped.
func StatusColor(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if hexColor.MatchString(s) {
			return s, true
		}
		color, ok := statusColors[strings.ToLower(s)]
		return color, ok
	case bool:
		if v {
			return ColorNormal, true
		}
		return ColorOffline, true
	}
	return "", false
}

// toFloat coerces a telemetry value to a finite number.
func toFloat(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	if f, ok := toFloat(raw); ok {
		return f != 0, true
	}
	return false, false
}
