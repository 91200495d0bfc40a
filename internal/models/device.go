package models

import "time"

// Device is an IoT device from the registry. Token is the opaque access token
// the device uses to push telemetry.
type Device struct {
	ID              Ref            `json:"id"`
	Tenant          *Ref           `json:"tenant,omitempty"`
	Name            string         `json:"name"`
	SerialNumber    string         `json:"serial_number"`
	Token           string         `json:"token,omitempty"`
	CreatedAt       *time.Time     `json:"created_at,omitempty"`
	LastSeen        *time.Time     `json:"last_seen,omitempty"`
	LatestTelemetry map[string]any `json:"latest_telemetry,omitempty"`
}

// CreateDeviceRequest registers a device. Tenant is optional.
type CreateDeviceRequest struct {
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Tenant       *Ref   `json:"tenant,omitempty"`
}
