// Package docs registers the editor API description for the swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}}
            }
        },
        "/library": {
            "get": {
                "produces": ["application/json"],
                "tags": ["library"],
                "summary": "List library assets",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.LibraryAsset"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["library"],
                "summary": "Upload a library asset",
                "parameters": [
                    {"type": "file", "description": "Model file or archive", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Display name (defaults to the file name)", "name": "name", "in": "formData"},
                    {"type": "string", "description": "MACHINE, SENSOR, INFRASTRUCTURE or OTHER", "name": "category", "in": "formData"},
                    {"type": "number", "description": "Initial uniform scale", "name": "default_scale", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.LibraryAsset"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Unsupported file or archive without a single model", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/library/{assetId}": {
            "delete": {
                "tags": ["library"],
                "summary": "Delete a library asset",
                "parameters": [{"type": "string", "description": "Library asset ID", "name": "assetId", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/devices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "List devices",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Device"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Register a device",
                "parameters": [{"description": "Device data", "name": "device", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateDeviceRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Device"}},
                    "422": {"description": "Missing fields or duplicate serial number", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/devices/{deviceId}": {
            "delete": {
                "tags": ["devices"],
                "summary": "Delete a device",
                "parameters": [{"type": "string", "description": "Device ID", "name": "deviceId", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/plants/{plantId}/scene": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scene"],
                "summary": "Get the editor scene of a plant",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SceneResponse"}}}
            },
            "delete": {
                "tags": ["scene"],
                "summary": "Close a plant's editor session",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}
            }
        },
        "/plants/{plantId}/scene/load": {
            "post": {
                "produces": ["application/json"],
                "tags": ["scene"],
                "summary": "Load a plant's scene from the backend",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SceneResponse"}},
                    "502": {"description": "Backend unreachable or returned an unexpected body", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/plants/{plantId}/scene/save": {
            "post": {
                "produces": ["application/json"],
                "tags": ["scene"],
                "summary": "Save a plant's scene to the backend",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scene.SessionInfo"}},
                    "404": {"description": "No session for plant", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Backend rejected the batch", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Backend unreachable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/plants/{plantId}/objects": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["objects"],
                "summary": "Place a library asset",
                "parameters": [
                    {"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true},
                    {"description": "Dropped asset", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AddObjectRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.PlacedAsset"}}}
            }
        },
        "/plants/{plantId}/objects/{objectId}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["objects"],
                "summary": "Update an object's transform or bindings",
                "parameters": [
                    {"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true},
                    {"type": "string", "description": "Object ID", "name": "objectId", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "patch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ObjectPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PlacedAsset"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["objects"],
                "summary": "Remove an object from the scene",
                "parameters": [
                    {"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true},
                    {"type": "string", "description": "Object ID", "name": "objectId", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/plants/{plantId}/objects/{objectId}/bindings/{property}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["objects"],
                "summary": "Bind a visual property to a telemetry field",
                "parameters": [
                    {"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true},
                    {"type": "string", "description": "Object ID", "name": "objectId", "in": "path", "required": true},
                    {"enum": ["rotation_y", "color", "scale_y", "visible"], "type": "string", "description": "Visual property", "name": "property", "in": "path", "required": true},
                    {"description": "Telemetry field", "name": "binding", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BindingRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PlacedAsset"}}}
            }
        },
        "/plants/{plantId}/selection": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scene"],
                "summary": "Select an object or clear the selection",
                "parameters": [
                    {"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true},
                    {"description": "Object ID or null", "name": "selection", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SelectionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SceneResponse"}}}
            }
        },
        "/plants/{plantId}/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scene"],
                "summary": "Live visual state of bound objects",
                "parameters": [{"type": "string", "description": "Plant ID", "name": "plantId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/telemetry.VisualState"}}}}
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "boolean", "example": true},
                "kind": {"type": "string", "example": "validation"},
                "message": {"type": "string"}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "sessions": {"type": "array", "items": {"type": "string"}},
                "cache": {"type": "object"}
            }
        },
        "handlers.AddObjectRequest": {
            "type": "object",
            "properties": {
                "assetId": {"type": "string"},
                "asset": {"$ref": "#/definitions/models.LibraryAsset"}
            }
        },
        "handlers.BindingRequest": {
            "type": "object",
            "properties": {"field": {"type": "string", "example": "rpm"}}
        },
        "handlers.SelectionRequest": {
            "type": "object",
            "properties": {"id": {"type": "string"}}
        },
        "handlers.SceneResponse": {
            "type": "object",
            "properties": {
                "session": {"$ref": "#/definitions/scene.SessionInfo"},
                "objects": {"type": "array", "items": {"$ref": "#/definitions/models.PlacedAsset"}},
                "selectedId": {"type": "string"}
            }
        },
        "scene.SessionInfo": {
            "type": "object",
            "properties": {
                "plantId": {"type": "string"},
                "objects": {"type": "integer"},
                "dirty": {"type": "boolean"},
                "loaded": {"type": "boolean"},
                "loadedAt": {"type": "string", "format": "date-time"},
                "savedAt": {"type": "string", "format": "date-time"}
            }
        },
        "models.PlacedAsset": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "assetId": {"type": "string"},
                "name": {"type": "string"},
                "modelUrl": {"type": "string"},
                "position": {"type": "array", "items": {"type": "number"}},
                "rotation": {"type": "array", "items": {"type": "number"}},
                "scale": {"type": "array", "items": {"type": "number"}},
                "boundDeviceId": {"type": "string"},
                "telemetryMapping": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.ObjectPatch": {
            "type": "object",
            "properties": {
                "position": {"type": "array", "items": {"type": "number"}},
                "rotation": {"type": "array", "items": {"type": "number"}},
                "scale": {"type": "array", "items": {"type": "number"}},
                "boundDeviceId": {"type": "string"},
                "telemetryMapping": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.LibraryAsset": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "file": {"type": "string"},
                "thumbnail": {"type": "string"},
                "category": {"type": "string", "enum": ["MACHINE", "SENSOR", "INFRASTRUCTURE", "OTHER"]},
                "default_scale": {"type": "number"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.Device": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tenant": {"type": "string"},
                "name": {"type": "string"},
                "serial_number": {"type": "string"},
                "token": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "last_seen": {"type": "string", "format": "date-time"},
                "latest_telemetry": {"type": "object"}
            }
        },
        "models.CreateDeviceRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "serial_number": {"type": "string"},
                "tenant": {"type": "string"}
            }
        },
        "telemetry.VisualState": {
            "type": "object",
            "properties": {
                "objectId": {"type": "string"},
                "deviceId": {"type": "string"},
                "spinRate": {"type": "number"},
                "color": {"type": "string"},
                "scaleY": {"type": "number"},
                "visible": {"type": "boolean"},
                "missing": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/editor",
	Schemes:          []string{},
	Title:            "Digital Twin Scene Editor API",
	Description:      "Per-plant scene editing sessions synchronized with the factory backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
