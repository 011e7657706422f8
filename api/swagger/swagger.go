package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Visitly Availability API",
        "description": "Weekly recurring availability for visit hosts",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token lifecycle"},
        {"name": "Availability", "description": "Host weekly availability grid"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LogoutRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/hosts/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get a host's weekly availability",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Host not found"}
                }
            },
            "put": {
                "tags": ["Availability"],
                "summary": "Replace a host's weekly availability selection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveWeeklyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid slots"},
                    "404": {"description": "Host not found"}
                }
            },
            "delete": {
                "tags": ["Availability"],
                "summary": "Clear a host's recurring availability",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Host not found"}
                }
            }
        },
        "/hosts/{id}/availability/export": {
            "get": {
                "tags": ["Availability"],
                "summary": "Export a host's weekly availability",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "400": {"description": "Unsupported format"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "LogoutRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "SlotInput": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "example": "MONDAY"},
                "time": {"type": "string", "example": "08:00"}
            },
            "required": ["day", "time"]
        },
        "SaveWeeklyRequest": {
            "type": "object",
            "properties": {
                "slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SlotInput"}
                }
            }
        },
        "AvailabilityRange": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "daysofweek": {"type": "string"},
                "start_time": {"type": "string", "example": "08:00:00"},
                "end_time": {"type": "string", "example": "09:30:00"},
                "is_recurring": {"type": "boolean"},
                "specific_date": {"type": "string"}
            }
        },
        "WeeklyGridDay": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "label": {"type": "string"},
                "slots": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            }
        },
        "WeeklyGrid": {
            "type": "object",
            "properties": {
                "host_id": {"type": "string"},
                "days": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/WeeklyGridDay"}
                },
                "ranges": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AvailabilityRange"}
                },
                "issues": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
