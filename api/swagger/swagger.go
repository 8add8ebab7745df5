package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Learning Center Admin API",
        "description": "Admin gateway for the learning-center public site",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Operator login and token lifecycle"},
        {"name": "Catalog", "description": "Teachers, students, phones, socials, icons and media"},
        {"name": "Editor", "description": "Website-version composition sessions"},
        {"name": "Versions", "description": "Website version listing and activation"},
        {"name": "Messages", "description": "Visitor message inbox and exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate operator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/teachers": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List teachers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create teacher",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/editor/sessions": {
            "post": {
                "tags": ["Editor"],
                "summary": "Open an editor session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Session created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Session limit reached"}
                }
            }
        },
        "/api/v1/editor/sessions/{id}/drag/start": {
            "post": {
                "tags": ["Editor"],
                "summary": "Begin dragging an entity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Session state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/editor/sessions/{id}/drag/end": {
            "post": {
                "tags": ["Editor"],
                "summary": "Finish a drag against a drop target",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Session state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/editor/sessions/{id}/submit": {
            "post": {
                "tags": ["Editor"],
                "summary": "Persist the arrangement upstream",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Version updated"},
                    "201": {"description": "Version created"},
                    "502": {"description": "Upstream rejected the arrangement"}
                }
            }
        },
        "/api/v1/versions/{id}/activate": {
            "post": {
                "tags": ["Versions"],
                "summary": "Make a version live",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Activated"}
                }
            }
        },
        "/api/v1/messages": {
            "get": {
                "tags": ["Messages"],
                "summary": "List visitor messages",
                "parameters": [
                    {"name": "unchecked", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/messages/exports": {
            "post": {
                "tags": ["Messages"],
                "summary": "Start an asynchronous export",
                "responses": {
                    "202": {"description": "Export queued"},
                    "503": {"description": "Exports disabled"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "OpenSessionRequest": {
            "type": "object",
            "properties": {
                "version_id": {"type": "integer"}
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
