// Package docs registers the OpenAPI description served at /api/swagger.
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
        "/drawings": {
            "get": {
                "description": "Returns the discipline index and the drawing list, optionally filtered by discipline. Answers 202 while metadata is loading.",
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "List drawings",
                "parameters": [
                    {"type": "string", "description": "Discipline filter, 전체 for all", "name": "discipline", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Processed drawing data", "schema": {"$ref": "#/definitions/models.ProcessedData"}},
                    "202": {"description": "Metadata still loading"},
                    "400": {"description": "Unknown discipline"}
                }
            }
        },
        "/drawings/reload": {
            "post": {
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "Re-fetch the metadata document",
                "responses": {
                    "200": {"description": "Reloaded"},
                    "502": {"description": "Fetch failed, fallback catalog installed"}
                }
            }
        },
        "/drawings/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "Get a drawing entry",
                "parameters": [
                    {"type": "string", "description": "Drawing entry ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Drawing entry", "schema": {"$ref": "#/definitions/models.AppDrawing"}},
                    "202": {"description": "Metadata still loading"},
                    "404": {"description": "Drawing not found"}
                }
            }
        },
        "/drawings/{id}/revisions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "Get the revision history of a drawing entry",
                "parameters": [
                    {"type": "string", "description": "Drawing entry ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Revision history, possibly empty"},
                    "202": {"description": "Metadata still loading"},
                    "404": {"description": "Drawing not found"}
                }
            }
        },
        "/project": {
            "get": {
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "Get project information",
                "responses": {
                    "200": {"description": "Project and declared disciplines"},
                    "202": {"description": "Metadata still loading"}
                }
            }
        },
        "/viewer/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["viewer"],
                "summary": "Start a viewer session",
                "responses": {
                    "201": {"description": "New session on the 전체 discipline"},
                    "202": {"description": "Metadata still loading"}
                }
            }
        },
        "/viewer/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["viewer"],
                "summary": "Get the view of a session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Session view"},
                    "404": {"description": "Session not found"}
                }
            },
            "delete": {
                "tags": ["viewer"],
                "summary": "End a viewer session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/viewer/sessions/{id}/discipline": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["viewer"],
                "summary": "Change the discipline filter",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Discipline", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DisciplineRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session view"},
                    "400": {"description": "Unknown discipline"},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/viewer/sessions/{id}/compare": {
            "post": {
                "produces": ["application/json"],
                "tags": ["viewer"],
                "summary": "Toggle compare mode",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Session view"},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/viewer/sessions/{id}/drawings/{drawingId}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["viewer"],
                "summary": "Click a drawing in the list",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Drawing entry ID", "name": "drawingId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Session view"},
                    "404": {"description": "Session or drawing not found"}
                }
            }
        },
        "/cache/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Get cache statistics",
                "responses": {"200": {"description": "Cache statistics"}}
            }
        },
        "/cache/warm": {
            "post": {
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Warm the image cache",
                "responses": {
                    "200": {"description": "All images cached"},
                    "202": {"description": "Metadata still loading"},
                    "207": {"description": "Some images failed"}
                }
            }
        },
        "/cache/clear": {
            "post": {
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Clear entire cache",
                "responses": {"200": {"description": "Cache cleared"}}
            }
        },
        "/cache/drawings/{file}": {
            "delete": {
                "tags": ["cache"],
                "summary": "Invalidate a cached image",
                "parameters": [
                    {"type": "string", "description": "Image file name", "name": "file", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Invalid file name"}
                }
            }
        }
    },
    "definitions": {
        "handlers.DisciplineRequest": {
            "type": "object",
            "properties": {"discipline": {"type": "string"}}
        },
        "models.AppDrawing": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "drawingId": {"type": "string"},
                "name": {"type": "string"},
                "discipline": {"type": "string"},
                "imageFile": {"type": "string"},
                "regionKey": {"type": "string"}
            }
        },
        "models.ProcessedData": {
            "type": "object",
            "properties": {
                "disciplines": {"type": "array", "items": {"type": "string"}},
                "drawings": {"type": "array", "items": {"$ref": "#/definitions/models.AppDrawing"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Drawing Viewer API",
	Description:      "Drawing catalog, revision history and viewer sessions for construction drawing sets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
