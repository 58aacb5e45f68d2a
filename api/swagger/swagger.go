// Package swagger registers the OpenAPI document served at /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/dashboard/progress": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Per-grade progress rollups",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/dashboard/progress/sections": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Section rows of one grade level",
                "parameters": [
                    {"name": "gradeLevel", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/dashboard/progress/index": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Grade to section navigation index",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/dashboard/overview": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "School-wide overview snapshot",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/dashboard/gamemastery": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Game averages and leaderboards",
                "parameters": [
                    {"name": "gradeLevel", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/class/students": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["students"],
                "summary": "Roster of one class section",
                "parameters": [
                    {"name": "gradeLevel", "in": "query", "type": "integer", "required": true},
                    {"name": "section", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["students"],
                "summary": "Student drill-down bundle",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/questions/generate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["questions"],
                "summary": "Generate question candidates",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "502": {"description": "Model endpoint unavailable"}
                }
            }
        },
        "/questions/pending": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["questions"],
                "summary": "Candidates awaiting review",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/questions/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["questions"],
                "summary": "Store approved candidates",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown candidate id"},
                    "502": {"description": "Platform backend unavailable"}
                }
            }
        },
        "/questions/discard": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["questions"],
                "summary": "Drop pending candidates",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/reports/overall": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reports"],
                "summary": "Download the school-wide report",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/reports/section": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reports"],
                "summary": "Download one section's report",
                "parameters": [
                    {"name": "gradeLevel", "in": "query", "type": "integer", "required": true},
                    {"name": "section", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

var swaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/admin",
	Schemes:          []string{},
	Title:            "STELLAR Admin API",
	Description:      "Aggregation and reporting service for the STELLAR admin dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(swaggerInfo.InstanceName(), swaggerInfo)
}
