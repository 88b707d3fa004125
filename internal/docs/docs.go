// Package docs registers the OpenAPI document served under /swagger when
// SWAGGER_ENABLED is set. Regenerate the full operation set from the handler
// annotations with:
//
//	swag init -g cmd/inventory/main.go -o internal/docs --parseInternal
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
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "The authenticated caller",
                "operationId": "me",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Principal"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errhandler.ErrorResponse"}}
                }
            }
        },
        "/suppliers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Suppliers"],
                "summary": "List suppliers",
                "operationId": "listSuppliers",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errhandler.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Suppliers"],
                "summary": "Create a supplier",
                "operationId": "createSupplier",
                "parameters": [
                    {"type": "string", "description": "Client retry key", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errhandler.ErrorResponse"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/errhandler.ErrorResponse"}}
                }
            }
        },
        "/inventory": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "List inventory items",
                "operationId": "listItems",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "headers": {"ETag": {"type": "string"}}},
                    "304": {"description": "Not Modified"}
                }
            }
        },
        "/analytics/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Dashboard summary",
                "operationId": "analyticsSummary",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "domain.Principal": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "USER"]}
            }
        },
        "errhandler.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "BAD_REQUEST"},
                "statusCode": {"type": "integer", "example": 400},
                "message": {"type": "string", "example": "name must not be blank"},
                "timestamp": {"type": "string", "example": "2024-01-15T10:30:45.123Z"},
                "path": {"type": "string", "example": "/api/suppliers"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "SmartSupply Inventory API",
	Description:      "Suppliers, inventory items, stock history and analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
