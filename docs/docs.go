// Package docs registers the OpenAPI document served at /swagger/*.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.LoginInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/admin/payouts": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List pending payouts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/admin/payouts/approve": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Approve payout",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/admin.ApprovePayoutInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.ApproveResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/admin/payouts/{id}/approve": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Approve payout by ID",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Payout ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.ApproveResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/admin/users/{id}/credit-transactions": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List credit transactions",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "User ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        }
    },
    "definitions": {
        "admin.ApprovePayoutInput": {
            "type": "object",
            "properties": {"payoutId": {"type": "string"}}
        },
        "admin.ApproveResult": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}}
        },
        "auth.LoginInput": {
            "type": "object",
            "required": ["identity", "password"],
            "properties": {
                "identity": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "common.ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"},
                "errors": {}
            }
        },
        "common.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Enter your Bearer token in the format: ` + "`Bearer {token}`" + `",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Payollar API",
	Description:      "Payout approval and credit ledger API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
