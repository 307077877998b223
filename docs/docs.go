// Package docs registers the OpenAPI document served under /swagger.
// Regenerate from the handler annotations with `swag init`.
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
        "/auth/login": {"post": {"tags": ["Authentication"], "summary": "Login", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AuthResult"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.AuthResult"}}}}},
        "/auth/register": {"post": {"tags": ["Authentication"], "summary": "Register new user", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AuthResult"}}}}},
        "/auth/providers/{provider}": {"get": {"tags": ["Authentication"], "summary": "OAuth login", "parameters": [{"type": "string", "name": "provider", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AuthResult"}}}}},
        "/auth/forgot-password": {"post": {"tags": ["Authentication"], "summary": "Request a password reset code", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AuthResult"}}}}},
        "/auth/reset-password": {"post": {"tags": ["Authentication"], "summary": "Reset password with the emailed code", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AuthResult"}}}}},
        "/auth/check": {"get": {"tags": ["Authentication"], "summary": "Check a session", "responses": {"200": {"description": "OK"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["Authentication"], "summary": "Logout", "responses": {"200": {"description": "OK"}}}},
        "/auth/password": {"patch": {"security": [{"BearerAuth": []}], "tags": ["Authentication"], "summary": "Change the caller's password", "responses": {"200": {"description": "OK"}}}},
        "/auth/permissions": {"get": {"security": [{"BearerAuth": []}], "tags": ["Authentication"], "summary": "Caller's role", "responses": {"200": {"description": "OK"}}}},
        "/auth/identity": {"get": {"security": [{"BearerAuth": []}], "tags": ["Authentication"], "summary": "Caller's identity", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["Authentication"], "summary": "Caller's user row", "responses": {"200": {"description": "OK"}}}},
        "/admin/dashboard/stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["Dashboard"], "summary": "Dashboard counts", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}},
        "/admin/dashboard/activities": {"get": {"security": [{"BearerAuth": []}], "tags": ["Dashboard"], "summary": "Latest activities", "responses": {"200": {"description": "OK"}}}},
        "/admin/users": {"get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "List users", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}, {"type": "string", "name": "search", "in": "query"}, {"type": "string", "name": "role", "in": "query"}, {"type": "boolean", "name": "isVerified", "in": "query"}, {"type": "boolean", "name": "isOwner", "in": "query"}, {"type": "boolean", "name": "isRenter", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HATEOASResponse"}}}}},
        "/admin/users/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Get user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Update user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Delete user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/users/{id}/verified": {"patch": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Toggle verification", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/users/{id}/avatar": {"post": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Upload avatar", "consumes": ["multipart/form-data"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "file", "name": "image", "in": "formData", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/admin/companies": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Companies"], "summary": "List companies", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HATEOASResponse"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Companies"], "summary": "Create company", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/verifications": {"get": {"security": [{"BearerAuth": []}], "tags": ["Verifications"], "summary": "Verification board", "responses": {"200": {"description": "OK"}}}},
        "/admin/verifications/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["Verifications"], "summary": "Get verification request", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/admin/verifications/{id}/status": {"patch": {"security": [{"BearerAuth": []}], "tags": ["Verifications"], "summary": "Move a verification request", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/admin/resources": {"get": {"security": [{"BearerAuth": []}], "tags": ["Resources"], "summary": "Resource names", "responses": {"200": {"description": "OK"}}}},
        "/admin/resources/{resource}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Resources"], "summary": "List records", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}, {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "name": "filter", "in": "query"}, {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "name": "sort", "in": "query"}, {"type": "integer", "name": "current", "in": "query"}, {"type": "integer", "name": "pageSize", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ListResponse"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Resources"], "summary": "Create record", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "405": {"description": "Method Not Allowed"}}}
        },
        "/admin/resources/{resource}/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Resources"], "summary": "Get record", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}, {"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Resources"], "summary": "Update record", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}, {"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Resources"], "summary": "Delete record", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}, {"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/bulk/{resource}": {"get": {"security": [{"BearerAuth": []}], "tags": ["Resources"], "summary": "Bulk operations", "parameters": [{"type": "string", "name": "resource", "in": "path", "required": true}], "responses": {"501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}},
        "/admin/ws/changes": {"get": {"tags": ["Realtime"], "summary": "Row change feed (WebSocket)", "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}, {"type": "string", "name": "table", "in": "query"}, {"type": "string", "name": "event", "in": "query"}], "responses": {"101": {"description": "Switching Protocols"}}}},
        "/admin/ws/verifications": {"get": {"tags": ["Realtime"], "summary": "Live verification board (WebSocket)", "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}], "responses": {"101": {"description": "Switching Protocols"}}}},
        "/admin/ws/users": {"get": {"tags": ["Realtime"], "summary": "Live users or companies list (WebSocket)", "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}, {"type": "string", "name": "kind", "in": "query"}], "responses": {"101": {"description": "Switching Protocols"}}}}
    },
    "definitions": {
        "models.AuthError": {"type": "object", "properties": {"name": {"type": "string"}, "message": {"type": "string"}}},
        "models.AuthResult": {"type": "object", "properties": {"success": {"type": "boolean"}, "redirectTo": {"type": "string"}, "token": {"type": "string"}, "error": {"$ref": "#/definitions/models.AuthError"}}},
        "models.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "models.ErrorResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "error": {"type": "string"}, "retryable": {"type": "boolean"}}},
        "models.ListResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "data": {}, "total": {"type": "integer"}}},
        "models.PaginationMeta": {"type": "object", "properties": {"page": {"type": "integer"}, "limit": {"type": "integer"}, "total_items": {"type": "integer"}, "total_pages": {"type": "integer"}}},
        "models.PaginationLinks": {"type": "object", "properties": {"self": {"type": "string"}, "next": {"type": "string"}, "prev": {"type": "string"}}},
        "models.HATEOASResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {}, "meta": {"$ref": "#/definitions/models.PaginationMeta"}, "links": {"$ref": "#/definitions/models.PaginationLinks"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Rental Admin API",
	Description:      "Admin dashboard backend for the vehicle rental marketplace.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
