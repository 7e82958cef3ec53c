// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/app/main.go
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
        "/auth/user": {"get": {"tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/theme": {"put": {"tags": ["auth"], "summary": "Change UI theme", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/content": {
            "get": {"tags": ["content"], "summary": "List own content, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["content"], "summary": "Create a content entry", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/content/{category}": {"get": {"tags": ["content"], "summary": "List own content in a category", "parameters": [{"type": "string", "name": "category", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/content/{id}": {
            "put": {"tags": ["content"], "summary": "Update an owned entry", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["content"], "summary": "Delete an owned entry", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/content-counts": {"get": {"tags": ["content"], "summary": "Entries per category", "responses": {"200": {"description": "OK"}}}},
        "/reminders": {
            "get": {"tags": ["reminders"], "summary": "List own reminders", "parameters": [{"type": "string", "name": "status", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["reminders"], "summary": "Create a reminder", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/reminders/upcoming": {"get": {"tags": ["reminders"], "summary": "Soonest incomplete reminders with urgency", "parameters": [{"type": "integer", "default": 3, "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/reminders/{id}": {
            "put": {"tags": ["reminders"], "summary": "Update an owned reminder", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["reminders"], "summary": "Delete an owned reminder", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/stats": {
            "get": {"tags": ["stats"], "summary": "Own dashboard counters", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["stats"], "summary": "Update own counters", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/activity": {"get": {"tags": ["stats"], "summary": "Recent own activity", "parameters": [{"type": "integer", "default": 10, "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/integrations": {
            "get": {"tags": ["integrations"], "summary": "List own integrations", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["integrations"], "summary": "Connect or disconnect a platform", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/uploads/images": {"post": {"tags": ["uploads"], "summary": "Presigned image upload", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "503": {"description": "Service Unavailable"}}}},
        "/create-subscription": {"post": {"tags": ["subscriptions"], "summary": "Start or resume the premium subscription", "responses": {"200": {"description": "OK"}, "400": {"description": "No user email on file"}, "429": {"description": "Too Many Requests"}}}},
        "/stripe/webhook": {"post": {"tags": ["subscriptions"], "summary": "Stripe webhook", "responses": {"200": {"description": "OK"}, "400": {"description": "signature verification failed"}}}},
        "/admin/stats": {"get": {"tags": ["admin"], "summary": "System-wide counts", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/users": {"get": {"tags": ["admin"], "summary": "All users", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/content": {"get": {"tags": ["admin"], "summary": "All content", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/reminders": {"get": {"tags": ["admin"], "summary": "All reminders", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/activities": {"get": {"tags": ["admin"], "summary": "Recent activity across users", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/users/{id}/role": {"put": {"tags": ["admin"], "summary": "Change a user's role", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/admin/users/{id}": {"delete": {"tags": ["admin"], "summary": "Delete a user and everything they own", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Citadel API",
	Description:      "Personal knowledge and ritual tracker API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
