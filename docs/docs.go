// Package docs is generated by swag init from the handler annotations.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in a user",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/handler.LoginInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/rooms": {
            "get": {
                "tags": ["rooms"],
                "summary": "Browse rooms",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query", "enum": ["open", "full", "started", "completed", "cancelled"]},
                    {"type": "string", "name": "game", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["rooms"],
                "summary": "Create a room",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/handler.CreateRoomInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.RoomResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["rooms"],
                "summary": "Get a room",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RoomResponse"}}}
            }
        },
        "/rooms/{id}/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json", "text/event-stream"],
                "tags": ["rooms"],
                "summary": "Join a room",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "name": "stream", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.JoinResponse"}},
                    "401": {"description": "Sign in required", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Room not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Room is full", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "429": {"description": "Too many join attempts", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Registration failed", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/rooms/{id}/prizes": {
            "get": {
                "tags": ["rooms"],
                "summary": "Prize breakdown",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PrizesResponse"}}}
            }
        },
        "/rooms/{id}/events": {
            "get": {
                "produces": ["text/event-stream"],
                "tags": ["rooms"],
                "summary": "Watch a room",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/rooms/{id}/registrations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["rooms"],
                "summary": "Registrations of a room",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.RegistrationResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/registrations/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["registrations"],
                "summary": "My tournaments",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MyRegistrationsResponse"}}}
            }
        },
        "/leaderboard": {
            "get": {
                "tags": ["leaderboard"],
                "summary": "Top players",
                "parameters": [
                    {"type": "string", "name": "sort", "in": "query", "enum": ["earnings", "wins", "winrate"]},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get current user's profile",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ProfileResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update current user's profile",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateProfileInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ProfileResponse"}}}
            }
        },
        "/store/items": {
            "get": {
                "tags": ["store"],
                "summary": "Browse the store",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/chat/channels": {
            "get": {
                "tags": ["chat"],
                "summary": "List chat channels",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}}
            }
        },
        "/chat/messages": {
            "get": {
                "tags": ["chat"],
                "summary": "Channel history",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["chat"],
                "summary": "Post to a channel",
                "responses": {"201": {"description": "Created"}}
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "An error message"}}
        },
        "handler.LoginInput": {
            "type": "object",
            "required": ["login"],
            "properties": {"login": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.RegisterInput": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "username": {"type": "string", "maxLength": 32, "minLength": 3}
            }
        },
        "handler.UpdateProfileInput": {
            "type": "object",
            "properties": {"avatar_url": {"type": "string"}, "full_name": {"type": "string"}, "username": {"type": "string"}}
        },
        "handler.ProfileResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "total_earnings": {"type": "string"},
                "games_won": {"type": "integer"},
                "games_played": {"type": "integer"},
                "win_rate": {"type": "number"},
                "level": {"type": "integer"},
                "rank": {"type": "string"}
            }
        },
        "handler.AuthResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "profile": {"$ref": "#/definitions/handler.ProfileResponse"}}
        },
        "handler.CreateRoomInput": {
            "type": "object",
            "required": ["game", "title"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "game": {"type": "string"},
                "entry_fee": {"type": "number"},
                "max_players": {"type": "integer"},
                "start_date": {"type": "string"},
                "start_time": {"type": "string"},
                "difficulty": {"type": "string", "enum": ["Beginner", "Intermediate", "Expert"]},
                "rules": {"type": "string"}
            }
        },
        "handler.RoomResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "slug": {"type": "string"},
                "title": {"type": "string"},
                "game": {"type": "string"},
                "entry_fee": {"type": "string"},
                "max_players": {"type": "integer"},
                "current_players": {"type": "integer"},
                "spots_left": {"type": "integer"},
                "prize_pool": {"type": "string"},
                "start_date": {"type": "string"},
                "start_time": {"type": "string"},
                "difficulty": {"type": "string"},
                "status": {"type": "string"},
                "host_id": {"type": "string"},
                "host_username": {"type": "string"}
            }
        },
        "handler.SplitResponse": {
            "type": "object",
            "properties": {"total": {"type": "string"}, "first": {"type": "string"}, "second": {"type": "string"}, "third": {"type": "string"}}
        },
        "handler.PrizesResponse": {
            "type": "object",
            "properties": {
                "current": {"$ref": "#/definitions/handler.SplitResponse"},
                "projected": {"$ref": "#/definitions/handler.SplitResponse"},
                "max_prize_pool": {"type": "string"}
            }
        },
        "handler.RegistrationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "room_id": {"type": "string"},
                "payment_status": {"type": "string", "enum": ["pending", "completed", "failed", "refunded"]},
                "payment_amount": {"type": "string"},
                "payment_id": {"type": "string"},
                "registered_at": {"type": "string"},
                "room": {"$ref": "#/definitions/handler.RoomResponse"}
            }
        },
        "handler.JoinResponse": {
            "type": "object",
            "properties": {
                "registration": {"$ref": "#/definitions/handler.RegistrationResponse"},
                "room": {"$ref": "#/definitions/handler.RoomResponse"}
            }
        },
        "handler.MyRegistrationsResponse": {
            "type": "object",
            "properties": {
                "upcoming": {"type": "array", "items": {"$ref": "#/definitions/handler.RegistrationResponse"}},
                "active": {"type": "array", "items": {"$ref": "#/definitions/handler.RegistrationResponse"}},
                "completed": {"type": "array", "items": {"$ref": "#/definitions/handler.RegistrationResponse"}}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "GameArena API",
	Description:      "Tournament rooms, paid registration, leaderboard, store and chat.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
