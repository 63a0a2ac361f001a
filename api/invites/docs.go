// Package invites holds the Swagger document served at /swagger/.
//
// Regenerate from the handler annotations with:
//
//	swag init -g router.go -d internal/invites/http,pkg/invitesdk,pkg/httpx -o api/invites --outputTypes go
package invites

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/futurgenie"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process runs.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/invitesdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe checking the database and that session tokens can be verified.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/invitesdk.HealthResponse"}},
                    "503": {"description": "degraded", "schema": {"$ref": "#/definitions/invitesdk.HealthResponse"}}
                }
            }
        },
        "/v1/classrooms": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List the classrooms of the director's school by name.",
                "produces": ["application/json"],
                "tags": ["Schools"],
                "summary": "List Classrooms",
                "responses": {
                    "200": {"description": "classrooms", "schema": {"$ref": "#/definitions/invitesdk.ClassroomList"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Add a classroom to the director's school. Names are unique per school.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Schools"],
                "summary": "Create Classroom",
                "parameters": [
                    {"description": "Classroom", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/invitesdk.ClassroomRequest"}}
                ],
                "responses": {
                    "201": {"description": "classroom", "schema": {"$ref": "#/definitions/invitesdk.Classroom"}},
                    "400": {"description": "invalid_request", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/v1/classrooms/{classroom_id}/invitations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List the unused invitations of a classroom, newest first. Expired invitations are included with expired=true.",
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "List Invitations",
                "parameters": [
                    {"type": "string", "description": "Classroom ID", "name": "classroom_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "invitations", "schema": {"$ref": "#/definitions/invitesdk.InvitationList"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/v1/classrooms/{classroom_id}/members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List the accounts that joined a classroom of the director's school, oldest first, with teacher and parent counts.",
                "produces": ["application/json"],
                "tags": ["Schools"],
                "summary": "List Classroom Members",
                "parameters": [
                    {"type": "string", "description": "Classroom ID", "name": "classroom_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "members", "schema": {"$ref": "#/definitions/invitesdk.MemberList"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/v1/invitations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Return a valid invitation link for a classroom and role. An existing valid invitation for the same classroom and role is returned as is (200); otherwise a new one is created (201).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Issue Invitation",
                "parameters": [
                    {"description": "Classroom and intended role", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/invitesdk.IssueRequest"}}
                ],
                "responses": {
                    "200": {"description": "reused invitation", "schema": {"$ref": "#/definitions/invitesdk.Invitation"}},
                    "201": {"description": "new invitation", "schema": {"$ref": "#/definitions/invitesdk.Invitation"}},
                    "400": {"description": "invalid_request", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/v1/invitations/redeem": {
            "post": {
                "description": "Consume an invitation and attach an account to its classroom. With a valid bearer session the session's account is attached and account_id is ignored. Without one, account_id may only name a new account.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Redeem Invitation",
                "parameters": [
                    {"description": "Secret, requested role and account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/invitesdk.RedeemRequest"}}
                ],
                "responses": {
                    "200": {"description": "placement", "schema": {"$ref": "#/definitions/invitesdk.RedeemResponse"}},
                    "400": {"description": "invalid_request", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "409": {"description": "already_used, account_conflict", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "410": {"description": "expired", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "422": {"description": "role_mismatch", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/v1/invitations/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Delete an invitation of the caller's school, whatever its state.",
                "tags": ["Invitations"],
                "summary": "Revoke Invitation",
                "parameters": [
                    {"type": "string", "description": "Invitation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "revoked"},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        },
        "/v1/onboarding/school": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Create a school with the caller as its director. When the service is gated the X-Onboarding-Token header must match.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Schools"],
                "summary": "Onboard School",
                "parameters": [
                    {"type": "string", "description": "Onboarding token", "name": "X-Onboarding-Token", "in": "header"},
                    {"description": "School", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/invitesdk.OnboardRequest"}}
                ],
                "responses": {
                    "201": {"description": "school and director", "schema": {"$ref": "#/definitions/invitesdk.OnboardResponse"}},
                    "400": {"description": "invalid_request", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}},
                    "409": {"description": "already_onboarded", "schema": {"$ref": "#/definitions/httpx.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "httpx.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "invitesdk.Classroom": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "grade": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "school_id": {"type": "string"}
            }
        },
        "invitesdk.ClassroomList": {
            "type": "object",
            "properties": {
                "classrooms": {"type": "array", "items": {"$ref": "#/definitions/invitesdk.Classroom"}}
            }
        },
        "invitesdk.ClassroomRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "grade": {"type": "string", "maxLength": 20},
                "name": {"type": "string", "maxLength": 100}
            }
        },
        "invitesdk.Member": {
            "type": "object",
            "properties": {
                "joined_at": {"type": "string"},
                "role": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "invitesdk.MemberList": {
            "type": "object",
            "properties": {
                "classroom_id": {"type": "string"},
                "members": {"type": "array", "items": {"$ref": "#/definitions/invitesdk.Member"}},
                "parents": {"type": "integer"},
                "teachers": {"type": "integer"}
            }
        },
        "invitesdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "verifier": {"type": "string"}
            }
        },
        "invitesdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/invitesdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "invitesdk.Invitation": {
            "type": "object",
            "properties": {
                "classroom_id": {"type": "string"},
                "created_at": {"type": "string"},
                "created_by": {"type": "string"},
                "expired": {"type": "boolean"},
                "expires_at": {"type": "string"},
                "id": {"type": "string"},
                "intended_role": {"type": "string"},
                "invite_url": {"type": "string"},
                "reused": {"type": "boolean"},
                "secret": {"type": "string"}
            }
        },
        "invitesdk.InvitationList": {
            "type": "object",
            "properties": {
                "invitations": {"type": "array", "items": {"$ref": "#/definitions/invitesdk.Invitation"}}
            }
        },
        "invitesdk.IssueRequest": {
            "type": "object",
            "required": ["classroom_id", "intended_role"],
            "properties": {
                "classroom_id": {"type": "string", "maxLength": 64},
                "intended_role": {"type": "string", "maxLength": 16}
            }
        },
        "invitesdk.OnboardRequest": {
            "type": "object",
            "required": ["school_name"],
            "properties": {
                "display_name": {"type": "string", "maxLength": 100},
                "school_name": {"type": "string", "maxLength": 200}
            }
        },
        "invitesdk.OnboardResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "role": {"type": "string"},
                "school_id": {"type": "string"},
                "school_name": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "invitesdk.RedeemRequest": {
            "type": "object",
            "required": ["requested_role", "secret"],
            "properties": {
                "account_id": {"type": "string", "maxLength": 128},
                "display_name": {"type": "string", "maxLength": 100},
                "requested_role": {"type": "string", "maxLength": 16},
                "secret": {"type": "string", "maxLength": 256}
            }
        },
        "invitesdk.RedeemResponse": {
            "type": "object",
            "properties": {
                "classroom_id": {"type": "string"},
                "redeemed_at": {"type": "string"},
                "role": {"type": "string"},
                "school_id": {"type": "string"},
                "school_name": {"type": "string"},
                "token_id": {"type": "string"},
                "user_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Identity-provider session JWT. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Classroom Invitation Service API",
	Description:      "Multi-tenant school invitations. Directors issue single-use, expiring links that attach a teacher or parent account to a classroom.\n\nSession tokens come from the identity provider and are verified with HS256 or EdDSA (JWKS).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
