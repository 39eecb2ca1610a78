package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SIAADE API",
        "description": "Academic progress and enrollment eligibility engine",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token issuance"},
        {"name": "Eligibility", "description": "Prerequisite resolution"},
        {"name": "AcademicStatus", "description": "Aggregated academic status views"},
        {"name": "RegistrationStages", "description": "Registration campaign windows"},
        {"name": "Enrollments", "description": "Stage enrollments, toggles and audit trail"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/careers/{careerId}/eligibility": {
            "get": {
                "tags": ["Eligibility"],
                "summary": "Check enrollment eligibility",
                "parameters": [
                    {"name": "careerId", "in": "path", "required": true, "type": "integer"},
                    {"name": "studentId", "in": "query", "required": true, "type": "string"},
                    {"name": "targetOrderNo", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Career not found"}
                }
            }
        },
        "/students/{studentId}/academic-status": {
            "get": {
                "tags": ["AcademicStatus"],
                "summary": "Student academic status grouped by year",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/students/{studentId}/academic-status/export": {
            "get": {
                "tags": ["AcademicStatus"],
                "summary": "Export academic status as CSV or PDF",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered document"},
                    "403": {"description": "Export disabled"}
                }
            }
        },
        "/registration/stages": {
            "get": {
                "tags": ["RegistrationStages"],
                "summary": "List registration stages",
                "parameters": [
                    {"name": "careerId", "in": "query", "type": "integer"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["RegistrationStages"],
                "summary": "Create registration stage",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid window"}
                }
            }
        },
        "/registration/stages/{id}": {
            "patch": {
                "tags": ["RegistrationStages"],
                "summary": "Edit registration stage",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Stage not found"}
                }
            }
        },
        "/registration/stages/{id}/close": {
            "post": {
                "tags": ["RegistrationStages"],
                "summary": "Close registration stage",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Stage not found"}
                }
            }
        },
        "/registration/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll into an active stage",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Stage inactive or correlatives missing"}
                }
            }
        },
        "/registration/enrollments/{id}": {
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Remove a stage enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Enrollment not found"}
                }
            }
        },
        "/registration/toggle": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Toggle a subject or final exam inscription",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Correlatives missing"}
                }
            }
        },
        "/registration/audits": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollment audit trail",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "outcome", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
