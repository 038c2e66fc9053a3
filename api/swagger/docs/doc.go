// Package docs holds the generated swagger spec for autopeerd's HTTP
// surface, regenerated against the peering endpoints (spec.md §4.6) in
// place of the teacher's WireGuard-portal spec.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login/": {
            "post": {
                "summary": "Mint a short-lived session token for a signed ASN",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}}
                }
            }
        },
        "/peer/info": {
            "post": {
                "summary": "Return the stored PeerInfo for an authenticated ASN",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/peer/create": {
            "post": {
                "summary": "Validate, provision, and persist a new peering session",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/peer/delete": {
            "delete": {
                "summary": "Tear down and forget a peering session",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {"ASN": {"type": "integer"}}
        },
        "LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "TokenRequest": {
            "type": "object",
            "properties": {"ASN": {"type": "integer"}, "token": {"type": "string"}}
        },
        "CreateRequest": {
            "type": "object",
            "properties": {
                "ASN": {"type": "integer"},
                "token": {"type": "string"},
                "peer_ip": {"type": "string"},
                "peer_port": {"type": "integer"},
                "peer_pubkey": {"type": "string"},
                "peer_psk": {"type": "string"},
                "ll_ip4": {"type": "string"},
                "ll_ip6": {"type": "string"},
                "dn42_ip4": {"type": "string"},
                "dn42_ip6": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "autopeerd API",
	Description:      "DN42 BGP auto-peering control plane: signature-gated session login and peer provisioning.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
