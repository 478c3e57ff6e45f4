// Package openapi holds the HTTP API description served by the server.
package openapi

import _ "embed"

// Spec is the OpenAPI document in YAML form
//
//go:embed openapi.yaml
var Spec []byte
