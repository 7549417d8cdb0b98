// Package docs holds the OpenAPI document of the development Users API.
package docs

import _ "embed"

// OpenAPI is the OpenAPI 3 document served to the Swagger UI.
//
//go:embed openapi.json
var OpenAPI []byte
