// Package immochat provides embedded assets for production builds.
package immochat

import "embed"

// In dev mode templates and static files are read from disk instead.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS

//go:embed api/openapi.yaml
var OpenAPISpec []byte
