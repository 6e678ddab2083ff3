// Package static embeds the API documentation served on /docs and /static.
package static

import "embed"

// FS holds openapi.json and the docs UI page.
//
//go:embed openapi.json openapi.html
var FS embed.FS

// OpenAPIUI is the file name of the docs UI page inside FS.
const OpenAPIUI = "openapi.html"
