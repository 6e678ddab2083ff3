package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/deppfellow/bestsellers-api/static"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the docs UI. The page loads its JS from a CDN and
// reads the OpenAPI document from /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  static.FS,
	}
}

// ServeOpenAPIUI serves the embedded openapi.html.
//
// Cache-Control is set to "no-cache" so clients do not reuse old docs.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := fs.ReadFile(h.assets, static.OpenAPIUI)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTMLBlob(http.StatusOK, templateBytes); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
