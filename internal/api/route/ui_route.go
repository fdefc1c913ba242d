package route

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewUIRouter serves a built web UI from dir at the root, falling back to
// index.html for client-side routes. With an empty dir only JSON 404s are served.
func NewUIRouter(r *gin.Engine, dir string) {
	if dir == "" {
		r.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found", "kind": "not_found"})
		})
		return
	}

	index := filepath.Join(dir, "index.html")

	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path

		// API and socket paths never fall back to the UI
		if strings.HasPrefix(p, "/api/") || p == "/ws" || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found", "kind": "not_found"})
			return
		}

		// Serve a static asset when one exists, otherwise the SPA entry point
		asset := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+p)))
		if info, err := os.Stat(asset); err == nil && !info.IsDir() {
			c.File(asset)
			return
		}
		c.File(index)
	})
}
