package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const indexDocument = "index.html"

// StaticHandlers serves a prebuilt single-page bundle. Paths that do not
// name a file in the bundle receive the index document so client-side
// routing works.
type StaticHandlers struct {
	files fs.FS
	index []byte
}

// NewStaticHandlers reads the index document up front; a bundle without one
// is a configuration error.
func NewStaticHandlers(files fs.FS) (*StaticHandlers, error) {
	index, err := fs.ReadFile(files, indexDocument)
	if err != nil {
		return nil, fmt.Errorf("static bundle has no %s: %w", indexDocument, err)
	}
	return &StaticHandlers{files: files, index: index}, nil
}

// StaticDir opens dir as a bundle.
func StaticDir(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s: not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// Serve is installed as the router's NoRoute handler.
func (h *StaticHandlers) Serve(c *gin.Context) {
	p := c.Request.URL.Path
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		APINotFound(c)
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "path": p})
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name != "" && name != indexDocument {
		if info, err := fs.Stat(h.files, name); err == nil && !info.IsDir() {
			http.ServeFileFS(c.Writer, c.Request, h.files, name)
			return
		}
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.index)
}
