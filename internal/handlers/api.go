package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aegis/internal/facade"
	"aegis/internal/logging"
	"aegis/internal/version"
)

// APIHandlers serves the facade over JSON.
type APIHandlers struct {
	facade *facade.Facade
	logger *logging.Logger
}

func NewAPIHandlers(f *facade.Facade, logger *logging.Logger) *APIHandlers {
	return &APIHandlers{facade: f, logger: logger}
}

// StatusGET handles GET /api/status.
func (h *APIHandlers) StatusGET(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.GetStatus(c.Request.Context()))
}

// AnalysisGET handles GET /api/analysis.
func (h *APIHandlers) AnalysisGET(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.GetAnalysis())
}

// missingCommand is looked up when the body carries no command field.
const missingCommand = "undefined"

// ExecutePOST handles POST /api/execute. The endpoint always answers 200:
// a missing or unreadable body looks up "undefined", a JSON null looks up
// "null", and any other non-string command is matched by its printed form.
func (h *APIHandlers) ExecutePOST(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Debugf("execute: ignoring unreadable body: %v", err)
	}
	c.JSON(http.StatusOK, h.facade.ExecuteCommand(commandText(body)))
}

func commandText(body map[string]any) string {
	v, ok := body["command"]
	if !ok {
		return missingCommand
	}
	switch cmd := v.(type) {
	case nil:
		return "null"
	case string:
		return cmd
	default:
		return fmt.Sprint(cmd)
	}
}

// Healthz is the liveness probe.
func (h *APIHandlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// VersionGET reports build metadata.
func (h *APIHandlers) VersionGET(c *gin.Context) {
	c.JSON(http.StatusOK, version.Current())
}

// APINotFound answers unmatched /api routes.
func APINotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "path": c.Request.URL.Path})
}
