package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/bizsuite/workorder_backend/internal/middleware"
)

// autoArchiveHandler exposes the auto-archival sweep as an endpoint, in
// addition to the background scheduler.
type autoArchiveHandler struct {
	autoArchiveService portssvc.AutoArchiveSvcFacade
}

func newAutoArchiveHandler(as portssvc.AutoArchiveSvcFacade) *autoArchiveHandler {
	return &autoArchiveHandler{
		autoArchiveService: as,
	}
}

// registerAutoArchiveRoutes registers the manual sweep trigger.
func registerAutoArchiveRoutes(rg *gin.RouterGroup, autoArchiveService portssvc.AutoArchiveSvcFacade) {
	h := newAutoArchiveHandler(autoArchiveService)

	rg.POST("/work-orders/auto-archive/run", h.runAutoArchive)
}

// runAutoArchive godoc
// @Summary Run the auto-archival sweep
// @Description Archives eligible completed work orders and reports which ones still need an invoice
// @Tags work-orders
// @Produce  json
// @Success 200 {object} dto.AutoArchiveResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run auto-archive"
// @Security BearerAuth
// @Router /work-orders/auto-archive/run [post]
func (h *autoArchiveHandler) runAutoArchive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to run auto-archive sweep")

	result, err := h.autoArchiveService.RunAutoArchive(c.Request.Context())
	if err != nil {
		logger.Error("Failed to run auto-archive sweep", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run auto-archive"})
		return
	}

	logger.Info("Auto-archive sweep finished",
		slog.Int("auto_archived", len(result.AutoArchived)),
		slog.Int("needs_invoice", len(result.NeedsInvoice)),
	)
	c.JSON(http.StatusOK, result)
}
