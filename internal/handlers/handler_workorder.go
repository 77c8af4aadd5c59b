package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/bizsuite/workorder_backend/internal/dto"
	"github.com/bizsuite/workorder_backend/internal/middleware"
)

// workOrderHandler handles HTTP requests related to work orders.
type workOrderHandler struct {
	workOrderService portssvc.WorkOrderSvcFacade
}

// newWorkOrderHandler creates a new workOrderHandler.
func newWorkOrderHandler(ws portssvc.WorkOrderSvcFacade) *workOrderHandler {
	return &workOrderHandler{
		workOrderService: ws,
	}
}

// RegisterWorkOrderRoutes registers routes related to work orders.
func RegisterWorkOrderRoutes(rg *gin.RouterGroup, workOrderService portssvc.WorkOrderSvcFacade) {
	h := newWorkOrderHandler(workOrderService)

	workOrders := rg.Group("/work-orders")
	{
		workOrders.POST("", h.createWorkOrder)
		workOrders.GET("", h.listWorkOrders)
		workOrders.GET("/:id", h.getWorkOrder)
		workOrders.PUT("/:id", h.updateWorkOrder)
		workOrders.DELETE("/:id", h.deleteWorkOrder)
		workOrders.POST("/:id/reopen", h.reopenWorkOrder)
		workOrders.POST("/:id/archive", h.archiveWorkOrder)
	}
}

// respondLifecycleError maps the service error taxonomy to HTTP statuses.
// Lifecycle operations share the full taxonomy, so the mapping lives in one
// place instead of being repeated per endpoint.
func respondLifecycleError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error on "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Work order not found on " + action)
		c.JSON(http.StatusNotFound, gin.H{"error": "Work order not found"})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflict on "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Invalid state on "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPrecondition):
		logger.Warn("Precondition failed on "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createWorkOrder godoc
// @Summary Create a new work order
// @Description Creates a work order, allocates its numbers and writes the initial history
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   workOrder body dto.CreateWorkOrderRequest true "Work order details"
// @Success 201 {object} dto.WorkOrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create work order"
// @Security BearerAuth
// @Router /work-orders [post]
func (h *workOrderHandler) createWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateWorkOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actor.ID))
	logger.Info("Received request to create work order", slog.String("title", req.Title))

	newOrder, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating work order", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create work order in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create work order"})
		}
		return
	}

	logger.Info("Work order created successfully", slog.String("work_order_id", newOrder.WorkOrderID))
	c.JSON(http.StatusCreated, dto.ToWorkOrderResponse(newOrder))
}

// getWorkOrder godoc
// @Summary Get a work order by ID
// @Description Retrieves the full aggregate including history and journey
// @Tags work-orders
// @Produce  json
// @Param   id path string true "Work Order ID"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Work order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve work order"
// @Security BearerAuth
// @Router /work-orders/{id} [get]
func (h *workOrderHandler) getWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workOrderID := c.Param("id")

	logger = logger.With(slog.String("work_order_id", workOrderID))
	logger.Info("Received request to get work order")

	order, err := h.workOrderService.GetWorkOrder(c.Request.Context(), workOrderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Work order not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Work order not found"})
		} else {
			logger.Error("Failed to get work order from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work order"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(order))
}

// listWorkOrders godoc
// @Summary List all work orders
// @Description Lists work orders without history/journey bodies
// @Tags work-orders
// @Produce  json
// @Success 200 {object} dto.ListWorkOrdersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list work orders"
// @Security BearerAuth
// @Router /work-orders [get]
func (h *workOrderHandler) listWorkOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	orders, err := h.workOrderService.ListWorkOrders(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list work orders from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list work orders"})
		return
	}

	c.JSON(http.StatusOK, dto.ListWorkOrdersResponse{WorkOrders: dto.ToWorkOrderResponses(orders)})
}

// updateWorkOrder godoc
// @Summary Update a work order
// @Description Applies a partial update; every change is recorded in the order's history
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Work Order ID"
// @Param   workOrder body dto.UpdateWorkOrderRequest true "Fields to update"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Work order not found"
// @Failure 409 {object} map[string]string "Work order is archived"
// @Failure 500 {object} map[string]string "Failed to update work order"
// @Security BearerAuth
// @Router /work-orders/{id} [put]
func (h *workOrderHandler) updateWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workOrderID := c.Param("id")

	var req dto.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateWorkOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("work_order_id", workOrderID), slog.String("actor_id", actor.ID))
	logger.Info("Received request to update work order")

	updated, err := h.workOrderService.UpdateWorkOrder(c.Request.Context(), workOrderID, req, actor)
	if err != nil {
		respondLifecycleError(c, logger, err, "update work order")
		return
	}

	logger.Info("Work order updated successfully")
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(updated))
}

// reopenWorkOrder godoc
// @Summary Reopen a completed work order
// @Description Returns the order to the status it held before completion
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Work Order ID"
// @Param   reopen body dto.ReopenWorkOrderRequest true "Reason for reopening"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Work order not found"
// @Failure 409 {object} map[string]string "Work order is not completed or is archived"
// @Failure 500 {object} map[string]string "Failed to reopen work order"
// @Security BearerAuth
// @Router /work-orders/{id}/reopen [post]
func (h *workOrderHandler) reopenWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workOrderID := c.Param("id")

	var req dto.ReopenWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReopenWorkOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("work_order_id", workOrderID), slog.String("actor_id", actor.ID))
	logger.Info("Received request to reopen work order")

	reopened, err := h.workOrderService.ReopenWorkOrder(c.Request.Context(), workOrderID, req.Reason, actor)
	if err != nil {
		respondLifecycleError(c, logger, err, "reopen work order")
		return
	}

	logger.Info("Work order reopened successfully", slog.String("status", string(reopened.Status)))
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(reopened))
}

// archiveWorkOrder godoc
// @Summary Archive a completed work order
// @Description Snapshots the order into the archive and marks it archived
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Work Order ID"
// @Param   archive body dto.ArchiveWorkOrderRequest false "Optional reason; required when the order has no invoice"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Work order not found"
// @Failure 409 {object} map[string]string "Work order is not completed or already archived"
// @Failure 422 {object} map[string]string "Archiving without an invoice requires a reason"
// @Failure 500 {object} map[string]string "Failed to archive work order"
// @Security BearerAuth
// @Router /work-orders/{id}/archive [post]
func (h *workOrderHandler) archiveWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workOrderID := c.Param("id")

	var req dto.ArchiveWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ArchiveWorkOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("work_order_id", workOrderID), slog.String("actor_id", actor.ID))
	logger.Info("Received request to archive work order")

	archived, err := h.workOrderService.ArchiveWorkOrder(c.Request.Context(), workOrderID, req.Reason, actor)
	if err != nil {
		respondLifecycleError(c, logger, err, "archive work order")
		return
	}

	logger.Info("Work order archived successfully")
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(archived))
}

// deleteWorkOrder godoc
// @Summary Delete a work order
// @Description Snapshots the order into the archive, then removes it
// @Tags work-orders
// @Produce  json
// @Param   id path string true "Work Order ID"
// @Success 204 "Work order deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Work order not found"
// @Failure 500 {object} map[string]string "Failed to delete work order"
// @Security BearerAuth
// @Router /work-orders/{id} [delete]
func (h *workOrderHandler) deleteWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workOrderID := c.Param("id")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("work_order_id", workOrderID), slog.String("actor_id", actor.ID))
	logger.Info("Received request to delete work order")

	if err := h.workOrderService.DeleteWorkOrder(c.Request.Context(), workOrderID, actor); err != nil {
		respondLifecycleError(c, logger, err, "delete work order")
		return
	}

	logger.Info("Work order deleted successfully")
	c.Status(http.StatusNoContent)
}
