package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stayhaven/service-rental/internal/application"
	"github.com/stayhaven/service-rental/internal/auth"
	"github.com/stayhaven/service-rental/internal/middleware"
	"github.com/stayhaven/service-rental/internal/response"
)

// UnitHandler handles HTTP requests for rental unit management.
type UnitHandler struct {
	service *application.UnitService
}

// NewUnitHandler creates a new UnitHandler.
func NewUnitHandler(service *application.UnitService) *UnitHandler {
	return &UnitHandler{service: service}
}

// RegisterRoutes registers all unit routes on the given router group.
func (h *UnitHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	agentRole := middleware.RequireRole(auth.RoleAgent)

	units := r.Group("/api/v1/units")
	units.Use(authMW)
	{
		units.POST("", agentRole, h.CreateUnit)
		units.GET("/mine", agentRole, h.ListMyUnits)
		units.GET("/:id", h.GetUnit)
		units.PUT("/:id", agentRole, h.UpdateUnit)
		units.DELETE("/:id", agentRole, h.ArchiveUnit)
	}
}

// CreateUnit handles POST /api/v1/units.
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	agentID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateUnit(c.Request.Context(), agentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyUnits handles GET /api/v1/units/mine.
func (h *UnitHandler) ListMyUnits(c *gin.Context) {
	agentID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetMyUnits(c.Request.Context(), agentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetUnit handles GET /api/v1/units/:id.
func (h *UnitHandler) GetUnit(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid unit ID")
		return
	}

	result, err := h.service.GetUnit(c.Request.Context(), unitID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateUnit handles PUT /api/v1/units/:id.
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid unit ID")
		return
	}

	agentID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateUnit(c.Request.Context(), agentID, unitID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ArchiveUnit handles DELETE /api/v1/units/:id.
func (h *UnitHandler) ArchiveUnit(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid unit ID")
		return
	}

	agentID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.ArchiveUnit(c.Request.Context(), agentID, unitID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
