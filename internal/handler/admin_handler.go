package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stayhaven/service-rental/internal/application"
	"github.com/stayhaven/service-rental/internal/auth"
	bookingDomain "github.com/stayhaven/service-rental/internal/domain/booking"
	"github.com/stayhaven/service-rental/internal/lifecycle"
	"github.com/stayhaven/service-rental/internal/middleware"
	"github.com/stayhaven/service-rental/internal/response"
)

// AdminBookingHandler exposes the admin review console over HTTP. Listing and
// review actions go through the lifecycle controller so the optimistic-update
// and rollback behavior applies uniformly.
type AdminBookingHandler struct {
	controller *lifecycle.Controller
	service    *application.BookingService
	stats      *application.StatsCache
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(
	controller *lifecycle.Controller,
	service *application.BookingService,
	stats *application.StatsCache,
) *AdminBookingHandler {
	return &AdminBookingHandler{
		controller: controller,
		service:    service,
		stats:      stats,
	}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/:id", h.GetBooking)
		admin.POST("/bookings/:id/approve", h.ApproveBooking)
		admin.POST("/bookings/:id/decline", h.DeclineBooking)
		admin.POST("/bookings/:id/confirm-payment", h.ConfirmPayment)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.POST("/sign-out", h.SignOut)
	}
}

// ListBookings handles GET /api/v1/admin/bookings. The filter and sort query
// parameters select the display bucket and ordering.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	filter, err := lifecycle.ParseFilterLabel(c.Query("filter"))
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := lifecycle.ParseSortOrder(c.Query("sort"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.controller.Refresh(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	views := lifecycle.Arrange(h.controller.Bookings(), filter, order)
	c.JSON(http.StatusOK, gin.H{
		"data":   views,
		"filter": filter,
		"sort":   order,
		"total":  len(views),
	})
}

// GetBooking handles GET /api/v1/admin/bookings/:id. It opens the detail view
// so subsequent transitions keep it in sync with the list.
func (h *AdminBookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	if err := h.controller.Select(bookingID); err != nil {
		if err := h.controller.Refresh(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
		if err := h.controller.Select(bookingID); err != nil {
			h.applyError(c, err)
			return
		}
	}

	view, _ := h.controller.Detail()
	response.Success(c, view)
}

// ApproveBooking handles POST /api/v1/admin/bookings/:id/approve.
func (h *AdminBookingHandler) ApproveBooking(c *gin.Context) {
	h.apply(c, bookingDomain.ActionApprove, lifecycle.ApplyOptions{})
}

// DeclineBooking handles POST /api/v1/admin/bookings/:id/decline. The request
// body must carry {"confirm": true}; declining is irreversible.
func (h *AdminBookingHandler) DeclineBooking(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	h.apply(c, bookingDomain.ActionDecline, lifecycle.ApplyOptions{DeclineConfirmed: req.Confirm})
}

// ConfirmPayment handles POST /api/v1/admin/bookings/:id/confirm-payment.
func (h *AdminBookingHandler) ConfirmPayment(c *gin.Context) {
	h.apply(c, bookingDomain.ActionConfirmPayment, lifecycle.ApplyOptions{})
}

func (h *AdminBookingHandler) apply(c *gin.Context, action bookingDomain.Action, opts lifecycle.ApplyOptions) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	// The controller operates on its loaded collection; make sure the target
	// booking is present before applying.
	if err := h.ensureLoaded(c, bookingID); err != nil {
		return
	}

	if err := h.controller.Apply(c.Request.Context(), bookingID, action, opts); err != nil {
		h.applyError(c, err)
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func (h *AdminBookingHandler) ensureLoaded(c *gin.Context, bookingID uuid.UUID) error {
	for _, v := range h.controller.Bookings() {
		if v.ID == bookingID {
			return nil
		}
	}
	if err := h.controller.Refresh(c.Request.Context()); err != nil {
		response.Error(c, err)
		return err
	}
	return nil
}

func (h *AdminBookingHandler) applyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrConfirmationRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrUnknownBooking):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		response.Error(c, err)
	}
}

// BookingStats handles GET /api/v1/admin/stats/bookings. Results are cached
// per admin until sign-out or expiry.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if cached, ok := h.stats.Get(adminID); ok {
		response.Success(c, cached)
		return
	}

	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.stats.Put(adminID, stats)
	response.Success(c, stats)
}

// SignOut handles POST /api/v1/admin/sign-out. Cached stats for the admin are
// dropped and the open detail view is closed.
func (h *AdminBookingHandler) SignOut(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.stats.Invalidate(adminID)
	h.controller.ClearSelection()
	c.Status(http.StatusNoContent)
}
