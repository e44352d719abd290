package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/issuedesk/issuedesk/internal/core/ports"
)

// DashboardHandler serves aggregate read-only views.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /api/dashboard/stats.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	user, err := CtxUser(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// Activity handles GET /api/dashboard/activity?limit=N.
//
// @Summary      Recent activity feed
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max entries (default 20)"
// @Success      200    {object}  envelope
// @Router       /api/dashboard/activity [get]
func (h *DashboardHandler) Activity(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.service.Activity(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return respondCount(c, http.StatusOK, entries, len(entries))
}
