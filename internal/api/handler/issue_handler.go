package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/issuedesk/issuedesk/internal/api/metrics"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

// IssueHandler handles HTTP requests for issue operations.
type IssueHandler struct {
	service ports.IssueService
}

func NewIssueHandler(service ports.IssueService) *IssueHandler {
	return &IssueHandler{service: service}
}

// List handles GET /api/issues with filtering, search and pagination.
//
// @Summary      List issues
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        page         query  int     false  "1-based page number"
// @Param        limit        query  int     false  "page size (default 10, max 100)"
// @Param        status       query  string  false  "filter by status"
// @Param        priority     query  string  false  "filter by priority"
// @Param        assigned_to  query  string  false  "filter by assignee id"
// @Param        created_by   query  string  false  "filter by creator id"
// @Param        tags         query  string  false  "comma-separated tag filter"
// @Param        search       query  string  false  "text search over title and description"
// @Success      200  {object}  envelope
// @Router       /api/issues [get]
func (h *IssueHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	filter := ports.ListIssuesFilter{
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		AssignedTo: c.QueryParam("assigned_to"),
		CreatedBy:  c.QueryParam("created_by"),
		Search:     c.QueryParam("search"),
		Page:       page,
		Limit:      limit,
	}
	if tags := c.QueryParam("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	result, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return respondPage(c, http.StatusOK, result.Items, paginationResponse{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// Get handles GET /api/issues/:id.
//
// @Summary      Get an issue
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Issue id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/issues/{id} [get]
func (h *IssueHandler) Get(c echo.Context) error {
	issue, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, issue)
}

// Create handles POST /api/issues. Contributor or admin only.
//
// @Summary      Create an issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIssueRequest  true  "Issue details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/issues [post]
func (h *IssueHandler) Create(c echo.Context) error {
	user, err := CtxUser(c)
	if err != nil {
		return err
	}

	var req createIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	issue, err := h.service.Create(c.Request().Context(), user, ports.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}

	metrics.IssuesCreatedTotal.WithLabelValues(string(issue.Priority)).Inc()
	return respondMessage(c, http.StatusCreated, issue, "Issue created successfully")
}

// Update handles PUT /api/issues/:id with a field-level partial patch.
//
// @Summary      Update an issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Issue id"
// @Param        body  body      updateIssueRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/issues/{id} [put]
func (h *IssueHandler) Update(c echo.Context) error {
	user, err := CtxUser(c)
	if err != nil {
		return err
	}

	var req updateIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	issue, err := h.service.Update(c.Request().Context(), user, c.Param("id"), ports.UpdateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}

	if req.Status != nil {
		metrics.IssueStatusChangesTotal.WithLabelValues(*req.Status).Inc()
	}
	return respondMessage(c, http.StatusOK, issue, "Issue updated successfully")
}

// Assign handles PATCH /api/issues/:id/assign.
//
// @Summary      Assign an issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Issue id"
// @Param        body  body      assignIssueRequest  true  "Assignee"
// @Success      200   {object}  envelope
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/issues/{id}/assign [patch]
func (h *IssueHandler) Assign(c echo.Context) error {
	user, err := CtxUser(c)
	if err != nil {
		return err
	}

	var req assignIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	issue, err := h.service.Assign(c.Request().Context(), user, c.Param("id"), req.AssignedTo)
	if err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, issue, "Issue assigned successfully")
}

// Delete handles DELETE /api/issues/:id. Creator or admin only.
//
// @Summary      Delete an issue
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Issue id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/issues/{id} [delete]
func (h *IssueHandler) Delete(c echo.Context) error {
	user, err := CtxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, nil, "Issue deleted successfully")
}
