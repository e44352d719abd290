package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/issuedesk/issuedesk/internal/api/metrics"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

// CommentHandler handles HTTP requests for comment operations.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListByIssue handles GET /api/comments/issue/:issueId, oldest first.
//
// @Summary      List comments on an issue
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        issueId  path      string  true  "Issue id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  map[string]any
// @Router       /api/comments/issue/{issueId} [get]
func (h *CommentHandler) ListByIssue(c echo.Context) error {
	comments, err := h.service.ListByIssue(c.Request().Context(), c.Param("issueId"))
	if err != nil {
		return err
	}
	return respondCount(c, http.StatusOK, comments, len(comments))
}

// Create handles POST /api/comments. Any authenticated user may comment on
// an existing issue.
//
// @Summary      Create a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCommentRequest  true  "Comment details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	user, err := CtxUser(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.service.Create(c.Request().Context(), user, req.IssueID, req.Content)
	if err != nil {
		return err
	}

	metrics.CommentsCreatedTotal.Inc()
	return respondMessage(c, http.StatusCreated, comment, "Comment created successfully")
}

// Update handles PUT /api/comments/:id. Author or admin only.
//
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Comment id"
// @Param        body  body      updateCommentRequest  true  "New content"
// @Success      200   {object}  envelope
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	user, err := CtxUser(c)
	if err != nil {
		return err
	}

	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.service.Update(c.Request().Context(), user, c.Param("id"), req.Content)
	if err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, comment, "Comment updated successfully")
}

// Delete handles DELETE /api/comments/:id. Author or admin only.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	user, err := CtxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, nil, "Comment deleted successfully")
}
