package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/issuedesk/issuedesk/internal/api/middleware"
	"github.com/issuedesk/issuedesk/internal/core/domain"
)

// CtxUser extracts the user record resolved by the Auth middleware. Identity
// is threaded explicitly from here into every service call; there is no
// ambient current-user state.
func CtxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}
