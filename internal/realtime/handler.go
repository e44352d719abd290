package realtime

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/issuedesk/issuedesk/internal/core/ports"
)

// Handler upgrades authenticated HTTP requests to realtime connections.
// The handshake carries the bearer token as a query parameter; a request
// that fails authentication is rejected before the connection registers.
type Handler struct {
	hub       *Hub
	users     ports.UserRepository
	jwtSecret string
	upgrader  websocket.Upgrader
}

func NewHandler(hub *Hub, users ports.UserRepository, jwtSecret, allowedOrigin string) *Handler {
	return &Handler{
		hub:       hub,
		users:     users,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// Serve handles GET /ws?token=<jwt>. On success the connection is joined to
// the caller's personal room and the general room.
func (h *Handler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	userID, err := h.verifyToken(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	// A token for a since-deleted user is treated as invalid.
	user, err := h.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := newClient(h.hub, conn, user)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

func (h *Handler) verifyToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}
