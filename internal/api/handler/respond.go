package handler

import (
	"github.com/labstack/echo/v4"
)

// envelope is the uniform success response. Failures render through the
// central HTTP error handler instead.
type envelope struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Count      *int                `json:"count,omitempty"`
	Pagination *paginationResponse `json:"pagination,omitempty"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func respondCount(c echo.Context, status int, data any, count int) error {
	return c.JSON(status, envelope{Success: true, Data: data, Count: &count})
}

func respondPage(c echo.Context, status int, data any, p paginationResponse) error {
	return c.JSON(status, envelope{Success: true, Data: data, Pagination: &p})
}
