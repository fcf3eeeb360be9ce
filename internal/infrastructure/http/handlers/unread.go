package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UnreadSource exposes the most recently polled unread count.
type UnreadSource interface {
	Unread() (int, bool)
}

// UnreadHandler handles GET /notifications/unread.
type UnreadHandler struct {
	source UnreadSource
}

func NewUnreadHandler(source UnreadSource) *UnreadHandler {
	return &UnreadHandler{source: source}
}

type unreadResponse struct {
	Unread int  `json:"unread"`
	Known  bool `json:"known"`
}

func (h *UnreadHandler) Get(c echo.Context) error {
	n, ok := h.source.Unread()
	return c.JSON(http.StatusOK, unreadResponse{Unread: n, Known: ok})
}
