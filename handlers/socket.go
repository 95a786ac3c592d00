package handlers

import (
	"github.com/dipanshukale/CraftCrazy/events"
	"github.com/labstack/echo/v4"
)

// ServeSocket upgrades /socket requests onto the admin event hub.
func ServeSocket(hub *events.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		return hub.ServeWS(c.Response(), c.Request())
	}
}
