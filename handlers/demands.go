package handlers

import (
	"net/http"

	"github.com/dipanshukale/CraftCrazy/services"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/labstack/echo/v4"
)

type DemandHandler struct {
	demands *services.DemandService
}

func NewDemandHandler(demands *services.DemandService) *DemandHandler {
	return &DemandHandler{demands: demands}
}

func (h *DemandHandler) CreateDemand(c echo.Context) error {
	var req validation.DemandRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	demand, err := h.demands.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Demand created successfully",
		"demand":  demand,
	})
}

// GetDemands lists customised-order requests for the admin panel.
func (h *DemandHandler) GetDemands(c echo.Context) error {
	demands, err := h.demands.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":         "All customized Orders",
		"customizedOrder": demands,
	})
}
