package handlers

import (
	"net/http"

	"github.com/dipanshukale/CraftCrazy/services"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) AddContact(c echo.Context) error {
	var req validation.ContactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	contact, err := h.contacts.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Message sent successfully",
		"data":    contact,
	})
}

func (h *ContactHandler) GetContacts(c echo.Context) error {
	contacts, err := h.contacts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(contacts), Data: contacts})
}

func (h *ContactHandler) UpdateContactStatus(c echo.Context) error {
	var req validation.ContactStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(validation.Describe(err))
	}
	contact, err := h.contacts.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Status updated",
		"data":    contact,
	})
}
