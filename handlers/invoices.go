package handlers

import (
	"errors"
	"net/http"

	"github.com/dipanshukale/CraftCrazy/services"
	"github.com/labstack/echo/v4"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

func (h *InvoiceHandler) GetInvoices(c echo.Context) error {
	invoices, err := h.invoices.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
	invoice, err := h.invoices.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Invoice not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}
