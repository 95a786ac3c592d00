package handlers

import (
	"net/http"

	"github.com/dipanshukale/CraftCrazy/services"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req validation.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	product, err := h.products.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req validation.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	product, err := h.products.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProductsByCategory(c echo.Context) error {
	products, err := h.products.ListByCategory(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(products), Data: products})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	hits, err := h.products.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hits)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	deleted, err := h.products.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Product not found"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}
