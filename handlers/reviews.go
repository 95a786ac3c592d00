package handlers

import (
	"net/http"

	"github.com/dipanshukale/CraftCrazy/services"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) GetReviews(c echo.Context) error {
	reviews, err := h.reviews.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "reviews": reviews})
}

func (h *ReviewHandler) AddReview(c echo.Context) error {
	var req validation.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	review, err := h.reviews.Add(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Review added successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return badRequest("limit must be a number")
	}
	out, err := h.reviews.ListByProduct(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	deleted, err := h.reviews.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Review not found"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Review deleted successfully"})
}
