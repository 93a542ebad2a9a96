package handler

import (
	"github.com/labstack/echo/v4"

	"campusmarket/internal/usecase"
	"campusmarket/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type submitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type rateListingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	result, err := h.reviewUseCase.SubmitReview(c.Request().Context(), uid, c.Param("id"), usecase.SubmitReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	uid := c.Get("uid").(string)

	result, err := h.reviewUseCase.DeleteReview(c.Request().Context(), uid, c.Param("id"), c.Param("reviewId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *ReviewHandler) RateListing(c echo.Context) error {
	var req rateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.reviewUseCase.RateListing(c.Request().Context(), c.Param("id"), req.Rating)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
