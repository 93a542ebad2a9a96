package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/domain/repository"
	"campusmarket/internal/usecase"
	"campusmarket/pkg/response"
	"campusmarket/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type createListingRequest struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Price         float64  `json:"price" validate:"min=0"`
	OriginalPrice float64  `json:"original_price" validate:"omitempty,min=0"`
	Condition     string   `json:"condition" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Location      string   `json:"location"`
	Images        []string `json:"images"`
}

type updateListingRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price" validate:"omitempty,min=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,min=0"`
	Condition     string   `json:"condition"`
	Category      string   `json:"category"`
	Location      string   `json:"location"`
	Images        []string `json:"images"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), uid, usecase.CreateListingInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Condition:     req.Condition,
		Category:      req.Category,
		Location:      req.Location,
		Images:        req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := repository.ListingFilter{
		Category: c.QueryParam("category"),
		SellerID: c.QueryParam("seller"),
		Query:    c.QueryParam("q"),
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = v
		}
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = v
		}
	}

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) GetListingDetail(c echo.Context) error {
	detail, err := h.listingUseCase.GetListingDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), uid, c.Param("id"), usecase.UpdateListingInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Condition:     req.Condition,
		Category:      req.Category,
		Location:      req.Location,
		Images:        req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.listingUseCase.DeleteListing(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Listing deleted"})
}
