package router

import (
	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/handler"
	"campusmarket/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()
	reviewHandler := handler.GetReviewHandler()

	listings := e.Group("/v1/listings")

	listings.GET("", listingHandler.ListListings)
	listings.GET("/:id", listingHandler.GetListingDetail)
	listings.POST("/:id/rate", reviewHandler.RateListing)

	listings.POST("", listingHandler.CreateListing, authMiddleware.Authenticate)
	listings.PUT("/:id", listingHandler.UpdateListing, authMiddleware.Authenticate)
	listings.DELETE("/:id", listingHandler.DeleteListing, authMiddleware.Authenticate)

	listings.POST("/:id/reviews", reviewHandler.SubmitReview, authMiddleware.Authenticate)
	listings.DELETE("/:id/reviews/:reviewId", reviewHandler.DeleteReview, authMiddleware.Authenticate)
}
