package usecase

import (
	"context"
	"time"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
)

const relatedListingCount = 3

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
	}
}

type CreateListingInput struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Price         float64  `json:"price" validate:"min=0"`
	OriginalPrice float64  `json:"original_price" validate:"omitempty,min=0"`
	Condition     string   `json:"condition" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Location      string   `json:"location"`
	Images        []string `json:"images"`
}

type UpdateListingInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price" validate:"omitempty,min=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,min=0"`
	Condition     string   `json:"condition"`
	Category      string   `json:"category"`
	Location      string   `json:"location"`
	Images        []string `json:"images"`
}

// ReviewView is an authored review with its author resolved for display.
type ReviewView struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Author    string    `json:"author"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SellerSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Avatar        string  `json:"avatar,omitempty"`
	OverallRating float64 `json:"overall_rating"`
	ReviewCount   int     `json:"review_count"`
	ResponseRate  string  `json:"response_rate,omitempty"`
	ResponseTime  string  `json:"response_time,omitempty"`
}

type ListingDetail struct {
	*entity.Listing
	Seller       *SellerSummary    `json:"seller"`
	ReviewViews  []ReviewView      `json:"review_views"`
	RatingsCount int               `json:"ratings_count"`
	Related      []*entity.Listing `json:"related"`
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	if !entity.ValidCondition(input.Condition) {
		return nil, errors.BadRequest("Invalid condition", nil)
	}
	if input.Price < 0 {
		return nil, errors.BadRequest("Price cannot be negative", nil)
	}

	listing := &entity.Listing{
		SellerID:      sellerID,
		Title:         input.Title,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Condition:     input.Condition,
		Category:      input.Category,
		Location:      input.Location,
		Images:        input.Images,
		Reviews:       []entity.Review{},
		ListedDate:    time.Now(),
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	// Index maintenance only; a failure here must not fail the create.
	if err := uc.userRepo.AddOwnedListing(ctx, sellerID, listing.ID); err != nil {
		logger.Warn("Failed to index listing %s for seller %s: %v", listing.ID, sellerID, err)
	}

	return listing, nil
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, userID, listingID string, input UpdateListingInput) (*entity.Listing, error) {
	return uc.listingRepo.Mutate(ctx, listingID, func(listing *entity.Listing) error {
		if listing.SellerID != userID {
			return errors.Forbidden("You don't have permission to update this listing", nil)
		}

		if input.Condition != "" && !entity.ValidCondition(input.Condition) {
			return errors.BadRequest("Invalid condition", nil)
		}
		if input.Price != nil && *input.Price < 0 {
			return errors.BadRequest("Price cannot be negative", nil)
		}

		if input.Title != "" {
			listing.Title = input.Title
		}
		if input.Description != "" {
			listing.Description = input.Description
		}
		if input.Price != nil {
			listing.Price = *input.Price
		}
		if input.OriginalPrice != nil {
			listing.OriginalPrice = *input.OriginalPrice
		}
		if input.Condition != "" {
			listing.Condition = input.Condition
		}
		if input.Category != "" {
			listing.Category = input.Category
		}
		if input.Location != "" {
			listing.Location = input.Location
		}
		if input.Images != nil {
			listing.Images = input.Images
		}

		return nil
	})
}

func (uc *ListingUseCase) ListListings(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.List(ctx, filter, limit, offset)
}

func (uc *ListingUseCase) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.ListBySeller(ctx, sellerID, limit, offset)
}

// GetListingDetail assembles the full detail view: the listing itself, its
// seller summary, reviews with authors resolved, and related listings from
// the same category. A seller or review author that no longer resolves gets
// a placeholder rather than failing the whole view.
func (uc *ListingUseCase) GetListingDetail(ctx context.Context, listingID string) (*ListingDetail, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	detail := &ListingDetail{
		Listing:      listing,
		Seller:       uc.sellerSummary(ctx, listing.SellerID),
		ReviewViews:  resolveReviewViews(ctx, uc.userRepo, listing.Reviews),
		RatingsCount: len(listing.Ratings),
	}

	related, err := uc.listingRepo.ListRelated(ctx, listing.Category, listing.ID, relatedListingCount)
	if err != nil {
		logger.Warn("Failed to load related listings for %s: %v", listingID, err)
	} else {
		detail.Related = related
	}

	return detail, nil
}

func (uc *ListingUseCase) DeleteListing(ctx context.Context, userID, listingID string) error {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != userID {
		return errors.Forbidden("You don't have permission to delete this listing", nil)
	}

	if err := uc.listingRepo.Delete(ctx, listingID); err != nil {
		return err
	}

	if err := uc.userRepo.RemoveOwnedListing(ctx, userID, listingID); err != nil {
		logger.Warn("Failed to unindex listing %s for seller %s: %v", listingID, userID, err)
	}

	// The deleted listing's reviews no longer count toward the seller.
	if err := recomputeSellerRating(ctx, uc.listingRepo, uc.userRepo, userID); err != nil {
		logger.Warn("Failed to recompute rating for seller %s: %v", userID, err)
	}

	return nil
}

func (uc *ListingUseCase) sellerSummary(ctx context.Context, sellerID string) *SellerSummary {
	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		logger.Warn("Failed to resolve seller %s: %v", sellerID, err)
		return &SellerSummary{ID: sellerID, Name: "Unknown Seller"}
	}

	return &SellerSummary{
		ID:            seller.ID,
		Name:          seller.Name,
		Avatar:        seller.Avatar,
		OverallRating: seller.OverallRating,
		ReviewCount:   seller.ReviewCount,
		ResponseRate:  seller.ResponseRate,
		ResponseTime:  seller.ResponseTime,
	}
}

func resolveReviewViews(ctx context.Context, userRepo repository.UserRepository, reviews []entity.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for _, review := range reviews {
		view := ReviewView{
			ID:        review.ID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			Author:    "Anonymous User",
			CreatedAt: review.CreatedAt,
			UpdatedAt: review.UpdatedAt,
		}

		author, err := userRepo.GetByID(ctx, review.UserID)
		if err == nil {
			view.Author = author.Name
			view.Avatar = author.Avatar
		}

		views = append(views, view)
	}
	return views
}

// recomputeSellerRating aggregates review stats across every listing the
// seller currently has and writes them back to the user record. The overall
// rating is the mean of averageRating over ALL owned listings, so unreviewed
// listings (average 0) pull it down.
func recomputeSellerRating(
	ctx context.Context,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	sellerID string,
) error {
	listings, _, err := listingRepo.ListBySeller(ctx, sellerID, 0, 0)
	if err != nil {
		return err
	}

	totalRating := 0.0
	reviewCount := 0
	for _, listing := range listings {
		for _, review := range listing.Reviews {
			if review.Valid() {
				reviewCount++
			}
		}
		totalRating += listing.AverageRating
	}

	overall := 0.0
	if len(listings) > 0 {
		overall = totalRating / float64(len(listings))
	}

	return userRepo.SetSellerRating(ctx, sellerID, overall, reviewCount)
}
