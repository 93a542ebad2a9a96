package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
)

type ReviewUseCase struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
}

func NewReviewUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
	}
}

type SubmitReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewResult is returned after any review mutation so clients can refresh
// their view without a second round trip.
type ReviewResult struct {
	ListingID     string       `json:"listing_id"`
	AverageRating float64      `json:"average_rating"`
	Reviews       []ReviewView `json:"reviews"`
}

// RatingResult mirrors the quick-rate response. Quick ratings only grow a
// counter; AverageRating is included so clients can see it did not move.
type RatingResult struct {
	ListingID     string  `json:"listing_id"`
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

// SubmitReview creates or replaces the caller's review on a listing. A user
// holds at most one review per listing; a second submission updates it in
// place and keeps the original creation time.
func (uc *ReviewUseCase) SubmitReview(ctx context.Context, userID, listingID string, input SubmitReviewInput) (*ReviewResult, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	listing, err := uc.listingRepo.Mutate(ctx, listingID, func(listing *entity.Listing) error {
		now := time.Now()
		if i := listing.ReviewByUser(userID); i >= 0 {
			listing.Reviews[i].Rating = input.Rating
			listing.Reviews[i].Comment = input.Comment
			listing.Reviews[i].UpdatedAt = now
			return nil
		}

		listing.Reviews = append(listing.Reviews, entity.Review{
			ID:        uuid.New().String(),
			UserID:    userID,
			Rating:    input.Rating,
			Comment:   input.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.refreshSellerRating(ctx, listing.SellerID)

	return &ReviewResult{
		ListingID:     listing.ID,
		AverageRating: listing.AverageRating,
		Reviews:       resolveReviewViews(ctx, uc.userRepo, listing.Reviews),
	}, nil
}

// DeleteReview removes a review. Only its author may delete it.
func (uc *ReviewUseCase) DeleteReview(ctx context.Context, userID, listingID, reviewID string) (*ReviewResult, error) {
	listing, err := uc.listingRepo.Mutate(ctx, listingID, func(listing *entity.Listing) error {
		for i, review := range listing.Reviews {
			if review.ID != reviewID {
				continue
			}
			if review.UserID != userID {
				return errors.Forbidden("You don't have permission to delete this review", nil)
			}
			listing.Reviews = append(listing.Reviews[:i], listing.Reviews[i+1:]...)
			return nil
		}
		return errors.NotFound("Review", nil)
	})
	if err != nil {
		return nil, err
	}

	uc.refreshSellerRating(ctx, listing.SellerID)

	return &ReviewResult{
		ListingID:     listing.ID,
		AverageRating: listing.AverageRating,
		Reviews:       resolveReviewViews(ctx, uc.userRepo, listing.Reviews),
	}, nil
}

// RateListing records an anonymous quick rating. The value is appended to
// the counter list only; the listing's average is computed from authored
// reviews and does not change here.
func (uc *ReviewUseCase) RateListing(ctx context.Context, listingID string, rating int) (*RatingResult, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	listing, err := uc.listingRepo.Mutate(ctx, listingID, func(listing *entity.Listing) error {
		listing.Ratings = append(listing.Ratings, rating)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RatingResult{
		ListingID:     listing.ID,
		AverageRating: listing.AverageRating,
		RatingsCount:  len(listing.Ratings),
	}, nil
}

func (uc *ReviewUseCase) refreshSellerRating(ctx context.Context, sellerID string) {
	if err := recomputeSellerRating(ctx, uc.listingRepo, uc.userRepo, sellerID); err != nil {
		logger.Warn("Failed to recompute rating for seller %s: %v", sellerID, err)
	}
}
