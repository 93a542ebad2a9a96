package repository

import (
	"context"

	"campusmarket/internal/domain/entity"
)

type UserRepository interface {
	// CreateIfAbsent stores the user unless a record with the same identity
	// already exists, atomically. Returns the stored record and whether a new
	// one was created.
	CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, bool, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error

	// Owned-listings convenience index. Best-effort callers must not fail
	// their triggering operation on an error here.
	AddOwnedListing(ctx context.Context, userID, listingID string) error
	RemoveOwnedListing(ctx context.Context, userID, listingID string) error

	// SetSellerRating writes the derived seller aggregate without touching
	// any other field.
	SetSellerRating(ctx context.Context, userID string, overallRating float64, reviewCount int) error
}
