package repository

import (
	"context"

	"campusmarket/internal/domain/entity"
)

// ListingFilter narrows List results. Zero values mean "no constraint".
type ListingFilter struct {
	Category string
	SellerID string
	MinPrice float64
	MaxPrice float64
	Query    string // case-insensitive title substring
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error

	// List returns listings newest-first with the filtered-but-unpaginated
	// total count.
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error)
	ListRelated(ctx context.Context, category, excludeID string, limit int) ([]*entity.Listing, error)

	// Mutate applies fn to the listing inside a single-document transaction.
	// Invalid reviews are purged and the average rating recomputed before the
	// result is persisted, so concurrent review writes cannot lose updates or
	// leave a stale aggregate.
	Mutate(ctx context.Context, id string, fn func(*entity.Listing) error) (*entity.Listing, error)
}
