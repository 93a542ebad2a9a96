package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	if listing.ListedDate.IsZero() {
		listing.ListedDate = now
	}
	listing.UpdatedAt = now

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return wrapListingErr("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, wrapListingErr("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	return &listing, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return wrapListingErr("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("listings").Doc(id).Delete(ctx)
	if err != nil {
		return wrapListingErr("Failed to delete listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").Query

	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	// Price range and title search are applied in memory: Firestore requires
	// the first OrderBy to match any range-filtered field, and has no
	// substring search at all.
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, wrapListingErr("Failed to list listings", err)
	}

	search := strings.ToLower(filter.Query)

	var matched []*entity.Listing
	for _, doc := range docs {
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			continue
		}
		if filter.MinPrice > 0 && listing.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && listing.Price > filter.MaxPrice {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(listing.Title), search) {
			continue
		}
		matched = append(matched, &listing)
	}

	total := int64(len(matched))

	start := offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	return matched[start:end], total, nil
}

func (r *firestoreListingRepository) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, wrapListingErr("Failed to list seller listings", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, wrapListingErr("Failed to iterate seller listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	return listings, total, nil
}

func (r *firestoreListingRepository) ListRelated(ctx context.Context, category, excludeID string, limit int) ([]*entity.Listing, error) {
	// Fetch one extra so there is still a full page after excluding the
	// listing itself.
	query := r.client.Collection("listings").
		Where("category", "==", category).
		Limit(limit + 1)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapListingErr("Failed to list related listings", err)
	}

	var related []*entity.Listing
	for _, doc := range docs {
		if len(related) >= limit {
			break
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			continue
		}
		if listing.ID == excludeID {
			continue
		}
		related = append(related, &listing)
	}

	return related, nil
}

func (r *firestoreListingRepository) Mutate(ctx context.Context, id string, fn func(*entity.Listing) error) (*entity.Listing, error) {
	docRef := r.client.Collection("listings").Doc(id)

	var result entity.Listing

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return errors.Internal("Failed to parse listing data", err)
		}

		if err := fn(&listing); err != nil {
			return err
		}

		listing.PurgeInvalidReviews()
		listing.RecomputeAverageRating()
		listing.UpdatedAt = time.Now()

		result = listing
		return tx.Set(docRef, &listing)
	})
	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "FORBIDDEN") || errors.Is(err, "BAD_REQUEST") {
			return nil, err
		}
		return nil, wrapListingErr("Failed to mutate listing", err)
	}

	return &result, nil
}

func wrapListingErr(message string, err error) error {
	if status.Code(err) == codes.Unavailable || status.Code(err) == codes.DeadlineExceeded {
		return errors.Unavailable(message, err)
	}
	return errors.Internal(message, err)
}
