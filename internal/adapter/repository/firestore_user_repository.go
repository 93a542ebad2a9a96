package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, bool, error) {
	docRef := r.client.Collection("users").Doc(user.ID)

	var stored entity.User
	created := false

	// Transaction makes the insert-if-absent atomic: two concurrent first
	// requests for the same identity converge on a single record.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		doc, err := tx.Get(docRef)
		if err == nil {
			return doc.DataTo(&stored)
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		stored = *user
		created = true
		return tx.Set(docRef, user)
	})
	if err != nil {
		return nil, false, wrapUserErr("Failed to resolve user", err)
	}

	return &stored, created, nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, wrapUserErr("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return wrapUserErr("Failed to update user", err)
	}

	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("users").Doc(id).Delete(ctx)
	if err != nil {
		return wrapUserErr("Failed to delete user", err)
	}

	return nil
}

func (r *firestoreUserRepository) AddOwnedListing(ctx context.Context, userID, listingID string) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "ownedListings", Value: firestore.ArrayUnion(listingID)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return wrapUserErr("Failed to add owned listing", err)
	}

	return nil
}

func (r *firestoreUserRepository) RemoveOwnedListing(ctx context.Context, userID, listingID string) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "ownedListings", Value: firestore.ArrayRemove(listingID)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return wrapUserErr("Failed to remove owned listing", err)
	}

	return nil
}

func (r *firestoreUserRepository) SetSellerRating(ctx context.Context, userID string, overallRating float64, reviewCount int) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "overallRating", Value: overallRating},
		{Path: "reviewCount", Value: reviewCount},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return wrapUserErr("Failed to set seller rating", err)
	}

	return nil
}

func wrapUserErr(message string, err error) error {
	if status.Code(err) == codes.Unavailable || status.Code(err) == codes.DeadlineExceeded {
		return errors.Unavailable(message, err)
	}
	return errors.Internal(message, err)
}
