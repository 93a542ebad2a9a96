package usecase

import (
	"context"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
)

type UserUseCase struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	identity    *IdentityUseCase
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	identity *IdentityUseCase,
) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		listingRepo: listingRepo,
		identity:    identity,
	}
}

type UpdateProfileInput struct {
	Name     string
	Username string
	Email    string
	Avatar   string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetPublicProfile returns the public summary for any identity string.
// Never-seen identities are materialized as minimal records so sellers and
// reviewers referenced before their first login still resolve.
func (uc *UserUseCase) GetPublicProfile(ctx context.Context, userID string) (*entity.PublicProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}
		user, err = uc.identity.ResolveOrCreateUser(ctx, userID, ProfileHints{})
		if err != nil {
			return nil, err
		}
	}

	return user.Public(), nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user and cascades deletion of every listing the
// user owns. Conversations are retained.
func (uc *UserUseCase) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	listings, _, err := uc.listingRepo.ListBySeller(ctx, userID, 0, 0)
	if err != nil {
		return err
	}

	for _, listing := range listings {
		if err := uc.listingRepo.Delete(ctx, listing.ID); err != nil {
			logger.Error("Cascade delete of listing %s for user %s failed: %v", listing.ID, userID, err)
			return err
		}
	}

	return uc.userRepo.Delete(ctx, userID)
}
