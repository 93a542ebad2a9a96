package usecase

import (
	"context"
	"strings"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
)

// IdentityUseCase maps verified external identities to local user records,
// creating one on first sight. All lazy user materialization in the system
// goes through here.
type IdentityUseCase struct {
	userRepo repository.UserRepository
	provider IdentityProvider
}

func NewIdentityUseCase(userRepo repository.UserRepository, provider IdentityProvider) *IdentityUseCase {
	return &IdentityUseCase{
		userRepo: userRepo,
		provider: provider,
	}
}

// ResolveOrCreateUser returns the user record for a verified identity,
// materializing a new one when the identity has never been seen. Hints only
// populate new records; an existing record is returned untouched so stale
// provider claims never clobber user-edited fields.
func (uc *IdentityUseCase) ResolveOrCreateUser(ctx context.Context, identity string, hints ProfileHints) (*entity.User, error) {
	if identity == "" {
		return nil, errors.Unauthorized("No verified identity present", nil)
	}

	user, created, err := uc.userRepo.CreateIfAbsent(ctx, newShadowUser(identity, hints))
	if err != nil {
		return nil, err
	}

	if created {
		logger.Info("Materialized user record for identity %s", identity)
	}

	return user, nil
}

// SyncProfile resolves the identity and then applies explicit field diffs
// from the hints to an existing record. Empty hints leave fields alone. When
// no hints are given at all, the provider's profile record is used instead.
func (uc *IdentityUseCase) SyncProfile(ctx context.Context, identity string, hints ProfileHints) (*entity.User, error) {
	if hints == (ProfileHints{}) && uc.provider != nil {
		fetched, err := uc.provider.GetProfile(ctx, identity)
		if err != nil {
			logger.Warn("Failed to fetch provider profile for %s: %v", identity, err)
		} else {
			hints = fetched
		}
	}

	user, created, err := uc.userRepo.CreateIfAbsent(ctx, newShadowUser(identity, hints))
	if err != nil {
		return nil, err
	}
	if created {
		return user, nil
	}

	changed := false
	if hints.Name != "" && hints.Name != user.Name {
		user.Name = hints.Name
		changed = true
	}
	if hints.Email != "" && hints.Email != user.Email {
		user.Email = hints.Email
		changed = true
	}
	if hints.Avatar != "" && hints.Avatar != user.Avatar {
		user.Avatar = hints.Avatar
		changed = true
	}

	if !changed {
		return user, nil
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func newShadowUser(identity string, hints ProfileHints) *entity.User {
	name := hints.Name
	if name == "" {
		name = "Anonymous User"
	}

	username := placeholderUsername(identity, hints.Email)

	return &entity.User{
		ID:           identity,
		Name:         name,
		Username:     username,
		Email:        hints.Email,
		Avatar:       hints.Avatar,
		ResponseRate: "Usually responds within a day",
		ResponseTime: "~24 hours",
	}
}

// placeholderUsername derives a username from the email local-part, falling
// back to a suffix of the identity string.
func placeholderUsername(identity, email string) string {
	if email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			return email[:at]
		}
	}

	suffix := identity
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "user_" + suffix
}
