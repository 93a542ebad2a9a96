package usecase

import "context"

// ProfileHints are optional provider claims used only to populate a brand-new
// user record. They are never trusted for authorization.
type ProfileHints struct {
	Name   string
	Email  string
	Avatar string
}

type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (string, ProfileHints, error)
	GetProfile(ctx context.Context, uid string) (ProfileHints, error)
}
