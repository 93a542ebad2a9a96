package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"campusmarket/internal/usecase"
)

// AuthClient adapts the Firebase Auth SDK to the identity-provider contract
// the usecases depend on. Only the verified subject string is ever trusted
// for authorization; profile claims are hints for new-record population.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, usecase.ProfileHints, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", usecase.ProfileHints{}, err
	}

	return result.UID, hintsFromClaims(result.Claims), nil
}

func (f *AuthClient) GetProfile(ctx context.Context, uid string) (usecase.ProfileHints, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return usecase.ProfileHints{}, err
	}

	return usecase.ProfileHints{
		Name:   record.DisplayName,
		Email:  record.Email,
		Avatar: record.PhotoURL,
	}, nil
}

func hintsFromClaims(claims map[string]interface{}) usecase.ProfileHints {
	hints := usecase.ProfileHints{}
	if name, ok := claims["name"].(string); ok {
		hints.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		hints.Email = email
	}
	if picture, ok := claims["picture"].(string); ok {
		hints.Avatar = picture
	}
	return hints
}
