package entity

import (
	"time"
)

// User is the local shadow of an externally authenticated identity.
// ID is the provider-issued subject string and is never generated locally.
type User struct {
	ID       string `json:"id" firestore:"id"`
	Name     string `json:"name" firestore:"name"`
	Username string `json:"username" firestore:"username"`
	Email    string `json:"email,omitempty" firestore:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty" firestore:"avatar,omitempty"`

	// OwnedListings is a convenience index; the source of truth for
	// "listings owned by X" is always a query by seller reference.
	OwnedListings []string `json:"owned_listings,omitempty" firestore:"ownedListings,omitempty"`

	OverallRating float64 `json:"overall_rating" firestore:"overallRating"`
	ReviewCount   int     `json:"review_count" firestore:"reviewCount"`

	ResponseRate string `json:"response_rate,omitempty" firestore:"responseRate,omitempty"`
	ResponseTime string `json:"response_time,omitempty" firestore:"responseTime,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PublicProfile is the subset of User exposed on public endpoints.
type PublicProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	Avatar        string    `json:"avatar,omitempty"`
	OverallRating float64   `json:"overall_rating"`
	ReviewCount   int       `json:"review_count"`
	ResponseRate  string    `json:"response_rate,omitempty"`
	ResponseTime  string    `json:"response_time,omitempty"`
	JoinedDate    time.Time `json:"joined_date"`
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:            u.ID,
		Name:          u.Name,
		Username:      u.Username,
		Avatar:        u.Avatar,
		OverallRating: u.OverallRating,
		ReviewCount:   u.ReviewCount,
		ResponseRate:  u.ResponseRate,
		ResponseTime:  u.ResponseTime,
		JoinedDate:    u.CreatedAt,
	}
}
