package entity

import (
	"time"
)

const (
	ConditionNew     = "New"
	ConditionLikeNew = "Like New"
	ConditionGood    = "Good"
	ConditionFair    = "Fair"
	ConditionPoor    = "Poor"
)

func ValidCondition(condition string) bool {
	switch condition {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Review is an authored rating embedded in its listing document.
// At most one review per (listing, author) pair.
type Review struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Rating    int       `json:"rating" firestore:"rating"` // 1-5
	Comment   string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (r *Review) Valid() bool {
	return r.UserID != "" && r.Rating >= 1 && r.Rating <= 5
}

type Listing struct {
	ID            string  `json:"id" firestore:"id"`
	SellerID      string  `json:"seller_id" firestore:"sellerId"`
	Title         string  `json:"title" firestore:"title"`
	Description   string  `json:"description" firestore:"description"`
	Price         float64 `json:"price" firestore:"price"`
	OriginalPrice float64 `json:"original_price,omitempty" firestore:"originalPrice,omitempty"`
	Condition     string  `json:"condition" firestore:"condition"`
	Category      string  `json:"category" firestore:"category"`
	Location      string  `json:"location,omitempty" firestore:"location,omitempty"`

	Images []string `json:"images" firestore:"images"`

	// Merchandising flags, never settable through the public API.
	Featured    bool `json:"featured" firestore:"featured"`
	Recommended bool `json:"recommended" firestore:"recommended"`

	// AverageRating is derived from valid authored reviews only. Ratings
	// holds legacy anonymous quick ratings and feeds nothing but its count.
	AverageRating float64  `json:"average_rating" firestore:"averageRating"`
	Ratings       []int    `json:"ratings,omitempty" firestore:"ratings,omitempty"`
	Reviews       []Review `json:"reviews" firestore:"reviews"`

	ListedDate time.Time `json:"listed_date" firestore:"listedDate"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PurgeInvalidReviews drops reviews without an author reference. Runs as a
// pre-persistence invariant on every review mutation.
func (l *Listing) PurgeInvalidReviews() {
	valid := l.Reviews[:0]
	for _, review := range l.Reviews {
		if review.UserID != "" {
			valid = append(valid, review)
		}
	}
	l.Reviews = valid
}

// RecomputeAverageRating sets AverageRating to the arithmetic mean of
// the valid authored reviews, 0 when there are none.
func (l *Listing) RecomputeAverageRating() {
	total := 0
	count := 0
	for _, review := range l.Reviews {
		if review.Valid() {
			total += review.Rating
			count++
		}
	}

	if count == 0 {
		l.AverageRating = 0
		return
	}
	l.AverageRating = float64(total) / float64(count)
}

// ReviewByUser returns the index of the user's review, or -1.
func (l *Listing) ReviewByUser(userID string) int {
	for i, review := range l.Reviews {
		if review.UserID == userID {
			return i
		}
	}
	return -1
}
