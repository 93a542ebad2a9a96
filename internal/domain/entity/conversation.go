package entity

import "time"

// Conversation is a two-party message thread, optionally scoped to a listing.
// UnreadCount maps participant ID to the number of messages that participant
// has not read yet; entries exist only for participants that have received
// messages. Conversations are never deleted.
type Conversation struct {
	ID           string   `json:"id" firestore:"id"`
	Participants []string `json:"participants" firestore:"participants"`
	ListingID    string   `json:"listing_id,omitempty" firestore:"listingId,omitempty"`

	LastMessageID   string    `json:"last_message_id,omitempty" firestore:"lastMessageId,omitempty"`
	LastMessageText string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt   time.Time `json:"last_message_at" firestore:"lastMessageAt"`

	UnreadCount map[string]int `json:"unread_count" firestore:"unreadCount"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID; empty when
// userID is not a participant.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}
