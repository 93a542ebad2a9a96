package repository

import (
	"context"

	"campusmarket/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error)

	// FindByParticipants returns the conversation between the two identities
	// scoped to listingID (which may be empty), or a NOT_FOUND error.
	FindByParticipants(ctx context.Context, userA, userB, listingID string) (*entity.Conversation, error)

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns the conversation's messages oldest-first.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	// MarkMessagesRead flags every unread message not sent by readerID.
	MarkMessagesRead(ctx context.Context, conversationID, readerID string) error

	// SetLastMessage updates the conversation's last-message pointer.
	SetLastMessage(ctx context.Context, conversationID string, message *entity.Message) error
	// IncrementUnread atomically adjusts userID's unread counter; ResetUnread
	// sets it to 0 without touching any other participant's counter.
	IncrementUnread(ctx context.Context, conversationID, userID string, delta int) error
	ResetUnread(ctx context.Context, conversationID, userID string) error
}
