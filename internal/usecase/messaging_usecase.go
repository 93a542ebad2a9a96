package usecase

import (
	"context"
	"strings"
	"time"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/internal/infrastructure/ratelimit"
	"campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
)

type MessagingUseCase struct {
	conversationRepo repository.ConversationRepository
	listingRepo      repository.ListingRepository
	userRepo         repository.UserRepository
	rateLimiter      *ratelimit.RateLimiter
}

func NewMessagingUseCase(
	conversationRepo repository.ConversationRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	rateLimiter *ratelimit.RateLimiter,
) *MessagingUseCase {
	return &MessagingUseCase{
		conversationRepo: conversationRepo,
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		rateLimiter:      rateLimiter,
	}
}

type SendMessageInput struct {
	ConversationID string `json:"conversation_id"`
	RecipientID    string `json:"recipient_id"`
	ListingID      string `json:"listing_id"`
	Content        string `json:"content" validate:"required"`
}

// ListingRef is the listing context shown on a conversation row.
type ListingRef struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

type ConversationView struct {
	ID          string                `json:"id"`
	OtherUser   *entity.PublicProfile `json:"other_user"`
	Listing     *ListingRef           `json:"listing,omitempty"`
	LastMessage string                `json:"last_message,omitempty"`
	UnreadCount int                   `json:"unread_count"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type SendMessageResult struct {
	ConversationID string          `json:"conversation_id"`
	Message        *entity.Message `json:"message"`
}

// ListConversations returns the caller's conversations newest-first, each
// with the other participant and listing context resolved. Conversations
// whose references have gone missing are skipped, not surfaced as errors.
func (uc *MessagingUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationView, error) {
	conversations, err := uc.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*ConversationView, 0, len(conversations))
	for _, conversation := range conversations {
		otherID := conversation.OtherParticipant(userID)
		if otherID == "" {
			logger.Warn("Conversation %s has no counterpart for %s, skipping", conversation.ID, userID)
			continue
		}

		other, err := uc.userRepo.GetByID(ctx, otherID)
		if err != nil {
			logger.Warn("Failed to resolve participant %s in conversation %s: %v", otherID, conversation.ID, err)
			continue
		}

		view := &ConversationView{
			ID:          conversation.ID,
			OtherUser:   other.Public(),
			LastMessage: conversation.LastMessageText,
			UnreadCount: conversation.UnreadCount[userID],
			UpdatedAt:   conversation.UpdatedAt,
		}

		if conversation.ListingID != "" {
			listing, err := uc.listingRepo.GetByID(ctx, conversation.ListingID)
			if err != nil {
				logger.Warn("Failed to resolve listing %s in conversation %s: %v", conversation.ListingID, conversation.ID, err)
			} else {
				ref := &ListingRef{ID: listing.ID, Title: listing.Title, Price: listing.Price}
				if len(listing.Images) > 0 {
					ref.Image = listing.Images[0]
				}
				view.Listing = ref
			}
		}

		views = append(views, view)
	}

	return views, nil
}

// SendMessage appends a message to an existing conversation, or starts a new
// conversation with the recipient when no conversation ID is given. Starting
// a conversation reuses an existing thread for the same pair and listing.
func (uc *MessagingUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*SendMessageResult, error) {
	if allowed, retryAfter := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		logger.Warn("Rate limit hit for user %s, retry after %v", senderID, retryAfter)
		return nil, errors.TooManyRequests("You're sending messages too quickly. Please wait a moment.")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}

	var conversation *entity.Conversation
	var err error

	if input.ConversationID != "" {
		conversation, err = uc.conversationRepo.GetByID(ctx, input.ConversationID)
		if err != nil {
			return nil, err
		}
		if !conversation.HasParticipant(senderID) {
			return nil, errors.Forbidden("You are not a participant in this conversation", nil)
		}
	} else {
		conversation, err = uc.startConversation(ctx, senderID, input.RecipientID, input.ListingID)
		if err != nil {
			return nil, err
		}
	}

	message := &entity.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.conversationRepo.SetLastMessage(ctx, conversation.ID, message); err != nil {
		logger.Error("Failed to update last message on conversation %s: %v", conversation.ID, err)
	}

	for _, participant := range conversation.Participants {
		if participant == senderID {
			continue
		}
		if err := uc.conversationRepo.IncrementUnread(ctx, conversation.ID, participant, 1); err != nil {
			logger.Error("Failed to bump unread count for %s in conversation %s: %v", participant, conversation.ID, err)
		}
	}

	return &SendMessageResult{ConversationID: conversation.ID, Message: message}, nil
}

func (uc *MessagingUseCase) startConversation(ctx context.Context, senderID, recipientID, listingID string) (*entity.Conversation, error) {
	if recipientID == "" {
		return nil, errors.BadRequest("Recipient is required to start a conversation", nil)
	}
	if recipientID == senderID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.NotFound("Recipient", err)
		}
		return nil, err
	}

	if listingID != "" {
		if _, err := uc.listingRepo.GetByID(ctx, listingID); err != nil {
			if errors.Is(err, "NOT_FOUND") {
				return nil, errors.NotFound("Listing", err)
			}
			return nil, err
		}
	}

	existing, err := uc.conversationRepo.FindByParticipants(ctx, senderID, recipientID, listingID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	conversation := &entity.Conversation{
		Participants: []string{senderID, recipientID},
		ListingID:    listingID,
	}
	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// GetMessages returns a conversation's messages oldest-first and marks the
// caller's side read, resetting their unread counter.
func (uc *MessagingUseCase) GetMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	messages, err := uc.conversationRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if err := uc.conversationRepo.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		logger.Error("Failed to mark messages read in conversation %s: %v", conversationID, err)
	}
	if err := uc.conversationRepo.ResetUnread(ctx, conversationID, userID); err != nil {
		logger.Error("Failed to reset unread count in conversation %s: %v", conversationID, err)
	}

	return messages, nil
}

// GetUnreadCount sums the caller's unread counters across all conversations.
func (uc *MessagingUseCase) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	conversations, err := uc.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, conversation := range conversations {
		total += conversation.UnreadCount[userID]
	}
	return total, nil
}
