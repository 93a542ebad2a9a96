package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/domain/repository"
	"campusmarket/pkg/errors"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[user.ID]; ok {
		clone := *existing
		return &clone, false, nil
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored

	clone := stored
	return &clone, true, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return errors.NotFound("User", nil)
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) AddOwnedListing(ctx context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	for _, id := range user.OwnedListings {
		if id == listingID {
			return nil
		}
	}
	user.OwnedListings = append(user.OwnedListings, listingID)
	return nil
}

func (r *fakeUserRepo) RemoveOwnedListing(ctx context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	kept := user.OwnedListings[:0]
	for _, id := range user.OwnedListings {
		if id != listingID {
			kept = append(kept, id)
		}
	}
	user.OwnedListings = kept
	return nil
}

func (r *fakeUserRepo) SetSellerRating(ctx context.Context, userID string, overallRating float64, reviewCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.OverallRating = overallRating
	user.ReviewCount = reviewCount
	return nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[string]*entity.Listing
	seq      int
	order    map[string]int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: make(map[string]*entity.Listing),
		order:    make(map[string]int),
	}
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	stored := *listing
	r.listings[listing.ID] = &stored
	r.seq++
	r.order[listing.ID] = r.seq
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	clone := *listing
	return &clone, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	listing.UpdatedAt = time.Now()
	stored := *listing
	r.listings[listing.ID] = &stored
	return nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return errors.NotFound("Listing", nil)
	}
	delete(r.listings, id)
	delete(r.order, id)
	return nil
}

// newestFirst returns all listings ordered by insertion, newest first.
// Callers must hold the lock.
func (r *fakeListingRepo) newestFirst() []*entity.Listing {
	all := make([]*entity.Listing, 0, len(r.listings))
	for _, listing := range r.listings {
		all = append(all, listing)
	}
	sort.Slice(all, func(i, j int) bool {
		return r.order[all[i].ID] > r.order[all[j].ID]
	})
	return all
}

func (r *fakeListingRepo) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Listing
	for _, listing := range r.newestFirst() {
		if filter.Category != "" && listing.Category != filter.Category {
			continue
		}
		if filter.SellerID != "" && listing.SellerID != filter.SellerID {
			continue
		}
		if filter.MinPrice > 0 && listing.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && listing.Price > filter.MaxPrice {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(listing.Title), strings.ToLower(filter.Query)) {
			continue
		}
		clone := *listing
		matched = append(matched, &clone)
	}

	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeListingRepo) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	return r.List(ctx, repository.ListingFilter{SellerID: sellerID}, limit, offset)
}

func (r *fakeListingRepo) ListRelated(ctx context.Context, category, excludeID string, limit int) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var related []*entity.Listing
	for _, listing := range r.newestFirst() {
		if listing.ID == excludeID || listing.Category != category {
			continue
		}
		clone := *listing
		related = append(related, &clone)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

func (r *fakeListingRepo) Mutate(ctx context.Context, id string, fn func(*entity.Listing) error) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}

	working := *listing
	working.Reviews = append([]entity.Review(nil), listing.Reviews...)
	working.Ratings = append([]int(nil), listing.Ratings...)

	if err := fn(&working); err != nil {
		return nil, err
	}

	working.PurgeInvalidReviews()
	working.RecomputeAverageRating()
	working.UpdatedAt = time.Now()

	stored := working
	r.listings[id] = &stored

	clone := stored
	return &clone, nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	seq           int
	order         map[string]int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
		order:         make(map[string]int),
	}
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	if conversation.UnreadCount == nil {
		conversation.UnreadCount = make(map[string]int)
	}
	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	stored := cloneConversation(conversation)
	r.conversations[conversation.ID] = stored
	r.seq++
	r.order[conversation.ID] = r.seq
	return nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return cloneConversation(conversation), nil
}

func (r *fakeConversationRepo) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Conversation
	for _, conversation := range r.conversations {
		if conversation.HasParticipant(userID) {
			result = append(result, cloneConversation(conversation))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return r.order[result[i].ID] > r.order[result[j].ID]
	})
	return result, nil
}

func (r *fakeConversationRepo) FindByParticipants(ctx context.Context, userA, userB, listingID string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, conversation := range r.conversations {
		if len(conversation.Participants) != 2 {
			continue
		}
		if conversation.HasParticipant(userA) && conversation.HasParticipant(userB) && conversation.ListingID == listingID {
			return cloneConversation(conversation), nil
		}
	}
	return nil, errors.NotFound("Conversation", nil)
}

func (r *fakeConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	stored := *message
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], &stored)
	return nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*entity.Message, 0, len(r.messages[conversationID]))
	for _, message := range r.messages[conversationID] {
		clone := *message
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeConversationRepo) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, message := range r.messages[conversationID] {
		if message.SenderID != readerID {
			message.Read = true
		}
	}
	return nil
}

func (r *fakeConversationRepo) SetLastMessage(ctx context.Context, conversationID string, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conversation.LastMessageID = message.ID
	conversation.LastMessageText = message.Content
	conversation.LastMessageAt = message.CreatedAt
	conversation.UpdatedAt = time.Now()
	r.seq++
	r.order[conversationID] = r.seq
	return nil
}

func (r *fakeConversationRepo) IncrementUnread(ctx context.Context, conversationID, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conversation.UnreadCount[userID] += delta
	return nil
}

func (r *fakeConversationRepo) ResetUnread(ctx context.Context, conversationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conversation.UnreadCount[userID] = 0
	return nil
}

func cloneConversation(c *entity.Conversation) *entity.Conversation {
	clone := *c
	clone.Participants = append([]string(nil), c.Participants...)
	clone.UnreadCount = make(map[string]int, len(c.UnreadCount))
	for k, v := range c.UnreadCount {
		clone.UnreadCount[k] = v
	}
	return &clone
}
