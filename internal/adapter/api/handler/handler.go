package handler

import (
	"campusmarket/internal/usecase"
)

var (
	userHandler    *UserHandler
	listingHandler *ListingHandler
	reviewHandler  *ReviewHandler
	messageHandler *MessageHandler
)

func Setup(
	identityUseCase *usecase.IdentityUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	messagingUseCase *usecase.MessagingUseCase,
) {
	userHandler = NewUserHandler(identityUseCase, userUseCase, listingUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	messageHandler = NewMessageHandler(messagingUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetMessageHandler() *MessageHandler {
	return messageHandler
}
