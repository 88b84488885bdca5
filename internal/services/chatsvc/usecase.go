// Package chatsvc implements C13's messaging half: per-order chat threads
// and cursor-paginated message history.
package chatsvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/chat"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
	"github.com/coziyoo/backend/pkg/pagination"
)

type UseCase struct {
	Chats chat.Repository
	Log   logging.Logger
}

// Open finds or creates the chat thread between a buyer and seller, scoped
// to an order when the conversation started from one.
func (uc *UseCase) Open(ctx context.Context, buyerID, sellerID uuid.UUID, orderID *uuid.UUID) (*chat.Chat, error) {
	return uc.Chats.FindOrCreate(ctx, buyerID, sellerID, orderID)
}

// Send appends a message to a chat the sender participates in.
func (uc *UseCase) Send(ctx context.Context, chatID, senderID uuid.UUID, body string) (*chat.Message, error) {
	if body == "" {
		return nil, apperr.New(apperr.CodeValidation, "message body must not be empty")
	}

	c, err := uc.Chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, apperr.New(apperr.CodeValidation, "chat not found")
	}
	if c.BuyerID != senderID && c.SellerID != senderID {
		return nil, apperr.New(apperr.CodeForbiddenOrderScope, "sender is not a participant in this chat")
	}

	m := &chat.Message{
		ID:        idgen.NewID(),
		ChatID:    chatID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Chats.AppendMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Messages returns a cursor-paginated page of a chat's history (spec.md
// §4.11 feed mode).
func (uc *UseCase) Messages(ctx context.Context, chatID uuid.UUID, cursor string, limit int) ([]*chat.Message, pagination.CursorResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	c, err := pagination.DecodeCursor(cursor)
	if err != nil {
		return nil, pagination.CursorResult{}, err
	}

	msgs, hasMore, err := uc.Chats.ListMessages(ctx, chatID, c.ID, limit)
	if err != nil {
		return nil, pagination.CursorResult{}, err
	}

	result := pagination.CursorResult{Limit: limit, HasMore: hasMore}
	if hasMore && len(msgs) > 0 {
		result.NextCursor = pagination.EncodeCursor(pagination.CreateCursor(msgs[len(msgs)-1].ID.String(), true))
	}
	return msgs, result, nil
}

// ListForUser lists every chat thread a user participates in, buyer or
// seller side.
func (uc *UseCase) ListForUser(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	return uc.Chats.ListForUser(ctx, userID)
}
