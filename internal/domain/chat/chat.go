// Package chat implements C13's messaging half: Chat threads (buyer<->seller,
// usually order-scoped) and cursor-paginated Messages.
package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	ID        uuid.UUID
	OrderID   *uuid.UUID
	BuyerID   uuid.UUID
	SellerID  uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID        uuid.UUID
	ChatID    uuid.UUID
	SenderID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

type Repository interface {
	FindOrCreate(ctx context.Context, buyerID, sellerID uuid.UUID, orderID *uuid.UUID) (*Chat, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Chat, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error)

	AppendMessage(ctx context.Context, m *Message) error
	// ListMessages is cursor-paginated (feed mode, spec.md §4.11).
	ListMessages(ctx context.Context, chatID uuid.UUID, cursorID string, limit int) ([]*Message, bool, error)
}
