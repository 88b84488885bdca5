package chatsvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coziyoo/backend/internal/domain/chat"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/pkg/apperr"
)

type fakeChats struct {
	byID     map[uuid.UUID]*chat.Chat
	messages map[uuid.UUID][]*chat.Message
}

func newFakeChats() *fakeChats {
	return &fakeChats{byID: map[uuid.UUID]*chat.Chat{}, messages: map[uuid.UUID][]*chat.Message{}}
}

func (f *fakeChats) FindOrCreate(_ context.Context, buyerID, sellerID uuid.UUID, orderID *uuid.UUID) (*chat.Chat, error) {
	for _, c := range f.byID {
		if c.BuyerID == buyerID && c.SellerID == sellerID && samePtr(c.OrderID, orderID) {
			return c, nil
		}
	}
	c := &chat.Chat{ID: uuid.New(), BuyerID: buyerID, SellerID: sellerID, OrderID: orderID, CreatedAt: time.Now().UTC()}
	f.byID[c.ID] = c
	return c, nil
}

func samePtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeChats) FindByID(_ context.Context, id uuid.UUID) (*chat.Chat, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, apperr.New(apperr.CodeValidation, "not found")
	}
	return c, nil
}
func (f *fakeChats) ListForUser(_ context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	var out []*chat.Chat
	for _, c := range f.byID {
		if c.BuyerID == userID || c.SellerID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeChats) AppendMessage(_ context.Context, m *chat.Message) error {
	f.messages[m.ChatID] = append(f.messages[m.ChatID], m)
	return nil
}
func (f *fakeChats) ListMessages(_ context.Context, chatID uuid.UUID, cursorID string, limit int) ([]*chat.Message, bool, error) {
	msgs := f.messages[chatID]
	if len(msgs) > limit {
		return msgs[:limit], true, nil
	}
	return msgs, false, nil
}

func newTestUseCase() (*UseCase, *fakeChats) {
	log, _ := logging.New("error", true)
	chats := newFakeChats()
	return &UseCase{Chats: chats, Log: log}, chats
}

func TestOpen_FindOrCreateIsIdempotent(t *testing.T) {
	uc, _ := newTestUseCase()
	buyerID, sellerID := uuid.New(), uuid.New()

	first, err := uc.Open(context.Background(), buyerID, sellerID, nil)
	require.NoError(t, err)

	second, err := uc.Open(context.Background(), buyerID, sellerID, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSend_RejectsEmptyBody(t *testing.T) {
	uc, chats := newTestUseCase()
	c, _ := chats.FindOrCreate(context.Background(), uuid.New(), uuid.New(), nil)

	_, err := uc.Send(context.Background(), c.ID, c.BuyerID, "")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestSend_RejectsNonParticipant(t *testing.T) {
	uc, chats := newTestUseCase()
	c, _ := chats.FindOrCreate(context.Background(), uuid.New(), uuid.New(), nil)

	_, err := uc.Send(context.Background(), c.ID, uuid.New(), "hello")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeForbiddenOrderScope, appErr.Code)
}

func TestSend_Success(t *testing.T) {
	uc, chats := newTestUseCase()
	c, _ := chats.FindOrCreate(context.Background(), uuid.New(), uuid.New(), nil)

	m, err := uc.Send(context.Background(), c.ID, c.SellerID, "on my way")
	require.NoError(t, err)
	assert.Equal(t, "on my way", m.Body)
	assert.Len(t, chats.messages[c.ID], 1)
}

func TestMessages_ReturnsHasMoreWhenOverLimit(t *testing.T) {
	uc, chats := newTestUseCase()
	c, _ := chats.FindOrCreate(context.Background(), uuid.New(), uuid.New(), nil)
	for i := 0; i < 5; i++ {
		chats.messages[c.ID] = append(chats.messages[c.ID], &chat.Message{ID: uuid.New(), ChatID: c.ID})
	}

	msgs, result, err := uc.Messages(context.Background(), c.ID, "", 3)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	assert.True(t, result.HasMore)
	assert.NotEmpty(t, result.NextCursor)
}

func TestMessages_DefaultsLimitOutOfRange(t *testing.T) {
	uc, chats := newTestUseCase()
	c, _ := chats.FindOrCreate(context.Background(), uuid.New(), uuid.New(), nil)

	_, result, err := uc.Messages(context.Background(), c.ID, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Limit)
}

func TestMessages_InvalidCursorRejected(t *testing.T) {
	uc, _ := newTestUseCase()
	_, _, err := uc.Messages(context.Background(), uuid.New(), "not-base64!!", 10)
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeCursorInvalid, appErr.Code)
}

func TestListForUser_ReturnsBothSides(t *testing.T) {
	uc, chats := newTestUseCase()
	buyerID := uuid.New()
	_, _ = chats.FindOrCreate(context.Background(), buyerID, uuid.New(), nil)
	_, _ = chats.FindOrCreate(context.Background(), uuid.New(), buyerID, nil)

	list, err := uc.ListForUser(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
