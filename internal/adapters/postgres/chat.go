package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/chat"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
	"github.com/coziyoo/backend/pkg/pagination"
)

// ChatRepository is the Postgres-backed chat.Repository.
type ChatRepository struct{ conn *Connection }

func NewChatRepository(conn *Connection) *ChatRepository { return &ChatRepository{conn: conn} }

func (r *ChatRepository) FindOrCreate(ctx context.Context, buyerID, sellerID uuid.UUID, orderID *uuid.UUID) (*chat.Chat, error) {
	var c *chat.Chat
	err := r.conn.WithTx(ctx, func(ctx context.Context) error {
		row := r.conn.Q(ctx).QueryRow(ctx, `
			SELECT id, order_id, buyer_id, seller_id, created_at, updated_at FROM chat
			WHERE buyer_id = $1 AND seller_id = $2 AND order_id IS NOT DISTINCT FROM $3`,
			buyerID, sellerID, orderID)
		found, err := scanChat(row)
		if err == nil {
			c = found
			return nil
		}
		if !IsNoRows(err) {
			return err
		}

		now := time.Now().UTC()
		nc := &chat.Chat{ID: idgen.NewID(), OrderID: orderID, BuyerID: buyerID, SellerID: sellerID, CreatedAt: now, UpdatedAt: now}
		if _, err := r.conn.Q(ctx).Exec(ctx,
			`INSERT INTO chat (id, order_id, buyer_id, seller_id, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6)`,
			nc.ID, nc.OrderID, nc.BuyerID, nc.SellerID, nc.CreatedAt, nc.UpdatedAt); err != nil {
			return err
		}
		c = nc
		return nil
	})
	return c, err
}

func scanChat(row rowScanner) (*chat.Chat, error) {
	c := &chat.Chat{}
	if err := row.Scan(&c.ID, &c.OrderID, &c.BuyerID, &c.SellerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ChatRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
	row := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT id, order_id, buyer_id, seller_id, created_at, updated_at FROM chat WHERE id = $1`, id)
	c, err := scanChat(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "chat not found")
		}
		return nil, err
	}
	return c, nil
}

func (r *ChatRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `
		SELECT id, order_id, buyer_id, seller_id, created_at, updated_at FROM chat
		WHERE buyer_id = $1 OR seller_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*chat.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ChatRepository) AppendMessage(ctx context.Context, m *chat.Message) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO message (id, chat_id, sender_id, body, created_at) VALUES ($1,$2,$3,$4,$5)`,
		m.ID, m.ChatID, m.SenderID, m.Body, m.CreatedAt)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx, `UPDATE chat SET updated_at = $2 WHERE id = $1`, m.ChatID, m.CreatedAt)
	return err
}

func (r *ChatRepository) ListMessages(ctx context.Context, chatID uuid.UUID, cursorID string, limit int) ([]*chat.Message, bool, error) {
	cur := pagination.Cursor{}
	if cursorID != "" {
		cur = pagination.CreateCursor(cursorID, true)
	}
	q, _ := pagination.ApplyCursor(
		sq.Select("id, chat_id, sender_id, body, created_at").From("message").Where(sq.Eq{"chat_id": chatID}),
		cur, "DESC", limit)
	query, args, err := q.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, false, err
	}

	rows, err := r.conn.Q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var out []*chat.Message
	for rows.Next() {
		m := &chat.Message{}
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, false, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, nil
}
