package postgres

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/pagination"
)

// OrderRepository is the Postgres-backed order.Repository.
type OrderRepository struct{ conn *Connection }

func NewOrderRepository(conn *Connection) *OrderRepository { return &OrderRepository{conn: conn} }

const orderColumns = `id, buyer_id, seller_id, status, delivery_type, delivery_address,
		       total_price, payment_completed, order_code, short_id, created_at, updated_at`

func scanOrder(row rowScanner) (*order.Order, error) {
	o := &order.Order{}
	err := row.Scan(&o.ID, &o.BuyerID, &o.SellerID, &o.Status, &o.DeliveryType, &o.DeliveryAddress,
		&o.TotalPrice, &o.PaymentCompleted, &o.OrderCode, &o.ShortID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeOrderNotFound, "order not found")
		}
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order, items []*order.Item) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO "order" (id, buyer_id, seller_id, status, delivery_type, delivery_address,
		                      total_price, payment_completed, order_code, short_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.BuyerID, o.SellerID, o.Status, o.DeliveryType, o.DeliveryAddress,
		o.TotalPrice, o.PaymentCompleted, o.OrderCode, o.ShortID, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return TranslatePGError(err, "Order", map[string]apperr.Code{"order_order_code_key": apperr.CodeConflict})
	}

	for _, it := range items {
		if _, err := r.conn.Q(ctx).Exec(ctx, `
			INSERT INTO order_item (id, order_id, food_id, quantity, unit_price, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			it.ID, it.OrderID, it.FoodID, it.Quantity, it.UnitPrice, it.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+orderColumns+` FROM "order" WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+orderColumns+` FROM "order" WHERE id = $1 FOR UPDATE`, id)
	return scanOrder(row)
}

func (r *OrderRepository) Items(ctx context.Context, orderID uuid.UUID) ([]*order.Item, error) {
	rows, err := r.conn.Q(ctx).Query(ctx,
		`SELECT id, order_id, food_id, quantity, unit_price, created_at FROM order_item WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*order.Item
	for rows.Next() {
		it := &order.Item{}
		if err := rows.Scan(&it.ID, &it.OrderID, &it.FoodID, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status, paymentCompleted *bool) error {
	if paymentCompleted != nil {
		_, err := r.conn.Q(ctx).Exec(ctx,
			`UPDATE "order" SET status = $2, payment_completed = $3, updated_at = now() WHERE id = $1`,
			id, status, *paymentCompleted)
		return err
	}
	_, err := r.conn.Q(ctx).Exec(ctx, `UPDATE "order" SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

func (r *OrderRepository) AppendEvent(ctx context.Context, e *order.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO order_event (id, order_id, event_type, from_status, to_status, actor_id, payload, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.OrderID, e.EventType, e.FromStatus, e.ToStatus, e.ActorID, payload, e.CreatedAt)
	return err
}

func (r *OrderRepository) Events(ctx context.Context, orderID uuid.UUID) ([]*order.Event, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `
		SELECT id, order_id, event_type, from_status, to_status, actor_id, payload, created_at
		FROM order_event WHERE order_id = $1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*order.Event
	for rows.Next() {
		e := &order.Event{}
		var payload []byte
		if err := rows.Scan(&e.ID, &e.OrderID, &e.EventType, &e.FromStatus, &e.ToStatus, &e.ActorID, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *OrderRepository) ListExpiredPendingApproval(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	return r.listByStatusBefore(ctx, []order.Status{order.StatusPendingSellerApproval, order.StatusAwaitingPayment}, cutoff)
}

func (r *OrderRepository) ListDeliveredPastAutoComplete(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	return r.listByStatusBefore(ctx, []order.Status{order.StatusDelivered}, cutoff)
}

func (r *OrderRepository) listByStatusBefore(ctx context.Context, statuses []order.Status, cutoff time.Time) ([]*order.Order, error) {
	rows, err := r.conn.Q(ctx).Query(ctx,
		`SELECT `+orderColumns+` FROM "order" WHERE status = ANY($1) AND updated_at < $2`, statuses, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, cursorID string, limit int) ([]*order.Order, bool, error) {
	return r.listByParty(ctx, "buyer_id", buyerID, cursorID, limit)
}

func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, cursorID string, limit int) ([]*order.Order, bool, error) {
	return r.listByParty(ctx, "seller_id", sellerID, cursorID, limit)
}

func (r *OrderRepository) listByParty(ctx context.Context, col string, partyID uuid.UUID, cursorID string, limit int) ([]*order.Order, bool, error) {
	cur := pagination.Cursor{}
	if cursorID != "" {
		cur = pagination.CreateCursor(cursorID, true)
	}
	q, _ := pagination.ApplyCursor(
		sq.Select(orderColumns).From(`"order"`).Where(sq.Eq{col: partyID}),
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

	var out []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, false, err
		}
		out = append(out, o)
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

