package ordersvc

import (
	"context"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/order"
)

// ExpireByID drives the system-owned pending_seller_approval/awaiting_payment
// -> expired edge (spec.md §4.6 "system drives... auto-expire"), attributed
// to no actor since it is the sweeper, not a human, making the call.
func (uc *UseCase) ExpireByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	return uc.transition(ctx, orderID, order.StatusExpired, "order_expired", nil, nil)
}
