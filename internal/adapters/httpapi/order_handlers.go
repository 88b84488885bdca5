package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/order"
	"github.com/coziyoo/backend/internal/services/ordersvc"
)

type orderItemRequest struct {
	FoodID   uuid.UUID `json:"foodId" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	SellerID        uuid.UUID          `json:"sellerId" validate:"required"`
	DeliveryType    string             `json:"deliveryType" validate:"required,oneof=delivery pickup"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (d *Deps) CreateOrder(c *fiber.Ctx) error {
	p := principalFrom(c)

	idem, err := d.checkIdempotency(c, "order_create")
	if err != nil {
		return WithError(c, err)
	}
	if idem.Replay {
		return c.Status(idem.Status).Send(idem.Body)
	}

	var req createOrderRequest
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}

	items := make([]ordersvc.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ordersvc.ItemInput{FoodID: it.FoodID, Quantity: it.Quantity})
	}

	o, err := d.Orders.Create(c.UserContext(), ordersvc.CreateInput{
		BuyerID:         p.UserID,
		SellerID:        req.SellerID,
		DeliveryType:    order.DeliveryType(req.DeliveryType),
		DeliveryAddress: req.DeliveryAddress,
		Items:           items,
	})
	if err != nil {
		return WithError(c, err)
	}

	body, _ := jsonEnvelope(fiber.Map{"data": o})
	d.storeIdempotent(c, "order_create", fiber.StatusCreated, body)
	return c.Status(fiber.StatusCreated).Send(body)
}

func (d *Deps) transitionResponse(c *fiber.Ctx, o *order.Order, err error) error {
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, o)
}

func (d *Deps) SellerApproveOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	o, err := d.Orders.SellerApprove(c.UserContext(), id, p.UserID)
	return d.transitionResponse(c, o, err)
}

func (d *Deps) RejectOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	o, err := d.Orders.Reject(c.UserContext(), id, p.UserID)
	return d.transitionResponse(c, o, err)
}

func (d *Deps) CancelOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	o, err := d.Orders.Cancel(c.UserContext(), id, p.UserID)
	return d.transitionResponse(c, o, err)
}

func (d *Deps) PrepareOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	o, err := d.Orders.Prepare(c.UserContext(), id, p.UserID)
	return d.transitionResponse(c, o, err)
}

func (d *Deps) ReadyOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	o, err := d.Orders.Ready(c.UserContext(), id, p.UserID)
	return d.transitionResponse(c, o, err)
}

func (d *Deps) DispatchOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	o, err := d.Orders.DispatchForDelivery(c.UserContext(), id, p.UserID)
	return d.transitionResponse(c, o, err)
}

func (d *Deps) DeliverOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	o, err := d.Orders.Deliver(c.UserContext(), id, p.UserID)
	return d.transitionResponse(c, o, err)
}

func (d *Deps) CompleteOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	adminOverride := p.IsAdmin()
	var actorID *uuid.UUID
	if !adminOverride {
		actorID = &p.UserID
	}
	o, err := d.Orders.Complete(c.UserContext(), id, adminOverride, actorID)
	return d.transitionResponse(c, o, err)
}

func (d *Deps) GetOrder(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "orderId")
	if !ok {
		return nil
	}
	p := principalFrom(c)

	o, err := d.Orders.FindByID(c.UserContext(), id)
	if err != nil {
		return WithError(c, err)
	}
	if !p.IsAdmin() && o.BuyerID != p.UserID && o.SellerID != p.UserID {
		return WithError(c, forbiddenOrderScope())
	}

	items, err := d.Orders.Items(c.UserContext(), id)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"order": o, "items": items})
}

func (d *Deps) ListOrdersByBuyer(c *fiber.Ctx) error {
	p := principalFrom(c)
	cursorID, err := decodeCursorID(c)
	if err != nil {
		return WithError(c, err)
	}
	limit := queryLimit(c, 20, 100)

	orders, hasMore, err := d.Orders.ListByBuyer(c.UserContext(), p.UserID, cursorID, limit)
	if err != nil {
		return WithError(c, err)
	}
	last := ""
	if len(orders) > 0 {
		last = orders[len(orders)-1].ID.String()
	}
	return OKCursor(c, orders, cursorResult(last, hasMore, limit))
}

func (d *Deps) ListOrdersBySeller(c *fiber.Ctx) error {
	p := principalFrom(c)
	cursorID, err := decodeCursorID(c)
	if err != nil {
		return WithError(c, err)
	}
	limit := queryLimit(c, 20, 100)

	orders, hasMore, err := d.Orders.ListBySeller(c.UserContext(), p.UserID, cursorID, limit)
	if err != nil {
		return WithError(c, err)
	}
	last := ""
	if len(orders) > 0 {
		last = orders[len(orders)-1].ID.String()
	}
	return OKCursor(c, orders, cursorResult(last, hasMore, limit))
}
