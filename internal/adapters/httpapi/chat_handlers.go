package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (d *Deps) OpenChat(c *fiber.Ctx) error {
	p := principalFrom(c)
	var req struct {
		SellerID uuid.UUID  `json:"sellerId" validate:"required"`
		OrderID  *uuid.UUID `json:"orderId"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	buyerID, sellerID := p.UserID, req.SellerID
	if p.EffectiveRole == "seller" {
		buyerID, sellerID = req.SellerID, p.UserID
	}
	chat, err := d.Chat.Open(c.UserContext(), buyerID, sellerID, req.OrderID)
	if err != nil {
		return WithError(c, err)
	}
	return Created(c, chat)
}

func (d *Deps) SendChatMessage(c *fiber.Ctx) error {
	chatID, ok := pathUUID(c, "chatId")
	if !ok {
		return nil
	}
	p := principalFrom(c)
	var req struct {
		Body string `json:"body" validate:"required,min=1,max=4000"`
	}
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}
	msg, err := d.Chat.Send(c.UserContext(), chatID, p.UserID, req.Body)
	if err != nil {
		return WithError(c, err)
	}
	return Created(c, msg)
}

func (d *Deps) ListChatMessages(c *fiber.Ctx) error {
	chatID, ok := pathUUID(c, "chatId")
	if !ok {
		return nil
	}
	limit := queryLimit(c, 30, 100)
	msgs, cursor, err := d.Chat.Messages(c.UserContext(), chatID, queryCursor(c), limit)
	if err != nil {
		return WithError(c, err)
	}
	return OKCursor(c, msgs, cursor)
}

func (d *Deps) ListMyChats(c *fiber.Ctx) error {
	p := principalFrom(c)
	chats, err := d.Chat.ListForUser(c.UserContext(), p.UserID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, chats)
}
