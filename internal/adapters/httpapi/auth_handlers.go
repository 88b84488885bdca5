package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coziyoo/backend/internal/domain/identity"
	"github.com/coziyoo/backend/internal/services/identitysvc"
	"github.com/coziyoo/backend/pkg/apperr"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=10"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=80"`
	UserType    string `json:"userType" validate:"required,oneof=buyer seller both"`
	Country     string `json:"country" validate:"required,len=2"`
	Language    string `json:"language" validate:"required,min=2,max=10"`
}

func (d *Deps) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := d.bind(c, &req); err != nil {
		return WithError(c, err)
	}

	u, err := d.Identity.Register(c.UserContext(), identitysvc.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		UserType:    identity.RoleCapability(req.UserType),
		Country:     req.Country,
		Language:    req.Language,
	})
	if err != nil {
		return WithError(c, err)
	}
	return Created(c, u)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (d *Deps) Login(realm identity.Realm) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := d.bind(c, &req); err != nil {
			return WithError(c, err)
		}
		pair, err := d.Identity.Login(c.UserContext(), realm, req.Email, req.Password)
		if err != nil {
			return WithError(c, err)
		}
		return OK(c, pair)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (d *Deps) Refresh(realm identity.Realm) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req refreshRequest
		if err := d.bind(c, &req); err != nil {
			return WithError(c, err)
		}
		pair, err := d.Identity.Refresh(c.UserContext(), realm, req.RefreshToken)
		if err != nil {
			return WithError(c, err)
		}
		return OK(c, pair)
	}
}

func (d *Deps) Logout(c *fiber.Ctx) error {
	p := principalFrom(c)
	if err := d.Identity.Logout(c.UserContext(), p.SessionID); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"loggedOut": true})
}

func (d *Deps) LogoutAll(c *fiber.Ctx) error {
	p := principalFrom(c)
	if err := d.Identity.LogoutAll(c.UserContext(), p.Realm, p.UserID); err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"loggedOut": true})
}

func (d *Deps) Me(c *fiber.Ctx) error {
	p := principalFrom(c)
	u, err := d.Identity.Me(c.UserContext(), p.Realm, p.UserID)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, u)
}

func (d *Deps) CheckDisplayName(c *fiber.Ctx) error {
	name := c.Query("displayName")
	if name == "" {
		return WithError(c, apperr.New(apperr.CodeValidation, "displayName query param is required"))
	}
	taken, err := d.Identity.CheckDisplayName(c.UserContext(), name)
	if err != nil {
		return WithError(c, err)
	}
	return OK(c, fiber.Map{"taken": taken})
}

