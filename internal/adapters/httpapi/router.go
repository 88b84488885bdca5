package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"github.com/coziyoo/backend/internal/domain/abuse"
	"github.com/coziyoo/backend/internal/domain/identity"
)

// NewRouter builds the versioned /v1 surface (C14), grouped by aggregate,
// with the auth/actor-role/abuse/idempotency gates composed in front of
// each mutating endpoint per spec.md §6.
func NewRouter(d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return WithError(c, err)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error { return OK(c, fiber.Map{"status": "ok"}) })
	app.Get("/version", func(c *fiber.Ctx) error { return OK(c, fiber.Map{"version": "v1"}) })
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	v1 := app.Group("/v1")

	appAuth := v1.Group("/auth")
	appAuth.Post("/register", d.abuseGate(abuse.FlowSignup), d.Register)
	appAuth.Post("/login", d.abuseGate(abuse.FlowLogin), d.Login(identity.RealmApp))
	appAuth.Post("/refresh", d.Refresh(identity.RealmApp))
	appAuth.Post("/logout", d.requireAuth(identity.RealmApp), d.Logout)
	appAuth.Post("/logout-all", d.requireAuth(identity.RealmApp), d.LogoutAll)
	appAuth.Get("/me", d.requireAuth(identity.RealmApp), d.Me)
	appAuth.Get("/display-name/check", d.abuseGate(abuse.FlowDisplayName), d.CheckDisplayName)

	adminAuth := v1.Group("/admin/auth")
	adminAuth.Post("/login", d.abuseGate(abuse.FlowLogin), d.Login(identity.RealmAdmin))
	adminAuth.Post("/refresh", d.Refresh(identity.RealmAdmin))
	adminAuth.Post("/logout", d.requireAuth(identity.RealmAdmin), d.Logout)
	adminAuth.Get("/me", d.requireAuth(identity.RealmAdmin), d.Me)

	buyerOrSeller := d.requireAuth(identity.RealmApp)
	buyerOnly := d.requireAuth(identity.RealmApp, "buyer")
	sellerOnly := d.requireAuth(identity.RealmApp, "seller")
	admin := d.requireAuth(identity.RealmAdmin, string(identity.AdminRoleAdmin), string(identity.AdminRoleSuperAdmin))

	categories := v1.Group("/categories")
	categories.Get("/", d.ListCategories)
	categories.Post("/", admin, d.CreateCategory)

	foods := v1.Group("/foods")
	foods.Get("/", d.ListFoods)
	foods.Get("/:foodId", d.GetFood)
	foods.Post("/", sellerOnly, d.CreateFood)
	foods.Patch("/:foodId", sellerOnly, d.UpdateFood)
	foods.Delete("/:foodId", sellerOnly, d.DeleteFood)
	foods.Get("/:foodId/reviews", d.ListReviews)
	foods.Post("/:foodId/favorite", buyerOnly, d.FavoriteFood)
	foods.Delete("/:foodId/favorite", buyerOnly, d.UnfavoriteFood)

	sellers := v1.Group("/sellers")
	sellers.Get("/:sellerId/foods", d.ListFoodsBySeller)
	sellers.Get("/:sellerId/finance-summary", admin, d.SellerFinanceSummary)

	lots := v1.Group("/lots")
	lots.Post("/", sellerOnly, d.CreateLot)
	lots.Get("/mine", sellerOnly, d.ListLotsBySeller)
	lots.Post("/:lotId/recall", sellerOnly, d.RecallLot)
	lots.Post("/:lotId/discard", sellerOnly, d.DiscardLot)
	lots.Patch("/:lotId", admin, d.AdminAdjustLot)

	orders := v1.Group("/orders")
	orders.Post("/", buyerOnly, d.abuseGate(abuse.FlowOrderCreate), d.CreateOrder)
	orders.Get("/mine", buyerOnly, d.ListOrdersByBuyer)
	orders.Get("/selling", sellerOnly, d.ListOrdersBySeller)
	orders.Get("/:orderId", buyerOrSeller, d.GetOrder)
	orders.Post("/:orderId/seller-approve", sellerOnly, d.SellerApproveOrder)
	orders.Post("/:orderId/reject", sellerOnly, d.RejectOrder)
	orders.Post("/:orderId/cancel", buyerOrSeller, d.CancelOrder)
	orders.Post("/:orderId/prepare", sellerOnly, d.PrepareOrder)
	orders.Post("/:orderId/ready", sellerOnly, d.ReadyOrder)
	orders.Post("/:orderId/dispatch", sellerOnly, d.DispatchOrder)
	orders.Post("/:orderId/deliver", sellerOnly, d.DeliverOrder)
	orders.Post("/:orderId/complete", buyerOrSeller, d.CompleteOrder)
	orders.Post("/:orderId/payment", buyerOnly, d.abuseGate(abuse.FlowPaymentStart), d.StartPayment)
	orders.Post("/:orderId/refund-request", buyerOnly, d.abuseGate(abuse.FlowRefundRequest), d.RequestRefund)
	orders.Post("/:orderId/disclosure", buyerOrSeller, d.RecordDisclosure)
	orders.Get("/:orderId/disclosure", buyerOrSeller, d.GetDisclosure)
	orders.Post("/:orderId/delivery-pin", sellerOnly, d.IssueDeliveryPIN)
	orders.Post("/:orderId/delivery-pin/verify", buyerOrSeller, d.abuseGate(abuse.FlowPinVerify), d.VerifyDeliveryPIN)

	v1.Post("/payments/webhook", d.PaymentWebhook)
	v1.Get("/payments/return/:sessionId", d.PaymentReturn)

	compliance := v1.Group("/compliance")
	compliance.Post("/profile", sellerOnly, d.EnsureComplianceProfile)
	compliance.Post("/profile/:profileId/checks", sellerOnly, d.UpsertComplianceCheck)
	compliance.Post("/profile/:profileId/documents", sellerOnly, d.AddComplianceDocument)
	compliance.Post("/profile/:profileId/submit", sellerOnly, d.SubmitComplianceProfile)
	compliance.Post("/profile/:profileId/review", admin, d.AdminReviewCompliance)
	compliance.Post("/profile/:profileId/suspend", admin, d.AdminSuspendCompliance)

	disputes := v1.Group("/disputes")
	disputes.Post("/:caseId/resolve", admin, d.AdminResolveDispute)

	finance := v1.Group("/finance")
	finance.Post("/commission-rate", admin, d.AdminSetCommissionRate)
	finance.Get("/commission-rate", buyerOrSeller, d.ActiveCommissionRate)
	finance.Post("/reconciliation-reports", admin, d.AdminGenerateReconciliationReport)

	chats := v1.Group("/chats")
	chats.Post("/", buyerOrSeller, d.OpenChat)
	chats.Get("/", buyerOrSeller, d.ListMyChats)
	chats.Post("/:chatId/messages", buyerOrSeller, d.SendChatMessage)
	chats.Get("/:chatId/messages", buyerOrSeller, d.ListChatMessages)

	addresses := v1.Group("/addresses", buyerOrSeller)
	addresses.Post("/", d.AddAddress)
	addresses.Get("/", d.ListAddresses)
	addresses.Post("/:addressId/default", d.SetDefaultAddress)
	addresses.Delete("/:addressId", d.DeleteAddress)

	v1.Get("/favorites", buyerOnly, d.ListFavorites)

	v1.Post("/media-assets", buyerOrSeller, d.RegisterMediaAsset)

	adminGroup := v1.Group("/admin", admin)
	adminGroup.Get("/audit/:entityId", d.AdminListAuditLog)
	adminGroup.Post("/legal-holds", d.AdminPlaceLegalHold)
	adminGroup.Post("/legal-holds/:holdId/release", d.AdminReleaseLegalHold)

	return app
}
