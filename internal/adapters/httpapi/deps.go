package httpapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/coziyoo/backend/internal/config"
	"github.com/coziyoo/backend/internal/domain/catalog"
	"github.com/coziyoo/backend/internal/domain/lot"
	"github.com/coziyoo/backend/internal/domain/media"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/abusesvc"
	"github.com/coziyoo/backend/internal/services/auditsvc"
	"github.com/coziyoo/backend/internal/services/chatsvc"
	"github.com/coziyoo/backend/internal/services/compliancesvc"
	"github.com/coziyoo/backend/internal/services/deliverysvc"
	"github.com/coziyoo/backend/internal/services/disclosuresvc"
	"github.com/coziyoo/backend/internal/services/disputesvc"
	"github.com/coziyoo/backend/internal/services/financesvc"
	"github.com/coziyoo/backend/internal/services/identitysvc"
	"github.com/coziyoo/backend/internal/services/idempotencysvc"
	"github.com/coziyoo/backend/internal/services/ordersvc"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/internal/services/paymentsvc"
	"github.com/coziyoo/backend/internal/services/retentionsvc"
	"github.com/coziyoo/backend/internal/services/reviewsvc"
)

// Deps is the explicit dependency container every handler closes over,
// replacing the teacher's package-level globals (spec.md §9 "Globals ->
// explicit dependency container initialized at boot and passed to
// handlers").
type Deps struct {
	Config *config.Config
	Log    logging.Logger
	Valid  *validator.Validate

	Identity    *identitysvc.UseCase
	Abuse       *abusesvc.UseCase
	Idempotency *idempotencysvc.UseCase
	Outbox      *outboxsvc.UseCase

	Categories catalog.CategoryRepository
	Foods      catalog.FoodRepository
	Lots       lot.Repository
	Media      media.Repository

	Orders     *ordersvc.UseCase
	Payments   *paymentsvc.UseCase
	Compliance *compliancesvc.UseCase
	Disclosure *disclosuresvc.UseCase
	Delivery   *deliverysvc.UseCase
	Dispute    *disputesvc.UseCase
	Finance    *financesvc.UseCase
	Chat       *chatsvc.UseCase
	Review     *reviewsvc.UseCase
	Audit      *auditsvc.UseCase
	Retention  *retentionsvc.UseCase
}
