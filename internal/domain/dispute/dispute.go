// Package dispute implements the PaymentDisputeCase half of C11: refund
// requests and admin resolution with liability-ratio adjustments.
package dispute

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CaseType string

const (
	CaseTypeRefund     CaseType = "refund"
	CaseTypeChargeback CaseType = "chargeback"
)

type Status string

const (
	StatusOpened     Status = "opened"
	StatusUnderReview Status = "under_review"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
	StatusClosed     Status = "closed"
)

type LiabilityParty string

const (
	LiabilityPlatform LiabilityParty = "platform"
	LiabilitySeller   LiabilityParty = "seller"
	LiabilityProvider LiabilityParty = "provider"
	LiabilityShared   LiabilityParty = "shared"
)

type Case struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	PaymentAttemptID *uuid.UUID
	CaseType         CaseType
	Status           Status
	LiabilityParty   LiabilityParty
	LiabilityRatio   float64 // seller's share in [0,1] when shared
	Evidence         map[string]any
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Repository interface {
	Create(ctx context.Context, c *Case) error
	FindByID(ctx context.Context, id uuid.UUID) (*Case, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Case, error)
	FindOpenByOrderID(ctx context.Context, orderID uuid.UUID) (*Case, error)
	Resolve(ctx context.Context, id uuid.UUID, status Status, liability LiabilityParty, ratio float64) error
}
