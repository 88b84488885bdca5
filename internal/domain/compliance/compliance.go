// Package compliance implements C10: seller compliance profiles, documents,
// checks, and the append-only event log. Grounded on the teacher's
// entity+repository split.
package compliance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ProfileStatus string

const (
	ProfileNotStarted ProfileStatus = "not_started"
	ProfileInProgress ProfileStatus = "in_progress"
	ProfileSubmitted  ProfileStatus = "submitted"
	ProfileUnderReview ProfileStatus = "under_review"
	ProfileApproved   ProfileStatus = "approved"
	ProfileRejected   ProfileStatus = "rejected"
	ProfileSuspended  ProfileStatus = "suspended"
)

type CheckStatus string

const (
	CheckPending  CheckStatus = "pending"
	CheckVerified CheckStatus = "verified"
	CheckFailed   CheckStatus = "failed"
)

type Profile struct {
	ID        uuid.UUID
	SellerID  uuid.UUID
	Country   string
	Status    ProfileStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Document struct {
	ID         uuid.UUID
	ProfileID  uuid.UUID
	DocType    string
	MediaAssetID uuid.UUID
	CreatedAt  time.Time
}

// Check is unique per (seller, check_code).
type Check struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	SellerID  uuid.UUID
	CheckCode string
	Required  bool
	Status    CheckStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event is the append-only SellerComplianceEvent log.
type Event struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	EventType string
	ActorID   *uuid.UUID
	Details   map[string]any
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*Profile, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ProfileStatus) error

	AddDocument(ctx context.Context, d *Document) error
	UpsertCheck(ctx context.Context, c *Check) error
	Checks(ctx context.Context, profileID uuid.UUID) ([]*Check, error)
	// RequiredChecksVerified reports whether every required=true check for
	// the profile is status=verified (spec.md §4.8 submit gate).
	RequiredChecksVerified(ctx context.Context, profileID uuid.UUID) (bool, error)

	AppendEvent(ctx context.Context, e *Event) error
	Events(ctx context.Context, profileID uuid.UUID) ([]*Event, error)
}
