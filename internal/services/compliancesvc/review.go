package compliancesvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/audit"
	"github.com/coziyoo/backend/internal/domain/compliance"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
)

// ReviewAction is an admin decision on a profile under review.
type ReviewAction string

const (
	ActionApprove        ReviewAction = "approve"
	ActionReject         ReviewAction = "reject"
	ActionRequestChanges ReviewAction = "request_changes"
)

var reviewTarget = map[ReviewAction]compliance.ProfileStatus{
	ActionApprove:        compliance.ProfileApproved,
	ActionReject:         compliance.ProfileRejected,
	ActionRequestChanges: compliance.ProfileInProgress,
}

// Review applies an admin decision to a profile under_review, writing an
// AdminAuditLog row and a SellerComplianceEvent in the same transaction and
// enqueuing compliance_status_changed (spec.md §4.8).
func (uc *UseCase) Review(ctx context.Context, profileID, adminID uuid.UUID, action ReviewAction, reason string) (*compliance.Profile, error) {
	target, ok := reviewTarget[action]
	if !ok {
		return nil, apperr.Newf(apperr.CodeValidation, "unknown review action %q", action)
	}

	var result *compliance.Profile

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		p, err := uc.Profiles.FindByIDForUpdate(ctx, profileID)
		if err != nil {
			return apperr.New(apperr.CodeComplianceProfileMissing, "compliance profile not found")
		}
		if p.Status != compliance.ProfileUnderReview {
			return apperr.Newf(apperr.CodeComplianceProfileReq, "cannot review profile in status %s", p.Status)
		}

		before := map[string]any{"status": p.Status}
		if err := uc.Profiles.UpdateStatus(ctx, profileID, target); err != nil {
			return err
		}
		after := map[string]any{"status": target}

		if err := uc.Profiles.AppendEvent(ctx, &compliance.Event{
			ID:        idgen.NewID(),
			ProfileID: profileID,
			EventType: "profile_" + string(action),
			ActorID:   &adminID,
			Details:   map[string]any{"reason": reason},
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := uc.Audit.Append(ctx, &audit.Log{
			ID:         idgen.NewID(),
			ActorID:    adminID,
			Action:     "compliance_review_" + string(action),
			EntityType: "seller_compliance_profile",
			EntityID:   profileID,
			Before:     before,
			After:      after,
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := uc.Outbox.Enqueue(ctx, "compliance_status_changed", "compliance_profile", profileID, map[string]any{
			"status": target,
			"reason": reason,
		}); err != nil {
			return err
		}

		p.Status = target
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Suspend flips an approved profile to suspended, e.g. following a dispute
// or regulatory action; it is modeled as its own operation rather than a
// ReviewAction since it can be invoked outside the under_review state.
func (uc *UseCase) Suspend(ctx context.Context, profileID, adminID uuid.UUID, reason string) (*compliance.Profile, error) {
	var result *compliance.Profile

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		p, err := uc.Profiles.FindByIDForUpdate(ctx, profileID)
		if err != nil {
			return apperr.New(apperr.CodeComplianceProfileMissing, "compliance profile not found")
		}
		before := map[string]any{"status": p.Status}
		if err := uc.Profiles.UpdateStatus(ctx, profileID, compliance.ProfileSuspended); err != nil {
			return err
		}

		if err := uc.Profiles.AppendEvent(ctx, &compliance.Event{
			ID:        idgen.NewID(),
			ProfileID: profileID,
			EventType: "profile_suspended",
			ActorID:   &adminID,
			Details:   map[string]any{"reason": reason},
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := uc.Audit.Append(ctx, &audit.Log{
			ID:         idgen.NewID(),
			ActorID:    adminID,
			Action:     "compliance_suspend",
			EntityType: "seller_compliance_profile",
			EntityID:   profileID,
			Before:     before,
			After:      map[string]any{"status": compliance.ProfileSuspended},
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := uc.Outbox.Enqueue(ctx, "compliance_status_changed", "compliance_profile", profileID, map[string]any{
			"status": compliance.ProfileSuspended,
		}); err != nil {
			return err
		}

		p.Status = compliance.ProfileSuspended
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OperationalGate reports whether a seller may operate (list foods, accept
// orders) given its country's compliance bar (spec.md §4.8: "UK requires
// approved, TR requires baseline required checks verified").
func OperationalGate(country string, p *compliance.Profile, requiredVerified bool) error {
	switch country {
	case "UK":
		if p.Status != compliance.ProfileApproved {
			return apperr.New(apperr.CodeComplianceProfileReq, "UK sellers require an approved compliance profile")
		}
	case "TR":
		if !requiredVerified {
			return apperr.New(apperr.CodeComplianceChecksMissing, "TR sellers require baseline required checks verified")
		}
	}
	return nil
}
