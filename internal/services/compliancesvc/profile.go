package compliancesvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/compliance"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
)

// EnsureProfile returns the seller's compliance profile, creating a fresh
// not_started row on first access (spec.md §4.8 lifecycle start state).
func (uc *UseCase) EnsureProfile(ctx context.Context, sellerID uuid.UUID, country string) (*compliance.Profile, error) {
	p, err := uc.Profiles.FindBySellerID(ctx, sellerID)
	if err == nil {
		return p, nil
	}

	now := time.Now().UTC()
	p = &compliance.Profile{
		ID:        idgen.NewID(),
		SellerID:  sellerID,
		Country:   country,
		Status:    compliance.ProfileNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpsertCheck records progress on a required/optional check, appending a
// check_upserted SellerComplianceEvent and moving the profile to
// in_progress on its first write.
func (uc *UseCase) UpsertCheck(ctx context.Context, profileID, sellerID uuid.UUID, checkCode string, required bool, status compliance.CheckStatus) error {
	return uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		p, err := uc.Profiles.FindByIDForUpdate(ctx, profileID)
		if err != nil {
			return apperr.New(apperr.CodeComplianceProfileMissing, "compliance profile not found")
		}

		if err := uc.Profiles.UpsertCheck(ctx, &compliance.Check{
			ID:        idgen.NewID(),
			ProfileID: profileID,
			SellerID:  sellerID,
			CheckCode: checkCode,
			Required:  required,
			Status:    status,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := uc.Profiles.AppendEvent(ctx, &compliance.Event{
			ID:        idgen.NewID(),
			ProfileID: profileID,
			EventType: "check_upserted",
			Details:   map[string]any{"checkCode": checkCode, "status": status},
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		if p.Status == compliance.ProfileNotStarted {
			return uc.Profiles.UpdateStatus(ctx, profileID, compliance.ProfileInProgress)
		}
		return nil
	})
}

// AddDocument records an uploaded compliance document (media.Asset already
// created by the media module; this links it to the profile).
func (uc *UseCase) AddDocument(ctx context.Context, profileID uuid.UUID, docType string, mediaAssetID uuid.UUID) error {
	return uc.Profiles.AddDocument(ctx, &compliance.Document{
		ID:           idgen.NewID(),
		ProfileID:    profileID,
		DocType:      docType,
		MediaAssetID: mediaAssetID,
		CreatedAt:    time.Now().UTC(),
	})
}

// Submit performs the atomic submitted -> under_review flip from spec.md
// §4.8/§9: both status writes and their SellerComplianceEvent rows commit
// in one transaction so the event log is the only place `submitted` is
// ever observable (SPEC_FULL.md's Open Question resolution).
func (uc *UseCase) Submit(ctx context.Context, profileID uuid.UUID, actorID *uuid.UUID) (*compliance.Profile, error) {
	var result *compliance.Profile

	err := uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		p, err := uc.Profiles.FindByIDForUpdate(ctx, profileID)
		if err != nil {
			return apperr.New(apperr.CodeComplianceProfileMissing, "compliance profile not found")
		}
		if p.Status != compliance.ProfileInProgress && p.Status != compliance.ProfileRejected {
			return apperr.Newf(apperr.CodeComplianceProfileReq, "cannot submit from status %s", p.Status)
		}

		ok, err := uc.Profiles.RequiredChecksVerified(ctx, profileID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.CodeComplianceChecksMissing, "required checks not yet verified")
		}

		if err := uc.Profiles.UpdateStatus(ctx, profileID, compliance.ProfileSubmitted); err != nil {
			return err
		}
		if err := uc.Profiles.AppendEvent(ctx, &compliance.Event{
			ID:        idgen.NewID(),
			ProfileID: profileID,
			EventType: "profile_submitted",
			ActorID:   actorID,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := uc.Profiles.UpdateStatus(ctx, profileID, compliance.ProfileUnderReview); err != nil {
			return err
		}
		if err := uc.Profiles.AppendEvent(ctx, &compliance.Event{
			ID:        idgen.NewID(),
			ProfileID: profileID,
			EventType: "profile_under_review",
			ActorID:   actorID,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := uc.Outbox.Enqueue(ctx, "compliance_status_changed", "compliance_profile", profileID, map[string]any{
			"status": compliance.ProfileUnderReview,
		}); err != nil {
			return err
		}

		p.Status = compliance.ProfileUnderReview
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
