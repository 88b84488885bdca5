// Package deliverysvc implements the delivery-proof half of C11: 6-digit
// PIN issuance, hashed storage, and timing-safe verification with a 10
// minute TTL and a 5-attempt cap (spec.md §4.10).
package deliverysvc

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/delivery"
	"github.com/coziyoo/backend/internal/platform/logging"
	"github.com/coziyoo/backend/internal/services/outboxsvc"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/idgen"
)

// transactor is satisfied by *postgres.Connection; narrowed to the one
// method this package calls so tests can run against an in-memory fake
// instead of a live pool.
type transactor interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

type UseCase struct {
	Conn    transactor
	Records delivery.Repository
	Outbox  *outboxsvc.UseCase
	Log     logging.Logger
}

func hashPin(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

func generatePin() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	n := (uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])) % 1_000_000
	return fmt.Sprintf("%06d", n), nil
}

// IssuePIN generates and stores a fresh PIN for an order, creating the
// DeliveryProofRecord on first call. The plaintext PIN is returned once for
// the caller to hand off to the notification publisher; it is never
// persisted.
func (uc *UseCase) IssuePIN(ctx context.Context, orderID uuid.UUID) (string, error) {
	pin, err := generatePin()
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "failed to generate PIN", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(delivery.PinTTL)
	hash := hashPin(pin)

	existing, err := uc.Records.FindByOrderIDForUpdate(ctx, orderID)
	if err != nil {
		if err := uc.Records.Create(ctx, &delivery.Record{
			ID:        idgen.NewID(),
			OrderID:   orderID,
			PinHash:   hash,
			SentAt:    now,
			ExpiresAt: expiresAt,
			Status:    delivery.StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return "", err
		}
		return pin, nil
	}

	// Regenerate replaces the previous hash/expiry/attempt counter
	// (SPEC_FULL.md's Open Question resolution: "replace", not append
	// history).
	if err := uc.Records.Replace(ctx, existing.ID, hash, now, expiresAt); err != nil {
		return "", err
	}
	if err := uc.Records.SetStatus(ctx, existing.ID, delivery.StatusPending); err != nil {
		return "", err
	}
	return pin, nil
}

// Verify checks a buyer-supplied PIN against the stored hash in constant
// time, flipping the record to verified on success and enqueuing
// delivery_pin_verified. Expired or over-limit records are terminal for
// that PIN.
func (uc *UseCase) Verify(ctx context.Context, orderID uuid.UUID, pin string) error {
	return uc.Conn.WithTx(ctx, func(ctx context.Context) error {
		rec, err := uc.Records.FindByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return apperr.New(apperr.CodeDeliveryProofNotFound, "delivery proof not found")
		}

		switch rec.Status {
		case delivery.StatusVerified:
			return nil
		case delivery.StatusFailed:
			return apperr.New(apperr.CodePinMaxAttempts, "PIN verification attempts exhausted")
		case delivery.StatusExpired:
			return apperr.New(apperr.CodePinExpired, "PIN has expired")
		}

		if time.Now().UTC().After(rec.ExpiresAt) {
			_ = uc.Records.SetStatus(ctx, rec.ID, delivery.StatusExpired)
			return apperr.New(apperr.CodePinExpired, "PIN has expired")
		}

		if subtle.ConstantTimeCompare([]byte(hashPin(pin)), []byte(rec.PinHash)) == 1 {
			if err := uc.Records.SetStatus(ctx, rec.ID, delivery.StatusVerified); err != nil {
				return err
			}
			return uc.Outbox.Enqueue(ctx, "delivery_pin_verified", "order", orderID, map[string]any{"orderId": orderID})
		}

		if err := uc.Records.IncrementAttempts(ctx, rec.ID); err != nil {
			return err
		}
		if rec.VerificationAttempts+1 >= delivery.MaxVerificationAttempts {
			_ = uc.Records.SetStatus(ctx, rec.ID, delivery.StatusFailed)
			return apperr.New(apperr.CodePinMaxAttempts, "PIN verification attempts exhausted")
		}
		return apperr.New(apperr.CodePinInvalid, "incorrect PIN")
	})
}
