// Package apperr defines the stable error-code taxonomy shared by every
// domain service and translated into the HTTP envelope by the transport
// layer. Codes are part of the public API contract and must not change
// once shipped.
package apperr

import "fmt"

// Code is a stable, client-branchable error identifier (spec.md §6/§7).
type Code string

const (
	CodeValidation               Code = "VALIDATION_ERROR"
	CodeUnauthorized             Code = "UNAUTHORIZED"
	CodeTokenInvalid             Code = "TOKEN_INVALID"
	CodeAuthRealmMismatch        Code = "AUTH_REALM_MISMATCH"
	CodeRoleNotAllowed           Code = "ROLE_NOT_ALLOWED"
	CodeForbiddenOrderScope      Code = "FORBIDDEN_ORDER_SCOPE"
	CodeOrderInvalidState        Code = "ORDER_INVALID_STATE"
	CodeOrderNotFound            Code = "ORDER_NOT_FOUND"
	CodeFoodNotFound             Code = "FOOD_NOT_FOUND"
	CodeLotNotFound              Code = "LOT_NOT_FOUND"
	CodeLotStatusInvalid         Code = "LOT_STATUS_INVALID"
	CodeLotInvalidQuantity       Code = "LOT_INVALID_QUANTITY"
	CodeInsufficientLotStock     Code = "INSUFFICIENT_LOT_STOCK"
	CodePaymentSessionConflict   Code = "PAYMENT_SESSION_CONFLICT"
	CodePaymentAttemptNotFound   Code = "PAYMENT_ATTEMPT_NOT_FOUND"
	CodeWebhookSignatureInvalid  Code = "WEBHOOK_SIGNATURE_INVALID"
	CodeIdempotencyConflict      Code = "IDEMPOTENCY_CONFLICT"
	CodeRateLimited              Code = "RATE_LIMITED"
	CodeComplianceProfileReq     Code = "COMPLIANCE_PROFILE_REQUIRED"
	CodeComplianceChecksMissing  Code = "COMPLIANCE_REQUIRED_CHECKS_MISSING"
	CodeComplianceProfileMissing Code = "COMPLIANCE_PROFILE_NOT_FOUND"
	CodeDisputeNotFound          Code = "DISPUTE_NOT_FOUND"
	CodeDeliveryProofNotReq      Code = "DELIVERY_PROOF_NOT_REQUIRED"
	CodeDeliveryProofNotFound    Code = "DELIVERY_PROOF_NOT_FOUND"
	CodePinInvalid               Code = "PIN_INVALID"
	CodePinExpired               Code = "PIN_EXPIRED"
	CodePinMaxAttempts           Code = "PIN_MAX_ATTEMPTS"
	CodePaginationInvalid        Code = "PAGINATION_INVALID"
	CodeSortFieldInvalid         Code = "SORT_FIELD_INVALID"
	CodeCursorInvalid            Code = "CURSOR_INVALID"
	CodeAPIVersionUnsupported    Code = "API_VERSION_UNSUPPORTED"
	CodeInternal                 Code = "INTERNAL_ERROR"

	// Conflict codes produced by unique-constraint translation.
	CodeDisplayNameTaken Code = "DISPLAY_NAME_TAKEN"
	CodeEmailTaken       Code = "EMAIL_TAKEN"
	CodeReviewConflict   Code = "REVIEW_CONFLICT"
	CodeAddressConflict  Code = "ADDRESS_CONFLICT"
	// CodeConflict is the fallback for a unique/serialization violation that
	// has no more specific business code mapped to its constraint name.
	CodeConflict Code = "CONFLICT"
)

// httpStatus is the default HTTP status for each code; handlers may override
// case by case but this keeps the common path centralized.
var httpStatus = map[Code]int{
	CodeValidation:               400,
	CodePaginationInvalid:        400,
	CodeSortFieldInvalid:         400,
	CodeCursorInvalid:            400,
	CodeLotInvalidQuantity:       400,
	CodeUnauthorized:             401,
	CodeTokenInvalid:             401,
	CodeAuthRealmMismatch:        401,
	CodeWebhookSignatureInvalid:  401,
	CodeRoleNotAllowed:           403,
	CodeForbiddenOrderScope:      403,
	CodeOrderNotFound:            404,
	CodeFoodNotFound:             404,
	CodeLotNotFound:              404,
	CodePaymentAttemptNotFound:   404,
	CodeComplianceProfileMissing: 404,
	CodeDisputeNotFound:          404,
	CodeDeliveryProofNotFound:    404,
	CodeOrderInvalidState:        409,
	CodeLotStatusInvalid:         409,
	CodeInsufficientLotStock:     409,
	CodePaymentSessionConflict:   409,
	CodeIdempotencyConflict:      409,
	CodeComplianceProfileReq:     409,
	CodeComplianceChecksMissing:  409,
	CodeDeliveryProofNotReq:      409,
	CodePinInvalid:               409,
	CodePinExpired:               409,
	CodePinMaxAttempts:           409,
	CodeDisplayNameTaken:         409,
	CodeEmailTaken:               409,
	CodeReviewConflict:           409,
	CodeAddressConflict:          409,
	CodeRateLimited:              429,
	CodeAPIVersionUnsupported:    400,
	CodeConflict:                 409,
	CodeInternal:                 500,
}

// HTTPStatus returns the default status for a code, falling back to 500.
func HTTPStatus(c Code) int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return 500
}

// Error is a typed domain error carrying a stable code, a human-readable
// (but not financially sensitive) message, and optional structured details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a typed error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a typed error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code/message to an underlying cause, preserving it for
// logging via errors.Unwrap while keeping the client-facing message stable.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithDetails returns a copy of e carrying structured validation details.
func (e *Error) WithDetails(d map[string]any) *Error {
	cp := *e
	cp.Details = d
	return &cp
}

// As extracts an *Error from err, if any.
func As(err error) (*Error, bool) {
	var target *Error
	if ok := asError(err, &target); ok {
		return target, true
	}
	return nil, false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
