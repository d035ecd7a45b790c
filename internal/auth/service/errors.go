package service

import "errors"

// Business errors. Each is a stable kind the HTTP adapter maps onto a
// status code; wrapped errors add detail without changing the kind.
var (
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailNotVerified   = errors.New("email_not_verified")
	ErrAlreadyVerified    = errors.New("email_already_verified")
	ErrInvalidOrExpired   = errors.New("invalid_or_expired_token")
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("invalid_request")

	ErrInvalidToken    = errors.New("invalid_token")
	ErrExpired         = errors.New("expired")
	ErrInactive        = errors.New("account_inactive")
	ErrPasswordChanged = errors.New("password_changed")
	ErrGoogleDisabled  = errors.New("google_auth_disabled")

	ErrAlreadyProcessed = errors.New("already_processed")
	ErrSeatLimitReached = errors.New("seat_limit_reached")
	ErrPlanNotEligible  = errors.New("plan_not_eligible")
	ErrNoSubscription   = errors.New("no_subscription")
	ErrAlreadyMember    = errors.New("already_member")
	ErrAlreadyOnTeam    = errors.New("already_on_team")
	ErrDuplicatePending = errors.New("duplicate_pending_invite")

	// ErrEmailDelivery never fails an operation. It prefixes the warnings
	// returned when a notification could not be sent.
	ErrEmailDelivery = errors.New("email_delivery_failed")
)
