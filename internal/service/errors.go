package service

import "errors"

// Validation errors: local, pre-flight, always recoverable by editing
// the form. Each condition gets its own sentinel so callers can show a
// specific message rather than a generic "invalid form".
var (
	ErrStartDateRequired    = errors.New("a start date is required")
	ErrEndDateRequired      = errors.New("an end date is required")
	ErrStartAfterEnd        = errors.New("the start date must be on or before the end date")
	ErrDurationExceeded     = errors.New("the rental period exceeds the maximum number of days")
	ErrPeriodUnavailable    = errors.New("the selected period contains unavailable dates")
	ErrInvalidQuote         = errors.New("the quote total must be a positive amount")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
)

// Checkout errors.
var (
	// ErrCheckoutInProgress rejects a duplicate submit while a flow for
	// the same draft is already past intent creation.
	ErrCheckoutInProgress = errors.New("a checkout for this booking is already in progress")

	ErrPaymentDeclined = errors.New("the payment was declined")

	ErrChallengeAbandoned = errors.New("card authentication was not completed")
	ErrChallengeTimedOut  = errors.New("card authentication timed out")

	// ErrPostPaymentInconsistency means the payment was captured but the
	// booking write failed. Never retried silently: retrying the payment
	// would risk a double charge.
	ErrPostPaymentInconsistency = errors.New("payment succeeded but the booking could not be created; contact support")
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)
