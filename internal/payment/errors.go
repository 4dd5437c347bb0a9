package payment

import "errors"

var (
	// ErrBadSignature rejects webhook deliveries whose signature does not verify.
	ErrBadSignature = errors.New("invalid webhook signature")
	// ErrProviderUnavailable signals the checkout provider could not be reached.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrEmptyCart rejects checkout requests without line items.
	ErrEmptyCart = errors.New("empty cart")
)
