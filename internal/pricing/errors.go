package pricing

import "errors"

var (
	// ErrPricingUnavailable signals the external pricing service could not be reached.
	ErrPricingUnavailable = errors.New("pricing service unavailable")
	// ErrUnquotable signals the pricing service rejected the part as unmanufacturable.
	ErrUnquotable = errors.New("part cannot be quoted")
)
