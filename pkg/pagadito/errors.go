package pagadito

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedNotification is returned for a notification missing reference or
	// status, or whose reference is not ORDER-<int>.
	ErrMalformedNotification = errors.New("malformed payment notification")
	ErrInvalidReturn         = errors.New("invalid order id on payment return")

	// ErrMissingParams is the ErrMalformedNotification case of an absent reference or status.
	ErrMissingParams = fmt.Errorf("%w: missing params", ErrMalformedNotification)
)
