package rewards

import "errors"

// ErrInvalidRequest is returned when an allocation or claim request fails validation.
var ErrInvalidRequest = errors.New("invalid request")

// ErrInvalidPhone is returned when a phone number cannot be normalised.
var ErrInvalidPhone = errors.New("invalid phone number")
