package domain

import "errors"

var ErrMalformedEntry = errors.New("malformed manifest entry")
var ErrInvalidVersion = errors.New("invalid semantic version")
