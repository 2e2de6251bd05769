package domain

import "errors"

// Sentinel errors returned by entity validation and the store adapters.
// Transport layers map them to status codes with errors.Is.
var (
	ErrInvalidDate   = errors.New("invalid calendar date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid kind")
	ErrInvalidRatio  = errors.New("invalid profit share ratio")
	ErrUnknownOwner  = errors.New("unknown stakeholder")
	ErrMissingField  = errors.New("missing required field")
	ErrNotFound      = errors.New("not found")
	ErrInvalidQuery  = errors.New("invalid query")
)
