package checker

import "errors"

// Static errors for comparison failures
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrFieldUnreadable   = errors.New("field unreadable")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnsupportedType   = errors.New("unsupported field type")
)
