package calendar

import "errors"

var (
	ErrUnknownTarget = errors.New("unknown target")
	ErrBadDate       = errors.New("invalid date")
)
