package admin

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrReasonRequired      = errors.New("a refusal reason is required")
	ErrApproveConflict     = errors.New("approval overlaps another approved reservation")
	ErrBadDate             = errors.New("invalid date")
)
