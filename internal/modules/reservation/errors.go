package reservation

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTargetNotBookable   = errors.New("target is not bookable")
	ErrDayLocked           = errors.New("day is inside the lock window")
	ErrHardConflict        = errors.New("slot overlaps an approved reservation")
	ErrSoftConflict        = errors.New("slot overlaps a pending reservation")
	ErrInvalidRange        = errors.New("end must be after start")
	ErrForbidden           = errors.New("not the owner of this reservation")
	ErrCancelCutoff        = errors.New("too close to start to cancel")
	ErrReasonRequired      = errors.New("a reason is required")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
