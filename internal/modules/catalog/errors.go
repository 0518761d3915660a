package catalog

import "errors"

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrParentNotFound   = errors.New("parent resource not found")
	ErrNestedParent     = errors.New("sub-resources cannot have children")
	ErrNotBookable      = errors.New("resource is not a bookable target")
)
