package model

import "errors"

// Business-rule failures, grouped by how callers should treat them.
// Anything not matched by IsNotFound/IsConflict/IsInvalidInput is an
// infrastructure failure.

// Not found: a referenced entity does not exist.
var (
	ErrItemNotFound       = errors.New("item not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrRequestNotFound    = errors.New("maintenance request not found")
)

// Conflict: the operation is illegal in the current state.
var (
	ErrItemUnavailable = errors.New("item is not available")
	ErrItemAssigned    = errors.New("item is currently assigned")
	ErrDuplicateSerial = errors.New("serial number already exists")
	ErrDuplicateUser   = errors.New("username or email already exists")
)

// Invalid input: the request itself is malformed.
var (
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidRole      = errors.New("invalid role")
	ErrDiscountWindow   = errors.New("discount allowed only from the 1st to the 15th day of the month")
)

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsConflict reports whether err is an illegal-state failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrItemUnavailable) ||
		errors.Is(err, ErrItemAssigned) ||
		errors.Is(err, ErrDuplicateSerial) ||
		errors.Is(err, ErrDuplicateUser)
}

// IsInvalidInput reports whether err is a malformed-request failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidCondition) ||
		errors.Is(err, ErrInvalidPriority) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrDiscountWindow)
}
