package activity

import "errors"

var (
	ErrSessionNotFound = errors.New("activity session not found")
	ErrSessionClosed   = errors.New("activity session is already closed")
	ErrNotSessionOwner = errors.New("session belongs to another staff member")
)

var ErrStaffRequired = errors.New("token does not identify a staff member")
