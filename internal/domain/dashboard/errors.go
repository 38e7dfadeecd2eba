package dashboard

import "errors"

var (
	ErrUnknownRole = errors.New("no dashboard exists for this role")
	ErrForbidden   = errors.New("not allowed to view this dashboard")
)
