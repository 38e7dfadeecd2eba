package performance

import "errors"

var (
	ErrReviewNotFound     = errors.New("performance review not found")
	ErrReviewNotEditable  = errors.New("only draft reviews can be edited")
	ErrReviewNotSubmitted = errors.New("only submitted reviews can be acknowledged")
	ErrNotReviewedStaff   = errors.New("only the reviewed staff member can acknowledge a review")
	ErrCannotReviewSelf   = errors.New("staff members cannot review themselves")
	ErrUnauthorized       = errors.New("unauthorized to access this review")
)
