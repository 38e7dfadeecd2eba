package shift

import (
	"errors"
	"fmt"
)

var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftConflict       = errors.New("shift overlaps another shift for this staff member")
	ErrShiftNotEditable    = errors.New("completed or cancelled shifts cannot be modified")
	ErrShiftNotDeletable   = errors.New("only scheduled shifts can be deleted")
	ErrInvalidTransition   = errors.New("shift status does not allow this action")
	ErrShiftTooLong        = errors.New("shift exceeds the maximum length of 16 hours")
	ErrShiftEndBeforeStart = errors.New("shift end must be after start")
)

// BulkConflictError lists every item of a bulk request that overlaps another shift.
type BulkConflictError struct {
	Conflicts []BulkConflict
}

func (e *BulkConflictError) Error() string {
	return ErrShiftConflict.Error()
}

func (e *BulkConflictError) Unwrap() error {
	return ErrShiftConflict
}

// Details renders the conflicts keyed by request item.
func (e *BulkConflictError) Details() map[string]string {
	details := make(map[string]string, len(e.Conflicts))
	for _, c := range e.Conflicts {
		key := fmt.Sprintf("shifts[%d]", c.Index)
		switch {
		case c.ConflictShiftID != "":
			details[key] = "overlaps existing shift " + c.ConflictShiftID
		case c.ConflictIndex != nil:
			details[key] = fmt.Sprintf("overlaps shifts[%d] in this request", *c.ConflictIndex)
		default:
			details[key] = ErrShiftConflict.Error()
		}
	}
	return details
}
