package staff

import "errors"

var (
	ErrStaffNotFound         = errors.New("staff member not found")
	ErrStaffEmailExists      = errors.New("email already registered in this business")
	ErrInvalidPermission     = errors.New("unknown permission code")
	ErrPINNotSet             = errors.New("staff member has no PIN configured")
	ErrInvalidPIN            = errors.New("invalid PIN")
	ErrStaffNotActive        = errors.New("staff member is not active")
	ErrUnauthorized          = errors.New("unauthorized to access this staff member")
	ErrCannotDeleteSelf      = errors.New("cannot delete your own staff record")
	ErrAlreadyTerminated     = errors.New("staff member is already terminated")
	ErrInvalidAvatarFileType = errors.New("avatar must be a jpg or png image")
)
