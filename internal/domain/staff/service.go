package staff

import "context"

// StaffService defines business logic for staff profiles
type StaffService interface {
	CreateStaff(ctx context.Context, req CreateStaffRequest) (StaffResponse, error)
	GetStaff(ctx context.Context, id string) (StaffResponse, error)
	ListStaff(ctx context.Context, filter StaffFilter) (ListStaffResponse, error)
	UpdateStaff(ctx context.Context, req UpdateStaffRequest) (StaffResponse, error)

	// DeleteStaff soft deletes and terminates the staff member
	DeleteStaff(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (StaffResponse, error)

	GetPermissions(ctx context.Context, id string) (PermissionsResponse, error)
	UpdatePermissions(ctx context.Context, req UpdatePermissionsRequest) (PermissionsResponse, error)

	SetPIN(ctx context.Context, req SetPINRequest) error
	// VerifyPIN checks a kiosk PIN and returns the matching staff member
	VerifyPIN(ctx context.Context, id string, pin string) (Staff, error)

	UploadAvatar(ctx context.Context, req UploadAvatarRequest) (StaffResponse, error)
}
