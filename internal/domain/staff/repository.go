package staff

import (
	"context"
	"time"
)

type StaffRepository interface {
	Create(ctx context.Context, newStaff Staff) (Staff, error)
	GetByID(ctx context.Context, id string, businessID string) (Staff, error)
	List(ctx context.Context, filter StaffFilter, businessID string) ([]Staff, int64, error)
	ListActive(ctx context.Context, businessID string, role *Role) ([]Staff, error)
	Update(ctx context.Context, id string, businessID string, req UpdateStaffRequest) error
	UpdateStatus(ctx context.Context, id string, businessID string, status Status, terminationDate *time.Time) error
	SoftDelete(ctx context.Context, id string, businessID string, terminationDate time.Time) error
	ExistsByEmail(ctx context.Context, businessID string, email string, excludeID *string) (bool, error)
	UpdatePermissions(ctx context.Context, id string, businessID string, permissions []Permission) error
	UpdatePINHash(ctx context.Context, id string, businessID string, pinHash string) error
	UpdateAvatar(ctx context.Context, id string, businessID string, avatarURL string) error
	CountByRole(ctx context.Context, businessID string) ([]RoleCount, error)
	CountByStatus(ctx context.Context, businessID string) ([]StatusCount, error)
	CountHiredBetween(ctx context.Context, businessID string, start, end time.Time) (int, error)
	CountTerminatedBetween(ctx context.Context, businessID string, start, end time.Time) (int, error)
}
