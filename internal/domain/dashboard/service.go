package dashboard

import "context"

// DashboardService composes role-specific dashboards, loading sections concurrently.
type DashboardService interface {
	// GetDashboard returns the dashboard for the caller's own role.
	GetDashboard(ctx context.Context) (DashboardResponse, error)

	// GetRoleDashboard returns the dashboard of another role; callers need dashboard.view_all
	// unless role is their own.
	GetRoleDashboard(ctx context.Context, role string) (DashboardResponse, error)
}
