package staff

import "sort"

type Role string

const (
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleReception  Role = "reception"
	RoleKitchen    Role = "kitchen"
	RoleBar        Role = "bar"
	RoleAccountant Role = "accountant"
	RoleWaiter     Role = "waiter"
)

var Roles = []string{
	string(RoleOwner),
	string(RoleManager),
	string(RoleReception),
	string(RoleKitchen),
	string(RoleBar),
	string(RoleAccountant),
	string(RoleWaiter),
}

// IsManagement reports whether the role runs the business rather than a station.
func (r Role) IsManagement() bool {
	return r == RoleOwner || r == RoleManager
}

type Permission string

const (
	// Staff Management
	PermissionStaffView   Permission = "staff.view"
	PermissionStaffManage Permission = "staff.manage"

	// Salary & Payroll
	PermissionSalaryView   Permission = "salary.view"
	PermissionSalaryManage Permission = "salary.manage"

	// Shift Scheduling
	PermissionShiftView   Permission = "shift.view"
	PermissionShiftManage Permission = "shift.manage"

	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Performance
	PermissionPerformanceView   Permission = "performance.view"
	PermissionPerformanceManage Permission = "performance.manage"

	PermissionActivityView     Permission = "activity.view"
	PermissionReportsView      Permission = "reports.view"
	PermissionDocumentsManage  Permission = "documents.manage"
	PermissionDashboardViewAll Permission = "dashboard.view_all"
)

// AllPermissions lists every known permission code.
var AllPermissions = []Permission{
	PermissionStaffView,
	PermissionStaffManage,
	PermissionSalaryView,
	PermissionSalaryManage,
	PermissionShiftView,
	PermissionShiftManage,
	PermissionAttendanceViewOwn,
	PermissionAttendanceViewAll,
	PermissionAttendanceManage,
	PermissionPerformanceView,
	PermissionPerformanceManage,
	PermissionActivityView,
	PermissionReportsView,
	PermissionDocumentsManage,
	PermissionDashboardViewAll,
}

var stationPermissions = []Permission{
	PermissionAttendanceViewOwn,
	PermissionShiftView,
}

// RolePermissions maps roles to their default permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner:   AllPermissions,
	RoleManager: AllPermissions,
	RoleAccountant: {
		PermissionSalaryView,
		PermissionSalaryManage,
		PermissionReportsView,
		PermissionStaffView,
		PermissionAttendanceViewAll,
	},
	RoleReception: stationPermissions,
	RoleKitchen:   stationPermissions,
	RoleBar:       stationPermissions,
	RoleWaiter:    stationPermissions,
}

// IsValidPermission reports whether p is a known permission code.
func IsValidPermission(p Permission) bool {
	for _, known := range AllPermissions {
		if known == p {
			return true
		}
	}
	return false
}

// HasPermission checks the role defaults and then any custom grants.
func HasPermission(role Role, permission Permission, grants ...Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	for _, p := range grants {
		if p == permission {
			return true
		}
	}
	return false
}

// EffectivePermissions returns the role defaults merged with custom grants, sorted and without duplicates.
func EffectivePermissions(role Role, grants []Permission) []Permission {
	seen := make(map[Permission]struct{})
	result := make([]Permission, 0, len(RolePermissions[role])+len(grants))
	for _, list := range [][]Permission{RolePermissions[role], grants} {
		for _, p := range list {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
