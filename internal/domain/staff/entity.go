package staff

import (
	"time"
)

type Staff struct {
	ID                    string
	BusinessID            string
	UserID                *string
	FirstName             string
	LastName              string
	Email                 *string
	Phone                 *string
	Role                  Role
	Department            *string
	EmploymentType        EmploymentType
	Status                Status
	HireDate              time.Time
	TerminationDate       *time.Time
	AvatarURL             *string
	Address               *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	Permissions           []Permission
	PINHash               *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             *time.Time
}

func (s Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full_time"
	EmploymentTypePartTime EmploymentType = "part_time"
	EmploymentTypeContract EmploymentType = "contract"
	EmploymentTypeCasual   EmploymentType = "casual"
)

var EmploymentTypes = []string{
	string(EmploymentTypeFullTime),
	string(EmploymentTypePartTime),
	string(EmploymentTypeContract),
	string(EmploymentTypeCasual),
}

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusSuspended  Status = "suspended"
	StatusTerminated Status = "terminated"
)

var Statuses = []string{
	string(StatusActive),
	string(StatusInactive),
	string(StatusSuspended),
	string(StatusTerminated),
}

// RoleCount and StatusCount are headcount buckets used by reports and dashboards.
type RoleCount struct {
	Role  Role
	Count int
}

type StatusCount struct {
	Status Status
	Count  int
}
