package staff

import (
	"mime/multipart"
	"strings"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
)

type CreateStaffRequest struct {
	UserID                *string  `json:"user_id,omitempty"`
	FirstName             string   `json:"first_name"`
	LastName              string   `json:"last_name"`
	Email                 *string  `json:"email,omitempty"`
	Phone                 *string  `json:"phone,omitempty"`
	Role                  string   `json:"role"`
	Department            *string  `json:"department,omitempty"`
	EmploymentType        string   `json:"employment_type"`
	HireDate              string   `json:"hire_date"`
	Address               *string  `json:"address,omitempty"`
	EmergencyContactName  *string  `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string  `json:"emergency_contact_phone,omitempty"`
	Permissions           []string `json:"permissions,omitempty"`
}

func (r *CreateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	} else if len(r.FirstName) > 100 {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name must be at most 100 characters"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	} else if len(r.LastName) > 100 {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name must be at most 100 characters"})
	}

	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "must be a valid UUID"})
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
		}
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "invalid phone number"})
	}
	if r.EmergencyContactPhone != nil && !validator.IsValidPhoneNumber(*r.EmergencyContactPhone) {
		errs = append(errs, validator.ValidationError{Field: "emergency_contact_phone", Message: "invalid phone number"})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role is required"})
	} else if !validator.IsInSlice(r.Role, Roles) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of: " + strings.Join(Roles, ", ")})
	}

	if validator.IsEmpty(r.EmploymentType) {
		r.EmploymentType = string(EmploymentTypeFullTime)
	} else if !validator.IsInSlice(r.EmploymentType, EmploymentTypes) {
		errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "employment_type must be one of: " + strings.Join(EmploymentTypes, ", ")})
	}

	if validator.IsEmpty(r.HireDate) {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "hire_date is required"})
	} else if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "hire_date must be in YYYY-MM-DD format"})
	}

	if err := validatePermissionCodes(r.Permissions); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateStaffRequest is a partial update; nil fields are left untouched.
type UpdateStaffRequest struct {
	ID                    string  `json:"-"`
	FirstName             *string `json:"first_name,omitempty"`
	LastName              *string `json:"last_name,omitempty"`
	Email                 *string `json:"email,omitempty"`
	Phone                 *string `json:"phone,omitempty"`
	Role                  *string `json:"role,omitempty"`
	Department            *string `json:"department,omitempty"`
	EmploymentType        *string `json:"employment_type,omitempty"`
	HireDate              *string `json:"hire_date,omitempty"`
	Address               *string `json:"address,omitempty"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty"`
}

func (r *UpdateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name cannot be empty"})
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name cannot be empty"})
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
		}
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "invalid phone number"})
	}
	if r.EmergencyContactPhone != nil && !validator.IsValidPhoneNumber(*r.EmergencyContactPhone) {
		errs = append(errs, validator.ValidationError{Field: "emergency_contact_phone", Message: "invalid phone number"})
	}
	if r.Role != nil && !validator.IsInSlice(*r.Role, Roles) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of: " + strings.Join(Roles, ", ")})
	}
	if r.EmploymentType != nil && !validator.IsInSlice(*r.EmploymentType, EmploymentTypes) {
		errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "employment_type must be one of: " + strings.Join(EmploymentTypes, ", ")})
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "hire_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StaffFilter struct {
	Role       *string
	Status     *string
	Department *string
	Search     *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

func (f *StaffFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be at most 100"})
	}
	if f.Role != nil && !validator.IsInSlice(*f.Role, Roles) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of: " + strings.Join(Roles, ", ")})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(Statuses, ", ")})
	}
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"name", "role", "hire_date", "created_at"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: name, role, hire_date, created_at"})
	}
	if f.SortOrder != "" && !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if !validator.IsInSlice(r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(Statuses, ", ")})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePermissionsRequest struct {
	ID          string   `json:"-"`
	Permissions []string `json:"permissions"`
}

func (r *UpdatePermissionsRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.Permissions == nil {
		errs = append(errs, validator.ValidationError{Field: "permissions", Message: "permissions is required"})
	} else if err := validatePermissionCodes(r.Permissions); err != nil {
		errs = append(errs, *err)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetPINRequest struct {
	ID  string `json:"-"`
	PIN string `json:"pin"`
}

func (r *SetPINRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "pin must be 4 to 6 digits"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UploadAvatarRequest struct {
	StaffID    string
	File       multipart.File
	FileHeader *multipart.FileHeader
}

func (r *UploadAvatarRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.File == nil || r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "file is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StaffResponse struct {
	ID                    string   `json:"id"`
	BusinessID            string   `json:"business_id"`
	UserID                *string  `json:"user_id,omitempty"`
	FirstName             string   `json:"first_name"`
	LastName              string   `json:"last_name"`
	FullName              string   `json:"full_name"`
	Email                 *string  `json:"email,omitempty"`
	Phone                 *string  `json:"phone,omitempty"`
	Role                  string   `json:"role"`
	Department            *string  `json:"department,omitempty"`
	EmploymentType        string   `json:"employment_type"`
	Status                string   `json:"status"`
	HireDate              string   `json:"hire_date"`
	TerminationDate       *string  `json:"termination_date,omitempty"`
	AvatarURL             *string  `json:"avatar_url,omitempty"`
	Address               *string  `json:"address,omitempty"`
	EmergencyContactName  *string  `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string  `json:"emergency_contact_phone,omitempty"`
	Permissions           []string `json:"permissions"`
	HasPIN                bool     `json:"has_pin"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type ListStaffResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Staff      []StaffResponse `json:"staff"`
}

type PermissionsResponse struct {
	StaffID      string   `json:"staff_id"`
	Role         string   `json:"role"`
	RoleDefaults []string `json:"role_defaults"`
	CustomGrants []string `json:"custom_grants"`
	Effective    []string `json:"effective"`
}

func validatePermissionCodes(codes []string) *validator.ValidationError {
	for _, code := range codes {
		if !IsValidPermission(Permission(code)) {
			return &validator.ValidationError{Field: "permissions", Message: "unknown permission code: " + code}
		}
	}
	return nil
}
