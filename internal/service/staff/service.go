package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/file"
	"golang.org/x/crypto/bcrypt"
)

type StaffServiceImpl struct {
	staffRepo   staff.StaffRepository
	fileService file.FileService
	now         func() time.Time
}

func NewStaffService(staffRepo staff.StaffRepository, fileService file.FileService) staff.StaffService {
	return &StaffServiceImpl{
		staffRepo:   staffRepo,
		fileService: fileService,
		now:         time.Now,
	}
}

func (s *StaffServiceImpl) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Helper function to map Staff to StaffResponse
func mapStaffToResponse(st staff.Staff) staff.StaffResponse {
	var terminationDate *string
	if st.TerminationDate != nil {
		d := st.TerminationDate.Format(validator.DateLayout)
		terminationDate = &d
	}

	perms := make([]string, 0, len(st.Permissions))
	for _, p := range st.Permissions {
		perms = append(perms, string(p))
	}

	return staff.StaffResponse{
		ID:                    st.ID,
		BusinessID:            st.BusinessID,
		UserID:                st.UserID,
		FirstName:             st.FirstName,
		LastName:              st.LastName,
		FullName:              st.FullName(),
		Email:                 st.Email,
		Phone:                 st.Phone,
		Role:                  string(st.Role),
		Department:            st.Department,
		EmploymentType:        string(st.EmploymentType),
		Status:                string(st.Status),
		HireDate:              st.HireDate.Format(validator.DateLayout),
		TerminationDate:       terminationDate,
		AvatarURL:             st.AvatarURL,
		Address:               st.Address,
		EmergencyContactName:  st.EmergencyContactName,
		EmergencyContactPhone: st.EmergencyContactPhone,
		Permissions:           perms,
		HasPIN:                st.PINHash != nil,
		CreatedAt:             st.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             st.UpdatedAt.Format(time.RFC3339),
	}
}

func permissionStrings(perms []staff.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

// CreateStaff implements staff.StaffService.
func (s *StaffServiceImpl) CreateStaff(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	if req.Email != nil {
		exists, err := s.staffRepo.ExistsByEmail(ctx, businessID, *req.Email, nil)
		if err != nil {
			return staff.StaffResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return staff.StaffResponse{}, staff.ErrStaffEmailExists
		}
	}

	hireDate, _ := validator.IsValidDate(req.HireDate)
	perms := make([]staff.Permission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		perms = append(perms, staff.Permission(p))
	}

	created, err := s.staffRepo.Create(ctx, staff.Staff{
		BusinessID:            businessID,
		UserID:                req.UserID,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Role:                  staff.Role(req.Role),
		Department:            req.Department,
		EmploymentType:        staff.EmploymentType(req.EmploymentType),
		Status:                staff.StatusActive,
		HireDate:              hireDate,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		Permissions:           perms,
	})
	if err != nil {
		if errors.Is(err, staff.ErrStaffEmailExists) {
			return staff.StaffResponse{}, err
		}
		return staff.StaffResponse{}, fmt.Errorf("failed to create staff: %w", err)
	}

	return mapStaffToResponse(created), nil
}

// GetStaff implements staff.StaffService.
func (s *StaffServiceImpl) GetStaff(ctx context.Context, id string) (staff.StaffResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	// Station roles may only read their own profile
	if !claims.Can(staff.PermissionStaffView) && claims.StaffID != id {
		return staff.StaffResponse{}, staff.ErrUnauthorized
	}

	st, err := s.staffRepo.GetByID(ctx, id, claims.BusinessID)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return mapStaffToResponse(st), nil
}

// ListStaff implements staff.StaffService.
func (s *StaffServiceImpl) ListStaff(ctx context.Context, filter staff.StaffFilter) (staff.ListStaffResponse, error) {
	if err := filter.Validate(); err != nil {
		return staff.ListStaffResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return staff.ListStaffResponse{}, err
	}

	members, total, err := s.staffRepo.List(ctx, filter, businessID)
	if err != nil {
		return staff.ListStaffResponse{}, fmt.Errorf("failed to list staff: %w", err)
	}

	responses := make([]staff.StaffResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, mapStaffToResponse(m))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return staff.ListStaffResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Staff:      responses,
	}, nil
}

// UpdateStaff implements staff.StaffService.
func (s *StaffServiceImpl) UpdateStaff(ctx context.Context, req staff.UpdateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	existing, err := s.staffRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	if req.Email != nil && (existing.Email == nil || *existing.Email != *req.Email) {
		exists, err := s.staffRepo.ExistsByEmail(ctx, businessID, *req.Email, &req.ID)
		if err != nil {
			return staff.StaffResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return staff.StaffResponse{}, staff.ErrStaffEmailExists
		}
	}

	if err := s.staffRepo.Update(ctx, req.ID, businessID, req); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) || errors.Is(err, staff.ErrStaffEmailExists) {
			return staff.StaffResponse{}, err
		}
		return staff.StaffResponse{}, fmt.Errorf("failed to update staff: %w", err)
	}

	updated, err := s.staffRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return mapStaffToResponse(updated), nil
}

// DeleteStaff implements staff.StaffService.
func (s *StaffServiceImpl) DeleteStaff(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if claims.StaffID == id {
		return staff.ErrCannotDeleteSelf
	}

	if err := s.staffRepo.SoftDelete(ctx, id, claims.BusinessID, s.today()); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete staff: %w", err)
	}

	slog.Info("staff member deleted", "staff_id", id, "deleted_by", claims.StaffID)
	return nil
}

// UpdateStatus implements staff.StaffService.
func (s *StaffServiceImpl) UpdateStatus(ctx context.Context, req staff.UpdateStatusRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	existing, err := s.staffRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	next := staff.Status(req.Status)
	if existing.Status == staff.StatusTerminated && next == staff.StatusTerminated {
		return staff.StaffResponse{}, staff.ErrAlreadyTerminated
	}

	var terminationDate *time.Time
	if next == staff.StatusTerminated {
		today := s.today()
		terminationDate = &today
	}

	if err := s.staffRepo.UpdateStatus(ctx, req.ID, businessID, next, terminationDate); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return staff.StaffResponse{}, err
		}
		return staff.StaffResponse{}, fmt.Errorf("failed to update staff status: %w", err)
	}

	updated, err := s.staffRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return mapStaffToResponse(updated), nil
}

func permissionsResponse(st staff.Staff) staff.PermissionsResponse {
	return staff.PermissionsResponse{
		StaffID:      st.ID,
		Role:         string(st.Role),
		RoleDefaults: permissionStrings(staff.RolePermissions[st.Role]),
		CustomGrants: permissionStrings(st.Permissions),
		Effective:    permissionStrings(staff.EffectivePermissions(st.Role, st.Permissions)),
	}
}

// GetPermissions implements staff.StaffService.
func (s *StaffServiceImpl) GetPermissions(ctx context.Context, id string) (staff.PermissionsResponse, error) {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return staff.PermissionsResponse{}, err
	}

	st, err := s.staffRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return staff.PermissionsResponse{}, err
	}
	return permissionsResponse(st), nil
}

// UpdatePermissions implements staff.StaffService.
func (s *StaffServiceImpl) UpdatePermissions(ctx context.Context, req staff.UpdatePermissionsRequest) (staff.PermissionsResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.PermissionsResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return staff.PermissionsResponse{}, err
	}

	perms := make([]staff.Permission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		perms = append(perms, staff.Permission(p))
	}

	if err := s.staffRepo.UpdatePermissions(ctx, req.ID, businessID, perms); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return staff.PermissionsResponse{}, err
		}
		return staff.PermissionsResponse{}, fmt.Errorf("failed to update permissions: %w", err)
	}

	st, err := s.staffRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return staff.PermissionsResponse{}, err
	}
	return permissionsResponse(st), nil
}

// SetPIN implements staff.StaffService.
func (s *StaffServiceImpl) SetPIN(ctx context.Context, req staff.SetPINRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	if err := s.staffRepo.UpdatePINHash(ctx, req.ID, businessID, string(hash)); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return err
		}
		return fmt.Errorf("failed to set pin: %w", err)
	}
	return nil
}

// VerifyPIN implements staff.StaffService.
func (s *StaffServiceImpl) VerifyPIN(ctx context.Context, id string, pin string) (staff.Staff, error) {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return staff.Staff{}, err
	}

	st, err := s.staffRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return staff.Staff{}, err
	}
	if st.Status != staff.StatusActive {
		return staff.Staff{}, staff.ErrStaffNotActive
	}
	if st.PINHash == nil {
		return staff.Staff{}, staff.ErrPINNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*st.PINHash), []byte(pin)); err != nil {
		return staff.Staff{}, staff.ErrInvalidPIN
	}
	return st, nil
}

// UploadAvatar implements staff.StaffService.
func (s *StaffServiceImpl) UploadAvatar(ctx context.Context, req staff.UploadAvatarRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	if _, err := s.staffRepo.GetByID(ctx, req.StaffID, businessID); err != nil {
		return staff.StaffResponse{}, err
	}

	path, err := s.fileService.UploadAvatar(ctx, req.StaffID, req.File, req.FileHeader.Filename)
	if err != nil {
		if errors.Is(err, file.ErrInvalidFileType) {
			return staff.StaffResponse{}, staff.ErrInvalidAvatarFileType
		}
		return staff.StaffResponse{}, err
	}

	url, err := s.fileService.GetFileURL(ctx, path, 0)
	if err != nil {
		return staff.StaffResponse{}, fmt.Errorf("failed to resolve avatar url: %w", err)
	}

	if err := s.staffRepo.UpdateAvatar(ctx, req.StaffID, businessID, url); err != nil {
		// Don't leave an orphaned file behind
		if delErr := s.fileService.DeleteFile(ctx, path); delErr != nil {
			slog.Error("failed to remove avatar after update error", "path", path, "error", delErr)
		}
		return staff.StaffResponse{}, fmt.Errorf("failed to update avatar: %w", err)
	}

	updated, err := s.staffRepo.GetByID(ctx, req.StaffID, businessID)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return mapStaffToResponse(updated), nil
}
