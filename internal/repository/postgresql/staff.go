package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const staffColumns = `
	id, business_id, user_id, first_name, last_name, email, phone, role, department,
	employment_type, status, hire_date, termination_date, avatar_url, address,
	emergency_contact_name, emergency_contact_phone, permissions, pin_hash,
	created_at, updated_at, deleted_at`

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepositoryImpl{db: db}
}

func scanStaff(row pgx.Row) (staff.Staff, error) {
	var s staff.Staff
	var perms []string
	err := row.Scan(
		&s.ID, &s.BusinessID, &s.UserID, &s.FirstName, &s.LastName, &s.Email, &s.Phone,
		&s.Role, &s.Department, &s.EmploymentType, &s.Status, &s.HireDate, &s.TerminationDate,
		&s.AvatarURL, &s.Address, &s.EmergencyContactName, &s.EmergencyContactPhone,
		&perms, &s.PINHash, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return staff.Staff{}, err
	}
	s.Permissions = toPermissions(perms)
	return s, nil
}

func toPermissions(codes []string) []staff.Permission {
	out := make([]staff.Permission, 0, len(codes))
	for _, c := range codes {
		out = append(out, staff.Permission(c))
	}
	return out
}

func fromPermissions(perms []staff.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

// Create implements staff.StaffRepository.
func (r *staffRepositoryImpl) Create(ctx context.Context, newStaff staff.Staff) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff (
			business_id, user_id, first_name, last_name, email, phone, role, department,
			employment_type, status, hire_date, avatar_url, address,
			emergency_contact_name, emergency_contact_phone, permissions
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16
		)
		RETURNING` + staffColumns

	created, err := scanStaff(q.QueryRow(ctx, query,
		newStaff.BusinessID, newStaff.UserID, newStaff.FirstName, newStaff.LastName, newStaff.Email,
		newStaff.Phone, newStaff.Role, newStaff.Department, newStaff.EmploymentType, newStaff.Status,
		newStaff.HireDate, newStaff.AvatarURL, newStaff.Address, newStaff.EmergencyContactName,
		newStaff.EmergencyContactPhone, fromPermissions(newStaff.Permissions),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return staff.Staff{}, staff.ErrStaffEmailExists
		}
		return staff.Staff{}, fmt.Errorf("failed to create staff: %w", err)
	}
	return created, nil
}

// GetByID implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByID(ctx context.Context, id string, businessID string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + staffColumns + `
		FROM staff
		WHERE id = $1 AND business_id = $2 AND deleted_at IS NULL`

	s, err := scanStaff(q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff by id: %w", err)
	}
	return s, nil
}

// List implements staff.StaffRepository.
func (r *staffRepositoryImpl) List(ctx context.Context, filter staff.StaffFilter, businessID string) ([]staff.Staff, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE conditions
	conditions := []string{"business_id = $1", "deleted_at IS NULL"}
	args := []interface{}{businessID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR (first_name || ' ' || last_name) ILIKE $%d)", argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM staff WHERE " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count staff: %w", err)
	}

	sortColumn := map[string]string{
		"name":       "first_name, last_name",
		"role":       "role",
		"hire_date":  "hire_date",
		"created_at": "created_at",
	}[filter.SortBy]
	if sortColumn == "" {
		sortColumn = "created_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	if filter.SortBy == "name" {
		sortColumn = fmt.Sprintf("first_name %s, last_name", sortOrder)
	}

	query := fmt.Sprintf(`SELECT %s FROM staff WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		staffColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	members := []staff.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan staff: %w", err)
		}
		members = append(members, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// ListActive implements staff.StaffRepository.
func (r *staffRepositoryImpl) ListActive(ctx context.Context, businessID string, role *staff.Role) ([]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + staffColumns + `
		FROM staff
		WHERE business_id = $1 AND status = 'active' AND deleted_at IS NULL
			AND ($2::text IS NULL OR role = $2)
		ORDER BY first_name, last_name`

	var roleArg *string
	if role != nil {
		v := string(*role)
		roleArg = &v
	}

	rows, err := q.Query(ctx, query, businessID, roleArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	defer rows.Close()

	members := []staff.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, s)
	}
	return members, rows.Err()
}

// Update implements staff.StaffRepository.
func (r *staffRepositoryImpl) Update(ctx context.Context, id string, businessID string, req staff.UpdateStaffRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.EmploymentType != nil {
		updates["employment_type"] = *req.EmploymentType
	}
	if req.HireDate != nil {
		updates["hire_date"] = *req.HireDate
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.EmergencyContactName != nil {
		updates["emergency_contact_name"] = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		updates["emergency_contact_phone"] = *req.EmergencyContactPhone
	}

	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id, businessID)

	query := fmt.Sprintf(`UPDATE staff SET %s WHERE id = $%d AND business_id = $%d AND deleted_at IS NULL`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return staff.ErrStaffEmailExists
		}
		return fmt.Errorf("failed to update staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}

// UpdateStatus implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdateStatus(ctx context.Context, id string, businessID string, status staff.Status, terminationDate *time.Time) error {
	return r.exec(ctx, `
		UPDATE staff SET status = $1, termination_date = $2, updated_at = NOW()
		WHERE id = $3 AND business_id = $4 AND deleted_at IS NULL`,
		"update staff status", status, terminationDate, id, businessID)
}

// SoftDelete implements staff.StaffRepository.
func (r *staffRepositoryImpl) SoftDelete(ctx context.Context, id string, businessID string, terminationDate time.Time) error {
	return r.exec(ctx, `
		UPDATE staff
		SET deleted_at = NOW(), status = 'terminated', termination_date = $1, updated_at = NOW()
		WHERE id = $2 AND business_id = $3 AND deleted_at IS NULL`,
		"delete staff", terminationDate, id, businessID)
}

// ExistsByEmail implements staff.StaffRepository.
func (r *staffRepositoryImpl) ExistsByEmail(ctx context.Context, businessID string, email string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM staff
			WHERE business_id = $1 AND LOWER(email) = LOWER($2) AND deleted_at IS NULL
				AND ($3::uuid IS NULL OR id <> $3)
		)`

	var exists bool
	if err := q.QueryRow(ctx, query, businessID, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check staff email: %w", err)
	}
	return exists, nil
}

// UpdatePermissions implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdatePermissions(ctx context.Context, id string, businessID string, permissions []staff.Permission) error {
	return r.exec(ctx, `
		UPDATE staff SET permissions = $1, updated_at = NOW()
		WHERE id = $2 AND business_id = $3 AND deleted_at IS NULL`,
		"update staff permissions", fromPermissions(permissions), id, businessID)
}

// UpdatePINHash implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdatePINHash(ctx context.Context, id string, businessID string, pinHash string) error {
	return r.exec(ctx, `
		UPDATE staff SET pin_hash = $1, updated_at = NOW()
		WHERE id = $2 AND business_id = $3 AND deleted_at IS NULL`,
		"update staff pin", pinHash, id, businessID)
}

// UpdateAvatar implements staff.StaffRepository.
func (r *staffRepositoryImpl) UpdateAvatar(ctx context.Context, id string, businessID string, avatarURL string) error {
	return r.exec(ctx, `
		UPDATE staff SET avatar_url = $1, updated_at = NOW()
		WHERE id = $2 AND business_id = $3 AND deleted_at IS NULL`,
		"update staff avatar", avatarURL, id, businessID)
}

// exec runs a single-row update and maps zero affected rows to ErrStaffNotFound.
func (r *staffRepositoryImpl) exec(ctx context.Context, query string, action string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}

// CountByRole implements staff.StaffRepository.
func (r *staffRepositoryImpl) CountByRole(ctx context.Context, businessID string) ([]staff.RoleCount, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT role, COUNT(*)
		FROM staff
		WHERE business_id = $1 AND deleted_at IS NULL
		GROUP BY role
		ORDER BY role`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to count staff by role: %w", err)
	}
	defer rows.Close()

	counts := []staff.RoleCount{}
	for rows.Next() {
		var c staff.RoleCount
		if err := rows.Scan(&c.Role, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountByStatus implements staff.StaffRepository.
func (r *staffRepositoryImpl) CountByStatus(ctx context.Context, businessID string) ([]staff.StatusCount, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT status, COUNT(*)
		FROM staff
		WHERE business_id = $1 AND deleted_at IS NULL
		GROUP BY status
		ORDER BY status`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to count staff by status: %w", err)
	}
	defer rows.Close()

	counts := []staff.StatusCount{}
	for rows.Next() {
		var c staff.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountHiredBetween implements staff.StaffRepository.
func (r *staffRepositoryImpl) CountHiredBetween(ctx context.Context, businessID string, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM staff
		WHERE business_id = $1 AND hire_date BETWEEN $2 AND $3`, businessID, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count hires: %w", err)
	}
	return n, nil
}

// CountTerminatedBetween implements staff.StaffRepository.
func (r *staffRepositoryImpl) CountTerminatedBetween(ctx context.Context, businessID string, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM staff
		WHERE business_id = $1 AND termination_date BETWEEN $2 AND $3`, businessID, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count terminations: %w", err)
	}
	return n, nil
}
