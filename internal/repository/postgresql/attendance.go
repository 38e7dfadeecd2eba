package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.business_id, a.staff_id, a.shift_id, a.attendance_date, a.clock_in, a.clock_out,
	a.status, a.hours_worked, a.overtime_hours, a.late_minutes, a.early_departure_minutes,
	a.clock_in_method, a.notes, a.created_at, a.updated_at,
	s.first_name || ' ' || s.last_name, s.role`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.StaffAttendance, error) {
	var a attendance.StaffAttendance
	err := row.Scan(
		&a.ID, &a.BusinessID, &a.StaffID, &a.ShiftID, &a.AttendanceDate, &a.ClockIn, &a.ClockOut,
		&a.Status, &a.HoursWorked, &a.OvertimeHours, &a.LateMinutes, &a.EarlyDepartureMinutes,
		&a.ClockInMethod, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.StaffName, &a.StaffRole,
	)
	return a, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.StaffAttendance, error) {
	defer rows.Close()
	records := []attendance.StaffAttendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.StaffAttendance) (attendance.StaffAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH a AS (
			INSERT INTO staff_attendance (
				business_id, staff_id, shift_id, attendance_date, clock_in, clock_out, status,
				hours_worked, overtime_hours, late_minutes, early_departure_minutes, clock_in_method, notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING *
		)
		SELECT` + attendanceColumns + `
		FROM a JOIN staff s ON s.id = a.staff_id`

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.BusinessID, a.StaffID, a.ShiftID, a.AttendanceDate, a.ClockIn, a.ClockOut, a.Status,
		a.HoursWorked, a.OvertimeHours, a.LateMinutes, a.EarlyDepartureMinutes, a.ClockInMethod, a.Notes,
	))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return attendance.StaffAttendance{}, attendance.ErrAttendanceExists
		case isForeignKeyViolation(err):
			return attendance.StaffAttendance{}, staff.ErrStaffNotFound
		}
		return attendance.StaffAttendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string, businessID string) (attendance.StaffAttendance, error) {
	return r.getOne(ctx, "a.id = $1 AND a.business_id = $2", id, businessID)
}

// GetByStaffAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByStaffAndDate(ctx context.Context, staffID string, businessID string, date time.Time) (attendance.StaffAttendance, error) {
	return r.getOne(ctx, "a.staff_id = $1 AND a.business_id = $2 AND a.attendance_date = $3", staffID, businessID, date)
}

// GetOpen implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetOpen(ctx context.Context, staffID string, businessID string) (attendance.StaffAttendance, error) {
	return r.getOne(ctx, `a.staff_id = $1 AND a.business_id = $2
		AND a.clock_in IS NOT NULL AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC LIMIT 1`, staffID, businessID)
}

func (r *attendanceRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (attendance.StaffAttendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, `SELECT`+attendanceColumns+`
		FROM staff_attendance a JOIN staff s ON s.id = a.staff_id
		WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.StaffAttendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.StaffAttendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter, businessID string) ([]attendance.StaffAttendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.business_id = $1"}
	args := []interface{}{businessID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("a.staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.attendance_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.attendance_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM staff_attendance a WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	sortColumn := map[string]string{
		"date":       "a.attendance_date",
		"clock_in":   "a.clock_in",
		"status":     "a.status",
		"staff_name": "s.first_name",
	}[filter.SortBy]
	if sortColumn == "" {
		sortColumn = "a.attendance_date"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s
		FROM staff_attendance a JOIN staff s ON s.id = a.staff_id
		WHERE %s
		ORDER BY %s %s, a.clock_in DESC NULLS LAST
		LIMIT $%d OFFSET $%d`, attendanceColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	records, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.StaffAttendance) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE staff_attendance
		SET shift_id = $1, clock_in = $2, clock_out = $3, status = $4, hours_worked = $5,
			overtime_hours = $6, late_minutes = $7, early_departure_minutes = $8, notes = $9,
			updated_at = NOW()
		WHERE id = $10 AND business_id = $11`,
		a.ShiftID, a.ClockIn, a.ClockOut, a.Status, a.HoursWorked,
		a.OvertimeHours, a.LateMinutes, a.EarlyDepartureMinutes, a.Notes,
		a.ID, a.BusinessID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Summary implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Summary(ctx context.Context, staffID string, businessID string, start, end time.Time) (attendance.Summary, error) {
	q := GetQuerier(ctx, r.db)

	sum := attendance.Summary{StaffID: staffID}
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'late'),
			COUNT(*) FILTER (WHERE status = 'absent'),
			COUNT(*) FILTER (WHERE status = 'early_departure'),
			COUNT(*) FILTER (WHERE status = 'on_leave'),
			COALESCE(SUM(hours_worked), 0)::float8,
			COALESCE(SUM(overtime_hours), 0)::float8,
			COALESCE(SUM(late_minutes), 0)
		FROM staff_attendance
		WHERE staff_id = $1 AND business_id = $2 AND attendance_date BETWEEN $3 AND $4`,
		staffID, businessID, start, end,
	).Scan(&sum.DaysPresent, &sum.DaysLate, &sum.DaysAbsent, &sum.DaysEarlyDeparture, &sum.DaysOnLeave,
		&sum.TotalHours, &sum.OvertimeHours, &sum.TotalLateMinutes)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	return sum, nil
}

// CountForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountForDate(ctx context.Context, businessID string, date time.Time, role *string) (attendance.DayCounts, error) {
	q := GetQuerier(ctx, r.db)

	var c attendance.DayCounts
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'late'),
			COUNT(*) FILTER (WHERE a.status = 'absent'),
			COUNT(*) FILTER (WHERE a.status = 'early_departure'),
			COUNT(*) FILTER (WHERE a.status = 'on_leave'),
			COUNT(*) FILTER (WHERE a.clock_in IS NOT NULL AND a.clock_out IS NULL)
		FROM staff_attendance a JOIN staff s ON s.id = a.staff_id
		WHERE a.business_id = $1 AND a.attendance_date = $2
			AND ($3::text IS NULL OR s.role = $3)`,
		businessID, date, role,
	).Scan(&c.Present, &c.Late, &c.Absent, &c.EarlyDeparture, &c.OnLeave, &c.ClockedIn)
	if err != nil {
		return attendance.DayCounts{}, fmt.Errorf("failed to count attendance for date: %w", err)
	}
	return c, nil
}

// ListForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListForDate(ctx context.Context, businessID string, date time.Time, status *attendance.Status, role *string) ([]attendance.StaffAttendance, error) {
	q := GetQuerier(ctx, r.db)

	var statusArg *string
	if status != nil {
		v := string(*status)
		statusArg = &v
	}

	rows, err := q.Query(ctx, `SELECT`+attendanceColumns+`
		FROM staff_attendance a JOIN staff s ON s.id = a.staff_id
		WHERE a.business_id = $1 AND a.attendance_date = $2
			AND ($3::text IS NULL OR a.status = $3)
			AND ($4::text IS NULL OR s.role = $4)
		ORDER BY a.clock_in NULLS LAST`, businessID, date, statusArg, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for date: %w", err)
	}
	return collectAttendance(rows)
}

// ListStaleOpen implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]attendance.StaffAttendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+attendanceColumns+`
		FROM staff_attendance a JOIN staff s ON s.id = a.staff_id
		WHERE a.clock_in < $1 AND a.clock_out IS NULL
		ORDER BY a.clock_in
		LIMIT 500`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale attendance: %w", err)
	}
	return collectAttendance(rows)
}
