package postgresql

import (
	"context"
	"fmt"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/report"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// staffScope filters staff s by $1 business, $2 optional staff id and $3 optional role.
const staffScope = `
	s.business_id = $1 AND s.deleted_at IS NULL
	AND ($2::uuid IS NULL OR s.id = $2)
	AND ($3::text IS NULL OR s.role = $3)`

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// AttendanceRows implements report.ReportRepository.
func (r *reportRepositoryImpl) AttendanceRows(ctx context.Context, scope report.Scope) ([]report.AttendanceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			s.id, s.first_name || ' ' || s.last_name, s.role,
			COALESCE(sh.scheduled, 0),
			COALESCE(a.present, 0), COALESCE(a.late, 0), COALESCE(a.absent, 0),
			COALESCE(a.early, 0), COALESCE(a.on_leave, 0),
			COALESCE(a.hours, 0)::float8, COALESCE(a.overtime, 0)::float8,
			COALESCE(a.late_minutes, 0)
		FROM staff s
		LEFT JOIN (
			SELECT staff_id, COUNT(*) AS scheduled
			FROM staff_shifts
			WHERE business_id = $1 AND shift_date BETWEEN $4 AND $5 AND status <> 'cancelled'
			GROUP BY staff_id
		) sh ON sh.staff_id = s.id
		LEFT JOIN (
			SELECT
				staff_id,
				COUNT(*) FILTER (WHERE status = 'present') AS present,
				COUNT(*) FILTER (WHERE status = 'late') AS late,
				COUNT(*) FILTER (WHERE status = 'absent') AS absent,
				COUNT(*) FILTER (WHERE status = 'early_departure') AS early,
				COUNT(*) FILTER (WHERE status = 'on_leave') AS on_leave,
				SUM(hours_worked) AS hours,
				SUM(overtime_hours) AS overtime,
				SUM(late_minutes) AS late_minutes
			FROM staff_attendance
			WHERE business_id = $1 AND attendance_date BETWEEN $4 AND $5
			GROUP BY staff_id
		) a ON a.staff_id = s.id
		WHERE` + staffScope + `
		ORDER BY s.first_name, s.last_name`

	rows, err := q.Query(ctx, query, scope.BusinessID, scope.StaffID, scope.Role, scope.Start, scope.End)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance: %w", err)
	}
	defer rows.Close()

	result := []report.AttendanceRow{}
	for rows.Next() {
		var a report.AttendanceRow
		if err := rows.Scan(
			&a.StaffID, &a.StaffName, &a.Role,
			&a.ScheduledShifts,
			&a.DaysPresent, &a.DaysLate, &a.DaysAbsent,
			&a.DaysEarlyDeparture, &a.DaysOnLeave,
			&a.TotalHours, &a.OvertimeHours,
			&a.TotalLateMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// PayrollRows implements report.ReportRepository. Staff, payments, salaries and
// hours are read in one batch and merged by staff id.
func (r *reportRepositoryImpl) PayrollRows(ctx context.Context, scope report.Scope) ([]report.PayrollRow, error) {
	q := GetQuerier(ctx, r.db)
	staffArgs := []any{scope.BusinessID, scope.StaffID, scope.Role}
	args := append(staffArgs[:3:3], scope.Start, scope.End)

	batch := &pgx.Batch{}
	batch.Queue(`
		SELECT s.id, s.first_name || ' ' || s.last_name, s.role
		FROM staff s
		WHERE`+staffScope+`
		ORDER BY s.first_name, s.last_name`, staffArgs...)
	// Payments whose whole period lies inside the range.
	batch.Queue(`
		SELECT`+paymentColumns+`
		FROM staff_payments p JOIN staff s ON s.id = p.staff_id
		WHERE`+staffScope+` AND p.period_start >= $4 AND p.period_end <= $5
		ORDER BY p.staff_id, p.period_start`, args...)
	batch.Queue(`
		SELECT`+salaryColumns+`
		FROM staff_salary
		WHERE is_active AND staff_id IN (SELECT s.id FROM staff s WHERE`+staffScope+`)`, staffArgs...)
	batch.Queue(`
		SELECT a.staff_id,
			COALESCE(SUM(a.hours_worked - a.overtime_hours), 0)::float8,
			COALESCE(SUM(a.overtime_hours), 0)::float8
		FROM staff_attendance a JOIN staff s ON s.id = a.staff_id
		WHERE`+staffScope+` AND a.attendance_date BETWEEN $4 AND $5
		GROUP BY a.staff_id`, args...)

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll staff: %w", err)
	}
	payroll := []report.PayrollRow{}
	index := map[string]int{}
	for rows.Next() {
		var p report.PayrollRow
		if err := rows.Scan(&p.StaffID, &p.StaffName, &p.Role); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan payroll staff: %w", err)
		}
		index[p.StaffID] = len(payroll)
		payroll = append(payroll, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = results.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll payments: %w", err)
	}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if i, ok := index[p.StaffID]; ok {
			payroll[i].Payments = append(payroll[i].Payments, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = results.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll salaries: %w", err)
	}
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		if i, ok := index[s.StaffID]; ok {
			sal := s
			payroll[i].Salary = &sal
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = results.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to sum payroll hours: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			staffID           string
			regular, overtime float64
		)
		if err := rows.Scan(&staffID, &regular, &overtime); err != nil {
			return nil, fmt.Errorf("failed to scan payroll hours: %w", err)
		}
		if i, ok := index[staffID]; ok {
			payroll[i].RegularHours = regular
			payroll[i].OvertimeHours = overtime
		}
	}
	return payroll, rows.Err()
}

// ReviewRows implements report.ReportRepository.
func (r *reportRepositoryImpl) ReviewRows(ctx context.Context, scope report.Scope) ([]report.ReviewRow, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT s.id, s.first_name || ' ' || s.last_name, s.role,
			pr.overall_rating::float8, pr.category_ratings, pr.review_date
		FROM staff_performance_reviews pr JOIN staff s ON s.id = pr.staff_id
		WHERE`+staffScope+`
			AND pr.status <> 'draft' AND pr.review_date BETWEEN $4 AND $5
		ORDER BY s.first_name, s.last_name, s.id, pr.review_date, pr.created_at`,
		scope.BusinessID, scope.StaffID, scope.Role, scope.Start, scope.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list review rows: %w", err)
	}
	defer rows.Close()

	result := []report.ReviewRow{}
	for rows.Next() {
		var rr report.ReviewRow
		if err := rows.Scan(&rr.StaffID, &rr.StaffName, &rr.Role, &rr.Rating, &rr.CategoryRatings, &rr.ReviewDate); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		result = append(result, rr)
	}
	return result, rows.Err()
}

// ActivityRows implements report.ReportRepository.
func (r *reportRepositoryImpl) ActivityRows(ctx context.Context, scope report.Scope) ([]report.ActivityRow, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT
			s.id, s.first_name || ' ' || s.last_name, s.role,
			COALESCE(t.sessions, 0),
			COALESCE(t.active, 0)::float8, COALESCE(t.idle, 0)::float8,
			COALESCE(t.pages, 0), COALESCE(t.actions, 0),
			COALESCE(t.completed, 0), COALESCE(t.failed, 0)
		FROM staff s
		LEFT JOIN (
			SELECT
				staff_id,
				COUNT(*) AS sessions,
				SUM(active_minutes) AS active,
				SUM(idle_minutes) AS idle,
				SUM(pages_visited) AS pages,
				SUM(actions_performed) AS actions,
				SUM(tasks_completed) AS completed,
				SUM(tasks_failed) AS failed
			FROM staff_session_activity
			WHERE business_id = $1
				AND started_at >= $4::date AND started_at < $5::date + 1
			GROUP BY staff_id
		) t ON t.staff_id = s.id
		WHERE`+staffScope+`
		ORDER BY s.first_name, s.last_name`,
		scope.BusinessID, scope.StaffID, scope.Role, scope.Start, scope.End)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity: %w", err)
	}
	defer rows.Close()

	result := []report.ActivityRow{}
	for rows.Next() {
		var a report.ActivityRow
		if err := rows.Scan(
			&a.StaffID, &a.StaffName, &a.Role,
			&a.Sessions,
			&a.ActiveMinutes, &a.IdleMinutes,
			&a.PagesVisited, &a.ActionsPerformed,
			&a.TasksCompleted, &a.TasksFailed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
