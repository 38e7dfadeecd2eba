package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/shift"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const shiftColumns = `
	sh.id, sh.business_id, sh.staff_id, sh.shift_date, sh.scheduled_start, sh.scheduled_end,
	sh.actual_start, sh.actual_end, sh.break_minutes, sh.station, sh.status, sh.notes,
	sh.created_by, sh.created_at, sh.updated_at,
	s.first_name || ' ' || s.last_name, s.role`

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

func scanShift(row pgx.Row) (shift.StaffShift, error) {
	var sh shift.StaffShift
	err := row.Scan(
		&sh.ID, &sh.BusinessID, &sh.StaffID, &sh.ShiftDate, &sh.ScheduledStart, &sh.ScheduledEnd,
		&sh.ActualStart, &sh.ActualEnd, &sh.BreakMinutes, &sh.Station, &sh.Status, &sh.Notes,
		&sh.CreatedBy, &sh.CreatedAt, &sh.UpdatedAt,
		&sh.StaffName, &sh.StaffRole,
	)
	return sh, err
}

func collectShifts(rows pgx.Rows) ([]shift.StaffShift, error) {
	defer rows.Close()
	shifts := []shift.StaffShift{}
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

// mapShiftWriteError turns constraint violations into domain errors.
func mapShiftWriteError(err error, action string) error {
	switch {
	case isExclusionViolation(err):
		return shift.ErrShiftConflict
	case isForeignKeyViolation(err):
		return staff.ErrStaffNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, sh shift.StaffShift) (shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH sh AS (
			INSERT INTO staff_shifts (
				business_id, staff_id, shift_date, scheduled_start, scheduled_end,
				break_minutes, station, status, notes, created_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT` + shiftColumns + `
		FROM sh JOIN staff s ON s.id = sh.staff_id`

	created, err := scanShift(q.QueryRow(ctx, query,
		sh.BusinessID, sh.StaffID, sh.ShiftDate, sh.ScheduledStart, sh.ScheduledEnd,
		sh.BreakMinutes, sh.Station, sh.Status, sh.Notes, sh.CreatedBy,
	))
	if err != nil {
		return shift.StaffShift{}, mapShiftWriteError(err, "create shift")
	}
	return created, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string, businessID string) (shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	sh, err := scanShift(q.QueryRow(ctx, `SELECT`+shiftColumns+`
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE sh.id = $1 AND sh.business_id = $2`, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.StaffShift{}, shift.ErrShiftNotFound
		}
		return shift.StaffShift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return sh, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.ShiftFilter, businessID string) ([]shift.StaffShift, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"sh.business_id = $1"}
	args := []interface{}{businessID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("sh.staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("sh.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Station != nil {
		conditions = append(conditions, fmt.Sprintf("sh.station = $%d", argIdx))
		args = append(args, *filter.Station)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("sh.shift_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("sh.shift_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM staff_shifts sh WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE %s
		ORDER BY sh.scheduled_start
		LIMIT $%d OFFSET $%d`, shiftColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shifts: %w", err)
	}
	shifts, err := collectShifts(rows)
	if err != nil {
		return nil, 0, err
	}
	return shifts, total, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, sh shift.StaffShift) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE staff_shifts
		SET shift_date = $1, scheduled_start = $2, scheduled_end = $3, break_minutes = $4,
			station = $5, notes = $6, updated_at = NOW()
		WHERE id = $7 AND business_id = $8`,
		sh.ShiftDate, sh.ScheduledStart, sh.ScheduledEnd, sh.BreakMinutes,
		sh.Station, sh.Notes, sh.ID, sh.BusinessID,
	)
	if err != nil {
		return mapShiftWriteError(err, "update shift")
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string, businessID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM staff_shifts WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// FindOverlapping implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) FindOverlapping(ctx context.Context, staffID string, businessID string, start, end time.Time, excludeID *string) ([]shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+shiftColumns+`
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE sh.staff_id = $1 AND sh.business_id = $2
			AND sh.status <> 'cancelled'
			AND sh.scheduled_start < $4 AND $3 < sh.scheduled_end
			AND ($5::uuid IS NULL OR sh.id <> $5)
		ORDER BY sh.scheduled_start`, staffID, businessID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping shifts: %w", err)
	}
	return collectShifts(rows)
}

// UpdateStatus implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) UpdateStatus(ctx context.Context, id string, businessID string, from []shift.Status, next shift.Status, actualStart, actualEnd *time.Time) (shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	fromCodes := make([]string, 0, len(from))
	for _, st := range from {
		fromCodes = append(fromCodes, string(st))
	}

	query := `
		WITH sh AS (
			UPDATE staff_shifts
			SET status = $1,
				actual_start = COALESCE($2, actual_start),
				actual_end = COALESCE($3, actual_end),
				updated_at = NOW()
			WHERE id = $4 AND business_id = $5 AND status = ANY($6::text[])
			RETURNING *
		)
		SELECT` + shiftColumns + `
		FROM sh JOIN staff s ON s.id = sh.staff_id`

	updated, err := scanShift(q.QueryRow(ctx, query, next, actualStart, actualEnd, id, businessID, fromCodes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id, businessID); getErr != nil {
				return shift.StaffShift{}, getErr
			}
			return shift.StaffShift{}, shift.ErrInvalidTransition
		}
		return shift.StaffShift{}, fmt.Errorf("failed to update shift status: %w", err)
	}
	return updated, nil
}

// GetForStaffOn implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetForStaffOn(ctx context.Context, staffID string, businessID string, date time.Time) (shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	sh, err := scanShift(q.QueryRow(ctx, `SELECT`+shiftColumns+`
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE sh.staff_id = $1 AND sh.business_id = $2 AND sh.shift_date = $3
			AND sh.status <> 'cancelled'
		ORDER BY sh.scheduled_start
		LIMIT 1`, staffID, businessID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.StaffShift{}, shift.ErrShiftNotFound
		}
		return shift.StaffShift{}, fmt.Errorf("failed to get shift for date: %w", err)
	}
	return sh, nil
}

// GetCovering implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetCovering(ctx context.Context, staffID string, businessID string, at time.Time, lead time.Duration) (shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	sh, err := scanShift(q.QueryRow(ctx, `SELECT`+shiftColumns+`
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE sh.staff_id = $1 AND sh.business_id = $2
			AND sh.status IN ('scheduled', 'in_progress')
			AND sh.scheduled_start <= $4 AND $3 < sh.scheduled_end
		ORDER BY sh.scheduled_start
		LIMIT 1`, staffID, businessID, at, at.Add(lead)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.StaffShift{}, shift.ErrShiftNotFound
		}
		return shift.StaffShift{}, fmt.Errorf("failed to get covering shift: %w", err)
	}
	return sh, nil
}

// ListUpcoming implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListUpcoming(ctx context.Context, staffID string, businessID string, from time.Time, limit int) ([]shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+shiftColumns+`
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE sh.business_id = $2 AND ($1::uuid IS NULL OR sh.staff_id = $1)
			AND sh.status = 'scheduled' AND sh.scheduled_start >= $3
		ORDER BY sh.scheduled_start
		LIMIT $4`, nullableID(staffID), businessID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming shifts: %w", err)
	}
	return collectShifts(rows)
}

// ListOnDuty implements shift.ShiftRepository. A shift is on duty while in progress,
// or while scheduled and covering at.
func (r *shiftRepositoryImpl) ListOnDuty(ctx context.Context, businessID string, at time.Time, role *string) ([]shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+shiftColumns+`
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE sh.business_id = $1
			AND (sh.status = 'in_progress'
				OR (sh.status = 'scheduled' AND sh.scheduled_start <= $2 AND $2 < sh.scheduled_end))
			AND ($3::text IS NULL OR s.role = $3)
		ORDER BY sh.scheduled_start`, businessID, at, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list on-duty shifts: %w", err)
	}
	return collectShifts(rows)
}

// ListBetween implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListBetween(ctx context.Context, businessID string, staffID *string, start, end time.Time) ([]shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+shiftColumns+`
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE sh.business_id = $1 AND ($2::uuid IS NULL OR sh.staff_id = $2)
			AND sh.shift_date BETWEEN $3 AND $4
		ORDER BY sh.scheduled_start`, businessID, staffID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts between dates: %w", err)
	}
	return collectShifts(rows)
}

// ListMissed implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListMissed(ctx context.Context, cutoff time.Time) ([]shift.StaffShift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+shiftColumns+`
		FROM staff_shifts sh JOIN staff s ON s.id = sh.staff_id
		WHERE sh.status = 'scheduled' AND sh.scheduled_end < $1
			AND NOT EXISTS (
				SELECT 1 FROM staff_attendance a
				WHERE a.shift_id = sh.id
			)
		ORDER BY sh.scheduled_end
		LIMIT 500`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list missed shifts: %w", err)
	}
	return collectShifts(rows)
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
