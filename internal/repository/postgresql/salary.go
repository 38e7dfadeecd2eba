package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const salaryColumns = `
	id, business_id, staff_id, base_salary, hourly_rate, pay_frequency, currency,
	commission_rate, bonus_amount, overtime_multiplier, effective_date, end_date,
	is_active, created_at, updated_at`

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

func scanSalary(row pgx.Row) (salary.StaffSalary, error) {
	var s salary.StaffSalary
	err := row.Scan(
		&s.ID, &s.BusinessID, &s.StaffID, &s.BaseSalary, &s.HourlyRate, &s.PayFrequency, &s.Currency,
		&s.CommissionRate, &s.BonusAmount, &s.OvertimeMultiplier, &s.EffectiveDate, &s.EndDate,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Create(ctx context.Context, s salary.StaffSalary) (salary.StaffSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff_salary (
			business_id, staff_id, base_salary, hourly_rate, pay_frequency, currency,
			commission_rate, bonus_amount, overtime_multiplier, effective_date, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING` + salaryColumns

	created, err := scanSalary(q.QueryRow(ctx, query,
		s.BusinessID, s.StaffID, s.BaseSalary, s.HourlyRate, s.PayFrequency, s.Currency,
		s.CommissionRate, s.BonusAmount, s.OvertimeMultiplier, s.EffectiveDate,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return salary.StaffSalary{}, staff.ErrStaffNotFound
		}
		return salary.StaffSalary{}, fmt.Errorf("failed to create salary: %w", err)
	}
	return created, nil
}

// GetByID implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) GetByID(ctx context.Context, id string, businessID string) (salary.StaffSalary, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSalary(q.QueryRow(ctx, `SELECT`+salaryColumns+`
		FROM staff_salary WHERE id = $1 AND business_id = $2`, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.StaffSalary{}, salary.ErrSalaryNotFound
		}
		return salary.StaffSalary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

// GetActive implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) GetActive(ctx context.Context, staffID string, businessID string) (salary.StaffSalary, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSalary(q.QueryRow(ctx, `SELECT`+salaryColumns+`
		FROM staff_salary WHERE staff_id = $1 AND business_id = $2 AND is_active`, staffID, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.StaffSalary{}, salary.ErrNoActiveSalary
		}
		return salary.StaffSalary{}, fmt.Errorf("failed to get active salary: %w", err)
	}
	return s, nil
}

// ListByStaff implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) ListByStaff(ctx context.Context, staffID string, businessID string) ([]salary.StaffSalary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+salaryColumns+`
		FROM staff_salary
		WHERE staff_id = $1 AND business_id = $2
		ORDER BY effective_date DESC, created_at DESC`, staffID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary history: %w", err)
	}
	defer rows.Close()

	history := []salary.StaffSalary{}
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, s)
	}
	return history, rows.Err()
}

// Update implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Update(ctx context.Context, s salary.StaffSalary) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE staff_salary
		SET base_salary = $1, hourly_rate = $2, pay_frequency = $3, commission_rate = $4,
			bonus_amount = $5, overtime_multiplier = $6, updated_at = NOW()
		WHERE id = $7 AND business_id = $8`,
		s.BaseSalary, s.HourlyRate, s.PayFrequency, s.CommissionRate,
		s.BonusAmount, s.OvertimeMultiplier, s.ID, s.BusinessID,
	)
	if err != nil {
		return fmt.Errorf("failed to update salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryNotFound
	}
	return nil
}

// Deactivate implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Deactivate(ctx context.Context, staffID string, businessID string, endDate time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE staff_salary
		SET is_active = FALSE, end_date = $1, updated_at = NOW()
		WHERE staff_id = $2 AND business_id = $3 AND is_active`, endDate, staffID, businessID)
	if err != nil {
		return fmt.Errorf("failed to deactivate salary: %w", err)
	}
	return nil
}

// Delete implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Delete(ctx context.Context, id string, businessID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM staff_salary WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryNotFound
	}
	return nil
}
