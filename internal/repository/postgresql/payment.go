package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `
	p.id, p.business_id, p.staff_id, p.salary_id, p.period_start, p.period_end, p.currency,
	p.regular_hours, p.overtime_hours, p.base_pay, p.overtime_pay, p.sales_amount, p.commission,
	p.bonus, p.deductions, p.gross_pay, p.net_pay, p.status, p.paid_at, p.notes,
	p.created_at, p.updated_at, s.first_name || ' ' || s.last_name`

type paymentRepositoryImpl struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) salary.PaymentRepository {
	return &paymentRepositoryImpl{db: db}
}

func scanPayment(row pgx.Row) (salary.StaffPayment, error) {
	var p salary.StaffPayment
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.StaffID, &p.SalaryID, &p.PeriodStart, &p.PeriodEnd, &p.Currency,
		&p.RegularHours, &p.OvertimeHours, &p.BasePay, &p.OvertimePay, &p.SalesAmount, &p.Commission,
		&p.Bonus, &p.Deductions, &p.GrossPay, &p.NetPay, &p.Status, &p.PaidAt, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt, &p.StaffName,
	)
	return p, err
}

// Create implements salary.PaymentRepository.
func (r *paymentRepositoryImpl) Create(ctx context.Context, p salary.StaffPayment) (salary.StaffPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH p AS (
			INSERT INTO staff_payments (
				business_id, staff_id, salary_id, period_start, period_end, currency,
				regular_hours, overtime_hours, base_pay, overtime_pay, sales_amount, commission,
				bonus, deductions, gross_pay, net_pay, status, notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING *
		)
		SELECT` + paymentColumns + `
		FROM p JOIN staff s ON s.id = p.staff_id`

	created, err := scanPayment(q.QueryRow(ctx, query,
		p.BusinessID, p.StaffID, p.SalaryID, p.PeriodStart, p.PeriodEnd, p.Currency,
		p.RegularHours, p.OvertimeHours, p.BasePay, p.OvertimePay, p.SalesAmount, p.Commission,
		p.Bonus, p.Deductions, p.GrossPay, p.NetPay, p.Status, p.Notes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return salary.StaffPayment{}, salary.ErrPaymentAlreadyExists
		}
		return salary.StaffPayment{}, fmt.Errorf("failed to create payment: %w", err)
	}
	return created, nil
}

// GetByID implements salary.PaymentRepository.
func (r *paymentRepositoryImpl) GetByID(ctx context.Context, id string, businessID string) (salary.StaffPayment, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayment(q.QueryRow(ctx, `SELECT`+paymentColumns+`
		FROM staff_payments p JOIN staff s ON s.id = p.staff_id
		WHERE p.id = $1 AND p.business_id = $2`, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.StaffPayment{}, salary.ErrPaymentNotFound
		}
		return salary.StaffPayment{}, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// List implements salary.PaymentRepository.
func (r *paymentRepositoryImpl) List(ctx context.Context, filter salary.PaymentFilter, businessID string) ([]salary.StaffPayment, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.business_id = $1"}
	args := []interface{}{businessID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("p.staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_end >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_start <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM staff_payments p WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM staff_payments p JOIN staff s ON s.id = p.staff_id
		WHERE %s
		ORDER BY p.period_start DESC, s.first_name
		LIMIT $%d OFFSET $%d`, paymentColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []salary.StaffPayment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// MarkPaid implements salary.PaymentRepository. Only pending payments change.
func (r *paymentRepositoryImpl) MarkPaid(ctx context.Context, ids []string, businessID string, paidAt time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE staff_payments
		SET status = 'paid', paid_at = $1, updated_at = NOW()
		WHERE id = ANY($2::text[]::uuid[]) AND business_id = $3 AND status = 'pending'`,
		paidAt, ids, businessID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark payments paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete implements salary.PaymentRepository.
func (r *paymentRepositoryImpl) Delete(ctx context.Context, id string, businessID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM staff_payments WHERE id = $1 AND business_id = $2 AND status = 'pending'`, id, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrPaymentNotFound
	}
	return nil
}

// Totals implements salary.PaymentRepository.
func (r *paymentRepositoryImpl) Totals(ctx context.Context, businessID string, start, end time.Time) (salary.PaymentTotals, error) {
	q := GetQuerier(ctx, r.db)

	var t salary.PaymentTotals
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(gross_pay), 0),
			COALESCE(SUM(net_pay), 0),
			COALESCE(SUM(overtime_pay), 0),
			COALESCE(SUM(commission), 0),
			COALESCE(SUM(bonus), 0),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(net_pay) FILTER (WHERE status = 'pending'), 0)
		FROM staff_payments
		WHERE business_id = $1 AND period_start <= $3 AND period_end >= $2`,
		businessID, start, end,
	).Scan(&t.Count, &t.GrossPay, &t.NetPay, &t.OvertimePay, &t.Commission, &t.Bonus, &t.PendingCount, &t.PendingNetTotal)
	if err != nil {
		return salary.PaymentTotals{}, fmt.Errorf("failed to total payments: %w", err)
	}
	return t, nil
}
