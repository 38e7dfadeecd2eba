package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `
	sa.id, sa.business_id, sa.staff_id, sa.session_id, sa.started_at, sa.ended_at,
	sa.last_activity_at, sa.pages_visited, sa.actions_performed, sa.tasks_completed,
	sa.tasks_failed, sa.active_minutes::float8, sa.idle_minutes::float8, sa.ip_address,
	sa.user_agent, sa.status, sa.created_at, sa.updated_at,
	s.first_name || ' ' || s.last_name`

type sessionRepositoryImpl struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) activity.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

func scanSession(row pgx.Row) (activity.StaffSessionActivity, error) {
	var sa activity.StaffSessionActivity
	err := row.Scan(
		&sa.ID, &sa.BusinessID, &sa.StaffID, &sa.SessionID, &sa.StartedAt, &sa.EndedAt,
		&sa.LastActivityAt, &sa.PagesVisited, &sa.ActionsPerformed, &sa.TasksCompleted,
		&sa.TasksFailed, &sa.ActiveMinutes, &sa.IdleMinutes, &sa.IPAddress,
		&sa.UserAgent, &sa.Status, &sa.CreatedAt, &sa.UpdatedAt,
		&sa.StaffName,
	)
	return sa, err
}

func collectSessions(rows pgx.Rows) ([]activity.StaffSessionActivity, error) {
	defer rows.Close()
	sessions := []activity.StaffSessionActivity{}
	for rows.Next() {
		sa, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sa)
	}
	return sessions, rows.Err()
}

// Create implements activity.SessionRepository.
func (r *sessionRepositoryImpl) Create(ctx context.Context, sa activity.StaffSessionActivity) (activity.StaffSessionActivity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH sa AS (
			INSERT INTO staff_session_activity (
				business_id, staff_id, session_id, started_at, last_activity_at,
				ip_address, user_agent, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT` + sessionColumns + `
		FROM sa JOIN staff s ON s.id = sa.staff_id`

	created, err := scanSession(q.QueryRow(ctx, query,
		sa.BusinessID, sa.StaffID, sa.SessionID, sa.StartedAt, sa.LastActivityAt,
		sa.IPAddress, sa.UserAgent, sa.Status,
	))
	if err != nil {
		return activity.StaffSessionActivity{}, fmt.Errorf("failed to create session: %w", err)
	}
	return created, nil
}

// GetBySessionID implements activity.SessionRepository.
func (r *sessionRepositoryImpl) GetBySessionID(ctx context.Context, sessionID string, businessID string, lock bool) (activity.StaffSessionActivity, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + sessionColumns + `
		FROM staff_session_activity sa JOIN staff s ON s.id = sa.staff_id
		WHERE sa.session_id = $1 AND sa.business_id = $2`
	if lock {
		query += " FOR UPDATE OF sa"
	}

	sa, err := scanSession(q.QueryRow(ctx, query, sessionID, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activity.StaffSessionActivity{}, activity.ErrSessionNotFound
		}
		return activity.StaffSessionActivity{}, fmt.Errorf("failed to get session: %w", err)
	}
	return sa, nil
}

// List implements activity.SessionRepository.
func (r *sessionRepositoryImpl) List(ctx context.Context, filter activity.SessionFilter, businessID string) ([]activity.StaffSessionActivity, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"sa.business_id = $1"}
	args := []interface{}{businessID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("sa.staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("sa.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("sa.started_at >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("sa.started_at < $%d::date + 1", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM staff_session_activity sa WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM staff_session_activity sa JOIN staff s ON s.id = sa.staff_id
		WHERE %s
		ORDER BY sa.started_at DESC
		LIMIT $%d OFFSET $%d`, sessionColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// Save implements activity.SessionRepository.
func (r *sessionRepositoryImpl) Save(ctx context.Context, sa activity.StaffSessionActivity) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE staff_session_activity
		SET last_activity_at = $1, ended_at = $2, pages_visited = $3, actions_performed = $4,
			tasks_completed = $5, tasks_failed = $6, active_minutes = $7, idle_minutes = $8,
			status = $9, updated_at = NOW()
		WHERE session_id = $10 AND business_id = $11`,
		sa.LastActivityAt, sa.EndedAt, sa.PagesVisited, sa.ActionsPerformed,
		sa.TasksCompleted, sa.TasksFailed, sa.ActiveMinutes, sa.IdleMinutes,
		sa.Status, sa.SessionID, sa.BusinessID,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return activity.ErrSessionNotFound
	}
	return nil
}

// MarkIdle implements activity.SessionRepository.
func (r *sessionRepositoryImpl) MarkIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE staff_session_activity
		SET status = 'idle', updated_at = NOW()
		WHERE status = 'active' AND last_activity_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to mark idle sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ExpireInactive implements activity.SessionRepository.
func (r *sessionRepositoryImpl) ExpireInactive(ctx context.Context, cutoff time.Time) ([]activity.StaffSessionActivity, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		WITH sa AS (
			UPDATE staff_session_activity
			SET status = 'expired', ended_at = last_activity_at, updated_at = NOW()
			WHERE status IN ('active', 'idle') AND last_activity_at < $1
			RETURNING *
		)
		SELECT`+sessionColumns+`
		FROM sa JOIN staff s ON s.id = sa.staff_id`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to expire sessions: %w", err)
	}
	return collectSessions(rows)
}

// Totals implements activity.SessionRepository. This is the aggregate behind the
// per-staff activity summary.
func (r *sessionRepositoryImpl) Totals(ctx context.Context, businessID string, staffID *string, start, end time.Time) ([]activity.Totals, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT
			sa.staff_id,
			MAX(s.first_name || ' ' || s.last_name),
			COUNT(*),
			COALESCE(SUM(sa.active_minutes), 0)::float8,
			COALESCE(SUM(sa.idle_minutes), 0)::float8,
			COALESCE(SUM(sa.pages_visited), 0),
			COALESCE(SUM(sa.actions_performed), 0),
			COALESCE(SUM(sa.tasks_completed), 0),
			COALESCE(SUM(sa.tasks_failed), 0)
		FROM staff_session_activity sa JOIN staff s ON s.id = sa.staff_id
		WHERE sa.business_id = $1 AND ($2::uuid IS NULL OR sa.staff_id = $2)
			AND sa.started_at >= $3 AND sa.started_at < $4
		GROUP BY sa.staff_id
		ORDER BY 2`, businessID, staffID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sessions: %w", err)
	}
	defer rows.Close()

	totals := []activity.Totals{}
	for rows.Next() {
		var t activity.Totals
		if err := rows.Scan(&t.StaffID, &t.StaffName, &t.Sessions, &t.ActiveMinutes, &t.IdleMinutes,
			&t.PagesVisited, &t.ActionsPerformed, &t.TasksCompleted, &t.TasksFailed); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

const logColumns = `
	l.id, l.business_id, l.staff_id, l.session_id, l.action_type, l.resource, l.details,
	l.created_at, s.first_name || ' ' || s.last_name`

type logRepositoryImpl struct {
	db *database.DB
}

func NewActivityLogRepository(db *database.DB) activity.LogRepository {
	return &logRepositoryImpl{db: db}
}

func logDetails(l activity.StaffActivityLog) map[string]any {
	if l.Details == nil {
		return map[string]any{}
	}
	return l.Details
}

// Create implements activity.LogRepository.
func (r *logRepositoryImpl) Create(ctx context.Context, l activity.StaffActivityLog) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO staff_activity_logs (business_id, staff_id, session_id, action_type, resource, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))`,
		l.BusinessID, l.StaffID, l.SessionID, l.ActionType, l.Resource, logDetails(l), nullableTime(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

// CreateBatch implements activity.LogRepository.
func (r *logRepositoryImpl) CreateBatch(ctx context.Context, logs []activity.StaffActivityLog) error {
	if len(logs) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for _, l := range logs {
		batch.Queue(`
			INSERT INTO staff_activity_logs (business_id, staff_id, session_id, action_type, resource, details, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))`,
			l.BusinessID, l.StaffID, l.SessionID, l.ActionType, l.Resource, logDetails(l), nullableTime(l.CreatedAt))
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for range logs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create activity logs: %w", err)
		}
	}
	return nil
}

// List implements activity.LogRepository.
func (r *logRepositoryImpl) List(ctx context.Context, filter activity.LogFilter, businessID string) ([]activity.StaffActivityLog, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"l.business_id = $1"}
	args := []interface{}{businessID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("l.staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.SessionID != nil {
		conditions = append(conditions, fmt.Sprintf("l.session_id = $%d", argIdx))
		args = append(args, *filter.SessionID)
		argIdx++
	}
	if filter.ActionType != nil {
		conditions = append(conditions, fmt.Sprintf("l.action_type = $%d", argIdx))
		args = append(args, *filter.ActionType)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("l.created_at >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("l.created_at < $%d::date + 1", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM staff_activity_logs l WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM staff_activity_logs l JOIN staff s ON s.id = l.staff_id
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d`, logColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	logs := []activity.StaffActivityLog{}
	for rows.Next() {
		var l activity.StaffActivityLog
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.StaffID, &l.SessionID, &l.ActionType, &l.Resource,
			&l.Details, &l.CreatedAt, &l.StaffName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
