package activity

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/presence"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/repository/postgresql"
	"github.com/google/uuid"
)

// Rules control when sessions go idle and expire.
type Rules struct {
	IdleThreshold  time.Duration
	SessionTimeout time.Duration
}

type ActivityServiceImpl struct {
	tx          postgresql.Transactor
	sessionRepo activity.SessionRepository
	logRepo     activity.LogRepository
	presence    presence.Store
	rules       Rules
	now         func() time.Time
}

func NewActivityService(
	tx postgresql.Transactor,
	sessionRepo activity.SessionRepository,
	logRepo activity.LogRepository,
	presenceStore presence.Store,
	rules Rules,
) activity.ActivityService {
	return &ActivityServiceImpl{
		tx:          tx,
		sessionRepo: sessionRepo,
		logRepo:     logRepo,
		presence:    presenceStore,
		rules:       rules,
		now:         time.Now,
	}
}

func (s *ActivityServiceImpl) touch(ctx context.Context, businessID, staffID string, at time.Time) {
	if err := s.presence.Touch(ctx, businessID, staffID, at); err != nil {
		slog.Warn("failed to update presence", "staff_id", staffID, "error", err)
	}
}

func (s *ActivityServiceImpl) forget(ctx context.Context, businessID, staffID string) {
	if err := s.presence.Remove(ctx, businessID, staffID); err != nil {
		slog.Warn("failed to clear presence", "staff_id", staffID, "error", err)
	}
}

func sessionLog(sess activity.StaffSessionActivity, t activity.ActionType, at time.Time) activity.StaffActivityLog {
	return activity.StaffActivityLog{
		BusinessID: sess.BusinessID,
		StaffID:    sess.StaffID,
		SessionID:  &sess.SessionID,
		ActionType: t,
		CreatedAt:  at,
	}
}

// StartSession implements activity.ActivityService.
func (s *ActivityServiceImpl) StartSession(ctx context.Context, req activity.StartSessionRequest) (activity.SessionResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return activity.SessionResponse{}, err
	}
	if claims.StaffID == "" {
		return activity.SessionResponse{}, activity.ErrStaffRequired
	}

	now := s.now().UTC()
	sess := activity.StaffSessionActivity{
		BusinessID:     claims.BusinessID,
		StaffID:        claims.StaffID,
		SessionID:      uuid.NewString(),
		StartedAt:      now,
		LastActivityAt: now,
		Status:         activity.SessionActive,
	}
	if req.IPAddress != "" {
		sess.IPAddress = &req.IPAddress
	}
	if req.UserAgent != "" {
		sess.UserAgent = &req.UserAgent
	}

	var created activity.StaffSessionActivity
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.sessionRepo.Create(ctx, sess)
		if err != nil {
			return err
		}
		return s.logRepo.Create(ctx, sessionLog(created, activity.ActionLogin, now))
	})
	if err != nil {
		return activity.SessionResponse{}, err
	}

	s.touch(ctx, claims.BusinessID, claims.StaffID, now)
	return mapSessionToResponse(created), nil
}

// withOwnSession runs fn on the caller's open session under a row lock and saves it.
func (s *ActivityServiceImpl) withOwnSession(ctx context.Context, sessionID string, fn func(sess *activity.StaffSessionActivity) ([]activity.StaffActivityLog, error)) (activity.StaffSessionActivity, error) {
	if !validator.IsValidUUID(sessionID) {
		return activity.StaffSessionActivity{}, activity.ErrSessionNotFound
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return activity.StaffSessionActivity{}, err
	}

	var sess activity.StaffSessionActivity
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		sess, err = s.sessionRepo.GetBySessionID(ctx, sessionID, claims.BusinessID, true)
		if err != nil {
			return err
		}
		if sess.StaffID != claims.StaffID {
			return activity.ErrNotSessionOwner
		}
		if sess.Status.IsClosed() {
			return activity.ErrSessionClosed
		}

		logs, err := fn(&sess)
		if err != nil {
			return err
		}
		if err := s.sessionRepo.Save(ctx, sess); err != nil {
			return err
		}
		return s.logRepo.CreateBatch(ctx, logs)
	})
	return sess, err
}

// RecordEvents implements activity.ActivityService.
func (s *ActivityServiceImpl) RecordEvents(ctx context.Context, req activity.RecordEventsRequest) (activity.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return activity.SessionResponse{}, err
	}

	sess, err := s.withOwnSession(ctx, req.SessionID, func(sess *activity.StaffSessionActivity) ([]activity.StaffActivityLog, error) {
		logs := make([]activity.StaffActivityLog, 0, len(req.Events))
		for _, e := range req.Events {
			at := e.At().UTC()
			if idle, minutes := sess.CreditGap(at, s.rules.IdleThreshold); idle {
				idleLog := sessionLog(*sess, activity.ActionIdle, at)
				idleLog.Details = map[string]any{"idle_minutes": minutes}
				logs = append(logs, idleLog)
			}

			t := activity.ActionType(e.Type)
			sess.Count(t)
			l := sessionLog(*sess, t, at)
			l.Resource = e.Resource
			l.Details = e.Details
			logs = append(logs, l)
		}
		return logs, nil
	})
	if err != nil {
		return activity.SessionResponse{}, err
	}

	s.touch(ctx, sess.BusinessID, sess.StaffID, sess.LastActivityAt)
	return mapSessionToResponse(sess), nil
}

// Heartbeat implements activity.ActivityService.
func (s *ActivityServiceImpl) Heartbeat(ctx context.Context, sessionID string) (activity.SessionResponse, error) {
	now := s.now().UTC()
	sess, err := s.withOwnSession(ctx, sessionID, func(sess *activity.StaffSessionActivity) ([]activity.StaffActivityLog, error) {
		if idle, minutes := sess.CreditGap(now, s.rules.IdleThreshold); idle {
			l := sessionLog(*sess, activity.ActionIdle, now)
			l.Details = map[string]any{"idle_minutes": minutes}
			return []activity.StaffActivityLog{l}, nil
		}
		return nil, nil
	})
	if err != nil {
		return activity.SessionResponse{}, err
	}

	s.touch(ctx, sess.BusinessID, sess.StaffID, now)
	return mapSessionToResponse(sess), nil
}

// EndSession implements activity.ActivityService.
func (s *ActivityServiceImpl) EndSession(ctx context.Context, sessionID string) (activity.SessionResponse, error) {
	now := s.now().UTC()
	sess, err := s.withOwnSession(ctx, sessionID, func(sess *activity.StaffSessionActivity) ([]activity.StaffActivityLog, error) {
		sess.CreditGap(now, s.rules.IdleThreshold)
		sess.Status = activity.SessionEnded
		sess.EndedAt = &now
		return []activity.StaffActivityLog{sessionLog(*sess, activity.ActionLogout, now)}, nil
	})
	if err != nil {
		return activity.SessionResponse{}, err
	}

	s.forget(ctx, sess.BusinessID, sess.StaffID)
	return mapSessionToResponse(sess), nil
}

// GetSession implements activity.ActivityService.
func (s *ActivityServiceImpl) GetSession(ctx context.Context, sessionID string) (activity.SessionResponse, error) {
	if !validator.IsValidUUID(sessionID) {
		return activity.SessionResponse{}, activity.ErrSessionNotFound
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return activity.SessionResponse{}, err
	}

	sess, err := s.sessionRepo.GetBySessionID(ctx, sessionID, claims.BusinessID, false)
	if err != nil {
		return activity.SessionResponse{}, err
	}
	if !claims.Can(staff.PermissionActivityView) && sess.StaffID != claims.StaffID {
		return activity.SessionResponse{}, activity.ErrNotSessionOwner
	}
	return mapSessionToResponse(sess), nil
}

// ownScope restricts a listing to the caller unless they may view all activity.
func ownScope(claims jwt.Claims, staffID **string) error {
	if claims.Can(staff.PermissionActivityView) {
		return nil
	}
	if claims.StaffID == "" {
		return activity.ErrStaffRequired
	}
	own := claims.StaffID
	*staffID = &own
	return nil
}

// ListSessions implements activity.ActivityService.
func (s *ActivityServiceImpl) ListSessions(ctx context.Context, filter activity.SessionFilter) (activity.ListSessionResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return activity.ListSessionResponse{}, err
	}
	if err := ownScope(claims, &filter.StaffID); err != nil {
		return activity.ListSessionResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return activity.ListSessionResponse{}, err
	}

	sessions, total, err := s.sessionRepo.List(ctx, filter, claims.BusinessID)
	if err != nil {
		return activity.ListSessionResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := activity.ListSessionResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Sessions:   make([]activity.SessionResponse, 0, len(sessions)),
	}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, mapSessionToResponse(sess))
	}
	return resp, nil
}

// ListLogs implements activity.ActivityService.
func (s *ActivityServiceImpl) ListLogs(ctx context.Context, filter activity.LogFilter) (activity.ListLogResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return activity.ListLogResponse{}, err
	}
	if err := ownScope(claims, &filter.StaffID); err != nil {
		return activity.ListLogResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return activity.ListLogResponse{}, err
	}

	logs, total, err := s.logRepo.List(ctx, filter, claims.BusinessID)
	if err != nil {
		return activity.ListLogResponse{}, fmt.Errorf("failed to list activity logs: %w", err)
	}

	resp := activity.ListLogResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Logs:       make([]activity.LogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		details := l.Details
		if details == nil {
			details = map[string]any{}
		}
		resp.Logs = append(resp.Logs, activity.LogResponse{
			ID:         l.ID,
			StaffID:    l.StaffID,
			StaffName:  l.StaffName,
			SessionID:  l.SessionID,
			ActionType: string(l.ActionType),
			Resource:   l.Resource,
			Details:    details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// OnlineStaff implements activity.ActivityService.
func (s *ActivityServiceImpl) OnlineStaff(ctx context.Context) ([]activity.OnlineStaffResponse, error) {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.presence.Online(ctx, businessID, s.now().UTC().Add(-s.rules.IdleThreshold))
	if err != nil {
		return nil, fmt.Errorf("failed to read presence: %w", err)
	}

	out := make([]activity.OnlineStaffResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, activity.OnlineStaffResponse{
			StaffID:      e.StaffID,
			LastActiveAt: e.LastActiveAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// GetSummary implements activity.ActivityService.
func (s *ActivityServiceImpl) GetSummary(ctx context.Context, req activity.SummaryRequest) (activity.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return activity.SummaryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return activity.SummaryResponse{}, err
	}
	if !claims.Can(staff.PermissionActivityView) && req.StaffID != claims.StaffID {
		return activity.SummaryResponse{}, activity.ErrNotSessionOwner
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	totals, err := s.sessionRepo.Totals(ctx, claims.BusinessID, &req.StaffID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return activity.SummaryResponse{}, err
	}

	t := activity.Totals{StaffID: req.StaffID}
	if len(totals) > 0 {
		t = totals[0]
	}
	return activity.SummaryResponse{
		StaffID:           req.StaffID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Sessions:          t.Sessions,
		ActiveMinutes:     t.ActiveMinutes,
		IdleMinutes:       t.IdleMinutes,
		PagesVisited:      t.PagesVisited,
		ActionsPerformed:  t.ActionsPerformed,
		TasksCompleted:    t.TasksCompleted,
		TasksFailed:       t.TasksFailed,
		ProductivityScore: t.Score(),
	}, nil
}

// ExpireSessions implements activity.ActivityService.
func (s *ActivityServiceImpl) ExpireSessions(ctx context.Context) (int, error) {
	now := s.now().UTC()

	idled, err := s.sessionRepo.MarkIdle(ctx, now.Add(-s.rules.IdleThreshold))
	if err != nil {
		return 0, err
	}

	expired, err := s.sessionRepo.ExpireInactive(ctx, now.Add(-s.rules.SessionTimeout))
	if err != nil {
		return 0, err
	}
	for _, sess := range expired {
		s.forget(ctx, sess.BusinessID, sess.StaffID)
	}

	if idled > 0 || len(expired) > 0 {
		slog.Info("activity sessions swept", "idle", idled, "expired", len(expired))
	}
	return len(expired), nil
}

func mapSessionToResponse(sess activity.StaffSessionActivity) activity.SessionResponse {
	resp := activity.SessionResponse{
		ID:               sess.ID,
		SessionID:        sess.SessionID,
		StaffID:          sess.StaffID,
		StaffName:        sess.StaffName,
		StartedAt:        sess.StartedAt.Format(time.RFC3339),
		LastActivityAt:   sess.LastActivityAt.Format(time.RFC3339),
		PagesVisited:     sess.PagesVisited,
		ActionsPerformed: sess.ActionsPerformed,
		TasksCompleted:   sess.TasksCompleted,
		TasksFailed:      sess.TasksFailed,
		ActiveMinutes:    sess.ActiveMinutes,
		IdleMinutes:      sess.IdleMinutes,
		Status:           string(sess.Status),
		IPAddress:        sess.IPAddress,
		UserAgent:        sess.UserAgent,
	}
	if sess.EndedAt != nil {
		v := sess.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &v
	}
	return resp
}
