package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceService struct {
	attendance.AttendanceService
	noShows int
	closed  int
	err     error
}

func (s *stubAttendanceService) MarkNoShows(ctx context.Context) (int, error) {
	return s.noShows, s.err
}

func (s *stubAttendanceService) CloseStale(ctx context.Context) (int, error) {
	return s.closed, s.err
}

type stubActivityService struct {
	activity.ActivityService
	calls atomic.Int32
}

func (s *stubActivityService) ExpireSessions(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 2, nil
}

func TestScheduler_RegisterJobs(t *testing.T) {
	s := NewScheduler()
	NewAttendanceJobs(&stubAttendanceService{}, 0).RegisterJobs(s)
	NewActivityJobs(&stubActivityService{}, time.Minute).RegisterJobs(s)

	jobs := s.Jobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, "mark_no_show_shifts", jobs[0].Name)
	assert.Equal(t, 15*time.Minute, jobs[0].Interval)
	assert.Equal(t, "close_stale_attendance", jobs[1].Name)
	assert.Equal(t, "expire_activity_sessions", jobs[2].Name)
	assert.Equal(t, time.Minute, jobs[2].Interval)
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	s := NewScheduler()
	NewAttendanceJobs(&stubAttendanceService{err: boom}, time.Minute).RegisterJobs(s)
	activitySvc := &stubActivityService{}
	NewActivityJobs(activitySvc, time.Minute).RegisterJobs(s)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "mark_no_show_shifts")
	assert.Contains(t, err.Error(), "close_stale_attendance")
	assert.Equal(t, int32(1), activitySvc.calls.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	activitySvc := &stubActivityService{}
	NewActivityJobs(activitySvc, time.Hour).RegisterJobs(s)

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return activitySvc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), activitySvc.calls.Load())
}
