package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration) *AttendanceJobs {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		interval:          interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_no_show_shifts", j.interval, j.MarkNoShows)
	scheduler.AddJob("close_stale_attendance", time.Hour, j.CloseStale)
}

// MarkNoShows flags scheduled shifts that ended without a clock-in.
func (j *AttendanceJobs) MarkNoShows(ctx context.Context) error {
	marked, err := j.attendanceService.MarkNoShows(ctx)
	if err != nil {
		return err
	}
	if marked > 0 {
		slog.Info("Cron: shifts marked as no-show", "count", marked)
	}
	return nil
}

func (j *AttendanceJobs) CloseStale(ctx context.Context) error {
	closed, err := j.attendanceService.CloseStale(ctx)
	if err != nil {
		return err
	}
	if closed > 0 {
		slog.Info("Cron: stale attendance records auto-closed", "count", closed)
	}
	return nil
}
