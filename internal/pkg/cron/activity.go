package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
)

type ActivityJobs struct {
	activityService activity.ActivityService
	interval        time.Duration
}

func NewActivityJobs(activityService activity.ActivityService, interval time.Duration) *ActivityJobs {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ActivityJobs{activityService: activityService, interval: interval}
}

func (j *ActivityJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("expire_activity_sessions", j.interval, j.ExpireSessions)
}

// ExpireSessions idles quiet sessions and expires those past the session timeout.
func (j *ActivityJobs) ExpireSessions(ctx context.Context) error {
	expired, err := j.activityService.ExpireSessions(ctx)
	if err != nil {
		return err
	}
	if expired > 0 {
		slog.Info("Cron: activity sessions expired", "count", expired)
	}
	return nil
}
