package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreditGap(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	threshold := 5 * time.Minute

	s := &StaffSessionActivity{LastActivityAt: start, Status: SessionActive}

	idle, mins := s.CreditGap(start.Add(3*time.Minute), threshold)
	assert.False(t, idle)
	assert.Equal(t, 3.0, mins)
	assert.Equal(t, 3.0, s.ActiveMinutes)

	idle, mins = s.CreditGap(start.Add(15*time.Minute), threshold)
	assert.True(t, idle)
	assert.Equal(t, 12.0, mins)
	assert.Equal(t, 12.0, s.IdleMinutes)

	// exactly at the threshold counts as active
	_, _ = s.CreditGap(start.Add(20*time.Minute), threshold)
	assert.Equal(t, 8.0, s.ActiveMinutes)

	// stale timestamps do not move the clock back
	idle, mins = s.CreditGap(start.Add(time.Minute), threshold)
	assert.False(t, idle)
	assert.Zero(t, mins)
	assert.Equal(t, start.Add(20*time.Minute), s.LastActivityAt)
}

func TestCreditGap_ReactivatesIdleSession(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := &StaffSessionActivity{LastActivityAt: start, Status: SessionIdle}

	s.CreditGap(start.Add(10*time.Minute), 5*time.Minute)

	assert.Equal(t, SessionActive, s.Status)
}

func TestCount(t *testing.T) {
	s := &StaffSessionActivity{}
	for _, a := range []ActionType{ActionPageView, ActionPageView, ActionAction, ActionTaskCompleted, ActionTaskFailed, ActionLogin} {
		s.Count(a)
	}
	assert.Equal(t, 2, s.PagesVisited)
	assert.Equal(t, 1, s.ActionsPerformed)
	assert.Equal(t, 1, s.TasksCompleted)
	assert.Equal(t, 1, s.TasksFailed)
}

func TestProductivityScore(t *testing.T) {
	tests := []struct {
		name                  string
		active, idle          float64
		actions, done, failed int
		want                  float64
	}{
		{"no time tracked", 0, 0, 10, 1, 0, 0},
		{"fully active, busy, all tasks done", 60, 0, 60, 5, 0, 100},
		{"fully active, no tasks", 60, 0, 60, 0, 0, 85},
		{"half idle, half rate", 30, 30, 15, 1, 1, 20 + 15 + 15 - 10},
		{"all idle clamps to zero", 0, 60, 0, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProductivityScore(tt.active, tt.idle, tt.actions, tt.done, tt.failed)
			assert.InDelta(t, tt.want, got, 0.001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}
