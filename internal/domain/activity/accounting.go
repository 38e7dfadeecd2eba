package activity

import (
	"math"
	"time"
)

// CreditGap moves the session clock to at, crediting the elapsed time to active
// minutes when it is within threshold and to idle minutes otherwise. Timestamps
// older than the current clock credit nothing. It reports whether the gap was idle
// and its length in minutes.
func (s *StaffSessionActivity) CreditGap(at time.Time, threshold time.Duration) (idle bool, minutes float64) {
	if !at.After(s.LastActivityAt) {
		return false, 0
	}
	gap := at.Sub(s.LastActivityAt)
	minutes = gap.Minutes()
	if gap > threshold {
		s.IdleMinutes = round2(s.IdleMinutes + minutes)
		idle = true
	} else {
		s.ActiveMinutes = round2(s.ActiveMinutes + minutes)
	}
	s.LastActivityAt = at
	if s.Status == SessionIdle {
		s.Status = SessionActive
	}
	return idle, round2(minutes)
}

// Count increments the counter matching the action type.
func (s *StaffSessionActivity) Count(t ActionType) {
	switch t {
	case ActionPageView:
		s.PagesVisited++
	case ActionAction:
		s.ActionsPerformed++
	case ActionTaskCompleted:
		s.TasksCompleted++
	case ActionTaskFailed:
		s.TasksFailed++
	}
}

const (
	activeWeight      = 40.0
	actionRateWeight  = 30.0
	taskWeight        = 30.0
	idlePenaltyWeight = 20.0
	// actions per active hour that earn the full action-rate weight
	targetActionsPerHour = 60.0
)

// ProductivityScore rates a session total on a 0 to 100 scale.
func ProductivityScore(activeMinutes, idleMinutes float64, actions, tasksCompleted, tasksFailed int) float64 {
	total := activeMinutes + idleMinutes
	if total <= 0 {
		return 0
	}

	activeRatio := activeMinutes / total
	idleRatio := idleMinutes / total

	var actionRate float64
	if activeMinutes > 0 {
		perHour := float64(actions) / (activeMinutes / 60)
		actionRate = math.Min(perHour/targetActionsPerHour, 1)
	}

	taskSuccess := 0.5
	if tasks := tasksCompleted + tasksFailed; tasks > 0 {
		taskSuccess = float64(tasksCompleted) / float64(tasks)
	}

	score := activeWeight*activeRatio +
		actionRateWeight*actionRate +
		taskWeight*taskSuccess -
		idlePenaltyWeight*idleRatio

	return round2(math.Max(0, math.Min(100, score)))
}

// Score is the productivity score for an aggregated total.
func (t Totals) Score() float64 {
	return ProductivityScore(t.ActiveMinutes, t.IdleMinutes, t.ActionsPerformed, t.TasksCompleted, t.TasksFailed)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
