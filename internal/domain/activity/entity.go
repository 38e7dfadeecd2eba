package activity

import (
	"time"
)

type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionIdle    SessionStatus = "idle"
	SessionEnded   SessionStatus = "ended"
	SessionExpired SessionStatus = "expired"
)

var SessionStatuses = []string{
	string(SessionActive),
	string(SessionIdle),
	string(SessionEnded),
	string(SessionExpired),
}

// IsClosed reports whether the session no longer accepts events.
func (s SessionStatus) IsClosed() bool {
	return s == SessionEnded || s == SessionExpired
}

type ActionType string

const (
	ActionLogin         ActionType = "login"
	ActionLogout        ActionType = "logout"
	ActionPageView      ActionType = "page_view"
	ActionAction        ActionType = "action"
	ActionTaskCompleted ActionType = "task_completed"
	ActionTaskFailed    ActionType = "task_failed"
	ActionIdle          ActionType = "idle"
)

var ActionTypes = []string{
	string(ActionLogin),
	string(ActionLogout),
	string(ActionPageView),
	string(ActionAction),
	string(ActionTaskCompleted),
	string(ActionTaskFailed),
	string(ActionIdle),
}

// EventTypes are the action types a client may report on an open session.
var EventTypes = []string{
	string(ActionPageView),
	string(ActionAction),
	string(ActionTaskCompleted),
	string(ActionTaskFailed),
}

type StaffSessionActivity struct {
	ID               string
	BusinessID       string
	StaffID          string
	SessionID        string
	StartedAt        time.Time
	EndedAt          *time.Time
	LastActivityAt   time.Time
	PagesVisited     int
	ActionsPerformed int
	TasksCompleted   int
	TasksFailed      int
	ActiveMinutes    float64
	IdleMinutes      float64
	IPAddress        *string
	UserAgent        *string
	Status           SessionStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined
	StaffName string
}

type StaffActivityLog struct {
	ID         string
	BusinessID string
	StaffID    string
	SessionID  *string
	ActionType ActionType
	Resource   *string
	Details    map[string]any
	CreatedAt  time.Time

	// Joined
	StaffName string
}

// Totals is the aggregate of a staff member's sessions over a range.
type Totals struct {
	StaffID          string
	StaffName        string
	Sessions         int
	ActiveMinutes    float64
	IdleMinutes      float64
	PagesVisited     int
	ActionsPerformed int
	TasksCompleted   int
	TasksFailed      int
}
