package performance

import (
	"time"
)

type Status string

const (
	StatusDraft        Status = "draft"
	StatusSubmitted    Status = "submitted"
	StatusAcknowledged Status = "acknowledged"
)

var Statuses = []string{
	string(StatusDraft),
	string(StatusSubmitted),
	string(StatusAcknowledged),
}

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// TrendThreshold is the rating difference beyond which a trend is no longer stable.
const TrendThreshold = 0.2

type StaffPerformanceReview struct {
	ID                  string
	BusinessID          string
	StaffID             string
	ReviewerID          *string
	PeriodStart         time.Time
	PeriodEnd           time.Time
	ReviewDate          time.Time
	OverallRating       float64
	CategoryRatings     map[string]float64
	Goals               []string
	Achievements        []string
	Strengths           *string
	AreasForImprovement *string
	Comments            *string
	Status              Status
	SubmittedAt         *time.Time
	AcknowledgedAt      *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Joined
	StaffName    string
	ReviewerName *string
}

// Summary condenses a staff member's reviews.
type Summary struct {
	StaffID          string             `json:"staff_id"`
	ReviewCount      int                `json:"review_count"`
	AverageRating    float64            `json:"average_rating"`
	LatestRating     float64            `json:"latest_rating"`
	PreviousRating   *float64           `json:"previous_rating"`
	CategoryAverages map[string]float64 `json:"category_averages"`
	Trend            Trend              `json:"trend"`
	LastReviewDate   *string            `json:"last_review_date"`
}
