package performance

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/performance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "7b0c6f4e-3f4a-4d8e-9a51-1d2f3c4b5a60"

type mockReviewRepo struct {
	reviews map[string]performance.StaffPerformanceReview
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: map[string]performance.StaffPerformanceReview{}}
}

func (m *mockReviewRepo) Create(ctx context.Context, r performance.StaffPerformanceReview) (performance.StaffPerformanceReview, error) {
	r.ID = uuid.NewString()
	m.reviews[r.ID] = r
	return r, nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id, businessID string) (performance.StaffPerformanceReview, error) {
	r, ok := m.reviews[id]
	if !ok {
		return performance.StaffPerformanceReview{}, performance.ErrReviewNotFound
	}
	return r, nil
}

func (m *mockReviewRepo) List(ctx context.Context, filter performance.ReviewFilter, businessID string) ([]performance.StaffPerformanceReview, int64, error) {
	var out []performance.StaffPerformanceReview
	for _, r := range m.reviews {
		if filter.StaffID != nil && r.StaffID != *filter.StaffID {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *mockReviewRepo) Update(ctx context.Context, r performance.StaffPerformanceReview) error {
	if m.reviews[r.ID].Status != performance.StatusDraft {
		return performance.ErrReviewNotEditable
	}
	m.reviews[r.ID] = r
	return nil
}

func (m *mockReviewRepo) UpdateStatus(ctx context.Context, id, businessID string, from, to performance.Status, at time.Time) error {
	r, ok := m.reviews[id]
	if !ok {
		return performance.ErrReviewNotFound
	}
	if r.Status != from {
		if from == performance.StatusDraft {
			return performance.ErrReviewNotEditable
		}
		return performance.ErrReviewNotSubmitted
	}
	r.Status = to
	switch to {
	case performance.StatusSubmitted:
		r.SubmittedAt = &at
	case performance.StatusAcknowledged:
		r.AcknowledgedAt = &at
	}
	m.reviews[id] = r
	return nil
}

func (m *mockReviewRepo) Delete(ctx context.Context, id, businessID string) error {
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepo) ListForStaff(ctx context.Context, staffID, businessID string, start, end *time.Time) ([]performance.StaffPerformanceReview, error) {
	var out []performance.StaffPerformanceReview
	for _, r := range m.reviews {
		if r.StaffID == staffID && r.Status != performance.StatusDraft {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewDate.Before(out[j].ReviewDate) })
	return out, nil
}

type mockStaff struct{}

func (mockStaff) GetByID(ctx context.Context, id, businessID string) (staff.Staff, error) {
	return staff.Staff{ID: id, BusinessID: businessID}, nil
}

func newTestService() (*ReviewServiceImpl, *mockReviewRepo) {
	repo := newMockReviewRepo()
	svc := NewReviewService(repo, mockStaff{}).(*ReviewServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func contextFor(staffID string, role staff.Role) context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{
		BusinessID: testBusinessID,
		StaffID:    staffID,
		Role:       role,
	})
}

func reviewRequest(staffID string, rating float64, date string) performance.CreateReviewRequest {
	return performance.CreateReviewRequest{
		StaffID:         staffID,
		PeriodStart:     "2025-01-01",
		PeriodEnd:       "2025-03-31",
		ReviewDate:      date,
		OverallRating:   rating,
		CategoryRatings: map[string]float64{"punctuality": rating},
	}
}

func TestReviewService_Lifecycle(t *testing.T) {
	svc, _ := newTestService()
	managerID := uuid.NewString()
	staffID := uuid.NewString()
	manager := contextFor(managerID, staff.RoleManager)
	employee := contextFor(staffID, staff.RoleWaiter)

	created, err := svc.CreateReview(manager, reviewRequest(staffID, 4, ""))
	require.NoError(t, err)
	assert.Equal(t, string(performance.StatusDraft), created.Status)
	assert.Equal(t, "2025-04-02", created.ReviewDate)
	require.NotNil(t, created.ReviewerID)
	assert.Equal(t, managerID, *created.ReviewerID)

	_, err = svc.GetReview(employee, created.ID)
	assert.ErrorIs(t, err, performance.ErrUnauthorized)

	_, err = svc.AcknowledgeReview(employee, created.ID)
	assert.ErrorIs(t, err, performance.ErrReviewNotSubmitted)

	rating := 4.5
	updated, err := svc.UpdateReview(manager, performance.UpdateReviewRequest{ID: created.ID, OverallRating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4.5, updated.OverallRating)

	submitted, err := svc.SubmitReview(manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(performance.StatusSubmitted), submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)

	_, err = svc.UpdateReview(manager, performance.UpdateReviewRequest{ID: created.ID, OverallRating: &rating})
	assert.ErrorIs(t, err, performance.ErrReviewNotEditable)
	assert.ErrorIs(t, svc.DeleteReview(manager, created.ID), performance.ErrReviewNotEditable)

	_, err = svc.AcknowledgeReview(manager, created.ID)
	assert.ErrorIs(t, err, performance.ErrNotReviewedStaff)

	acked, err := svc.AcknowledgeReview(employee, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(performance.StatusAcknowledged), acked.Status)
	assert.NotNil(t, acked.AcknowledgedAt)
}

func TestReviewService_CannotReviewSelf(t *testing.T) {
	svc, _ := newTestService()
	managerID := uuid.NewString()

	_, err := svc.CreateReview(contextFor(managerID, staff.RoleManager), reviewRequest(managerID, 5, ""))
	assert.ErrorIs(t, err, performance.ErrCannotReviewSelf)
}

func TestReviewService_ListReviews_OwnOnly(t *testing.T) {
	svc, repo := newTestService()
	manager := contextFor(uuid.NewString(), staff.RoleManager)
	staffID := uuid.NewString()

	draft, err := svc.CreateReview(manager, reviewRequest(staffID, 3, "2025-01-15"))
	require.NoError(t, err)
	submitted, err := svc.CreateReview(manager, reviewRequest(staffID, 4, "2025-02-15"))
	require.NoError(t, err)
	_, err = svc.SubmitReview(manager, submitted.ID)
	require.NoError(t, err)
	_, err = svc.CreateReview(manager, reviewRequest(uuid.NewString(), 2, "2025-02-15"))
	require.NoError(t, err)
	require.Len(t, repo.reviews, 3)

	all, err := svc.ListReviews(manager, performance.ReviewFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Reviews, 3)

	own, err := svc.ListReviews(contextFor(staffID, staff.RoleKitchen), performance.ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, own.Reviews, 1)
	assert.Equal(t, submitted.ID, own.Reviews[0].ID)
	assert.NotEqual(t, draft.ID, own.Reviews[0].ID)
}

func TestReviewService_GetSummary(t *testing.T) {
	svc, _ := newTestService()
	manager := contextFor(uuid.NewString(), staff.RoleManager)
	staffID := uuid.NewString()

	for _, r := range []struct {
		rating float64
		date   string
	}{{3.0, "2025-01-15"}, {3.0, "2025-02-15"}, {4.0, "2025-03-15"}} {
		created, err := svc.CreateReview(manager, reviewRequest(staffID, r.rating, r.date))
		require.NoError(t, err)
		_, err = svc.SubmitReview(manager, created.ID)
		require.NoError(t, err)
	}
	_, err := svc.CreateReview(manager, reviewRequest(staffID, 1, "2025-03-20"))
	require.NoError(t, err)

	sum, err := svc.GetSummary(manager, staffID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.ReviewCount)
	assert.InDelta(t, 3.33, sum.AverageRating, 0.001)
	assert.Equal(t, 4.0, sum.LatestRating)
	assert.Equal(t, performance.TrendImproving, sum.Trend)
	require.NotNil(t, sum.LastReviewDate)
	assert.Equal(t, "2025-03-15", *sum.LastReviewDate)

	_, err = svc.GetSummary(contextFor(uuid.NewString(), staff.RoleBar), staffID)
	assert.ErrorIs(t, err, performance.ErrUnauthorized)
}
