package activity

import "context"

type ActivityService interface {
	StartSession(ctx context.Context, req StartSessionRequest) (SessionResponse, error)
	RecordEvents(ctx context.Context, req RecordEventsRequest) (SessionResponse, error)
	Heartbeat(ctx context.Context, sessionID string) (SessionResponse, error)
	EndSession(ctx context.Context, sessionID string) (SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (SessionResponse, error)
	ListSessions(ctx context.Context, filter SessionFilter) (ListSessionResponse, error)
	ListLogs(ctx context.Context, filter LogFilter) (ListLogResponse, error)
	OnlineStaff(ctx context.Context) ([]OnlineStaffResponse, error)
	GetSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
	ExpireSessions(ctx context.Context) (int, error)
}
