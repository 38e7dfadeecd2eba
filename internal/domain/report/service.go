package report

import "context"

type ReportService interface {
	AttendanceReport(ctx context.Context, req ReportRequest) (AttendanceReport, error)
	PayrollReport(ctx context.Context, req ReportRequest) (PayrollReport, error)
	PerformanceReport(ctx context.Context, req ReportRequest) (PerformanceReport, error)
	ActivityReport(ctx context.Context, req ReportRequest) (ActivityReport, error)
	OverviewReport(ctx context.Context, req ReportRequest) (OverviewReport, error)
	StaffComprehensiveReport(ctx context.Context, staffID string, req ReportRequest) (StaffComprehensiveReport, error)
	Export(ctx context.Context, req ExportRequest) (Export, error)
}
