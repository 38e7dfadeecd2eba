package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/report"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// StaffDirectory is the part of the staff store the reports read.
type StaffDirectory interface {
	GetByID(ctx context.Context, id string, businessID string) (staff.Staff, error)
	CountByRole(ctx context.Context, businessID string) ([]staff.RoleCount, error)
	CountByStatus(ctx context.Context, businessID string) ([]staff.StatusCount, error)
	CountHiredBetween(ctx context.Context, businessID string, start, end time.Time) (int, error)
	CountTerminatedBetween(ctx context.Context, businessID string, start, end time.Time) (int, error)
}

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	staffRepo  StaffDirectory
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, staffRepo StaffDirectory) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		staffRepo:  staffRepo,
		now:        time.Now,
	}
}

// scope validates the request and binds it to the caller's business.
func (s *ReportServiceImpl) scope(ctx context.Context, req *report.ReportRequest) (report.Scope, error) {
	if err := req.Validate(); err != nil {
		return report.Scope{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return report.Scope{}, err
	}

	start, end := req.Range()
	return report.Scope{
		BusinessID: businessID,
		Start:      start,
		End:        end,
		StaffID:    req.StaffID,
		Role:       req.Role,
	}, nil
}

func (s *ReportServiceImpl) generatedAt() string {
	return s.now().UTC().Format(time.RFC3339)
}

// AttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, req report.ReportRequest) (report.AttendanceReport, error) {
	scope, err := s.scope(ctx, &req)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	rows, err := s.reportRepo.AttendanceRows(ctx, scope)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	staffRows, summary := buildAttendance(rows)
	return report.AttendanceReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.generatedAt(),
		Summary:     summary,
		Staff:       staffRows,
	}, nil
}

// PayrollReport implements report.ReportService.
func (s *ReportServiceImpl) PayrollReport(ctx context.Context, req report.ReportRequest) (report.PayrollReport, error) {
	scope, err := s.scope(ctx, &req)
	if err != nil {
		return report.PayrollReport{}, err
	}

	rows, err := s.reportRepo.PayrollRows(ctx, scope)
	if err != nil {
		return report.PayrollReport{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	staffRows, summary := buildPayroll(rows, scope.Start, scope.End)
	return report.PayrollReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.generatedAt(),
		Summary:     summary,
		Staff:       staffRows,
	}, nil
}

// PerformanceReport implements report.ReportService.
func (s *ReportServiceImpl) PerformanceReport(ctx context.Context, req report.ReportRequest) (report.PerformanceReport, error) {
	scope, err := s.scope(ctx, &req)
	if err != nil {
		return report.PerformanceReport{}, err
	}

	rows, err := s.reportRepo.ReviewRows(ctx, scope)
	if err != nil {
		return report.PerformanceReport{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	staffRows, summary := buildPerformance(rows)
	return report.PerformanceReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.generatedAt(),
		Summary:     summary,
		Staff:       staffRows,
	}, nil
}

// ActivityReport implements report.ReportService.
func (s *ReportServiceImpl) ActivityReport(ctx context.Context, req report.ReportRequest) (report.ActivityReport, error) {
	scope, err := s.scope(ctx, &req)
	if err != nil {
		return report.ActivityReport{}, err
	}

	rows, err := s.reportRepo.ActivityRows(ctx, scope)
	if err != nil {
		return report.ActivityReport{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	staffRows, summary := buildActivity(rows)
	return report.ActivityReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.generatedAt(),
		Summary:     summary,
		Staff:       staffRows,
	}, nil
}

// OverviewReport implements report.ReportService. Headcounts cover the whole business;
// the staff and role filters do not apply.
func (s *ReportServiceImpl) OverviewReport(ctx context.Context, req report.ReportRequest) (report.OverviewReport, error) {
	scope, err := s.scope(ctx, &req)
	if err != nil {
		return report.OverviewReport{}, err
	}

	out := report.OverviewReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.generatedAt(),
		ByRole:      make(map[string]int, len(staff.Roles)),
		ByStatus:    make(map[string]int, len(staff.Statuses)),
	}
	for _, r := range staff.Roles {
		out.ByRole[r] = 0
	}
	for _, st := range staff.Statuses {
		out.ByStatus[st] = 0
	}

	var (
		roles    []staff.RoleCount
		statuses []staff.StatusCount
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = s.staffRepo.CountByRole(gCtx, scope.BusinessID)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = s.staffRepo.CountByStatus(gCtx, scope.BusinessID)
		return err
	})
	g.Go(func() error {
		var err error
		out.NewHires, err = s.staffRepo.CountHiredBetween(gCtx, scope.BusinessID, scope.Start, scope.End)
		return err
	})
	g.Go(func() error {
		var err error
		out.Terminations, err = s.staffRepo.CountTerminatedBetween(gCtx, scope.BusinessID, scope.Start, scope.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.OverviewReport{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	for _, rc := range roles {
		out.ByRole[string(rc.Role)] = rc.Count
		out.TotalStaff += rc.Count
	}
	for _, sc := range statuses {
		out.ByStatus[string(sc.Status)] = sc.Count
	}
	return out, nil
}

// StaffComprehensiveReport implements report.ReportService.
func (s *ReportServiceImpl) StaffComprehensiveReport(ctx context.Context, staffID string, req report.ReportRequest) (report.StaffComprehensiveReport, error) {
	if !validator.IsValidUUID(staffID) {
		return report.StaffComprehensiveReport{}, validator.ValidationErrors{{Field: "staff_id", Message: "must be a valid UUID"}}
	}
	req.StaffID = &staffID
	req.Role = nil

	scope, err := s.scope(ctx, &req)
	if err != nil {
		return report.StaffComprehensiveReport{}, err
	}

	member, err := s.staffRepo.GetByID(ctx, staffID, scope.BusinessID)
	if err != nil {
		return report.StaffComprehensiveReport{}, err
	}
	ref := report.StaffRef{StaffID: member.ID, StaffName: member.FullName(), Role: string(member.Role)}

	out := report.StaffComprehensiveReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.generatedAt(),
		Profile: report.StaffProfile{
			StaffID:        member.ID,
			FullName:       member.FullName(),
			Email:          member.Email,
			Role:           string(member.Role),
			Department:     member.Department,
			EmploymentType: string(member.EmploymentType),
			Status:         string(member.Status),
			HireDate:       member.HireDate.Format(validator.DateLayout),
		},
		Attendance: buildAttendanceRow(report.AttendanceRow{StaffRef: ref}),
		Payroll:    buildPayrollRow(report.PayrollRow{StaffRef: ref}, scope.Start, scope.End),
		Activity:   buildActivityRow(report.ActivityRow{Role: ref.Role, Totals: activity.Totals{StaffID: ref.StaffID, StaffName: ref.StaffName}}),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.reportRepo.AttendanceRows(gCtx, scope)
		if err == nil && len(rows) > 0 {
			out.Attendance = buildAttendanceRow(rows[0])
		}
		return err
	})
	g.Go(func() error {
		rows, err := s.reportRepo.PayrollRows(gCtx, scope)
		if err == nil && len(rows) > 0 {
			out.Payroll = buildPayrollRow(rows[0], scope.Start, scope.End)
		}
		return err
	})
	g.Go(func() error {
		rows, err := s.reportRepo.ReviewRows(gCtx, scope)
		if err == nil {
			out.Performance = reviewSummary(staffID, rows)
		}
		return err
	})
	g.Go(func() error {
		rows, err := s.reportRepo.ActivityRows(gCtx, scope)
		if err == nil && len(rows) > 0 {
			out.Activity = buildActivityRow(rows[0])
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return report.StaffComprehensiveReport{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return out, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.Export, error) {
	if err := req.Validate(); err != nil {
		return report.Export{}, err
	}

	var (
		book *workbook
		err  error
	)
	switch report.Type(req.Type) {
	case report.TypeAttendance:
		var r report.AttendanceReport
		if r, err = s.AttendanceReport(ctx, req.ReportRequest); err == nil {
			book, err = attendanceWorkbook(r)
		}
	case report.TypePayroll:
		var r report.PayrollReport
		if r, err = s.PayrollReport(ctx, req.ReportRequest); err == nil {
			book, err = payrollWorkbook(r)
		}
	case report.TypePerformance:
		var r report.PerformanceReport
		if r, err = s.PerformanceReport(ctx, req.ReportRequest); err == nil {
			book, err = performanceWorkbook(r)
		}
	case report.TypeActivity:
		var r report.ActivityReport
		if r, err = s.ActivityReport(ctx, req.ReportRequest); err == nil {
			book, err = activityWorkbook(r)
		}
	case report.TypeOverview:
		var r report.OverviewReport
		if r, err = s.OverviewReport(ctx, req.ReportRequest); err == nil {
			book, err = overviewWorkbook(r)
		}
	default:
		return report.Export{}, report.ErrUnsupportedExport
	}
	if err != nil {
		return report.Export{}, err
	}

	data, err := book.bytes()
	if err != nil {
		return report.Export{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return report.Export{
		Filename:    fmt.Sprintf("%s-report_%s_%s.xlsx", req.Type, req.StartDate, req.EndDate),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}
