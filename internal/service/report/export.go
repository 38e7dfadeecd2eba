package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dataSheet    = "Data"
	summarySheet = "Summary"
)

// workbook wraps an excelize file with a data sheet and a summary sheet.
type workbook struct {
	f           *excelize.File
	headerStyle int
	printer     *message.Printer
	summaryRow  int
}

func newWorkbook(title string, r report.ReportRequest, generatedAt string) (*workbook, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &workbook{f: f, headerStyle: style, printer: message.NewPrinter(language.English)}
	w.summary("Report", title)
	w.summary("Period", fmt.Sprintf("%s to %s", r.StartDate, r.EndDate))
	w.summary("Generated at", generatedAt)
	w.summaryRow++
	return w, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// header writes the data sheet header row and sizes its columns.
func (w *workbook) header(columns ...string) {
	for i, c := range columns {
		w.f.SetCellValue(dataSheet, cell(i+1, 1), c)
	}
	last, _ := excelize.ColumnNumberToName(len(columns))
	w.f.SetCellStyle(dataSheet, "A1", last+"1", w.headerStyle)
	w.f.SetColWidth(dataSheet, "A", last, 16)
	w.f.SetColWidth(dataSheet, "A", "A", 26)
}

// row writes one data row; row 1 is the header.
func (w *workbook) row(n int, values ...any) {
	for i, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			v = d.InexactFloat64()
		}
		w.f.SetCellValue(dataSheet, cell(i+1, n+2), v)
	}
}

func (w *workbook) summary(label string, value any) {
	w.summaryRow++
	w.f.SetCellValue(summarySheet, cell(1, w.summaryRow), label)
	w.f.SetCellValue(summarySheet, cell(2, w.summaryRow), value)
	w.f.SetColWidth(summarySheet, "A", "A", 28)
	w.f.SetColWidth(summarySheet, "B", "B", 32)
}

// number formats a figure with thousands separators for the summary sheet.
func (w *workbook) number(v float64) string {
	return w.printer.Sprintf("%.2f", v)
}

func (w *workbook) money(d decimal.Decimal) string {
	return w.number(d.InexactFloat64())
}

func (w *workbook) bytes() ([]byte, error) {
	defer w.f.Close()

	w.f.SetActiveSheet(0)
	var buf bytes.Buffer
	if err := w.f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func attendanceWorkbook(r report.AttendanceReport) (*workbook, error) {
	w, err := newWorkbook("Attendance", report.ReportRequest{StartDate: r.StartDate, EndDate: r.EndDate}, r.GeneratedAt)
	if err != nil {
		return nil, err
	}

	w.header("Staff", "Role", "Scheduled", "Present", "Late", "Absent", "Early departure", "On leave",
		"Hours", "Overtime", "Late minutes", "Attendance rate %", "Punctuality %")
	for i, s := range r.Staff {
		w.row(i, s.StaffName, s.Role, s.ScheduledShifts, s.DaysPresent, s.DaysLate, s.DaysAbsent,
			s.DaysEarlyDeparture, s.DaysOnLeave, s.TotalHours, s.OvertimeHours, s.TotalLateMinutes,
			s.AttendanceRate, s.PunctualityScore)
	}

	w.summary("Total staff", r.Summary.TotalStaff)
	w.summary("Average attendance rate %", w.number(r.Summary.AverageAttendanceRate))
	w.summary("Average punctuality %", w.number(r.Summary.AveragePunctualityScore))
	w.summary("Total hours", w.number(r.Summary.TotalHours))
	w.summary("Total overtime hours", w.number(r.Summary.TotalOvertimeHours))
	return w, nil
}

func payrollWorkbook(r report.PayrollReport) (*workbook, error) {
	w, err := newWorkbook("Payroll", report.ReportRequest{StartDate: r.StartDate, EndDate: r.EndDate}, r.GeneratedAt)
	if err != nil {
		return nil, err
	}

	w.header("Staff", "Role", "Currency", "Base pay", "Overtime hours", "Overtime pay", "Commission",
		"Bonus", "Deductions", "Gross pay", "Net pay", "Status")
	for i, s := range r.Staff {
		w.row(i, s.StaffName, s.Role, s.Currency, s.BasePay, s.OvertimeHours, s.OvertimePay, s.Commission,
			s.Bonus, s.Deductions, s.GrossPay, s.NetPay, s.PaymentStatus)
	}

	w.summary("Staff", r.Summary.StaffCount)
	w.summary("Total gross", w.money(r.Summary.TotalGross))
	w.summary("Total net", w.money(r.Summary.TotalNet))
	w.summary("Overtime cost", w.money(r.Summary.TotalOvertimeCost))
	w.summary("Commission cost", w.money(r.Summary.TotalCommissionCost))
	w.summary("Bonuses", w.money(r.Summary.TotalBonus))
	return w, nil
}

func performanceWorkbook(r report.PerformanceReport) (*workbook, error) {
	w, err := newWorkbook("Performance", report.ReportRequest{StartDate: r.StartDate, EndDate: r.EndDate}, r.GeneratedAt)
	if err != nil {
		return nil, err
	}

	w.header("Staff", "Role", "Reviews", "Average rating", "Latest rating", "Trend")
	for i, s := range r.Staff {
		w.row(i, s.StaffName, s.Role, s.ReviewCount, s.AverageRating, s.LatestRating, string(s.Trend))
	}

	w.summary("Reviewed staff", r.Summary.ReviewedStaff)
	w.summary("Average rating", w.number(r.Summary.AverageRating))
	w.summary("Improving", r.Summary.Improving)
	w.summary("Stable", r.Summary.Stable)
	w.summary("Declining", r.Summary.Declining)
	for i, top := range r.Summary.TopPerformers {
		w.summary(fmt.Sprintf("Top performer %d", i+1), fmt.Sprintf("%s (%s)", top.StaffName, w.number(top.AverageRating)))
	}
	return w, nil
}

func activityWorkbook(r report.ActivityReport) (*workbook, error) {
	w, err := newWorkbook("Activity", report.ReportRequest{StartDate: r.StartDate, EndDate: r.EndDate}, r.GeneratedAt)
	if err != nil {
		return nil, err
	}

	w.header("Staff", "Sessions", "Active minutes", "Idle minutes", "Pages", "Actions",
		"Tasks completed", "Tasks failed", "Productivity")
	for i, s := range r.Staff {
		w.row(i, s.StaffName, s.Sessions, s.ActiveMinutes, s.IdleMinutes, s.PagesVisited, s.ActionsPerformed,
			s.TasksCompleted, s.TasksFailed, s.ProductivityScore)
	}

	w.summary("Total sessions", r.Summary.TotalSessions)
	w.summary("Average productivity", w.number(r.Summary.AverageProductivity))
	w.summary("Total active hours", w.number(r.Summary.TotalActiveHours))
	return w, nil
}

func overviewWorkbook(r report.OverviewReport) (*workbook, error) {
	w, err := newWorkbook("Overview", report.ReportRequest{StartDate: r.StartDate, EndDate: r.EndDate}, r.GeneratedAt)
	if err != nil {
		return nil, err
	}

	w.header("Group", "Value", "Headcount")
	n := 0
	for _, key := range sortedKeys(r.ByRole) {
		w.row(n, "role", key, r.ByRole[key])
		n++
	}
	for _, key := range sortedKeys(r.ByStatus) {
		w.row(n, "status", key, r.ByStatus[key])
		n++
	}

	w.summary("Total staff", r.TotalStaff)
	w.summary("New hires", r.NewHires)
	w.summary("Terminations", r.Terminations)
	return w, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
