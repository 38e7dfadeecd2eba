package report

import (
	"math"
	"sort"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/performance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/report"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/salary"
	"github.com/shopspring/decimal"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

// AttendanceRate is attended days over expected days, where expected is the larger of
// scheduled shifts and recorded attended-or-absent days.
func AttendanceRate(r report.AttendanceRow) float64 {
	attended := r.DaysPresent + r.DaysLate + r.DaysEarlyDeparture
	expected := r.ScheduledShifts
	if recorded := attended + r.DaysAbsent; recorded > expected {
		expected = recorded
	}
	return percent(attended, expected)
}

// PunctualityScore is the share of attended days that started on time.
func PunctualityScore(r report.AttendanceRow) float64 {
	attended := r.DaysPresent + r.DaysLate + r.DaysEarlyDeparture
	return percent(attended-r.DaysLate, attended)
}

func buildAttendanceRow(r report.AttendanceRow) report.AttendanceReportRow {
	return report.AttendanceReportRow{
		StaffID:            r.StaffID,
		StaffName:          r.StaffName,
		Role:               r.Role,
		ScheduledShifts:    r.ScheduledShifts,
		DaysPresent:        r.DaysPresent,
		DaysLate:           r.DaysLate,
		DaysAbsent:         r.DaysAbsent,
		DaysEarlyDeparture: r.DaysEarlyDeparture,
		DaysOnLeave:        r.DaysOnLeave,
		TotalHours:         round2(r.TotalHours),
		OvertimeHours:      round2(r.OvertimeHours),
		TotalLateMinutes:   r.TotalLateMinutes,
		AttendanceRate:     AttendanceRate(r),
		PunctualityScore:   PunctualityScore(r),
	}
}

func buildAttendance(rows []report.AttendanceRow) ([]report.AttendanceReportRow, report.AttendanceReportSummary) {
	out := make([]report.AttendanceReportRow, 0, len(rows))
	var sum report.AttendanceReportSummary
	var rateTotal, punctualityTotal float64
	for _, r := range rows {
		row := buildAttendanceRow(r)
		out = append(out, row)
		rateTotal += row.AttendanceRate
		punctualityTotal += row.PunctualityScore
		sum.TotalHours += row.TotalHours
		sum.TotalOvertimeHours += row.OvertimeHours
	}

	sum.TotalStaff = len(out)
	sum.TotalHours = round2(sum.TotalHours)
	sum.TotalOvertimeHours = round2(sum.TotalOvertimeHours)
	if len(out) > 0 {
		sum.AverageAttendanceRate = round2(rateTotal / float64(len(out)))
		sum.AveragePunctualityScore = round2(punctualityTotal / float64(len(out)))
	}
	return out, sum
}

// buildPayrollRow sums the payments recorded in the period and otherwise calculates
// from the active salary. Staff with neither get a zero row.
func buildPayrollRow(r report.PayrollRow, start, end time.Time) report.PayrollReportRow {
	row := report.PayrollReportRow{
		StaffID:       r.StaffID,
		StaffName:     r.StaffName,
		Role:          r.Role,
		PaymentStatus: report.PaymentStatusCalculated,
	}

	switch {
	case len(r.Payments) > 0:
		row.Currency = r.Payments[0].Currency
		row.PaymentStatus = string(salary.PaymentStatusPaid)
		for _, p := range r.Payments {
			row.BasePay = row.BasePay.Add(p.BasePay)
			row.OvertimeHours = row.OvertimeHours.Add(p.OvertimeHours)
			row.OvertimePay = row.OvertimePay.Add(p.OvertimePay)
			row.Commission = row.Commission.Add(p.Commission)
			row.Bonus = row.Bonus.Add(p.Bonus)
			row.Deductions = row.Deductions.Add(p.Deductions)
			row.GrossPay = row.GrossPay.Add(p.GrossPay)
			row.NetPay = row.NetPay.Add(p.NetPay)
			// any unpaid period leaves the row pending
			if p.Status != salary.PaymentStatusPaid {
				row.PaymentStatus = string(salary.PaymentStatusPending)
			}
		}
	case r.Salary != nil:
		b := salary.Calculate(*r.Salary, salary.PayrollInput{
			PeriodStart:   start,
			PeriodEnd:     end,
			RegularHours:  decimal.NewFromFloat(r.RegularHours),
			OvertimeHours: decimal.NewFromFloat(r.OvertimeHours),
		})
		row.Currency = b.Currency
		row.BasePay = b.BasePay
		row.OvertimeHours = b.OvertimeHours
		row.OvertimePay = b.OvertimePay
		row.Commission = b.Commission
		row.Bonus = b.Bonus
		row.Deductions = b.Deductions
		row.GrossPay = b.GrossPay
		row.NetPay = b.NetPay
	}
	return row
}

func buildPayroll(rows []report.PayrollRow, start, end time.Time) ([]report.PayrollReportRow, report.PayrollReportSummary) {
	out := make([]report.PayrollReportRow, 0, len(rows))
	var sum report.PayrollReportSummary
	for _, r := range rows {
		row := buildPayrollRow(r, start, end)
		out = append(out, row)
		sum.TotalGross = sum.TotalGross.Add(row.GrossPay)
		sum.TotalNet = sum.TotalNet.Add(row.NetPay)
		sum.TotalOvertimeCost = sum.TotalOvertimeCost.Add(row.OvertimePay)
		sum.TotalCommissionCost = sum.TotalCommissionCost.Add(row.Commission)
		sum.TotalBonus = sum.TotalBonus.Add(row.Bonus)
	}
	sum.StaffCount = len(out)
	return out, sum
}

// buildPerformance groups review rows, which arrive ordered by staff and review date.
func buildPerformance(rows []report.ReviewRow) ([]report.PerformanceReportRow, report.PerformanceReportSummary) {
	out := make([]report.PerformanceReportRow, 0)
	index := map[string]int{}
	ratings := map[string][]float64{}
	var total float64
	for _, r := range rows {
		if _, ok := index[r.StaffID]; !ok {
			index[r.StaffID] = len(out)
			out = append(out, report.PerformanceReportRow{StaffID: r.StaffID, StaffName: r.StaffName, Role: r.Role})
		}
		ratings[r.StaffID] = append(ratings[r.StaffID], r.Rating)
		total += r.Rating
	}

	sum := report.PerformanceReportSummary{
		TopPerformers:    []report.PerformanceReportRow{},
		NeedsImprovement: []report.PerformanceReportRow{},
	}
	for i := range out {
		rs := ratings[out[i].StaffID]
		var staffTotal float64
		for _, v := range rs {
			staffTotal += v
		}
		out[i].ReviewCount = len(rs)
		out[i].AverageRating = round2(staffTotal / float64(len(rs)))
		out[i].LatestRating = rs[len(rs)-1]
		out[i].Trend = performance.ClassifyTrend(rs)

		switch out[i].Trend {
		case performance.TrendImproving:
			sum.Improving++
		case performance.TrendDeclining:
			sum.Declining++
		default:
			sum.Stable++
		}
		if out[i].AverageRating < report.NeedsImprovementRating {
			sum.NeedsImprovement = append(sum.NeedsImprovement, out[i])
		}
	}

	sum.ReviewedStaff = len(out)
	if len(rows) > 0 {
		sum.AverageRating = round2(total / float64(len(rows)))
	}

	ranked := make([]report.PerformanceReportRow, len(out))
	copy(ranked, out)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].AverageRating > ranked[j].AverageRating })
	if len(ranked) > report.MaxTopPerformers {
		ranked = ranked[:report.MaxTopPerformers]
	}
	sum.TopPerformers = append(sum.TopPerformers, ranked...)
	return out, sum
}

func buildActivityRow(r report.ActivityRow) report.ActivityReportRow {
	return report.ActivityReportRow{
		StaffID:           r.StaffID,
		StaffName:         r.StaffName,
		Sessions:          r.Sessions,
		ActiveMinutes:     round2(r.ActiveMinutes),
		IdleMinutes:       round2(r.IdleMinutes),
		PagesVisited:      r.PagesVisited,
		ActionsPerformed:  r.ActionsPerformed,
		TasksCompleted:    r.TasksCompleted,
		TasksFailed:       r.TasksFailed,
		ProductivityScore: r.Score(),
	}
}

// buildActivity averages productivity over staff that had at least one session.
func buildActivity(rows []report.ActivityRow) ([]report.ActivityReportRow, report.ActivityReportSummary) {
	out := make([]report.ActivityReportRow, 0, len(rows))
	var sum report.ActivityReportSummary
	var scoreTotal, activeMinutes float64
	var withSessions int
	for _, r := range rows {
		row := buildActivityRow(r)
		out = append(out, row)
		sum.TotalSessions += row.Sessions
		activeMinutes += row.ActiveMinutes
		if row.Sessions > 0 {
			scoreTotal += row.ProductivityScore
			withSessions++
		}
	}
	if withSessions > 0 {
		sum.AverageProductivity = round2(scoreTotal / float64(withSessions))
	}
	sum.TotalActiveHours = round2(activeMinutes / 60)
	return out, sum
}

// reviewSummary turns report review rows into the per-staff performance summary.
func reviewSummary(staffID string, rows []report.ReviewRow) performance.Summary {
	reviews := make([]performance.StaffPerformanceReview, 0, len(rows))
	for _, r := range rows {
		reviews = append(reviews, performance.StaffPerformanceReview{
			StaffID:         r.StaffID,
			OverallRating:   r.Rating,
			CategoryRatings: r.CategoryRatings,
			ReviewDate:      r.ReviewDate,
		})
	}
	return performance.Summarize(staffID, reviews)
}
