package http

import (
	"log/slog"
	"net/http"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/middleware"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig holds the non-handler inputs of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	// UploadPath is served under /uploads when set (local storage).
	UploadPath string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	staffHandler StaffHandler,
	salaryHandler SalaryHandler,
	shiftHandler ShiftHandler,
	attendanceHandler AttendanceHandler,
	reviewHandler ReviewHandler,
	activityHandler ActivityHandler,
	documentHandler DocumentHandler,
	reportHandler ReportHandler,
	dashboardHandler DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  cfg.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadPath != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadPath))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// The event stream authenticates with its own short-lived query token
		r.Get("/dashboard/stream", dashboardHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", dashboardHandler.GetDashboard)
				r.Post("/stream-token", dashboardHandler.StreamToken)
				r.Get("/{role}", dashboardHandler.GetRoleDashboard)
			})

			r.Route("/staff", func(r chi.Router) {
				r.With(middleware.RequirePermission(staff.PermissionStaffView)).Get("/", staffHandler.ListStaff)
				r.With(middleware.RequirePermission(staff.PermissionStaffManage)).Post("/", staffHandler.CreateStaff)

				r.Route("/salaries/{id}", func(r chi.Router) {
					r.Use(middleware.RequirePermission(staff.PermissionSalaryManage))
					r.Put("/", salaryHandler.UpdateSalary)
					r.Delete("/", salaryHandler.DeleteSalary)
				})

				r.Route("/payroll", func(r chi.Router) {
					r.With(middleware.RequirePermission(staff.PermissionSalaryView)).Post("/calculate", salaryHandler.CalculatePayroll)
					r.With(middleware.RequirePermission(staff.PermissionSalaryView)).Get("/payments", salaryHandler.ListPayments)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(staff.PermissionSalaryManage))
						r.Post("/payments", salaryHandler.CreatePayment)
						r.Post("/payments/pay", salaryHandler.MarkPaid)
						r.Delete("/payments/{id}", salaryHandler.DeletePayment)
					})
				})

				r.Route("/shifts", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(staff.PermissionShiftView))
						r.Get("/", shiftHandler.ListShifts)
						r.Get("/calendar.ics", shiftHandler.Calendar)
						r.Get("/on-duty", shiftHandler.OnDuty)
						r.Get("/upcoming", shiftHandler.Upcoming)
						r.Get("/{id}", shiftHandler.GetShift)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(staff.PermissionShiftManage))
						r.Post("/", shiftHandler.CreateShift)
						r.Post("/bulk", shiftHandler.BulkCreate)
						r.Put("/{id}", shiftHandler.UpdateShift)
						r.Delete("/{id}", shiftHandler.DeleteShift)
						r.Post("/{id}/start", shiftHandler.StartShift)
						r.Post("/{id}/end", shiftHandler.EndShift)
						r.Post("/{id}/cancel", shiftHandler.CancelShift)
					})
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Post("/clock-in", attendanceHandler.ClockIn)
					r.Post("/clock-out", attendanceHandler.ClockOut)
					r.Post("/kiosk/clock-in", attendanceHandler.KioskClockIn)
					r.Get("/my", attendanceHandler.GetMyAttendance)
					r.Get("/summary", attendanceHandler.GetSummary)
					r.With(middleware.RequirePermission(staff.PermissionAttendanceViewAll)).Get("/", attendanceHandler.ListAttendance)
					r.Get("/{id}", attendanceHandler.GetAttendance)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(staff.PermissionAttendanceManage))
						r.Post("/manual", attendanceHandler.RecordManual)
						r.Put("/{id}", attendanceHandler.UpdateAttendance)
					})
				})

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", reviewHandler.ListReviews)
					r.Get("/{id}", reviewHandler.GetReview)
					r.Post("/{id}/acknowledge", reviewHandler.AcknowledgeReview)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(staff.PermissionPerformanceManage))
						r.Post("/", reviewHandler.CreateReview)
						r.Put("/{id}", reviewHandler.UpdateReview)
						r.Delete("/{id}", reviewHandler.DeleteReview)
						r.Post("/{id}/submit", reviewHandler.SubmitReview)
					})
				})

				r.Route("/activity", func(r chi.Router) {
					r.Post("/sessions", activityHandler.StartSession)
					r.Get("/sessions", activityHandler.ListSessions)
					r.Get("/sessions/{sid}", activityHandler.GetSession)
					r.Post("/sessions/{sid}/events", activityHandler.RecordEvents)
					r.Post("/sessions/{sid}/heartbeat", activityHandler.Heartbeat)
					r.Post("/sessions/{sid}/end", activityHandler.EndSession)
					r.Get("/logs", activityHandler.ListLogs)
					r.With(middleware.RequirePermission(staff.PermissionActivityView)).Get("/online", activityHandler.OnlineStaff)
				})

				r.Route("/documents", func(r chi.Router) {
					r.With(middleware.RequirePermission(staff.PermissionDocumentsManage)).Get("/expiring", documentHandler.Expiring)
					r.Get("/{docID}", documentHandler.Get)
					r.With(middleware.RequirePermission(staff.PermissionDocumentsManage)).Delete("/{docID}", documentHandler.Delete)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Use(middleware.RequirePermission(staff.PermissionReportsView))
					r.Get("/attendance", reportHandler.GetAttendanceReport)
					r.Get("/payroll", reportHandler.GetPayrollReport)
					r.Get("/performance", reportHandler.GetPerformanceReport)
					r.Get("/activity", reportHandler.GetActivityReport)
					r.Get("/overview", reportHandler.GetOverviewReport)
					r.Get("/staff/{id}", reportHandler.GetStaffReport)
					r.Get("/{type}/export", reportHandler.Export)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", staffHandler.GetStaff)
					r.With(middleware.RequirePermission(staff.PermissionStaffView)).Get("/permissions", staffHandler.GetPermissions)
					r.Get("/performance", reviewHandler.GetSummary)
					r.Get("/activity/summary", activityHandler.GetSummary)
					r.Get("/documents", documentHandler.ListByStaff)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(staff.PermissionStaffManage))
						r.Put("/", staffHandler.UpdateStaff)
						r.Delete("/", staffHandler.DeleteStaff)
						r.Patch("/status", staffHandler.UpdateStatus)
						r.Put("/pin", staffHandler.SetPIN)
						r.Post("/avatar", staffHandler.UploadAvatar)
						r.Put("/permissions", staffHandler.UpdatePermissions)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(staff.PermissionSalaryView))
						r.Get("/salary", salaryHandler.GetCurrentSalary)
						r.Get("/salary/history", salaryHandler.ListSalaryHistory)
					})
					r.With(middleware.RequirePermission(staff.PermissionSalaryManage)).Post("/salary", salaryHandler.CreateSalary)
					r.With(middleware.RequirePermission(staff.PermissionDocumentsManage)).Post("/documents", documentHandler.Upload)
				})
			})
		})
	})
	return r
}
