package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/config"
	appHTTP "github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/cron"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/presence"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/sse"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/storage"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/repository/postgresql"
	activityService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/activity"
	attendanceService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/attendance"
	dashboardService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/dashboard"
	documentService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/document"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/file"
	performanceService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/performance"
	reportService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/report"
	salaryService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/salary"
	shiftService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/shift"
	staffService "github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/staff"
	"github.com/go-chi/httplog/v3"
	"github.com/spf13/cobra"
)

const (
	appName         = "vitdaa-staff"
	appVersion      = "v1.0.0"
	shutdownTimeout = 15 * time.Second
)

func newServeCommand() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")

	return cmd
}

func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
}

func newPresenceStore(ctx context.Context, cfg *config.Config) (presence.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		slog.Info("REDIS_ADDR not set, tracking presence in memory")
		return presence.NewMemoryStore(), func() {}, nil
	}

	rdb, err := presence.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	return presence.NewRedisStore(rdb, cfg.Activity.SessionTimeout), func() { _ = rdb.Close() }, nil
}

func newFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	switch cfg.Storage.Type {
	case "local":
		return storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if migrate {
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	presenceStore, closePresence, err := newPresenceStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePresence()

	fileStorage, err := newFileStorage(cfg)
	if err != nil {
		return err
	}

	// Repositories
	tx := postgresql.NewTransactor(db)
	staffRepo := postgresql.NewStaffRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reviewRepo := postgresql.NewReviewRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	logRepo := postgresql.NewActivityLogRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	fileService := file.NewFileService(fileStorage)

	staffSvc := staffService.NewStaffService(staffRepo, fileService)
	salarySvc := salaryService.NewSalaryService(tx, salaryRepo, paymentRepo, staffRepo, attendanceRepo)
	shiftSvc := shiftService.NewShiftService(tx, shiftRepo, staffRepo, hub)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, shiftRepo, staffSvc, staffRepo, hub, attendanceService.Rules{
		Grace:         time.Duration(cfg.Attendance.GraceMinutes) * time.Minute,
		StandardHours: cfg.Attendance.StandardHours,
		StaleAfter:    time.Duration(cfg.Attendance.StaleHours) * time.Hour,
		EarlyClockIn:  time.Duration(cfg.Attendance.EarlyClockInMinutes) * time.Minute,
	})
	reviewSvc := performanceService.NewReviewService(reviewRepo, staffRepo)
	activitySvc := activityService.NewActivityService(tx, sessionRepo, logRepo, presenceStore, activityService.Rules{
		IdleThreshold:  cfg.Activity.IdleThreshold,
		SessionTimeout: cfg.Activity.SessionTimeout,
	})
	documentSvc := documentService.NewDocumentService(documentRepo, staffRepo, fileService)
	reportSvc := reportService.NewReportService(reportRepo, staffRepo)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, attendanceRepo, shiftRepo, paymentRepo, presenceStore, cfg.Activity.IdleThreshold)

	// Background jobs
	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewAttendanceJobs(attendanceSvc, cfg.Cron.Interval).RegisterJobs(scheduler)
		cron.NewActivityJobs(activitySvc, cfg.Activity.IdleThreshold).RegisterJobs(scheduler)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	routerCfg := appHTTP.RouterConfig{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	}
	if cfg.Storage.Type == "local" {
		routerCfg.UploadPath = cfg.Storage.BasePath
	}

	router := appHTTP.NewRouter(
		routerCfg,
		JWTService,
		appHTTP.NewStaffHandler(staffSvc),
		appHTTP.NewSalaryHandler(salarySvc),
		appHTTP.NewShiftHandler(shiftSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewReviewHandler(reviewSvc),
		appHTTP.NewActivityHandler(activitySvc),
		appHTTP.NewDocumentHandler(documentSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewDashboardHandler(dashboardSvc, JWTService, hub),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
