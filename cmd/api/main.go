package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/repository/postgresql"
	proposalService "github.com/cmlabs-hris/hris-timesheet-go/internal/service/proposal"
	scheduleService "github.com/cmlabs-hris/hris-timesheet-go/internal/service/schedule"
	timesheetService "github.com/cmlabs-hris/hris-timesheet-go/internal/service/timesheet"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	loc, err := cfg.Timesheet.Location()
	if err != nil {
		return fmt.Errorf("error loading timezone: %w", err)
	}

	db, err := database.NewPostgreSQLDB(database.Options{
		DSN:      cfg.DatabaseURL(),
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	txManager := postgresql.NewTxManager(db)
	entryRepo := postgresql.NewTimesheetEntryRepository(db)
	monthlyRepo := postgresql.NewMonthlyTimesheetRepository(db)
	calendarRepo := postgresql.NewCalendarRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	contractRepo := postgresql.NewContractRepository(db)
	exemptionRepo := postgresql.NewExemptionRepository(db)
	proposalRepo := postgresql.NewProposalRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	snapshotService := timesheetService.NewSnapshotService(
		timesheetService.NewDayTypeResolver(calendarRepo),
		workScheduleRepo,
		contractRepo,
		exemptionRepo,
	)
	timesheetSvc := timesheetService.NewTimesheetService(
		txManager,
		entryRepo,
		monthlyRepo,
		proposalRepo,
		contractRepo,
		employeeRepo,
		snapshotService,
		timesheetService.Options{
			Location:            loc,
			Workers:             cfg.Timesheet.Workers,
			StandardHoursPerDay: cfg.Timesheet.StandardHoursPerDay,
		},
	)
	proposalSvc := proposalService.NewProposalService(txManager, proposalRepo, entryRepo, timesheetSvc.Recalculation(), loc)
	scheduleSvc := scheduleService.NewScheduleService(workScheduleRepo, timesheetSvc.Recalculation(), loc, nil)

	scheduler := cron.NewScheduler(loc)
	timesheetJobs := cron.NewTimesheetJobs(timesheetSvc, cron.TimesheetSchedule{
		FinalizeSpec:     cfg.Timesheet.FinalizeCron,
		RefreshSpec:      cfg.Timesheet.RefreshCron,
		ProvisionSpec:    cfg.Timesheet.ProvisionCron,
		RefreshBatchSize: cfg.Timesheet.RefreshBatchSize,
	})
	if err := timesheetJobs.RegisterJobs(scheduler); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       logLevel,
		},
		JWTService,
		appHTTP.NewTimesheetHandler(timesheetSvc),
		appHTTP.NewProposalHandler(proposalSvc),
		appHTTP.NewScheduleHandler(scheduleSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
