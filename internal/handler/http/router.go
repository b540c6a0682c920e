package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the deployment settings of the HTTP surface.
type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	timesheetHandler TimesheetHandler,
	proposalHandler ProposalHandler,
	scheduleHandler ScheduleHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-timesheet"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/timesheets", func(r chi.Router) {
				r.Post("/punches", timesheetHandler.IngestPunch)

				r.Route("/employees/{employeeID}", func(r chi.Router) {
					r.Get("/entries", timesheetHandler.ListEntries)
					r.Get("/monthly/{monthKey}", timesheetHandler.GetMonthly)
					r.Post("/monthly/{monthKey}/refresh", timesheetHandler.RefreshMonthly)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(jwt.RoleAdmin))
					r.Post("/recalculate", timesheetHandler.Recalculate)
				})
			})

			// Approval workflow hooks
			r.Route("/proposals/{id}", func(r chi.Router) {
				r.Post("/execute", proposalHandler.Execute)
				r.Post("/revoke", proposalHandler.Revoke)
			})

			r.Route("/work-schedules", func(r chi.Router) {
				r.Get("/", scheduleHandler.ListWorkSchedules)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(jwt.RoleAdmin))
					r.Put("/{weekday}", scheduleHandler.UpsertWorkSchedule)
				})
			})
		})
	})
	return r
}
