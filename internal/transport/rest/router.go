package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/eunbikang/worklog-management/internal/auth"
	"github.com/eunbikang/worklog-management/internal/employee"
	"github.com/eunbikang/worklog-management/internal/report"
	"github.com/eunbikang/worklog-management/internal/transport/middleware"
	"github.com/eunbikang/worklog-management/internal/transport/swagger"
	"github.com/eunbikang/worklog-management/internal/worklog"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, roleAuthz *auth.RoleAuthorization, employeeHandler *employee.Handler, workLogHandler *worklog.Handler, reportHandler *report.Handler, metricsHandler http.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler)
	}

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/signup", authHandler.Signup)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Get("/auth/me", authHandler.Me)

				// Work log routes; ownership checks live in the service
				if workLogHandler != nil {
					pr.Route("/work-logs", func(wr chi.Router) {
						wr.Get("/", workLogHandler.ListWorkLogs)
						wr.Post("/", workLogHandler.CreateWorkLog)
						wr.Put("/{id}", workLogHandler.UpdateWorkLog)
						wr.Delete("/{id}", workLogHandler.DeleteWorkLog)
					})
				}

				// Employee administration
				if employeeHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.Get("/{id}", employeeHandler.GetEmployee)
						ur.Put("/{id}", employeeHandler.UpdateEmployee)

						// Admin-only routes
						ur.Group(func(ar chi.Router) {
							ar.Use(roleAuthz.RequireAdmin())
							ar.Get("/", employeeHandler.ListEmployees)
							ar.Post("/", employeeHandler.CreateEmployee)
							ar.Delete("/{id}", employeeHandler.DeleteEmployee)
						})
					})
				}

				// Monthly payroll reports
				if reportHandler != nil {
					pr.Route("/reports", func(rr chi.Router) {
						rr.Get("/monthly", reportHandler.MonthlyReport)
						rr.Get("/monthly/export", reportHandler.ExportMonthlyReport)
					})
				}
			})
		}
	})
}
