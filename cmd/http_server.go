package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eunbikang/worklog-management/internal"
	"github.com/eunbikang/worklog-management/internal/auth"
	authPostgres "github.com/eunbikang/worklog-management/internal/auth/postgres"
	"github.com/eunbikang/worklog-management/internal/employee"
	employeePostgres "github.com/eunbikang/worklog-management/internal/employee/postgres"
	"github.com/eunbikang/worklog-management/internal/metrics"
	"github.com/eunbikang/worklog-management/internal/report"
	reportPostgres "github.com/eunbikang/worklog-management/internal/report/postgres"
	"github.com/eunbikang/worklog-management/internal/transport/rest"
	"github.com/eunbikang/worklog-management/internal/worklog"
	worklogPostgres "github.com/eunbikang/worklog-management/internal/worklog/postgres"
	"github.com/eunbikang/worklog-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	lg := logger.L()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	lg.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			lg.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pooled pgx connection the health check pings
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.NewMetrics(registry)
	var metricsHandler http.Handler
	if config.Observability.Metrics.Enabled {
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	tokenGen := &auth.JWTTokenGenerator{
		Secret:   []byte(config.Security.JWTSecret),
		TokenTTL: config.Security.TokenDuration,
	}

	authRepo := authPostgres.NewAuthRepository(gormDB)
	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	workLogRepo := worklogPostgres.NewWorkLogRepository(gormDB)
	reportRepo := reportPostgres.NewReportRepository(gormDB)

	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	employeeService := employee.NewService(employeeRepo, config.Security.BCryptCost, appMetrics, lg)
	workLogService := worklog.NewService(workLogRepo, employeeRepo, appMetrics, lg)
	reportService := report.NewService(reportRepo, appMetrics, lg)

	authHandler := auth.NewHandler(authService)
	roleAuthz := auth.NewRoleAuthorization(lg)
	employeeHandler := employee.NewHandler(employeeService)
	workLogHandler := worklog.NewHandler(workLogService)
	reportHandler := report.NewHandler(reportService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, roleAuthz, employeeHandler, workLogHandler, reportHandler, metricsHandler, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
