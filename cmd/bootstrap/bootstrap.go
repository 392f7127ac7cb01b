package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-appointment-booking/config"
	deliveryHttp "go-appointment-booking/internal/delivery/http"
	"go-appointment-booking/internal/delivery/http/handler"
	"go-appointment-booking/internal/delivery/http/middleware"
	"go-appointment-booking/internal/infrastructure/cache"
	"go-appointment-booking/internal/infrastructure/database"
	"go-appointment-booking/internal/repository"
	"go-appointment-booking/internal/service"
	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/jwt"
	"go-appointment-booking/pkg/metrics"
	"go-appointment-booking/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const metricsNamespace = "appointment_booking"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Log: NewLogger(cfg.App.LogLevel)}

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = initializeServer(cfg, app.Log, db, redisClient)

	return app, nil
}

// NewLogger configures the standard logrus logger for JSON output at level
func NewLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}

// initializeServer wires repositories, services, usecases and handlers into the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *http.Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(metricsNamespace, registry)

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorRepo := repository.NewDoctorRepository()
	timeSlotRepo := repository.NewTimeSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewRedisTokenStore(redisClient)
	availabilityCache := service.NewRedisAvailabilityCache(redisClient, cfg.Cache.AvailabilityTTL)
	doctorDirectory := service.NewDoctorDirectory(cfg.Cache.DirectoryTTL)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, doctorRepo, auditService, tokenStore, doctorDirectory, jwtService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, cfg.App.Location, doctorRepo, timeSlotRepo, appointmentRepo, auditService, availabilityCache, appMetrics)
	bookingUsecase := usecase.NewBookingUsecase(db, log, cfg.App.Location, doctorRepo, timeSlotRepo, appointmentRepo, auditService, availabilityCache, appMetrics)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, cfg.App.Location, doctorRepo, timeSlotRepo, appointmentRepo, doctorDirectory, appMetrics)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(dashboardUsecase, availabilityUsecase)
	timeSlotHandler := handler.NewTimeSlotHandler(availabilityUsecase, dashboardUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware("*")
	loggingMiddleware := middleware.NewLoggingMiddleware(log, appMetrics)
	bookingLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  middleware.PerMinute(cfg.RateLimit.BookingPerMinute),
		Burst: cfg.RateLimit.BookingBurst,
	})

	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		timeSlotHandler,
		appointmentHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		bookingLimiter,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and blocks until shutdown completes
func (app *App) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.shutdown()
	return nil
}

func (app *App) shutdown() {
	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
