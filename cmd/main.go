package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingOptionsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking_options"
	getStaffScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_staff_schedule"
	getTenantAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_tenant_appointments"
	updateAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment"
	updateOperatingHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_operating_hours"
	updateScheduleBlockHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_schedule_block"
	updateStaffScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_staff_schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	locationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/location"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	updateStaffScheduleUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_staff_schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции (если включены)
	if cfg.Migrations.Enabled {
		if err := runMigrations(db, cfg.Migrations.Path); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied from %s", cfg.Migrations.Path)
	}

	// Инициализируем публикатор событий (или заглушку)
	var publisher createAppointmentUC.EventPublisher
	var publisherCloser func() error
	if cfg.Events.Enabled {
		kafkaPublisher := events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, log)
		publisher = kafkaPublisher
		publisherCloser = kafkaPublisher.Close
		log.Info("Kafka event publisher initialized (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	} else {
		publisher = events.NopPublisher{}
		publisherCloser = func() error { return nil }
		log.Info("Event publishing disabled")
	}

	// Интерфейс кэша слотов: полный набор методов, usecases и сервисы
	// объявляют у себя только нужные им подмножества
	type SlotCache interface {
		Get(ctx context.Context, locationID, serviceID, staffID int64, date string) ([]domain.AvailableSlot, bool, error)
		Set(ctx context.Context, locationID, serviceID, staffID int64, date string, slots []domain.AvailableSlot) error
		InvalidateStaffDate(ctx context.Context, staffID int64, date string) error
		InvalidateStaff(ctx context.Context, staffID int64) error
		InvalidateLocation(ctx context.Context, locationID int64) error
	}

	// Инициализируем кэш слотов (или заглушку)
	var slotCache SlotCache
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		slotCache = cache.NewSlotCache(redisClient, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		log.Info("Redis slot cache initialized (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTLSeconds)
	} else {
		slotCache = cache.NopSlotCache{}
		log.Info("Slot cache disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		locationRepository    *locationRepo.Repository
		serviceRepository     *serviceRepo.Repository
		staffRepository       *staffRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		locationRepository = locationRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		locationRepository = locationRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		publisher,
		slotCache,
		log,
	)
	catalogSvc := catalogService.NewService(
		locationRepository,
		serviceRepository,
		staffRepository,
		slotCache,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		locationRepository,
		serviceRepository,
		staffRepository,
		txMgr,
		publisher,
		slotCache,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		locationRepository,
		serviceRepository,
		staffRepository,
		txMgr,
		publisher,
		slotCache,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		locationRepository,
		serviceRepository,
		staffRepository,
		slotCache,
		cfg.Booking.SlotStepMinutes,
		log,
	)
	updateStaffScheduleUseCase := updateStaffScheduleUC.NewUseCase(
		staffRepository,
		locationRepository,
		slotCache,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBookingOptions := getBookingOptionsHandler.NewHandler(catalogSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getTenantAppointments := getTenantAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getStaffSchedule := getStaffScheduleHandler.NewHandler(catalogSvc, log)
	updateStaffSchedule := updateStaffScheduleHandler.NewHandler(updateStaffScheduleUseCase, log)
	updateScheduleBlock := updateScheduleBlockHandler.NewHandler(updateStaffScheduleUseCase, log)
	updateOperatingHours := updateOperatingHoursHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каскадный выбор локации/услуги/мастера
	api.HandleFunc("/tenants/{tenantId}/booking-options",
		getBookingOptions.Handle).Methods(http.MethodGet)

	// Доступные слоты календаря
	api.HandleFunc("/calendar/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Tenant-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/tenants/{tenantId}/appointments", getTenantAppointments.Handle).Methods(http.MethodGet)

	// --- Расписания сотрудников ---
	protected.HandleFunc("/staff/{staffId}/locations/{locationId}/schedule",
		getStaffSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/locations/{locationId}/schedule",
		updateStaffSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/staff/{staffId}/locations/{locationId}/schedule/block",
		updateScheduleBlock.Handle).Methods(http.MethodPatch)

	// --- Локации ---
	protected.HandleFunc("/locations/{locationId}/operating-hours",
		updateOperatingHours.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	// Закрываем публикатор событий и клиент Redis
	if err := publisherCloser(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runMigrations применяет миграции поверх открытого соединения
func runMigrations(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", path), "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}
