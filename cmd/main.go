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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addSeriesInstanceHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/add_series_instance"
	createSeriesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_series"
	denySeriesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/deny_series"
	getSeriesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_series"
	rescheduleSeriesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/reschedule_series"
	updateAccessMethodHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_access_method"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	accessMethodRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/accessmethod"
	occupancyRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/occupancy"
	resourceRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/resource"
	seriesRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/series"
	accessCodeClient "github.com/m04kA/SMC-ReservationService/internal/integrations/accesscode"
	openHoursClient "github.com/m04kA/SMC-ReservationService/internal/integrations/openhours"
	accessMethodService "github.com/m04kA/SMC-ReservationService/internal/service/accessmethod"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotgen"
	addSeriesInstanceUC "github.com/m04kA/SMC-ReservationService/internal/usecase/add_series_instance"
	createSeriesUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_series"
	denySeriesUC "github.com/m04kA/SMC-ReservationService/internal/usecase/deny_series"
	getSeriesUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_series"
	rescheduleSeriesUC "github.com/m04kA/SMC-ReservationService/internal/usecase/reschedule_series"
	updateAccessMethodUC "github.com/m04kA/SMC-ReservationService/internal/usecase/update_access_method"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/memcache"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
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

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Таймзона объектов: все wall-clock вычисления выполняются в ней
	location, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
	}
	log.Info("Facility timezone: %s, horizon: %d days, default start interval: %d min",
		cfg.Booking.Timezone, cfg.Booking.HorizonDays, cfg.Booking.DefaultStartIntervalMinutes)

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

	// Инициализируем интеграционных клиентов
	// Ответы сервиса часов работы кэшируются с явным TTL
	openHoursCache := memcache.New()
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.OpenHours.CacheTTLMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			openHoursCache.Purge()
		}
	}()
	openHours := openHoursClient.NewClient(
		cfg.OpenHours.URL,
		time.Duration(cfg.OpenHours.Timeout)*time.Second,
		openHoursCache,
		time.Duration(cfg.OpenHours.CacheTTLMinutes)*time.Minute,
		location,
		log,
	)
	accessCodes := accessCodeClient.NewClient(
		cfg.AccessCode.URL,
		time.Duration(cfg.AccessCode.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (OpenHours=%s timeout=%ds cache_ttl=%dm, AccessCode=%s timeout=%ds)",
		cfg.OpenHours.URL, cfg.OpenHours.Timeout, cfg.OpenHours.CacheTTLMinutes,
		cfg.AccessCode.URL, cfg.AccessCode.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		seriesRepository       *seriesRepo.Repository
		resourceRepository     *resourceRepo.Repository
		occupancyRepository    *occupancyRepo.Repository
		accessMethodRepository *accessMethodRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		seriesRepository = seriesRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		occupancyRepository = occupancyRepo.NewRepository(wrappedDB)
		accessMethodRepository = accessMethodRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		seriesRepository = seriesRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		occupancyRepository = occupancyRepo.NewRepository(db)
		accessMethodRepository = accessMethodRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	accessResolver := accessMethodService.NewResolver(accessMethodRepository, log)
	generator := slotgen.NewGenerator(occupancyRepository, openHours, location, log)

	// Инициализируем use cases
	createSeriesUseCase := createSeriesUC.NewUseCase(
		seriesRepository,
		resourceRepository,
		generator,
		accessResolver,
		accessCodes,
		txMgr,
		location,
		cfg.Booking.HorizonDays,
		log,
	)

	rescheduleSeriesUseCase := rescheduleSeriesUC.NewUseCase(
		seriesRepository,
		resourceRepository,
		generator,
		accessResolver,
		accessCodes,
		txMgr,
		location,
		cfg.Booking.HorizonDays,
		log,
	)

	addSeriesInstanceUseCase := addSeriesInstanceUC.NewUseCase(
		seriesRepository,
		resourceRepository,
		generator,
		accessResolver,
		accessCodes,
		txMgr,
		log,
	)

	denySeriesUseCase := denySeriesUC.NewUseCase(
		seriesRepository,
		accessCodes,
		txMgr,
		log,
	)

	getSeriesUseCase := getSeriesUC.NewUseCase(seriesRepository, log)

	updateAccessMethodUseCase := updateAccessMethodUC.NewUseCase(
		accessResolver,
		resourceRepository,
		log,
	)

	// Инициализируем handlers
	// Типизированный nil в интерфейсе не равен nil, поэтому бизнес-метрики
	// передаются только когда сбор метрик включен
	var seriesMetrics createSeriesHandler.Metrics
	if cfg.Metrics.Enabled {
		seriesMetrics = metricsCollector
	}
	createSeries := createSeriesHandler.NewHandler(createSeriesUseCase, seriesMetrics, log)
	rescheduleSeries := rescheduleSeriesHandler.NewHandler(rescheduleSeriesUseCase, log)
	addSeriesInstance := addSeriesInstanceHandler.NewHandler(addSeriesInstanceUseCase, log)
	denySeries := denySeriesHandler.NewHandler(denySeriesUseCase, log)
	getSeries := getSeriesHandler.NewHandler(getSeriesUseCase, log)
	updateAccessMethod := updateAccessMethodHandler.NewHandler(updateAccessMethodUseCase, log)

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

	// Просмотр серии с инстансами и историей отказов
	api.HandleFunc("/series/{seriesId}", getSeries.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Серии бронирований ---
	// Создание серии по правилу повторения
	protected.HandleFunc("/series", createSeries.Handle).Methods(http.MethodPost)

	// Перепланирование серии (новое правило повторения)
	protected.HandleFunc("/series/{seriesId}/reschedule", rescheduleSeries.Handle).Methods(http.MethodPut)

	// Добавление одиночного инстанса к серии
	protected.HandleFunc("/series/{seriesId}/instances", addSeriesInstance.Handle).Methods(http.MethodPost)

	// --- Операции персонала ---
	// Отклонение серии (все будущие активные инстансы)
	protected.HandleFunc("/series/{seriesId}/deny", denySeries.Handle).Methods(http.MethodPost)

	// Смена способа доступа ресурса с указанной даты
	protected.HandleFunc("/resources/{resourceId}/access-method", updateAccessMethod.Handle).Methods(http.MethodPost)

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
