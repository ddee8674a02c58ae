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

	cancelBookingHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/delete_booking"
	getAvailabilityHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/get_booking"
	getOperatorScheduleHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/get_operator_schedule"
	listBookingsHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/list_bookings"
	manageScheduleHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/manage_schedule"
	updateBookingStatusHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/update_booking_status"
	validateCouponHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/validate_coupon"
	verifyPaymentHandler "github.com/chillthrive/CT-BookingService/internal/api/handlers/verify_payment"
	"github.com/chillthrive/CT-BookingService/internal/api/middleware"
	"github.com/chillthrive/CT-BookingService/internal/config"
	"github.com/chillthrive/CT-BookingService/internal/domain"
	bookingRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/booking"
	couponRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/coupon"
	scheduleRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/schedule"
	serviceRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/service"
	"github.com/chillthrive/CT-BookingService/internal/integrations/mailer"
	"github.com/chillthrive/CT-BookingService/internal/pricing"
	bookingsService "github.com/chillthrive/CT-BookingService/internal/service/bookings"
	scheduleService "github.com/chillthrive/CT-BookingService/internal/service/schedule"
	createBookingUC "github.com/chillthrive/CT-BookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/chillthrive/CT-BookingService/internal/usecase/get_availability"
	"github.com/chillthrive/CT-BookingService/pkg/dbmetrics"
	"github.com/chillthrive/CT-BookingService/pkg/logger"
	"github.com/chillthrive/CT-BookingService/pkg/metrics"
	"github.com/chillthrive/CT-BookingService/pkg/simpletxmanager"
	"github.com/chillthrive/CT-BookingService/pkg/txmanager"
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

	log.Info("Starting CT-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Таймзона бизнеса: все вычисления "сегодня/сейчас" идут в ней
	tzName := cfg.Business.Timezone
	if tzName == "" {
		tzName = domain.DefaultBusinessTimezone
	}
	location, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatal("Failed to load business timezone %q: %v", tzName, err)
	}
	log.Info("Business timezone: %s", tzName)

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

	// Почтовый клиент (опционален: без него подтверждения не отправляются)
	var mailClient *mailer.Client
	if cfg.Mailer.Enabled {
		mailClient = mailer.NewClient(
			cfg.Mailer.URL,
			cfg.Mailer.APIKey,
			cfg.Mailer.From,
			time.Duration(cfg.Mailer.Timeout)*time.Second,
			log,
		)
		log.Info("Mailer initialized (url=%s, from=%s, timeout=%ds)",
			cfg.Mailer.URL, cfg.Mailer.From, cfg.Mailer.Timeout)
	} else {
		log.Info("Mailer disabled, booking confirmations will not be sent")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		serviceRepository  *serviceRepo.Repository
		couponRepository   *couponRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		couponRepository = couponRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		couponRepository = couponRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Ценообразование
	pricingEngine := pricing.NewEngine(couponRepository, &pricing.RealTimeProvider{}, log)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		cfg.Payment.Secret,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		serviceRepository,
		scheduleRepository,
		bookingRepository,
		location,
		log,
	)

	var bookingMailer createBookingUC.Mailer
	if mailClient != nil {
		bookingMailer = mailClient
	}
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		scheduleRepository,
		pricingEngine,
		bookingMailer,
		txMgr,
		location,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	verifyPayment := verifyPaymentHandler.NewHandler(bookingSvc, log)
	validateCoupon := validateCouponHandler.NewHandler(serviceRepository, pricingEngine, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	manageSchedule := manageScheduleHandler.NewHandler(scheduleSvc, log)
	getOperatorSchedule := getOperatorScheduleHandler.NewHandler(getAvailabilityUseCase, scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
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

	// Доступность слотов на дату
	api.HandleFunc("/services/{serviceId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Подтверждение онлайн-оплаты
	api.HandleFunc("/bookings/{bookingId}/verify-payment", verifyPayment.Handle).Methods(http.MethodPost)

	// Проверка купона
	api.HandleFunc("/coupons/validate", validateCoupon.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

	// Операторский обзор дня
	admin.HandleFunc("/schedule", getOperatorSchedule.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	// Список бронирований услуги
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Смена статуса бронирования
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Удаление отменённого бронирования
	admin.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Шаблоны слотов ---
	admin.HandleFunc("/slot-templates", manageSchedule.HandleListTemplates).Methods(http.MethodGet)
	admin.HandleFunc("/slot-templates", manageSchedule.HandleCreateTemplate).Methods(http.MethodPost)
	admin.HandleFunc("/slot-templates/{templateId}", manageSchedule.HandleUpdateTemplate).Methods(http.MethodPatch)
	admin.HandleFunc("/slot-templates/{templateId}", manageSchedule.HandleDeleteTemplate).Methods(http.MethodDelete)

	// --- Исключения расписания ---
	admin.HandleFunc("/exceptions", manageSchedule.HandleListExceptions).Methods(http.MethodGet)
	admin.HandleFunc("/exceptions", manageSchedule.HandleCreateException).Methods(http.MethodPost)
	admin.HandleFunc("/exceptions/{exceptionId}", manageSchedule.HandleUpdateException).Methods(http.MethodPatch)
	admin.HandleFunc("/exceptions/{exceptionId}", manageSchedule.HandleDeleteException).Methods(http.MethodDelete)

	// --- Закрытия дней ---
	admin.HandleFunc("/closures", manageSchedule.HandleCreateClosure).Methods(http.MethodPost)
	admin.HandleFunc("/closures", manageSchedule.HandleListClosures).Methods(http.MethodGet)
	admin.HandleFunc("/closures/{closureId}", manageSchedule.HandleDeleteClosure).Methods(http.MethodDelete)

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
