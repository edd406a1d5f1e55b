package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fichai/config"
	"fichai/domain"
	"fichai/middleware"
	attendanceDelivery "fichai/services/attendance/delivery"
	attendanceRepository "fichai/services/attendance/repository"
	"fichai/services/attendance/scheduler"
	attendanceUsecase "fichai/services/attendance/usecase"
	notificationDelivery "fichai/services/notification/delivery"
	notificationRepository "fichai/services/notification/repository"
	notificationUsecase "fichai/services/notification/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger
var wg sync.WaitGroup

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, reading configuration from the environment")
	}

	log = config.GetLogrusInstance()

	startHTTP()
}

func startHTTP() {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetCorsOrigins(),
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Kiosk-Code, X-Request-ID",
	}))
	app.Use(middleware.RequestContext(config.GetContextTimeout()))

	db, err := config.BootDB()
	if err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
		return
	}

	senders, err := config.InitSenders()
	if err != nil {
		log.Fatalf("Failed to init senders: %v", err)
		return
	}

	timeOut := config.GetContextTimeout()

	// Regis repo and Usecase Here
	institutionRepo := attendanceRepository.NewInstitutionRepository(db)
	employeeRepo := attendanceRepository.NewEmployeeRepository(db)
	settingRepo := attendanceRepository.NewSettingRepository(db)
	scheduleRepo := attendanceRepository.NewScheduleRepository(db)
	attendanceRepo := attendanceRepository.NewAttendanceRepository(db)
	alertRepo := attendanceRepository.NewAlertRepository(db)
	justificationRepo := attendanceRepository.NewJustificationRepository(db)
	privacyRepo := attendanceRepository.NewPrivacyRepository(db)
	notificationRepo := notificationRepository.NewNotificationRepository(db)

	notificationUC := notificationUsecase.NewNotificationUseCase(
		notificationRepo,
		employeeRepo,
		notificationRepository.NewAlertChannels(senders),
		config.GetAppName(),
		senders.ContactPhone,
		timeOut,
	)

	var dispatcher domain.AlertDispatcher = notificationUC
	settingUC := attendanceUsecase.NewSettingUseCase(settingRepo, timeOut)
	alertUC := attendanceUsecase.NewAlertUseCase(alertRepo, employeeRepo, dispatcher, timeOut)
	institutionUC := attendanceUsecase.NewInstitutionUseCase(institutionRepo, config.GetKioskIssuer(), timeOut)
	employeeUC := attendanceUsecase.NewEmployeeUseCase(employeeRepo, timeOut)
	authUC := attendanceUsecase.NewAuthUseCase(employeeRepo, timeOut)
	scheduleUC := attendanceUsecase.NewScheduleUseCase(scheduleRepo, employeeRepo, timeOut)
	attendanceUC := attendanceUsecase.NewAttendanceUseCase(
		attendanceRepo,
		employeeRepo,
		institutionRepo,
		scheduleRepo,
		settingUC,
		alertUC,
		attendanceUsecase.QRConfig{Secret: config.GetQRSecret(), TTL: config.GetQRTokenTTL()},
		timeOut,
	)
	justificationUC := attendanceUsecase.NewJustificationUseCase(justificationRepo, employeeRepo, alertRepo, timeOut)
	privacyUC := attendanceUsecase.NewPrivacyUseCase(privacyRepo, timeOut)
	reportUC := attendanceUsecase.NewReportUseCase(institutionRepo, employeeRepo, attendanceRepo, scheduleRepo, settingUC, timeOut)
	scanUC := attendanceUsecase.NewScanUseCase(institutionRepo, employeeRepo, attendanceRepo, scheduleRepo, justificationRepo, settingUC, alertUC)

	// delivery here
	attendanceDelivery.NewAuthHandler(app, authUC)
	attendanceDelivery.NewEmployeeHandler(app, employeeUC)
	attendanceDelivery.NewInstitutionHandler(app, institutionUC)
	attendanceDelivery.NewSettingHandler(app, settingUC)
	attendanceDelivery.NewScheduleHandler(app, scheduleUC, institutionUC)
	attendanceDelivery.NewAttendanceHandler(app, attendanceUC, institutionUC)
	attendanceDelivery.NewAlertHandler(app, alertUC, institutionUC, employeeUC)
	attendanceDelivery.NewJustificationHandler(app, justificationUC)
	attendanceDelivery.NewPrivacyHandler(app, privacyUC)
	attendanceDelivery.NewReportHandler(app, reportUC)
	notificationDelivery.NewNotificationHandler(app, notificationUC)

	jobs, err := scheduler.NewScheduler(scanUC, scheduler.Config{
		MissingCheckoutSpec: config.GetMissingCheckoutSchedule(),
		AbsenceSpec:         config.GetAbsenceSchedule(),
		RunTimeout:          4 * time.Minute,
	}, log)
	if err != nil {
		log.Fatalf("Failed to schedule scans: %v", err)
		return
	}
	jobs.Start()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server for Public on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	<-signalChan

	log.Info("Shutting down the server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	jobs.Stop(ctx)

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	if senders.Meow != nil {
		senders.Meow.Disconnect()
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
}
