package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"

	"rolodrawer/config"
	_ "rolodrawer/docs"
	"rolodrawer/internal/handler"
	"rolodrawer/internal/repository"
	"rolodrawer/internal/security"
	"rolodrawer/internal/service"
)

// @title RoloDrawer
// @version 1.0
// @description REST API картотеки бумажных дел: приём, размещение, выдача,
// @description архивирование и фиксация уничтожения с журналами перемещений и выдач

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	jwtRepo := repository.NewJWTRepository(db)
	fileRepo := repository.NewFileRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	checkoutRepo := repository.NewCheckoutRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	tagRepo := repository.NewTagRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(redisClient)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	jwtService := security.NewJWTService(&cfg.JWT)
	fileService := service.NewFileService(fileRepo, movementRepo, locationRepo, tagRepo, cfg.Display.ItemsPerPage)
	lifecycleService := service.NewLifecycleService(fileRepo, movementRepo, checkoutRepo, locationRepo, userRepo)
	locationService := service.NewLocationService(locationRepo, db)
	attachmentService := service.NewAttachmentService(attachmentRepo, fileRepo, s3Service, time.Duration(cfg.Attachments.PresignTTL)*time.Second)
	reminderService := service.NewReminderService(reminderRepo, fileRepo)
	userService := service.NewUserService(userRepo, jwtRepo, db)
	authService := service.NewAuthenticationService(jwtRepo, cfg, jwtService, userRepo, rateLimitRepo, db)

	authHandler := handler.NewAuthenticationHandler(authService, jwtService, jwtRepo)
	fileHandler := handler.NewFileHandler(fileService)
	lifecycleHandler := handler.NewLifecycleHandler(lifecycleService)
	locationHandler := handler.NewLocationHandler(locationService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	userHandler := handler.NewUserHandler(userService)

	router.Use(security.RateLimitMiddleware(rateLimitRepo, cfg.RateLimit.RequestsPerHour))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, jwtService, jwtRepo, cfg)
	setupUserRoutes(router, userHandler, jwtService, jwtRepo, cfg)
	setupFileRoutes(router, fileHandler, lifecycleHandler, attachmentHandler, reminderHandler, jwtService, jwtRepo, cfg)
	setupLocationRoutes(router, locationHandler, jwtService, jwtRepo, cfg)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))
			r.Post("/refresh", h.RefreshToken)
			r.Post("/logout", h.Logout)
		})
		r.Group(func(r chi.Router) {
			r.Post("/", h.Login)
		})
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))

		r.Get("/", h.ListUsers)
		r.Post("/", h.Register)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Put("/", h.UpdateUser)
			r.Put("/password", h.UpdatePassword)
			r.Delete("/", h.Deactivate)
		})
	})
}

func setupFileRoutes(
	r chi.Router,
	fileHandler *handler.FileHandler,
	lifecycleHandler *handler.LifecycleHandler,
	attachmentHandler *handler.AttachmentHandler,
	reminderHandler *handler.ReminderHandler,
	jwtService *security.JWTService,
	jwtRepo *repository.JWTRepository,
	cfg *config.AppConfig,
) {
	r.Route("/api/files", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))

		r.Get("/", fileHandler.ListFiles)
		r.Post("/", fileHandler.CreateFile)
		r.Post("/bulk-move", lifecycleHandler.BulkMove)
		r.Get("/by-uuid/{uuid}", fileHandler.GetFileByUUID)
		r.Get("/by-number/{number}", fileHandler.GetFileByNumber)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", fileHandler.GetFile)
			r.Put("/", fileHandler.UpdateFile)

			r.Post("/checkout", lifecycleHandler.Checkout)
			r.Post("/checkin", lifecycleHandler.CheckIn)
			r.Post("/move", lifecycleHandler.Move)
			r.Post("/archive", lifecycleHandler.Archive)
			r.Post("/restore", lifecycleHandler.RestoreFromArchive)
			r.Post("/destroy", lifecycleHandler.MarkDestroyed)
			r.Post("/restore-destruction", lifecycleHandler.RestoreFromDestruction)

			r.Get("/movements", lifecycleHandler.Movements)
			r.Get("/checkouts", lifecycleHandler.CheckoutHistory)
			r.Get("/reminders", reminderHandler.ListReminders)

			r.Get("/tags", fileHandler.ListFileTags)
			r.Post("/tags", fileHandler.AssignTag)
			r.Delete("/tags/{tagID}", fileHandler.RemoveTag)

			r.Get("/attachments", attachmentHandler.ListAttachments)
			r.Post("/attachments", attachmentHandler.AddAttachment)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))

		r.Get("/checkouts/overdue", lifecycleHandler.OverdueCheckouts)
		r.Post("/reminders/generate", reminderHandler.GenerateReminders)
		r.Get("/tags", fileHandler.Tags)
		r.Post("/tags", fileHandler.CreateTag)
		r.Delete("/attachments/{attachmentID}", attachmentHandler.DeleteAttachment)
	})
}

func setupLocationRoutes(r chi.Router, h *handler.LocationHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Route("/api/locations", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))
		r.Post("/", h.CreateLocation)
	})

	r.Route("/api/cabinets", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))
		r.Post("/", h.CreateCabinet)
	})

	r.Route("/api/drawers", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService, cfg.Admin.AdminToken))
		r.Get("/", h.ListDrawers)
		r.Post("/", h.CreateDrawer)
		r.Get("/{id}", h.GetDrawerPath)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
