package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/nnypa/endorsement_service/config"
	"github.com/nnypa/endorsement_service/infra/queue"
	"github.com/nnypa/endorsement_service/internal/api/rest/handlers"
	"github.com/nnypa/endorsement_service/internal/api/rest/middleware"
	"github.com/nnypa/endorsement_service/internal/domain"
	"github.com/nnypa/endorsement_service/internal/helper"
	"github.com/nnypa/endorsement_service/internal/repository"
	"github.com/nnypa/endorsement_service/internal/services"
	"github.com/nnypa/endorsement_service/pkg/cloudinary"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260830

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Profile{},
		&domain.EndorsementApplication{},
		&domain.ApplicationDocument{},
		&domain.AdminGrant{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	grantRepo := repository.NewAdminGrantRepository(db)

	// ---------- Services ----------
	gate := services.NewAccessGate(grantRepo)
	userSvc := services.NewUserService(
		userRepo,
		profileRepo,
		gate,
		authHelper,
		kafkaProducer,
	)
	appSvc := services.NewApplicationService(
		appRepo,
		userRepo,
		profileRepo,
		gate,
		up,
		kafkaProducer,
	)

	// ---------- Handlers ----------
	userHandler := handlers.NewUserHandler(userSvc, authHelper)
	appHandler := handlers.NewApplicationHandler(appSvc)
	adminHandler := handlers.NewAdminHandler(appSvc, userSvc)
	uploadHandler := handlers.NewUploadHandler(cld)

	// ---------- Routes ----------
	apiGroup := app.Group("/api")

	user := apiGroup.Group("/user")
	user.Post("/register", userHandler.Register)
	user.Post("/verify-email", userHandler.VerifyEmail)
	user.Post("/login", userHandler.Login)
	user.Post("/forgot-password", userHandler.ForgotPassword)
	user.Post("/reset-password", userHandler.SetPassword)

	authed := apiGroup.Group("", middleware.AuthMiddleware(authHelper))

	authed.Get("/user/me", userHandler.Me)
	authed.Get("/user/profile", userHandler.GetProfile)
	authed.Put("/user/profile", userHandler.UpsertProfile)

	authed.Post("/uploads/avatar", uploadHandler.UploadAvatar)

	authed.Post("/applications", appHandler.Submit)
	authed.Get("/applications", appHandler.ListOwn)
	authed.Get("/applications/:appID", appHandler.Get)

	admin := authed.Group("/admin", middleware.AdminOnly(gate))
	admin.Get("/applications", adminHandler.ListApplications)
	admin.Post("/applications/:appID/review", adminHandler.Review)
	admin.Get("/applications/:appID/documents/:docType/url", adminHandler.DocumentURL)
	admin.Get("/profiles", adminHandler.ListProfiles)
	admin.Get("/stats", adminHandler.Stats)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
