package app

import (
	"context"
	"errors"
	"fmt"

	"cardkey_backend/internal/auth"
	"cardkey_backend/internal/config"
	"cardkey_backend/internal/database"
	"cardkey_backend/internal/email"
	"cardkey_backend/internal/handlers"
	"cardkey_backend/internal/logger"
	"cardkey_backend/internal/middleware"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/repositories"
	"cardkey_backend/internal/routes"
	"cardkey_backend/internal/services"
	"cardkey_backend/internal/validator"
	"cardkey_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	// .env is optional; real deployments set environment variables
	// directly.
	_ = godotenv.Load()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	emailService := email.NewProvider(cfg)

	userRepo := repositories.NewUserRepository()
	programRepo := repositories.NewProgramRepository()
	cardRepo := repositories.NewCardKeyRepository()
	orderRepo := repositories.NewOrderRepository()
	recordRepo := repositories.NewBalanceRecordRepository()
	packageRepo := repositories.NewSubscriptionPackageRepository()
	rechargeRepo := repositories.NewRechargeCardRepository()
	permRepo := repositories.NewAgentPermissionRepository()

	pricing := services.NewPricingPolicy(packageRepo, permRepo)
	balanceService := services.NewBalanceService(userRepo, recordRepo)
	userService := services.NewUserService(userRepo, emailService)
	programService := services.NewProgramService(programRepo, cardRepo, userRepo, permRepo, balanceService)
	cardService := services.NewCardService(cardRepo, programRepo, userRepo, orderRepo, permRepo, pricing, balanceService, cfg.CardKey.DefaultMaxMachines)
	rechargeService := services.NewRechargeService(rechargeRepo, userRepo, balanceService)
	packageService := services.NewPackageService(packageRepo, userRepo)

	return &services.ServiceContainer{
		UserService:     userService,
		ProgramService:  programService,
		CardService:     cardService,
		BalanceService:  balanceService,
		RechargeService: rechargeService,
		PackageService:  packageService,
		PricingPolicy:   pricing,
		EmailService:    emailService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		UserHandler:     handlers.NewUserHandler(baseHandler, services.UserService),
		ProgramHandler:  handlers.NewProgramHandler(baseHandler, services.ProgramService),
		CardHandler:     handlers.NewCardHandler(baseHandler, services.CardService),
		RechargeHandler: handlers.NewRechargeHandler(baseHandler, services.RechargeService, services.BalanceService),
		PackageHandler:  handlers.NewPackageHandler(baseHandler, services.PackageService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func startWorkers(ctx context.Context, cfg *config.Config, db *gorm.DB) {
	expiryWorker := workers.NewExpiryWorker(
		db,
		repositories.NewCardKeyRepository(),
		repositories.NewUserRepository(),
		repositories.NewRechargeCardRepository(),
		email.NewProvider(cfg),
		cfg.CardKey.ExpirySweepMinutes,
	)
	expiryWorker.Start(ctx)
	logger.Info("Expiry worker started", "sweep_minutes", cfg.CardKey.ExpirySweepMinutes)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.FirstAdminUsername == "" || cfg.FirstAdminPassword == "" {
		logger.Warn("First admin credentials are not configured. Skipping admin seeding.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var admin models.UserProfile
		result := tx.Where("username = ?", cfg.FirstAdminUsername).First(&admin)
		if result.Error == nil {
			logger.Info("Admin user already exists. Skipping creation.", "username", cfg.FirstAdminUsername)
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", result.Error)
		}

		logger.Warn("No admin user found. Creating first admin.", "username", cfg.FirstAdminUsername)

		hash, err := auth.HashPassword(cfg.FirstAdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		newAdmin := &models.UserProfile{
			Username:     cfg.FirstAdminUsername,
			Email:        cfg.FirstAdminEmail,
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
		}
		if err := tx.Create(newAdmin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("First admin user created", "username", cfg.FirstAdminUsername)
		return nil
	})
}
