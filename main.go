package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"likebike-server/handlers"
	"likebike-server/models"
	"likebike-server/services"
	"likebike-server/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := utils.LoadConfig()

	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024,
	})

	allowedOriginsList := strings.Split(cfg.AllowedOrigins, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Admin",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.UserLevel{},
		&models.Reward{},
		&models.BikeUsageLog{},
		&models.Quiz{},
		&models.QuizAttempt{},
		&models.CommunityPost{},
		&models.PostComment{},
		&models.PostLike{},
		&models.SafetyReport{},
		&models.CourseRecommendation{},
		&models.CyclingGoal{},
		&models.News{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	for _, lvl := range models.DefaultUserLevels {
		if err := db.Where("level = ?", lvl.Level).FirstOrCreate(&lvl).Error; err != nil {
			log.Fatal("failed to seed user levels:", err)
		}
	}

	storage, err := utils.NewStorageClient(cfg)
	if err != nil {
		log.Fatal("failed to initialize object storage:", err)
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret)
	rewardService := services.NewRewardService(db)
	userService := services.NewUserService(db, services.NewKakaoClient(cfg.KakaoUserInfoURL), tokens, rewardService)
	bikeLogService := services.NewBikeLogService(db, rewardService, storage)
	quizService := services.NewQuizService(db, rewardService, services.NewClovaClient(cfg.ClovaAPIURL, cfg.ClovaAPIKey))
	communityService := services.NewCommunityService(db, rewardService)
	recService := services.NewRecommendationService(db, rewardService, storage)
	newsService := services.NewNewsService(db)
	storageService := services.NewStorageService(storage)

	communityService.StartGoalScheduler()

	app.Get("/test", func(c *fiber.Ctx) error {
		return utils.Respond(c, fiber.StatusOK, "hello world")
	})

	handlers.SetupUserRoutes(app, userService, tokens)
	handlers.SetupBikeLogRoutes(app, bikeLogService, tokens)
	handlers.SetupQuizRoutes(app, quizService, tokens)
	handlers.SetupCommunityRoutes(app, communityService, tokens)
	handlers.SetupRecommendationRoutes(app, recService, tokens)
	handlers.SetupNewsRoutes(app, newsService, tokens)
	handlers.SetupStorageRoutes(app, storageService, tokens)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
