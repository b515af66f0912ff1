package main

import (
	"context"
	"fmt"
	"log"

	"signlearn/internal/application/usecase"
	"signlearn/internal/config"
	"signlearn/internal/domain"
	"signlearn/internal/infrastructure/cache"
	"signlearn/internal/infrastructure/email"
	"signlearn/internal/infrastructure/repository"
	"signlearn/internal/infrastructure/security"
	"signlearn/internal/middleware"
	handlers "signlearn/internal/transport/http"
	"signlearn/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	log.Println("Running migrations...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Season{},
		&domain.Item{},
		&domain.Achievement{},
		&domain.Language{},
		&domain.Task{},
		&domain.Connection{},
		&domain.Room{},
		&domain.Message{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis at", cfg.RedisAddr)

	// repositories
	userRepo := repository.NewUserRepository(db)
	seasonRepo := repository.NewSeasonRepository(db)
	itemRepo := repository.NewItemRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	languageRepo := repository.NewLanguageRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// infrastructure
	tokenManager := security.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret)
	hasher := security.NewPasswordHasher()
	tokenCache := cache.NewTokenCache(rdb)
	emailSender := email.NewEmailSender(cfg.SendgridAPIKey, cfg.SourceEmail, cfg.FrontendCallbackURL)
	rateLimiter := middleware.NewRateLimiter(rdb)

	// usecases
	authUC := usecase.NewAuthUsecase(userRepo, tokenCache, hasher, tokenManager, emailSender)
	userUC := usecase.NewUserUsecase(userRepo)
	progressionUC := usecase.NewProgressionUsecase(userRepo, languageRepo, seasonRepo, achievementRepo)
	battlepassUC := usecase.NewBattlepassUsecase(userRepo, seasonRepo)
	heartsUC := usecase.NewHeartsUsecase(userRepo, cfg.HeartsRefillRateHours)
	itemUC := usecase.NewItemUsecase(userRepo, itemRepo)
	taskUC := usecase.NewTaskUsecase(userRepo, taskRepo, languageRepo, cfg.CurrentMaxSection)
	achievementUC := usecase.NewAchievementUsecase(achievementRepo)

	// live fabric
	hub := ws.NewHub(tokenManager, connectionRepo, roomRepo, messageRepo)

	// handlers
	authHandler := handlers.NewAuthHandler(authUC)
	gameHandler := handlers.NewGameHandler(progressionUC, heartsUC, userUC)
	battlepassHandler := handlers.NewBattlepassHandler(battlepassUC)
	itemHandler := handlers.NewItemHandler(itemUC)
	taskHandler := handlers.NewTaskHandler(taskUC, achievementUC)

	router := handlers.NewRouter(authHandler, gameHandler, battlepassHandler, itemHandler, taskHandler, hub, rateLimiter, tokenManager)

	log.Printf("SignLearn API running on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
