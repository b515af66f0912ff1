package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"signlearn/internal/config"
	"signlearn/internal/domain"
	"signlearn/internal/infrastructure/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Seeds the authored catalogs: languages, items, achievements, one
// battlepass season and the first task banks. Safe to run once on a fresh
// database.
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

	if err := db.AutoMigrate(
		&domain.Season{},
		&domain.Item{},
		&domain.Achievement{},
		&domain.Language{},
		&domain.Task{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	ctx := context.Background()

	languages := repository.NewLanguageRepository(db)
	for _, l := range []domain.Language{
		{ID: "asl", Name: "American Sign Language"},
		{ID: "bsl", Name: "British Sign Language"},
	} {
		if err := languages.Create(ctx, &l); err != nil {
			log.Printf("language %s: %v", l.ID, err)
		}
	}

	seasons := repository.NewSeasonRepository(db)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := seasons.Create(ctx, &domain.Season{
		Season:    1,
		Name:      "Season 1",
		StartDate: start,
		EndDate:   start.AddDate(0, 3, 0),
		Levels: domain.SeasonLevels{
			{Level: 1, Coins: 30, RequiredXP: 150},
			{Level: 2, Coins: 60, RequiredXP: 250},
			{Level: 3, Coins: 90, RequiredXP: 350},
			{Level: 4, Coins: 120, RequiredXP: 450},
			{Level: 5, Coins: 200, RequiredXP: 600},
		},
	}); err != nil {
		log.Printf("season 1: %v", err)
	}

	items := repository.NewItemRepository(db)
	for _, it := range []domain.Item{
		{ID: "coins-small", Name: "Coin pouch", Price: 0, Category: domain.ItemCategoryCoins,
			Effect: domain.ItemEffect{Coins: 50}},
		{ID: "heart-refill", Name: "Heart", Price: 150, Category: domain.ItemCategoryHearts,
			Effect: domain.ItemEffect{Multiplier: 1}},
		{ID: "xp-boost-2x", Name: "Double XP (1h)", Price: 300, Category: domain.ItemCategoryXPBoost,
			Effect: domain.ItemEffect{Multiplier: 2, SecondsInUse: 3600}},
		{ID: "wooden-chest", Name: "Wooden chest", Price: 200, Category: domain.ItemCategoryChest,
			Effect: domain.ItemEffect{Items: []domain.ChestEntry{
				{Coins: 50, WinPercentage: 50},
				{Coins: 200, WinPercentage: 10},
				{ItemID: "xp-boost-2x", WinPercentage: 40},
			}}},
	} {
		if err := items.Create(ctx, &it); err != nil {
			log.Printf("item %s: %v", it.ID, err)
		}
	}

	achievements := repository.NewAchievementRepository(db)
	for _, a := range []domain.Achievement{
		{ID: "xp-100", Name: "Getting started", Type: domain.AchievementTypeXP, Requires: 100},
		{ID: "xp-1000", Name: "Dedicated signer", Type: domain.AchievementTypeXP, Requires: 1000},
		{ID: "time-3600", Name: "One hour in", Type: domain.AchievementTypeTimePlayed, Requires: 3600},
		{ID: "level-10", Name: "Section one done", Type: domain.AchievementTypeLevel, Requires: 10},
	} {
		if err := achievements.Create(ctx, &a); err != nil {
			log.Printf("achievement %s: %v", a.ID, err)
		}
	}

	tasks := repository.NewTaskRepository(db)
	letters := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for i, letter := range letters {
		for version := 1; version <= 3; version++ {
			t := domain.Task{
				TaskID:     fmt.Sprintf("asl-10-%s-v%d", letter, version),
				Section:    10,
				LanguageID: "asl",
				Version:    version,
				Word:       letter,
				VideoURL:   fmt.Sprintf("https://cdn.signlearn.app/asl/%s.mp4", letter),
			}
			if err := tasks.Create(ctx, &t); err != nil {
				log.Printf("task %d: %v", i, err)
			}
		}
	}

	log.Println("Seed complete")
}
