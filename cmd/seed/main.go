package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"gorm.io/gorm"

	"libstack/internal/config"
	"libstack/internal/db"
	"libstack/internal/model"
	"libstack/internal/repository"
)

// SeedBookData represents one catalog entry from the seed source.
type SeedBookData struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Quantity int    `json:"quantity"`
}

func main() {
	log.Println("Starting seed script...")

	seedURL := os.Getenv("CATALOG_SEED_URL")
	if seedURL == "" {
		log.Fatal("CATALOG_SEED_URL must be set to a JSON catalog source")
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.Book{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Fetching catalog from: %s", seedURL)
	books, err := fetchBooks(seedURL)
	if err != nil {
		log.Fatalf("Failed to fetch catalog: %v", err)
	}
	log.Printf("Fetched %d books from source", len(books))

	bookRepo := repository.NewBookRepository(gormDB)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, item := range books {
		if item.Title == "" || item.Author == "" || item.Quantity < 0 {
			skipped++
			continue
		}

		_, err := bookRepo.FindByTitleAndAuthor(ctx, item.Title, item.Author)
		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check existing book %q: %v", item.Title, err)
		}

		book := &model.Book{
			Title:    item.Title,
			Author:   item.Author,
			Quantity: item.Quantity,
		}
		if err := bookRepo.Create(ctx, book); err != nil {
			log.Fatalf("Failed to create book %q: %v", item.Title, err)
		}
		created++
	}

	log.Printf("Seed complete: %d created, %d skipped", created, skipped)
}

func fetchBooks(url string) ([]SeedBookData, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var books []SeedBookData
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return books, nil
}
