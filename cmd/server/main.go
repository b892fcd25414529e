package main

import (
	"log"
	"net/http"
	"os"

	_ "libstack/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"libstack/internal/auth"
	"libstack/internal/cache"
	"libstack/internal/config"
	"libstack/internal/db"
	"libstack/internal/handler"
	"libstack/internal/model"
	"libstack/internal/repository"
	"libstack/internal/router"
	"libstack/internal/service"
)

// @title Library Management API
// @version 1.0
// @description Library management API with JWT authentication, a book catalog, member registration, and issue/return transactions.
// @host localhost:8080
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set; refusing to start with an unsigned token secret")
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Loan{},
			&model.Book{},
			&model.Member{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Member{},
		&model.Loan{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	memberRepo := repository.NewMemberRepository(gormDB)
	loanRepo := repository.NewLoanRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	bookService := service.NewBookService(bookRepo, loanRepo, txManager, cacheClient)
	memberService := service.NewMemberService(memberRepo, cacheClient)
	loanService := service.NewLoanService(bookRepo, memberRepo, loanRepo, txManager, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	memberHandler := handler.NewMemberHandler(memberService)
	loanHandler := handler.NewLoanHandler(loanService)

	// Register routes
	router.Register(
		e,
		jwtService,
		userRepo,
		authHandler,
		bookHandler,
		memberHandler,
		loanHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
