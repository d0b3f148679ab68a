package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pitchboard/db"
	"pitchboard/internal/api"
	"pitchboard/internal/auth"
	"pitchboard/internal/avatar"
	"pitchboard/internal/config"
	"pitchboard/internal/post"
	"pitchboard/internal/quote"
	"pitchboard/internal/user"
	"pitchboard/internal/web"
	"pitchboard/middleware"
)

// Global loggers for different output streams
var (
	infoLogger  = log.New(os.Stdout, "", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
)

func main() {
	infoLogger.Printf("Starting pitchboard - Process ID: %d", os.Getpid())

	cfg, err := config.LoadConfig()
	if err != nil {
		errorLogger.Fatalf("Failed to load configuration: %v", err)
	}

	sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		errorLogger.Fatalf("Failed to connect to SQLite: %v", err)
	}

	if err := db.InitializeSchema(sqliteDB); err != nil {
		errorLogger.Fatalf("Failed to initialize database schema: %v", err)
	}

	repoFactory := db.NewRepositoryFactory(sqliteDB, cfg.DatabaseName)
	userRepo := repoFactory.NewUserRepository()
	postRepo := repoFactory.NewPostRepository()

	// Serialize writes through a single worker
	dbManager := db.NewDBManager()

	userService := user.NewUserService(userRepo, dbManager)
	postService := post.NewPostService(postRepo, dbManager)
	quoteService := quote.NewQuoteService(cfg.QuotesURL)
	avatarService := avatar.NewAvatarService(cfg.UploadDir)

	authHandlers := auth.NewAuthHandlers(cfg, userService)
	postAPI := api.NewPostHandlers(postService)
	mw := middleware.NewMiddleware(cfg)

	webHandler := web.NewWebHandler(userService, postService, quoteService, avatarService, cfg)
	router := webHandler.SetupRoutes(authHandlers, postAPI, mw)
	loggedRouter := middleware.LoggingMiddleware(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: loggedRouter,
	}

	go func() {
		infoLogger.Printf("Server is starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errorLogger.Fatalf("Server ListenAndServe error: %v", err)
		}
	}()

	waitForShutdown(server, dbManager, sqliteDB)
}

func waitForShutdown(server *http.Server, dbManager *db.DBManager, sqliteDB interface{ Close() error }) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	sig := <-stop
	infoLogger.Printf("Received shutdown signal: %v", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	infoLogger.Println("Shutting down the server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		errorLogger.Printf("Server Shutdown error: %v", err)
	}

	dbManager.Stop()
	if err := sqliteDB.Close(); err != nil {
		errorLogger.Printf("Error closing database: %v", err)
	}
	infoLogger.Println("[SUCCESS] Services stopped")
}
