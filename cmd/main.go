package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teradrive/internal/bus"
	"teradrive/internal/config"
	"teradrive/internal/handler"
	"teradrive/internal/middleware"
	"teradrive/internal/repository"
	"teradrive/internal/seed"
	"teradrive/internal/service"
	"teradrive/internal/storage"
)

func newBlob(cfg *config.Config) (storage.Blob, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedisBlob(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	default:
		return storage.NewFileBlob(cfg.Storage.DataDir)
	}
}

func main() {
	// Загружаем конфигурацию
	appConfig, err := config.NewConfig(".app.env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация хранилища документов
	blob, err := newBlob(appConfig)
	if err != nil {
		log.Fatalf("Failed to create blob storage: %v", err)
	}

	// Инициализация репозиториев
	fileRepo := repository.NewFileRepository(blob)
	userRepo := repository.NewUserRepository(blob)

	// Шина изменений: единственная точка интеграции хранилища с
	// остальным приложением
	changeBus := bus.New()

	// Инициализация сервисов
	quotaService := service.NewStorageQuotaService(userRepo)
	fileService := service.NewFileService(fileRepo, quotaService, changeBus)
	uploadService := service.NewUploadService(fileService)
	authService := service.NewAuthService(userRepo)

	// Посев демо-данных для свежей установки
	if appConfig.Storage.Seed {
		if err := seed.Apply(context.Background(), fileRepo, userRepo, quotaService); err != nil {
			log.Printf("Warning: failed to seed demo data: %v", err)
		}
	}

	// Инициализация хендлеров
	fileHandler := handler.NewFileHandler(fileService, uploadService)
	trashHandler := handler.NewTrashHandler(fileService)
	quotaHandler := handler.NewStorageQuotaHandler(fileService, quotaService)
	authHandler := handler.NewAuthHandler(authService)
	eventsHandler := handler.NewEventsHandler(changeBus)

	// Настройка HTTP роутера
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)

		// Всё остальное доступно только при открытой сессии
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(authService))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/user", authHandler.Me)
			r.Put("/user", authHandler.UpdateProfile)

			r.Get("/files", fileHandler.ListFiles)
			r.Post("/files", fileHandler.Upload)
			r.Get("/files/progress", fileHandler.GetUploadProgress)
			r.Post("/files/cancel", fileHandler.CancelUpload)
			r.Delete("/files/{id}", fileHandler.DeleteFile)

			r.Route("/trash", func(r chi.Router) {
				r.Get("/", trashHandler.GetTrashItems)
				r.Post("/restore", trashHandler.RestoreItem)
				r.Post("/restore-all", trashHandler.RestoreAll)
				r.Post("/delete", trashHandler.DeletePermanently)
				r.Post("/empty", trashHandler.EmptyTrash)
			})

			r.Get("/quota", quotaHandler.GetQuotaInfo)
			r.Get("/events", eventsHandler.Stream)
		})
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Server.Port),
		Handler: r,
	}

	// Канал для сигналов завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server forced to shutdown: %v", err)
	}

	if closer, ok := blob.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Error closing blob storage: %v", err)
		}
	}

	log.Println("Server exited properly")
}
