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

	"photo-asset-server/config"
	_ "photo-asset-server/docs"
	"photo-asset-server/internal/handler"
	"photo-asset-server/internal/ports"
	"photo-asset-server/internal/repository"
	"photo-asset-server/internal/security"
	"photo-asset-server/internal/service"
)

// @title Photo-asset-server
// @version 1.0
// @description Доставка фотографий: подписанные ссылки на оригиналы и публичные хэши для превью

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

	projectRepo := repository.NewProjectRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	hashRepo := repository.NewPublicHashRepository(redisClient)

	var archive ports.ArchiveStorage
	if cfg.S3Config.Enabled {
		archiveService, err := service.NewArchiveService(ctx, &cfg.S3Config)
		if err != nil {
			log.Fatalf("Ошибка создания S3 сервиса: %v", err)
		}
		archive = archiveService
	}

	codec := security.NewDownloadTokenCodec(cfg.Signing.Secret)
	verifier := security.NewAdminVerifier(&cfg.AdminJWT)
	registry := service.NewHashRegistry(hashRepo, time.Duration(cfg.Signing.PublicHashTTLMs)*time.Millisecond)
	resolver := service.NewAssetResolver()
	gate := service.NewAccessGate(codec, registry, verifier)

	assetHandler := handler.NewAssetHandler(
		projectRepo, photoRepo, gate, resolver, codec, archive, cfg.PhotosBasePath, &cfg.Signing)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAssetRoutes(router, assetHandler, verifier, &cfg.RateLimit)

	runServer(ctx, srv)
}

func setupAssetRoutes(r chi.Router, h *handler.AssetHandler, verifier *security.AdminVerifier, limits *config.RateLimitConfig) {
	derivativeLimiter := security.NewRateLimiter(limits.Derivative)
	downloadLimiter := security.NewRateLimiter(limits.Download)
	mintLimiter := security.NewRateLimiter(limits.Mint)

	r.Route("/assets/{folder}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.RateLimitMiddleware(derivativeLimiter))
			r.Get("/thumbnail/{name}", h.GetThumbnail)
			r.Head("/thumbnail/{name}", h.GetThumbnailHead)
			r.Get("/preview/{name}", h.GetPreview)
			r.Head("/preview/{name}", h.GetPreviewHead)
			r.Get("/image/{name}", h.GetImage)
			r.Head("/image/{name}", h.GetImageHead)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.RateLimitMiddleware(downloadLimiter))
			r.Get("/file/{type}/{name}", h.GetOriginal)
			r.Get("/files-zip/{name}", h.GetOriginalsZip)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.RateLimitMiddleware(mintLimiter))
			r.Use(security.AdminMiddleware(verifier))
			r.Post("/download-url", h.CreateDownloadURL)
		})
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
