package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	api "feedhub-backend/cmd/api"
	authdomain "feedhub-backend/internal/auth/domain"
	authRepo "feedhub-backend/internal/auth/repository"
	authUsecase "feedhub-backend/internal/auth/usecase"
	feedDelivery "feedhub-backend/internal/feed/delivery"
	feeddomain "feedhub-backend/internal/feed/domain"
	"feedhub-backend/internal/feed/janitor"
	feedRepo "feedhub-backend/internal/feed/repository"
	feedUsecase "feedhub-backend/internal/feed/usecase"
	"feedhub-backend/internal/notification"
	"feedhub-backend/pkg/config"
	"feedhub-backend/pkg/database"
	"feedhub-backend/pkg/fcm"
	"feedhub-backend/pkg/sse"
	"feedhub-backend/pkg/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.UserPost{}, &authdomain.FCMToken{}, &feeddomain.Post{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	feedStore := feedRepo.NewGormStore(db)

	// Asset store: MinIO when configured, local disk otherwise
	var assets storage.Store
	if cfg.S3.Host != "" {
		minioStore, err := storage.NewMinioStore(ctx, cfg.S3.Host, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.UseSSL)
		if err != nil {
			log.Fatal("Failed to connect to MinIO:", err)
		}
		assets = minioStore
		log.Printf("Using MinIO asset store %s/%s", cfg.S3.Host, cfg.S3.Bucket)
	} else {
		localStore, err := storage.NewLocalStore(cfg.Feed.AssetDir)
		if err != nil {
			log.Fatal("Failed to prepare asset dir:", err)
		}
		assets = localStore
		log.Printf("Using local asset store under %s", cfg.Feed.AssetDir)
	}

	// Background asset cleanup
	assetJanitor := janitor.NewJanitor(assets, cfg.Feed.JanitorWorkers)
	assetJanitor.Start()
	defer assetJanitor.Stop()

	sweeper := janitor.NewSweeper(assets, feedStore.Posts(), assetJanitor, cfg.Feed.SweepInterval, cfg.Feed.SweepGrace)
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Push notifications are optional
	var pusher *notification.Pusher
	if cfg.Firebase.Credentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.Firebase.Credentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			pusher = notification.NewPusher(fcmClient, fcmTokenRepo)
		}
	} else {
		log.Printf("[DEBUG] No Firebase credentials configured, FCM disabled")
	}

	// Cross-instance fan-out over Pub/Sub, only when a project is configured
	var relay *notification.Relay
	if cfg.Google.ProjectID != "" {
		relay, err = notification.NewRelay(ctx, cfg.Google.ProjectID, cfg.Google.PubSubTopic, cfg.Google.PubSubSubName, cfg.Google.CredentialsFile, sseManager)
		if err != nil {
			log.Fatal("Failed to initialize Pub/Sub relay:", err)
		}
		go relay.Start(ctx)
		defer relay.Close(context.Background())
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, events stay on this instance")
	}

	notifier := notification.NewService(sseManager, relay, pusher)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, fcmTokenRepo, cfg)
	feedUsecaseInstance := feedUsecase.NewFeedUsecase(feedStore, notifier, assetJanitor, cfg.Feed.PageSize)

	// Initialize HTTP handler
	feedHandler := feedDelivery.NewFeedHandler(feedUsecaseInstance, assets, cfg.Feed.MaxUploadBytes)
	handler := api.NewHandler(authUsecaseInstance, feedHandler, sseManager, cfg)

	if err := handler.Run(ctx, ":"+cfg.HTTP.Port); err != nil {
		log.Printf("Server stopped with error: %v", err)
	}
}
