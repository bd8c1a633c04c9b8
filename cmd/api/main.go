package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/muhammedkh45/Echoo/config"
	"github.com/muhammedkh45/Echoo/internal/events"
	"github.com/muhammedkh45/Echoo/internal/handler"
	"github.com/muhammedkh45/Echoo/internal/middleware"
	"github.com/muhammedkh45/Echoo/internal/notification"
	echoo_redis "github.com/muhammedkh45/Echoo/internal/redis"
	"github.com/muhammedkh45/Echoo/internal/repository"
	"github.com/muhammedkh45/Echoo/internal/server"
	"github.com/muhammedkh45/Echoo/internal/services"
	"github.com/muhammedkh45/Echoo/internal/storage"
	"github.com/muhammedkh45/Echoo/internal/websocket"
	"github.com/muhammedkh45/Echoo/pkg/database"
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.App.Mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	if err := run(cfg, l); err != nil {
		l.Errorf("server exited: %v", err)
		l.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, l *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongo, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := mongo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	chats := repository.NewChatRepository(mongo.DB)
	users := repository.NewUserRepository(mongo.DB)
	revoked := repository.NewRevokedTokenRepository(mongo.DB)

	var blobs services.BlobStore
	if cfg.S3.Bucket != "" {
		client, err := storage.NewClient(ctx, storage.S3Config{
			Region:     cfg.S3.Region,
			Bucket:     cfg.S3.Bucket,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			Endpoint:   cfg.S3.Endpoint,
			PublicBase: cfg.S3.PublicBase,
		})
		if err != nil {
			return fmt.Errorf("s3 client: %w", err)
		}
		blobs = client
	} else {
		l.Warnf("AWS_BUCKET_NAME not set, group images are disabled")
	}

	bus, err := newBus(cfg, l)
	if err != nil {
		return err
	}

	wsLogger := websocket.NewWebSocketLogger(l.Named("ws"))
	registry := websocket.NewRegistry()
	hub := websocket.NewHub(registry, wsLogger)

	var fanout services.Fanout = hub
	var limiter *echoo_redis.RateLimiter
	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = echoo_redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		instance := fmt.Sprintf("%s-%s", cfg.App.Name, uuid.NewString()[:8])
		registry.AddListener(echoo_redis.NewPresenceStore(redisClient, cfg.Redis.PresenceTTL, instance, l.Named("presence")))
		limiter = echoo_redis.NewRateLimiter(redisClient, echoo_redis.RateLimitConfig{
			MessageLimit:  cfg.Redis.MessageLimit,
			MessageWindow: time.Minute,
		})

		bridge := websocket.NewRedisBridge(redisClient, hub, instance, "", wsLogger)
		if err := bridge.Run(ctx); err != nil {
			return fmt.Errorf("start fan-out bridge: %w", err)
		}
		fanout = bridge
	}

	publisher := services.NewEventPublisher(bus, l.Named("events"))

	dispatcher := services.NewMessageDispatcher(chats, users, fanout, publisher, l.Named("dispatcher"))
	chatService := services.NewChatService(chats, users, blobs, publisher, cfg.App.Name, l.Named("chats"))
	authService := services.NewAuthService(cfg.Auth.SchemeKeys(), users, revoked)

	var sink notification.Sink = notification.NewLogSink(l.Named("mail"))
	if cfg.Mail.Host != "" {
		sink = notification.NewSMTPSink(notification.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	}
	if err := notification.NewWorker(users, sink, cfg.App.Name, l.Named("notification")).Start(bus); err != nil {
		return fmt.Errorf("start notification worker: %w", err)
	}

	// nil interfaces, not typed nil pointers, when redis is off
	var wsLimiter websocket.MessageLimiter
	var httpLimiter middleware.MessageLimiter
	if limiter != nil {
		wsLimiter, httpLimiter = limiter, limiter
	}

	router := websocket.NewRouter(dispatcher, wsLimiter, wsLogger)
	wsHandler := websocket.NewHandler(ctx, authService, hub, router, cfg.Auth.HandshakeTimeout, wsLogger)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Chat:      handler.NewChatHandler(chatService),
		WebSocket: wsHandler,
	}, authService, httpLimiter, mongo)

	srv.OnShutdown(func(context.Context) {
		cancel()
		hub.Close()
	})
	srv.OnShutdown(func(context.Context) {
		if err := bus.Close(); err != nil {
			l.Warnf("close event bus: %v", err)
		}
	})
	srv.OnShutdown(func(context.Context) {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	})
	srv.OnShutdown(func(ctx context.Context) {
		if err := mongo.Close(ctx); err != nil {
			l.Warnf("close mongo: %v", err)
		}
	})

	return srv.Start()
}

func newBus(cfg *config.Config, l *logger.Logger) (events.Bus, error) {
	if cfg.NATS.URL == "" {
		return events.NewMemoryBus(l.Named("bus"), 256), nil
	}
	bus, err := events.NewNatsBus(events.NatsConfig{
		URL:           cfg.NATS.URL,
		Name:          cfg.App.Name,
		SubjectPrefix: cfg.NATS.SubjectPrefix,
	}, l.Named("bus"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return bus, nil
}
