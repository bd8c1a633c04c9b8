package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammedkh45/Echoo/config"
	"github.com/muhammedkh45/Echoo/internal/handler"
	"github.com/muhammedkh45/Echoo/internal/middleware"
	"github.com/muhammedkh45/Echoo/internal/transport/httpdto"
	"github.com/muhammedkh45/Echoo/internal/websocket"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"
	"github.com/muhammedkh45/Echoo/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	onShutdown []func(context.Context)
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Chat      *handler.ChatHandler
	WebSocket *websocket.Handler
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.App.Mode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.App.Mode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.App.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// SetupRoutes mounts the REST and socket endpoints. limiter may be nil.
func (s *Server) SetupRoutes(handlers *Handlers, auth middleware.Authenticator, limiter middleware.MessageLimiter, health HealthChecker) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := health.HealthCheck(ctx); err != nil {
			if s.logger != nil {
				s.logger.WarnCtx(c.Request.Context(), "health check failed")
			}
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("unhealthy", echoo_errors.CodeUnavailable))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	// the socket authenticates with its first frame, not a header
	s.engine.GET("/ws", handlers.WebSocket.Connect)

	chats := s.engine.Group("/chats", middleware.AuthMiddleware(auth))
	{
		chats.GET("/:userId", handlers.Chat.GetDirectChat)
		chats.POST("/group", middleware.MessageRateLimitMiddleware(limiter), handlers.Chat.CreateGroupChat)
		chats.GET("/group/:groupId", handlers.Chat.GetGroupChat)
	}
}

// OnShutdown registers fn to run after the HTTP server stops accepting
// requests. Hooks run in registration order.
func (s *Server) OnShutdown(fn func(context.Context)) {
	s.onShutdown = append(s.onShutdown, fn)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.App.Port)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if s.logger != nil {
			s.logger.Errorf("Error in starting the server: %s", err)
		}
		s.runShutdownHooks(context.Background())
		return err
	case <-quit:
	}

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down within 10 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if err != nil && s.logger != nil {
		s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
	}
	s.runShutdownHooks(ctx)

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}
	return err
}

func (s *Server) runShutdownHooks(ctx context.Context) {
	for _, fn := range s.onShutdown {
		fn(ctx)
	}
}
