package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"dating-service/internal/auth"
	"dating-service/internal/config"
	"dating-service/internal/db"
	grpcserver "dating-service/internal/grpc"
	"dating-service/internal/handlers"
	"dating-service/internal/middleware"
	"dating-service/internal/observability"
	"dating-service/internal/repositories"
	"dating-service/internal/services"
	"dating-service/internal/telemetry"
	"dating-service/internal/ws"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	if err := run(); err != nil {
		slog.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}

	database, err := db.Connect(cfg.DatabaseDSN, cfg.StatementTimeout)
	if err != nil {
		return err
	}
	defer database.Close()

	bus := observability.DialBus(cfg.AMQPURL, cfg.AMQPExchange, cfg.ServiceName)
	defer bus.Close()
	observability.SetPublisher(bus)
	audit := telemetry.NewAuditEmitter(bus, cfg.AuditRoutingKey, cfg.ServiceName, cfg.Environment)

	userRepo := repositories.NewUserRepo(database)
	likeRepo := repositories.NewLikeRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	subscriptionRepo := repositories.NewSubscriptionRepo(database)
	blockRepo := repositories.NewBlockRepo(database)

	matchService := services.NewMatchService(likeRepo, subscriptionRepo)
	chatService := services.NewChatService(messageRepo, userRepo)
	blockService := services.NewBlockService(blockRepo)

	verifier := auth.NewVerifier(cfg.JWTSecret)
	hub := ws.NewHub()
	gateway := ws.NewGateway(hub, chatService, verifier, userRepo, ws.Options{
		SendBuffer:   cfg.WSSendBuffer,
		WriteTimeout: cfg.WSWriteTimeout,
	})

	likeHandler := handlers.NewLikeHandler(matchService, audit)
	chatHandler := handlers.NewChatHandler(chatService, audit)
	settingsHandler := handlers.NewSettingsHandler(blockService, audit)

	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/ws", gateway.Handle)

	authMiddleware := middleware.AuthMiddleware(verifier, userRepo)

	likes := router.Group("/likes", authMiddleware)
	likes.POST("/send", likeHandler.SendLike)
	likes.GET("/received", likeHandler.ReceivedLikes)

	chat := router.Group("/chat", authMiddleware)
	chat.POST("/send", chatHandler.SendMessage)
	chat.GET("/conversations", chatHandler.ListConversations)
	chat.GET("/:userId", chatHandler.GetMessages)
	chat.DELETE("/conversation/:targetUserId", chatHandler.DeleteConversation)
	chat.DELETE("/message/:messageId", chatHandler.DeleteMessage)
	chat.PUT("/message/:messageId", chatHandler.UpdateMessage)

	settings := router.Group("/settings", authMiddleware)
	settings.POST("/block", settingsHandler.Block)
	settings.POST("/unblock", settingsHandler.Unblock)
	settings.GET("/blocked-users", settingsHandler.BlockedUsers)

	handlers.RegisterDebugRoutes(router, audit, bus, hub, cfg.DebugRoutes)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", "X-Device-ID", "token"},
		AllowCredentials: true,
	}).Handler(router)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	health := grpcserver.NewHealthServer(database, cfg.ServiceName, 10*time.Second)
	grpcServer := grpcserver.NewServer(health)
	go health.Run(ctx)

	listener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return err
	}
	go func() {
		slog.Info("grpc listening", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			slog.Error("grpc server error", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("http listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			grpcServer.Stop()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	hub.CloseAll()
	grpcServer.GracefulStop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracer shutdown", "error", err)
	}
	return nil
}
