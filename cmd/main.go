package main

import (
	"context"
	"net/http"
	"time"

	"penpost/backend/internal/api/handler"
	"penpost/backend/internal/api/middleware"
	"penpost/backend/internal/chat"
	"penpost/backend/internal/chathub"
	"penpost/backend/internal/config"
	"penpost/backend/internal/identity"
	"penpost/backend/internal/models"
	"penpost/backend/internal/session"
	"penpost/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config, log *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to connect Redis", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Contact{},
		&models.ChatRoom{},
		&models.ChatParticipant{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	log.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	// .env is optional outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var log *zap.Logger
	if cfg.Debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting penpost backend", zap.String("addr", cfg.HTTPAddr))

	db, rdb := setupDependencies(cfg, log)
	store := storage.NewStorageService(db)
	sessions := session.NewStore(rdb, cfg.SessionTTL)
	registry := chathub.NewRegistry(log)
	chatSvc := chat.NewService(store, registry, log)
	verifier := identity.NewHTTPVerifier(cfg.IdentityVerifyURL)

	h := handler.NewHandler(chatSvc, registry, store, sessions, verifier, cfg.JWTSecret, log)
	h.WSAllowAllOrigins = cfg.WSAllowAllOrigins

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.AuthRequired(sessions), h.Logout)
		auth.GET("/me", middleware.AuthRequired(sessions), h.Me)
	}

	chatRoutes := r.Group("/api/v1/chat")
	{
		chatRoutes.GET("/ws", h.ServeWS)

		authed := chatRoutes.Group("", middleware.AuthRequired(sessions))
		authed.POST("/rooms", h.CreateOrGetRoom)
		authed.GET("/rooms", h.ListRooms)
		authed.GET("/rooms/:room_id", h.GetRoom)
		authed.GET("/rooms/:room_id/messages", h.ListMessages)
		authed.POST("/rooms/:room_id/messages", h.CreateMessage)
	}

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
