package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gestao-vendas/config"
	"gestao-vendas/database"
	"gestao-vendas/handlers"
	"gestao-vendas/middleware"
	"gestao-vendas/services"
	"gestao-vendas/store"
)

func main() {
	// env file first so config.Load sees it; real env vars take precedence
	envFile := ".env.development"
	if config.EnvName() == "production" {
		envFile = ".env.production"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️ Não foi possível carregar %s, usando variáveis do sistema", envFile)
	}

	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET não configurado")
	}
	middleware.LoadSecret(cfg.JWTSecret, cfg.IsProduction())

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("falha ao abrir o banco", zap.Error(err))
	}
	defer closeStore()

	svc := services.New(st, services.Config{
		Location: cfg.Location,
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
	})
	h := handlers.New(svc, st, logger, cfg.RequestTimeout, cfg.AdminSecret)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h.Register(router)

	logger.Info("🚀 servidor iniciado",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.String("timezone", cfg.Location.String()))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("servidor encerrado", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openStore picks the document store backend. The returned func releases it.
func openStore(cfg config.Config, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("STORE_DRIVER=memory: os dados não sobrevivem a um reinício")
		return store.NewMemoryStore(), func() {}, nil
	}

	client, db, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Warn("não foi possível criar índices", zap.Error(err))
	}

	logger.Info("conectado ao MongoDB", zap.String("database", cfg.MongoDatabase))
	return store.NewMongoStore(db), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}, nil
}
