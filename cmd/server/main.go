package main

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/command"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/config"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/events"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/handler"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/middleware"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/query"
	redisclient "github.com/atharvakulkarni-07/expense-tracker-version-2/internal/redis"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/repository"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/storage"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping database")
	}

	if err := storage.RunMigrations(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis connection
	rdb, err := redisclient.Dial(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	publisher := events.NewPublisher(rdb)

	// Repositories
	userRepo := repository.NewUserRepository(db, rdb)
	txWriteRepo := repository.NewTransactionWriteRepository(db)
	txReadRepo := repository.NewTransactionReadRepository(db, rdb)

	// Command + Query services
	userCommands := command.NewUserCommandService(userRepo, publisher)
	txCommands := command.NewTransactionCommandService(txWriteRepo, txReadRepo, publisher)
	authQueries := query.NewAuthQueryService(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)
	txQueries := query.NewTransactionQueryService(txReadRepo)

	authHandler := handler.NewAuthHandler(userCommands, authQueries)
	transactionHandler := handler.NewTransactionHandler(txCommands, txQueries)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(authQueries), authHandler.Me)
	}

	transactions := api.Group("/transactions", middleware.AuthMiddleware(authQueries))
	{
		transactions.POST("", transactionHandler.CreateTransaction)
		transactions.GET("", transactionHandler.ListTransactions)
		transactions.GET("/summary", transactionHandler.Summary)
		transactions.GET("/analytics/categories", transactionHandler.CategoryBreakdown)
		transactions.GET("/analytics/monthly", transactionHandler.MonthlyTrend)
		transactions.GET("/export", transactionHandler.ExportCSV)
		transactions.GET("/:id", transactionHandler.GetTransaction)
		transactions.PUT("/:id", transactionHandler.UpdateTransaction)
		transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	}

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
