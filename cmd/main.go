package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/database"
	"github.com/lshigami/Quokka/internal/auth"
	adminctrl "github.com/lshigami/Quokka/internal/controller/admin"
	userctrl "github.com/lshigami/Quokka/internal/controller/user"
	"github.com/lshigami/Quokka/internal/logger"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quiz Attempt Engine API
// @version 1.0
// @description Timed quiz attempts with per-question scoring, automatic expiration and leaderboards.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			auth.NewTokenManager,
		),

		fx.Provide(
			repository.NewQuizRepository,
			repository.NewAttemptRepository,
			repository.NewAttemptAnswerWriter,
			repository.NewUserRepository,
		),

		fx.Provide(
			service.NewUserService,
			service.NewQuizAdminService,
			service.NewAttemptService,
			service.NewResultService,
			service.NewLeaderboardService,
			service.NewExpirationSweeper,
		),

		fx.Provide(
			userctrl.NewUserController,
			userctrl.NewAttemptController,
			userctrl.NewLeaderboardController,
			adminctrl.NewAdminQuizController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartExpirationSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires the API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	tokens *auth.TokenManager,
	userCtrl *userctrl.UserController,
	attemptCtrl *userctrl.AttemptController,
	leaderboardCtrl *userctrl.LeaderboardController,
	adminQuizCtrl *adminctrl.AdminQuizController,
) {
	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", userCtrl.Register)
		api.POST("/auth/login", userCtrl.Login)
	}

	authed := router.Group("/api/v1", tokens.RequireToken())
	{
		authed.POST("/quizzes/:quiz_id/attempts", attemptCtrl.StartAttempt)
		authed.GET("/attempts/:attempt_id", attemptCtrl.GetState)
		authed.PUT("/attempts/:attempt_id/questions/:question_id/answer", attemptCtrl.SaveAnswer)
		authed.POST("/attempts/:attempt_id/submit", attemptCtrl.Submit)
		authed.GET("/attempts/:attempt_id/result", attemptCtrl.GetResultSummary)
		authed.GET("/attempts/:attempt_id/review", attemptCtrl.GetResultReview)
		authed.GET("/me/attempts", attemptCtrl.GetMyAttempts)

		authed.GET("/quizzes/:quiz_id/leaderboard", leaderboardCtrl.GetQuizLeaderboard)
		authed.GET("/leaderboard", leaderboardCtrl.GetGlobalLeaderboard)
	}

	admin := router.Group("/api/v1/admin", tokens.RequireToken(), auth.RequireAdmin())
	{
		admin.POST("/quizzes", adminQuizCtrl.CreateQuiz)
		admin.POST("/quizzes/:quiz_id/publish", adminQuizCtrl.PublishQuiz)
		admin.DELETE("/quizzes/:quiz_id", adminQuizCtrl.DeleteQuiz)
		admin.DELETE("/quizzes/:quiz_id/questions/:question_id", adminQuizCtrl.DeleteQuestion)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz Attempt Engine starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartExpirationSweeper runs the sweeper for the lifetime of the app.
func StartExpirationSweeper(lc fx.Lifecycle, sweeper *service.ExpirationSweeper) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sweeper.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.QuestionChoice{},
		&model.QuestionText{},
		&model.Attempt{},
		&model.AttemptItem{},
		&model.AttemptItemChoice{},
		&model.AttemptItemText{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed")
	return nil
}
