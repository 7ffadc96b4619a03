package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
	"github.com/sahabat-guru/backend/database"
	_ "github.com/sahabat-guru/backend/docs" // Swagger docs
	authctrl "github.com/sahabat-guru/backend/internal/controller/auth"
	eventsctrl "github.com/sahabat-guru/backend/internal/controller/events"
	studentctrl "github.com/sahabat-guru/backend/internal/controller/student"
	teacherctrl "github.com/sahabat-guru/backend/internal/controller/teacher"
	"github.com/sahabat-guru/backend/internal/event"
	"github.com/sahabat-guru/backend/internal/logger"
	"github.com/sahabat-guru/backend/internal/middleware"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/realtime"
	"github.com/sahabat-guru/backend/internal/repository"
	"github.com/sahabat-guru/backend/internal/service"
	"github.com/sahabat-guru/backend/internal/storage"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Sahabat Guru API
// @version 1.0
// @description Exam and learning platform backend: question banks, proctored exams, AI scoring and material generation.
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
			realtime.NewHub,
			event.NewPublisher,
			storage.NewObjectStorage,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewTokenRepository,
			repository.NewQuestionRepository,
			repository.NewExamRepository,
			repository.NewParticipantRepository,
			repository.NewAnswerRepository,
			repository.NewStatisticRepository,
			repository.NewScoringJobRepository,
			repository.NewProctoringRepository,
			repository.NewMaterialRepository,
		),

		fx.Provide(
			service.NewAuthService,
			service.NewProctorClient,
			service.NewGeminiScorer,
			service.NewGeminiGenerator,
			service.NewQuestionService,
			service.NewExamService,
			service.NewParticipationService,
			service.NewScoringService,
			service.NewProctoringService,
			service.NewMaterialService,
			service.NewAnalyticsService,
		),

		fx.Provide(
			authctrl.NewAuthController,
			teacherctrl.NewExamController,
			teacherctrl.NewQuestionController,
			teacherctrl.NewScoringController,
			teacherctrl.NewMaterialController,
			teacherctrl.NewProctoringController,
			teacherctrl.NewAnalyticsController,
			studentctrl.NewParticipationController,
			studentctrl.NewProctoringController,
			eventsctrl.NewEventsController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

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
	r.Use(middleware.RateLimit(cfg))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires all route groups and manages the HTTP
// server through the fx lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	publisher event.Publisher,
	authCtrl *authctrl.AuthController,
	examCtrl *teacherctrl.ExamController,
	questionCtrl *teacherctrl.QuestionController,
	scoringCtrl *teacherctrl.ScoringController,
	materialCtrl *teacherctrl.MaterialController,
	teacherProctoringCtrl *teacherctrl.ProctoringController,
	analyticsCtrl *teacherctrl.AnalyticsController,
	participationCtrl *studentctrl.ParticipationController,
	studentProctoringCtrl *studentctrl.ProctoringController,
	eventsCtrl *eventsctrl.EventsController,
) {
	api := router.Group("/api/v1")

	authCtrl.RegisterRoutes(api)

	teacher := api.Group("/teacher", middleware.Authenticate(authService), middleware.TeacherOnly())
	examCtrl.RegisterRoutes(teacher)
	questionCtrl.RegisterRoutes(teacher)
	scoringCtrl.RegisterRoutes(teacher)
	materialCtrl.RegisterRoutes(teacher)
	teacherProctoringCtrl.RegisterRoutes(teacher)
	analyticsCtrl.RegisterRoutes(teacher)

	student := api.Group("/student", middleware.Authenticate(authService), middleware.StudentOnly())
	participationCtrl.RegisterRoutes(student)
	studentProctoringCtrl.RegisterRoutes(student)

	events := api.Group("", middleware.Authenticate(authService))
	eventsCtrl.RegisterRoutes(events)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			publisher.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Material{},
		&model.Question{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.ExamParticipant{},
		&model.Answer{},
		&model.ExamStatistic{},
		&model.ProctoringLog{},
		&model.ScoringJob{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed")
	return nil
}
