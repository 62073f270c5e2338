package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/documents"
	"contract-backend/internal/llm"
	openai "contract-backend/internal/llm/openai"
	"contract-backend/internal/review"
	"contract-backend/internal/services/health"
	"contract-backend/internal/shared/config"
	"contract-backend/internal/shared/server"
	"contract-backend/internal/shared/storage/db"
	"contract-backend/internal/shared/storage/object"
	localstore "contract-backend/internal/shared/storage/object/local"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	DocumentsRepo    documents.DocumentsRepo
	ReviewsRepo      review.Repo
	DocumentsService *documents.Service
	ReviewService    *review.Service
	DocumentsHandler *documents.Handler
	ReviewHandler    *review.Handler
	HealthService    *health.Service
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  localstore.New(cfg.LocalStoreDir),
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		HealthService:   app.HealthService,
		DocumentHandler: app.DocumentsHandler,
		ReviewHandler:   app.ReviewHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var reviewRepo review.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		reviewRepo = &review.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		reviewRepo = review.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store: app.Store,
		Repo:  docRepo,
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" && strings.TrimSpace(app.Config.OpenAIAPIKey) != "" {
		openaiClient, err := openai.NewClient(app.Config.OpenAIAPIKey, app.Config.LLMModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	} else if app.Config.LLMProvider == "openai" {
		log.Printf("bootstrap: OPENAI_API_KEY empty; using placeholder LLM client")
	}

	reviewSvc := &review.Service{
		Repo:     reviewRepo,
		DocRepo:  docRepo,
		Store:    app.Store,
		LLM:      llmClient,
		Provider: app.Config.LLMProvider,
		Model:    app.Config.LLMModel,
	}

	app.DocumentsRepo = docRepo
	app.ReviewsRepo = reviewRepo
	app.DocumentsService = docSvc
	app.ReviewService = reviewSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ReviewHandler = review.NewHandler(reviewSvc, docRepo)
	app.HealthService = health.NewService(app.DB)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
