// Package bootstrap wires configuration into clients, repositories and services.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yoockh/jobmatch/config"
	"github.com/yoockh/jobmatch/internal/analysis"
	"github.com/yoockh/jobmatch/internal/api/handlers"
	"github.com/yoockh/jobmatch/internal/api/middleware"
	"github.com/yoockh/jobmatch/internal/api/routes"
	"github.com/yoockh/jobmatch/internal/cache"
	"github.com/yoockh/jobmatch/internal/providers/llm"
	"github.com/yoockh/jobmatch/internal/providers/pdftext"
	mongorepo "github.com/yoockh/jobmatch/internal/repositories/mongo"
	"github.com/yoockh/jobmatch/internal/seed"
	"github.com/yoockh/jobmatch/internal/services"
	"github.com/yoockh/jobmatch/internal/storage"
	"github.com/yoockh/jobmatch/web"
)

type App struct {
	Config *config.Config
	Log    *logrus.Logger

	Mongo    *mongo.Client
	Redis    *redis.Client    // nil when the skill cache is off
	LLM      llm.Provider
	Uploader storage.Uploader // nil when archival is off

	Jobs    services.JobService
	Resumes services.ResumeService
	Matches services.MatchService
}

func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	var err error
	a.Mongo, err = config.InitMongo(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("mongo init: %w", err)
	}
	log.Info("MongoDB connected")

	db := a.Mongo.Database(cfg.MongoDB)
	if err := config.EnsureMongoIndexes(ctx, db); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}

	a.Redis, err = config.InitRedis(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, skill cache disabled")
		a.Redis = nil
	} else if a.Redis != nil {
		log.Info("Redis connected")
	}

	a.LLM, err = NewLLM(ctx, cfg, log)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Uploader, err = NewUploader(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	client := analysis.NewClient(a.LLM, cfg.LLMTimeout)
	var skills analysis.SkillExtractor = client
	if a.Redis != nil {
		skills = analysis.NewCachedExtractor(client, cache.NewRedisCache(a.Redis, "jobmatch:"), cfg.SkillCacheTTL, log)
	}

	templates, err := LoadTemplates(cfg.SeedFile)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	jobRepo := mongorepo.NewJobRepo(db)
	resumeRepo := mongorepo.NewResumeRepo(db)
	matchRepo := mongorepo.NewMatchRepo(db)

	a.Jobs = services.NewJobService(jobRepo, skills, templates, cfg.SeedOnEmpty, log)
	a.Resumes = services.NewResumeService(resumeRepo, pdftext.NewExtractor(), skills, a.Uploader, log)
	a.Matches = services.NewMatchService(resumeRepo, jobRepo, matchRepo, a.Jobs, client, cfg.MatchConcurrency, log)
	return a, nil
}

// LoadTemplates reads seed templates from path, or returns the built-in set when path is empty.
func LoadTemplates(path string) ([]seed.Template, error) {
	if path == "" {
		return seed.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed file: %w", err)
	}
	return seed.Parse(data)
}

// NewLLM builds the configured provider wrapped with retries.
func NewLLM(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (llm.Provider, error) {
	var (
		p   llm.Provider
		err error
	)
	switch cfg.LLMProvider {
	case "gemini":
		p, err = llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "vertex":
		p, err = llm.NewVertexGemini(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel)
	case "openai":
		p = llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s init: %w", cfg.LLMProvider, err)
	}
	return llm.NewRetryProvider(p, cfg.LLMMaxRetries, 500*time.Millisecond, log), nil
}

// NewUploader returns nil when no storage driver is configured.
func NewUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, error) {
	switch cfg.StorageDriver {
	case "":
		return nil, nil
	case "gcs":
		u, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("gcs init: %w", err)
		}
		return u, nil
	case "s3":
		u, err := storage.NewS3Uploader(ctx, storage.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init: %w", err)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Router builds the HTTP engine serving the API and the web client.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.Log))

	routes.RegisterRoutes(r, routes.Deps{
		Jobs:    handlers.NewJobHandler(a.Jobs),
		Resumes: handlers.NewResumeHandler(a.Resumes, a.Config.MaxUploadBytes),
		Matches: handlers.NewMatchHandler(a.Matches),
		WS:      handlers.NewWSHandler(a.Matches, a.Config.CORSOrigins, a.Log),
		JWT: middleware.JWTConfig{
			Secret:   a.Config.JWTSecret,
			Issuer:   a.Config.JWTIssuer,
			Audience: a.Config.JWTAudience,
		},
		CORSOrigins: a.Config.CORSOrigins,
	})
	web.Register(r)
	return r
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.LLM != nil {
		errs = append(errs, a.LLM.Close())
	}
	if a.Uploader != nil {
		errs = append(errs, a.Uploader.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.Mongo != nil {
		errs = append(errs, a.Mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
