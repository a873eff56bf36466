package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is loaded once at process start and handed to constructors.
type Config struct {
	Port string

	MongoURI         string
	MongoDB          string
	MongoForceTLS12  bool
	MongoInsecureTLS bool

	LLMProvider    string // gemini|vertex|openai
	GeminiAPIKey   string
	GeminiModel    string
	VertexProject  string
	VertexLocation string
	VertexModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	LLMTimeout     time.Duration
	LLMMaxRetries  int

	CORSOrigins []string

	RedisAddr     string
	SkillCacheTTL time.Duration

	StorageDriver string // ""|gcs|s3
	GCSBucket     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	AnalyzeCron      string
	MatchConcurrency int
	MaxUploadBytes   int64
	SeedOnEmpty      bool
	SeedFile         string // optional YAML replacing the built-in templates

	LogLevel string
}

// Load reads the process environment. Call godotenv.Load first if a .env file should apply.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getenv("PORT", "8080"),

		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getenv("MONGO_DB", "jobmatch"),
		MongoForceTLS12:  getBool("MONGO_FORCE_TLS_CONFIG", false),
		MongoInsecureTLS: getBool("MONGO_INSECURE_TLS", false),

		LLMProvider:    strings.ToLower(getenv("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: getenv("VERTEX_LOCATION", "us-central1"),
		VertexModel:    getenv("VERTEX_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		LLMTimeout:     getDuration("LLM_TIMEOUT", 30*time.Second),
		LLMMaxRetries:  getInt("LLM_MAX_RETRIES", 2),

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),

		RedisAddr:     firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		SkillCacheTTL: getDuration("SKILL_CACHE_TTL", 24*time.Hour),

		StorageDriver: strings.ToLower(os.Getenv("STORAGE_DRIVER")),
		GCSBucket:     os.Getenv("GCS_BUCKET"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      getenv("S3_REGION", "auto"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:   os.Getenv("S3_SECRET_ACCESS_KEY"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTIssuer:   os.Getenv("JWT_ISSUER"),
		JWTAudience: os.Getenv("JWT_AUDIENCE"),

		AnalyzeCron:      os.Getenv("ANALYZE_CRON"),
		MatchConcurrency: getInt("MATCH_CONCURRENCY", 4),
		MaxUploadBytes:   int64(getInt("MAX_UPLOAD_MB", 10)) << 20,
		SeedOnEmpty:      getBool("SEED_ON_EMPTY", true),
		SeedFile:         os.Getenv("SEED_FILE"),

		LogLevel: os.Getenv("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("MONGO_URI environment variable is not set")
	}
	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY environment variable is not set")
		}
	case "vertex":
		if c.VertexProject == "" {
			return errors.New("VERTEX_PROJECT environment variable is not set")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY environment variable is not set")
		}
	default:
		return errors.New("LLM_PROVIDER must be one of gemini, vertex, openai")
	}
	switch c.StorageDriver {
	case "":
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("GCS_BUCKET environment variable is not set")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET environment variable is not set")
		}
	default:
		return errors.New("STORAGE_DRIVER must be empty, gcs or s3")
	}
	if c.MatchConcurrency <= 0 {
		c.MatchConcurrency = 1
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getInt(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return n
	}
	return def
}

func getBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return b
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil && d > 0 {
		return d
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
