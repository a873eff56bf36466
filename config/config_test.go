package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("MATCH_CONCURRENCY", "")
	t.Setenv("STORAGE_DRIVER", "")
	for _, k := range []string{"PORT", "MONGO_DB", "LLM_TIMEOUT", "MAX_UPLOAD_MB", "SEED_ON_EMPTY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MongoDB != "jobmatch" {
		t.Errorf("MongoDB = %q, want jobmatch", cfg.MongoDB)
	}
	if cfg.LLMProvider != "gemini" {
		t.Errorf("LLMProvider = %q, want gemini", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("LLMTimeout = %v, want 30s", cfg.LLMTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.MatchConcurrency != 4 {
		t.Errorf("MatchConcurrency = %d, want 4", cfg.MatchConcurrency)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d, want 10MB", cfg.MaxUploadBytes)
	}
	if !cfg.SeedOnEmpty {
		t.Error("SeedOnEmpty should default to true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("SEED_ON_EMPTY", "false")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URI", "")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLMProvider != "openai" {
		t.Errorf("LLMProvider = %q, want openai", cfg.LLMProvider)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Errorf("LLMTimeout = %v, want 5s", cfg.LLMTimeout)
	}
	if cfg.SeedOnEmpty {
		t.Error("SeedOnEmpty should be false")
	}
	if cfg.RedisAddr != "redis://cache:6379/0" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing mongo", Config{LLMProvider: "gemini", GeminiAPIKey: "k"}, true},
		{"missing gemini key", Config{MongoURI: "m", LLMProvider: "gemini"}, true},
		{"vertex needs project", Config{MongoURI: "m", LLMProvider: "vertex"}, true},
		{"unknown provider", Config{MongoURI: "m", LLMProvider: "claude"}, true},
		{"gcs needs bucket", Config{MongoURI: "m", LLMProvider: "gemini", GeminiAPIKey: "k", StorageDriver: "gcs"}, true},
		{"bad storage driver", Config{MongoURI: "m", LLMProvider: "gemini", GeminiAPIKey: "k", StorageDriver: "ftp"}, true},
		{"ok", Config{MongoURI: "m", LLMProvider: "gemini", GeminiAPIKey: "k"}, false},
		{"ok s3", Config{MongoURI: "m", LLMProvider: "openai", OpenAIAPIKey: "k", StorageDriver: "s3", S3Bucket: "b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
