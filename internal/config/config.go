package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	JWT        JWTConfig
	OIDC       OIDCConfig
	Gateway    GatewayConfig
	RateLimit  RateLimitConfig
	R2         R2Config
	Media      MediaConfig
	Transcribe TranscribeConfig
	Selector   SelectorConfig
	Pipeline   PipelineConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	LogLevel  string
	ApiDomain string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type OIDCConfig struct {
	Issuer   string
	ClientID string
}

type GatewayConfig struct {
	Enabled bool
}

type RateLimitConfig struct {
	GeneratePerHour int
	UploadPerHour   int
	ProjectsPerMin  int
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

// MediaConfig points at the media codec microservice (scene detection,
// audio extraction, cutting, merging).
type MediaConfig struct {
	ServiceURL string
	Timeout    int // seconds
}

// TranscribeConfig points at the hosted speech-to-text API.
type TranscribeConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// SelectorConfig points at the hosted highlight-selection LLM.
type SelectorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// PipelineConfig carries the orchestration deadlines and cache tuning.
// All durations are seconds.
type PipelineConfig struct {
	GlobalTimeout     int
	AnalyzeTimeout    int
	ExtractTimeout    int
	TranscribeTimeout int
	SelectTimeout     int
	CutTimeout        int
	MergeTimeout      int
	CacheTTL          int
	ClipParallelism   int
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("TRANSCRIBE_API_KEY")
	readSecret("SELECTOR_API_KEY")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")
	readSecret("OIDC_CLIENT_ID")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("server.api_domain", "API_DOMAIN")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("oidc.issuer", "OIDC_ISSUER")
	_ = viper.BindEnv("oidc.client_id", "OIDC_CLIENT_ID")
	_ = viper.BindEnv("gateway.enabled", "GATEWAY_ENABLED")
	_ = viper.BindEnv("r2.account_id", "R2_ACCOUNT_ID")
	_ = viper.BindEnv("r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = viper.BindEnv("r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("r2.bucket_name", "R2_BUCKET_NAME")
	_ = viper.BindEnv("r2.public_url", "R2_PUBLIC_URL")
	_ = viper.BindEnv("media.service_url", "MEDIA_SERVICE_URL")
	_ = viper.BindEnv("media.timeout", "MEDIA_SERVICE_TIMEOUT")
	_ = viper.BindEnv("transcribe.api_key", "TRANSCRIBE_API_KEY")
	_ = viper.BindEnv("transcribe.base_url", "TRANSCRIBE_BASE_URL")
	_ = viper.BindEnv("transcribe.model", "TRANSCRIBE_MODEL")
	_ = viper.BindEnv("selector.api_key", "SELECTOR_API_KEY")
	_ = viper.BindEnv("selector.base_url", "SELECTOR_BASE_URL")
	_ = viper.BindEnv("selector.model", "SELECTOR_MODEL")
	_ = viper.BindEnv("pipeline.global_timeout", "PIPELINE_GLOBAL_TIMEOUT")
	_ = viper.BindEnv("pipeline.cache_ttl", "PIPELINE_CACHE_TTL")
	_ = viper.BindEnv("pipeline.clip_parallelism", "PIPELINE_CLIP_PARALLELISM")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("gateway.enabled", false)
	viper.SetDefault("ratelimit.generate_per_hour", 10)
	viper.SetDefault("ratelimit.upload_per_hour", 20)
	viper.SetDefault("ratelimit.projects_per_min", 30)

	// Media service defaults
	viper.SetDefault("media.service_url", "http://localhost:8086")
	viper.SetDefault("media.timeout", 120)

	// Transcription defaults (OpenAI-compatible endpoint)
	viper.SetDefault("transcribe.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("transcribe.model", "whisper-large-v3")

	// Selector defaults
	viper.SetDefault("selector.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("selector.model", "llama-3.3-70b-versatile")

	// Pipeline defaults (seconds)
	viper.SetDefault("pipeline.global_timeout", 300)
	viper.SetDefault("pipeline.analyze_timeout", 60)
	viper.SetDefault("pipeline.extract_timeout", 30)
	viper.SetDefault("pipeline.transcribe_timeout", 60)
	viper.SetDefault("pipeline.select_timeout", 45)
	viper.SetDefault("pipeline.cut_timeout", 30)
	viper.SetDefault("pipeline.merge_timeout", 30)
	viper.SetDefault("pipeline.cache_ttl", 300)
	viper.SetDefault("pipeline.clip_parallelism", 1)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:      viper.GetString("server.port"),
			Env:       viper.GetString("server.env"),
			LogLevel:  viper.GetString("server.log_level"),
			ApiDomain: viper.GetString("server.api_domain"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		OIDC: OIDCConfig{
			Issuer:   viper.GetString("oidc.issuer"),
			ClientID: viper.GetString("oidc.client_id"),
		},
		Gateway: GatewayConfig{
			Enabled: viper.GetBool("gateway.enabled"),
		},
		RateLimit: RateLimitConfig{
			GeneratePerHour: viper.GetInt("ratelimit.generate_per_hour"),
			UploadPerHour:   viper.GetInt("ratelimit.upload_per_hour"),
			ProjectsPerMin:  viper.GetInt("ratelimit.projects_per_min"),
		},
		R2: R2Config{
			AccountID:       viper.GetString("r2.account_id"),
			AccessKeyID:     viper.GetString("r2.access_key_id"),
			SecretAccessKey: viper.GetString("r2.secret_access_key"),
			BucketName:      viper.GetString("r2.bucket_name"),
			PublicURL:       viper.GetString("r2.public_url"),
		},
		Media: MediaConfig{
			ServiceURL: viper.GetString("media.service_url"),
			Timeout:    viper.GetInt("media.timeout"),
		},
		Transcribe: TranscribeConfig{
			APIKey:  viper.GetString("transcribe.api_key"),
			BaseURL: viper.GetString("transcribe.base_url"),
			Model:   viper.GetString("transcribe.model"),
		},
		Selector: SelectorConfig{
			APIKey:  viper.GetString("selector.api_key"),
			BaseURL: viper.GetString("selector.base_url"),
			Model:   viper.GetString("selector.model"),
		},
		Pipeline: PipelineConfig{
			GlobalTimeout:     viper.GetInt("pipeline.global_timeout"),
			AnalyzeTimeout:    viper.GetInt("pipeline.analyze_timeout"),
			ExtractTimeout:    viper.GetInt("pipeline.extract_timeout"),
			TranscribeTimeout: viper.GetInt("pipeline.transcribe_timeout"),
			SelectTimeout:     viper.GetInt("pipeline.select_timeout"),
			CutTimeout:        viper.GetInt("pipeline.cut_timeout"),
			MergeTimeout:      viper.GetInt("pipeline.merge_timeout"),
			CacheTTL:          viper.GetInt("pipeline.cache_ttl"),
			ClipParallelism:   viper.GetInt("pipeline.clip_parallelism"),
		},
	}

	return cfg, nil
}
