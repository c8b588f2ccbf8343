package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	Env      string
	LLM      LLMConfig
	Fallback FallbackConfig
	Archive  ArchiveConfig
	Artifact ArtifactConfig
	Log      LogConfig
	Source   SourceConfig
}

type LLMConfig struct {
	Provider     string
	Model        string
	APIKey       string
	OpenAIAPIKey string
	BaseURL      string
	OllamaHost   string
	Timeout      time.Duration
	RPS          float64
	Burst        int
}

// FallbackConfig is the copy used when the model omits summary or logs.
type FallbackConfig struct {
	Summary string
	Log     string
}

type ArchiveConfig struct {
	Root         string
	Prefix       string
	CacheEntries int
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type SourceConfig struct {
	Dir string
}

// envAliases maps config keys to the environment variables read for them, in
// priority order.
var envAliases = map[string][]string{
	"port":                  {"PORT"},
	"env":                   {"APP_ENV"},
	"llm.provider":          {"LLM_PROVIDER"},
	"llm.model":             {"LLM_MODEL"},
	"llm.api_key":           {"LLM_API_KEY", "GEMINI_API_KEY", "API_KEY"},
	"llm.openai_api_key":    {"OPENAI_API_KEY"},
	"llm.base_url":          {"LLM_BASE_URL"},
	"llm.ollama_host":       {"OLLAMA_HOST"},
	"llm.timeout":           {"LLM_TIMEOUT"},
	"llm.rps":               {"LLM_RPS", "GEMINI_RPS"},
	"llm.burst":             {"LLM_BURST", "GEMINI_BURST"},
	"fallback.summary":      {"FALLBACK_SUMMARY"},
	"fallback.log":          {"FALLBACK_LOG"},
	"archive.root":          {"ARCHIVE_ROOT"},
	"archive.prefix":        {"ARCHIVE_PREFIX"},
	"archive.cache_entries": {"ARCHIVE_CACHE_ENTRIES"},
	"artifact.endpoint":     {"ARTIFACT_S3_ENDPOINT"},
	"artifact.region":       {"ARTIFACT_S3_REGION"},
	"artifact.access_key":   {"ARTIFACT_S3_ACCESS_KEY", "MINIO_ROOT_USER"},
	"artifact.secret_key":   {"ARTIFACT_S3_SECRET_KEY", "MINIO_ROOT_PASSWORD"},
	"artifact.bucket":       {"ARTIFACT_S3_BUCKET"},
	"artifact.use_ssl":      {"ARTIFACT_S3_USE_SSL"},
	"log.level":             {"LOG_LEVEL"},
	"log.format":            {"LOG_FORMAT"},
	"log.file":              {"LOG_FILE"},
	"source.dir":            {"SOURCE_DIR"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", ":8080")
	v.SetDefault("env", "local")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.timeout", "0s")
	v.SetDefault("fallback.summary", "Đã hoàn thành tái cấu trúc và tạo file cấu hình.")
	v.SetDefault("fallback.log", "Hoàn tất xử lý.")
	v.SetDefault("archive.root", "refactored_project")
	v.SetDefault("archive.prefix", "refactored_project")
	v.SetDefault("archive.cache_entries", 16)
	v.SetDefault("artifact.region", "us-east-1")
	v.SetDefault("artifact.bucket", "refactorengine-archives")
	v.SetDefault("artifact.use_ssl", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads .env (if present), the optional config file at path, then the
// environment. Environment values win over the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("llm.timeout")))
	if err != nil {
		return nil, fmt.Errorf("invalid llm.timeout: %w", err)
	}
	env := strings.TrimSpace(v.GetString("env"))
	if env == "" {
		env = "local"
	}
	cfg := &Config{
		Port: normalizePort(v.GetString("port")),
		Env:  env,
		LLM: LLMConfig{
			Provider:     strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			Model:        strings.TrimSpace(v.GetString("llm.model")),
			APIKey:       strings.TrimSpace(v.GetString("llm.api_key")),
			OpenAIAPIKey: strings.TrimSpace(v.GetString("llm.openai_api_key")),
			BaseURL:      strings.TrimSpace(v.GetString("llm.base_url")),
			OllamaHost:   strings.TrimSpace(v.GetString("llm.ollama_host")),
			Timeout:      timeout,
			RPS:          v.GetFloat64("llm.rps"),
			Burst:        v.GetInt("llm.burst"),
		},
		Fallback: FallbackConfig{
			Summary: v.GetString("fallback.summary"),
			Log:     v.GetString("fallback.log"),
		},
		Archive: ArchiveConfig{
			Root:         strings.Trim(strings.TrimSpace(v.GetString("archive.root")), "/"),
			Prefix:       strings.TrimSpace(v.GetString("archive.prefix")),
			CacheEntries: v.GetInt("archive.cache_entries"),
		},
		Artifact: loadArtifactConfig(v),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   strings.TrimSpace(v.GetString("log.file")),
		},
		Source: SourceConfig{Dir: strings.TrimSpace(v.GetString("source.dir"))},
	}
	return cfg, nil
}

func loadArtifactConfig(v *viper.Viper) ArtifactConfig {
	endpoint := strings.TrimSpace(v.GetString("artifact.endpoint"))
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    strings.TrimSpace(v.GetString("artifact.region")),
		AccessKey: strings.TrimSpace(v.GetString("artifact.access_key")),
		SecretKey: strings.TrimSpace(v.GetString("artifact.secret_key")),
		Bucket:    strings.TrimSpace(v.GetString("artifact.bucket")),
		UseSSL:    v.GetBool("artifact.use_ssl"),
	}
}

// LLMKey returns the credential for the configured provider.
func (c LLMConfig) LLMKey() string {
	if c.Provider == "openai" && c.OpenAIAPIKey != "" {
		return c.OpenAIAPIKey
	}
	return c.APIKey
}

func normalizePort(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ":8080"
	}
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}
