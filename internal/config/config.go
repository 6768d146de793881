package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Together (OpenAI-compatible) chat completion API
	TogetherAPIKey  string
	TogetherBaseURL string
	LLMModel        string
	LLMMaxTokens    int
	LLMTemperature  float64
	LLMTimeout      time.Duration

	// Pack prompt documents (one YAML per vertical)
	PacksDir string

	// Bot record store
	DBPath string

	// Conversation store; memory-backed when RedisAddr is empty
	RedisAddr     string
	RedisPassword string

	// Mailjet lead dispatch
	MailjetAPIKey    string
	MailjetAPISecret string
	MailjetFromEmail string
	MailjetFromName  string
	DefaultLeadEmail string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://127.0.0.1:8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		TogetherAPIKey:  getEnv("TOGETHER_API_KEY", ""),
		TogetherBaseURL: getEnv("TOGETHER_API_URL", "https://api.together.xyz/v1"),
		LLMModel:        getEnv("LLM_MODEL", "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo"),
		LLMMaxTokens:    getEnvAsInt("LLM_MAX_TOKENS", 180),
		LLMTemperature:  getEnvAsFloat("LLM_TEMPERATURE", 0.4),
		LLMTimeout:      getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),

		PacksDir: getEnv("PACKS_DIR", "data/packs"),

		DBPath: getEnv("DB_PATH", "data/app.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		MailjetAPIKey:    getEnv("MJ_API_KEY", ""),
		MailjetAPISecret: getEnv("MJ_API_SECRET", ""),
		MailjetFromEmail: getEnv("MJ_FROM_EMAIL", "no-reply@spectramedia.online"),
		MailjetFromName:  getEnv("MJ_FROM_NAME", "Spectra Media AI"),
		DefaultLeadEmail: getEnv("DEFAULT_LEAD_EMAIL", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
