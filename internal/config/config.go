package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервиса. Загружается из переменных окружения:
// инструмент по требованию не несет конфигурационных файлов.
type Config struct {
	// Сервер
	Port string `json:"port"`

	// Реестр GLEIF
	BaseURL           string        `json:"base_url"`
	Timeout           time.Duration `json:"timeout"`
	PageSize          int           `json:"page_size"`
	RequestsPerMinute int           `json:"requests_per_minute"`
	Pause             time.Duration `json:"pause"`

	// Эвристика третьей стадии поиска по названию
	SubstringTokens int `json:"substring_tokens"`

	// Кэш точечных выборок
	CacheEnabled         bool          `json:"cache_enabled"`
	CacheTTL             time.Duration `json:"cache_ttl"`
	CacheCleanupInterval time.Duration `json:"cache_cleanup_interval"`

	// Логирование
	LogLevel string `json:"log_level"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		Port: getEnv("SERVER_PORT", "8080"),

		BaseURL:           getEnv("GLEIF_BASE_URL", "https://api.gleif.org/api/v1/lei-records"),
		Timeout:           getEnvDuration("GLEIF_TIMEOUT", 20*time.Second),
		PageSize:          getEnvInt("GLEIF_PAGE_SIZE", 10),
		RequestsPerMinute: getEnvInt("GLEIF_REQUESTS_PER_MINUTE", 60),
		Pause:             getEnvDuration("GLEIF_PAUSE", time.Second),

		SubstringTokens: getEnvInt("LEI_SUBSTRING_TOKENS", 3),

		CacheEnabled:         getEnvBool("LEI_CACHE_ENABLED", true),
		CacheTTL:             getEnvDuration("LEI_CACHE_TTL", time.Hour),
		CacheCleanupInterval: getEnvDuration("LEI_CACHE_CLEANUP_INTERVAL", 10*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests per minute must be positive, got %d", c.RequestsPerMinute)
	}
	if c.SubstringTokens <= 0 {
		return fmt.Errorf("substring tokens must be positive, got %d", c.SubstringTokens)
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt возвращает целое значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool возвращает булево значение переменной окружения
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration возвращает длительность из переменной окружения
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
