package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models   ModelsConfig          `yaml:"models"`
	Tools    map[string]ToolConfig `yaml:"tools"`
	OyGul    OyGulConfig           `yaml:"oygul"`
	Photos   PhotosConfig          `yaml:"photos"`
	Sessions SessionsConfig        `yaml:"sessions"`
	Telegram TelegramConfig        `yaml:"telegram"`
	App      AppSpecific           `yaml:"app"`
}

// OyGulConfig — настройки API флауэршопа OyGul.
type OyGulConfig struct {
	BaseURL   string `yaml:"base_url"`   // Базовый URL API (например, "https://dev.api.oy-gul.uz/api")
	Login     string `yaml:"login"`      // Логин мерчанта. Поддерживает ${VAR}
	Password  string `yaml:"password"`   // Пароль мерчанта. Поддерживает ${VAR}
	RateLimit int    `yaml:"rate_limit"` // Запросов в минуту
	Burst     int    `yaml:"burst"`      // Burst для rate limiter
	Timeout   string `yaml:"timeout"`    // Timeout для HTTP запросов (например, "10s")
	Lang      string `yaml:"lang"`       // Язык ответов по умолчанию: uz, ru, en
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *OyGulConfig) GetDefaults() OyGulConfig {
	result := *c // Копируем текущие значения

	if result.BaseURL == "" {
		result.BaseURL = "https://dev.api.oy-gul.uz/api"
	}
	if result.RateLimit == 0 {
		result.RateLimit = 60 // запросов в минуту
	}
	if result.Burst == 0 {
		result.Burst = 5
	}
	if result.Timeout == "" {
		result.Timeout = "10s"
	}
	if result.Lang == "" {
		result.Lang = "ru"
	}

	return result
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас чат-модели по умолчанию
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "zai" и т.д.
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`  // Go умеет парсить строки вида "60s", "1m"
	BaseURL     string        `yaml:"base_url"` // Для OpenAI-совместимых провайдеров
}

// ToolConfig — настройки инструментов.
type ToolConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Description string        `yaml:"description"` // Переопределение описания для LLM
	Timeout     time.Duration `yaml:"timeout"`
}

// PhotosConfig — настройки хранилища фотографий товаров (S3-совместимое).
type PhotosConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
	MaxWidth  int    `yaml:"max_width"` // Ширина фото после ресайза (0 = без ресайза)
	Quality   int    `yaml:"quality"`   // Качество JPEG при кодировании (1-100)
}

// SessionsConfig — настройки хранилища сессий.
type SessionsConfig struct {
	Path string `yaml:"path"` // Путь к SQLite файлу (":memory:" для тестов)
}

// TelegramConfig — настройки Telegram бота.
type TelegramConfig struct {
	Token       string `yaml:"token"`        // Поддерживает ${VAR}
	PollTimeout int    `yaml:"poll_timeout"` // Long polling timeout в секундах
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug         bool `yaml:"debug"`
	MaxIterations int  `yaml:"max_iterations"` // Лимит итераций агентского цикла
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
			return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
		}
	}
	return nil
}

// GetChatModel возвращает конфигурацию модели по умолчанию или по имени.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}

// MaxIterations возвращает лимит итераций агентского цикла.
func (c *AppConfig) MaxIterations() int {
	if c.App.MaxIterations > 0 {
		return c.App.MaxIterations
	}
	return 10
}
