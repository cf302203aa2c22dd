package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/letsssgooo/shepherdBot/internal/audio"
	"github.com/letsssgooo/shepherdBot/internal/quiz"
)

// Config содержит настройки приложения.
type Config struct {
	LogLevel    string          `yaml:"log_level"`
	ContentPath string          `yaml:"content_path"`
	Telegram    TelegramConfig  `yaml:"telegram"`
	Gemini      GeminiConfig    `yaml:"gemini"`
	Audio       audio.Format    `yaml:"audio"`
	Grades      quiz.GradeScale `yaml:"grades"`
	Insight     InsightConfig   `yaml:"insight"`
	HTTP        HTTPConfig      `yaml:"http"`
	Storage     StorageConfig   `yaml:"storage"`
}

// TelegramConfig содержит настройки Telegram бота.
type TelegramConfig struct {
	Token       string `yaml:"token"`
	BotUsername string `yaml:"bot_username"`
	PollTimeout int    `yaml:"poll_timeout"`
}

// GeminiConfig содержит настройки генеративной модели.
type GeminiConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	TextModel   string        `yaml:"text_model"`
	SpeechModel string        `yaml:"speech_model"`
	Voice       string        `yaml:"voice"`
	Timeout     time.Duration `yaml:"timeout"`
}

// InsightConfig содержит настройки итогового напутствия.
type InsightConfig struct {
	Topic       string  `yaml:"topic"`
	Fallback    string  `yaml:"fallback"`
	Temperature float64 `yaml:"temperature"`
}

// HTTPConfig содержит настройки HTTP API отчётов.
// Пустой Token оставляет API открытым.
type HTTPConfig struct {
	Addr  string `yaml:"addr"`
	Token string `yaml:"token"`
}

// StorageConfig содержит настройки хранилища. При пустом DSN результаты хранятся в памяти.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// Default возвращает настройки по умолчанию.
func Default() Config {
	return Config{
		LogLevel: "info",
		Telegram: TelegramConfig{
			PollTimeout: 30,
		},
		Gemini: GeminiConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/",
			TextModel:   "gemini-3-flash-preview",
			SpeechModel: "gemini-2.5-flash-preview-tts",
			Voice:       "Kore",
			Timeout:     60 * time.Second,
		},
		Audio:  audio.DefaultFormat(),
		Grades: quiz.DefaultGradeScale(),
		Insight: InsightConfig{
			Topic:       "선한 목자의 마음",
			Fallback:    "오늘 하루도 주님의 은혜 안에서 승리하시길 기도합니다.",
			Temperature: 0.7,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load читает файл настроек, если он задан, и применяет переменные окружения.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		if err = Parse(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	ApplyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Parse декодирует YAML поверх уже заполненных значений. Неизвестные поля запрещены.
func Parse(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config: %w", err)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return fmt.Errorf("parse config: %w", err)
	}

	return nil
}

// ApplyEnv переопределяет настройки переменными окружения.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if value, ok := lookup(key); ok && value != "" {
			*dst = value
		}
	}

	set("SHEPHERD_LOG_LEVEL", &cfg.LogLevel)
	set("SHEPHERD_CONTENT_PATH", &cfg.ContentPath)
	set("SHEPHERD_HTTP_ADDR", &cfg.HTTP.Addr)
	set("SHEPHERD_HTTP_TOKEN", &cfg.HTTP.Token)
	set("TELEGRAM_TOKEN", &cfg.Telegram.Token)
	set("TELEGRAM_BOT_USERNAME", &cfg.Telegram.BotUsername)
	set("GEMINI_API_KEY", &cfg.Gemini.APIKey)
	set("GEMINI_BASE_URL", &cfg.Gemini.BaseURL)
	set("DATABASE_URL", &cfg.Storage.DSN)
}

// Validate проверяет настройки.
func (c Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	if err := c.Grades.Validate(); err != nil {
		return fmt.Errorf("grades: %w", err)
	}

	if c.Telegram.PollTimeout < 0 {
		return errors.New("telegram: poll_timeout must not be negative")
	}

	if c.Gemini.Timeout <= 0 {
		return errors.New("gemini: timeout must be positive")
	}

	if strings.TrimSpace(c.Insight.Fallback) == "" {
		return errors.New("insight: fallback must not be empty")
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ParseLevel преобразует имя уровня логирования.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
