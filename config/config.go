package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/metrology"
)

// AppName имя каталога приложения в XDG путях
const AppName = "roundness-meter"

var (
	ErrInvalidMethod    = errors.New("invalid roundness method")
	ErrInvalidWorkers   = errors.New("workers must be positive")
	ErrInvalidThreshold = errors.New("threshold must be in (0, 1]")
	ErrMissingToken     = errors.New("TELEGRAM_TOKEN is not set")
)

type Config struct {
	TelegramToken string `yaml:"telegram_token"`
	Method        string `yaml:"method"`
	OutputDir     string `yaml:"output_dir"`
	Workers       int    `yaml:"workers"`
	DBPath        string `yaml:"db_path"`
	LogLevel      string `yaml:"log_level"`

	CircularityThreshold float64 `yaml:"circularity_threshold"`
	MinArea              float64 `yaml:"min_area"`
	MinPerimeter         float64 `yaml:"min_perimeter"`
	MinCircularity       float64 `yaml:"min_circularity"`
	ApproxRatio          float64 `yaml:"approx_ratio"`
}

// Default возвращает конфигурацию без внешних источников
func Default() *Config {
	filter := metrology.DefaultContourFilter()
	return &Config{
		Method:               string(entity.DefaultMethod),
		OutputDir:            "output",
		Workers:              4,
		DBPath:               DefaultDBPath(),
		LogLevel:             "info",
		CircularityThreshold: metrology.DefaultCircularityThreshold,
		MinArea:              filter.MinArea,
		MinPerimeter:         filter.MinPerimeter,
		MinCircularity:       filter.MinCircularity,
		ApproxRatio:          metrology.DefaultApproxRatio,
	}
}

func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, "measurements.db")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom читает .env, YAML файл и переменные окружения.
// Явно указанный файл обязан существовать, файл по умолчанию необязателен.
func LoadFrom(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("ROUNDNESS_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultConfigPath()
	}

	if err := cfg.loadFile(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("ROUNDNESS_METHOD"); v != "" {
		c.Method = v
	}
	if v := os.Getenv("ROUNDNESS_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("ROUNDNESS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	// Пустое значение отключает историю измерений
	if v, ok := os.LookupEnv("ROUNDNESS_DB_PATH"); ok {
		c.DBPath = v
	}
	if v := os.Getenv("ROUNDNESS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ROUNDNESS_WORKERS=%q", ErrInvalidWorkers, v)
		}
		c.Workers = n
	}
	return nil
}

// Validate проверяет значения, общие для CLI и бота
func (c *Config) Validate() error {
	if _, err := entity.ParseMethod(c.Method); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, c.Method)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	for name, v := range map[string]float64{
		"circularity_threshold": c.CircularityThreshold,
		"min_circularity":       c.MinCircularity,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidThreshold, name, v)
		}
	}
	if c.ApproxRatio < 0 || c.ApproxRatio >= 1 {
		return fmt.Errorf("%w: approx_ratio=%v", ErrInvalidThreshold, c.ApproxRatio)
	}
	return nil
}

// ValidateBot дополнительно требует токен Telegram
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	return nil
}

func (c *Config) ParsedMethod() entity.Method {
	m, err := entity.ParseMethod(c.Method)
	if err != nil {
		return entity.DefaultMethod
	}
	return m
}

func (c *Config) ContourFilter() metrology.ContourFilter {
	return metrology.ContourFilter{
		MinArea:        c.MinArea,
		MinPerimeter:   c.MinPerimeter,
		MinCircularity: c.MinCircularity,
	}
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
