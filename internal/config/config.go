package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var (
	ErrInvalidURL      = errors.New("invalid endpoint url")
	ErrInvalidLogLevel = errors.New("invalid log level")
)

type Config struct {
	LogLevel       string        `yaml:"log-level" env:"CONNECT4_LOG_LEVEL" env-default:"info"`
	LogFile        string        `yaml:"log-file" env:"CONNECT4_LOG_FILE" env-default:"connect4.log"`
	WSURL          string        `yaml:"ws-url" env:"CONNECT4_WS_URL" env-default:"ws://localhost:8080"`
	APIURL         string        `yaml:"api-url" env:"CONNECT4_API_URL" env-default:"http://localhost:8080"`
	BotName        string        `yaml:"bot-name" env:"CONNECT4_BOT_NAME" env-default:"Bot"`
	RequestTimeout time.Duration `yaml:"request-timeout" env:"CONNECT4_REQUEST_TIMEOUT" env-default:"10s"`
	JournalSize    int           `yaml:"journal-size" env:"CONNECT4_JOURNAL_SIZE" env-default:"50"`
	Redis          Redis         `yaml:"redis" env-prefix:"CONNECT4_REDIS_"`
}

// Redis backs the optional match journal. An empty host disables it.
type Redis struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     string `yaml:"port" env:"PORT" env-default:"6379"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB" env-default:"0"`
}

// MustLoad - loads the configuration or panics.
func MustLoad(path string, dotEnvFiles ...string) *Config {
	config, err := Load(path, dotEnvFiles...)
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

// Load - reads .env files, then config.yml if it exists, then the environment.
func Load(path string, dotEnvFiles ...string) (*Config, error) {
	if err := loadDotEnv(dotEnvFiles...); err != nil {
		return nil, err
	}

	config := &Config{}

	if fileExists(path) {
		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// WebsocketEndpoint - the game connection address.
func (that *Config) WebsocketEndpoint() string {
	return that.WSURL + "/ws"
}

// JournalEnabled - whether finished matches are recorded.
func (that *Config) JournalEnabled() bool {
	return that.Redis.Host != ""
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Config) validate() error {
	that.WSURL = strings.TrimRight(that.WSURL, "/")
	that.APIURL = strings.TrimRight(that.APIURL, "/")

	if err := checkURL(that.WSURL, "ws", "wss"); err != nil {
		return fmt.Errorf("ws-url: %w", err)
	}

	if err := checkURL(that.APIURL, "http", "https"); err != nil {
		return fmt.Errorf("api-url: %w", err)
	}

	switch that.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, that.LogLevel)
	}

	if that.JournalSize <= 0 {
		that.JournalSize = 50
	}

	return nil
}

func checkURL(raw string, schemes ...string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	for _, scheme := range schemes {
		if parsed.Scheme == scheme && parsed.Host != "" {
			return nil
		}
	}

	return fmt.Errorf("%w: %q, want %s", ErrInvalidURL, raw, strings.Join(schemes, " or "))
}

func loadDotEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if fileExists(file) {
			existing = append(existing, file)
		}
	}

	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
