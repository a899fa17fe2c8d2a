package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Moderation    ModerationConfig    `mapstructure:"moderation"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// ModerationConfig selects the classification upstream and bounds the
// pipeline.
type ModerationConfig struct {
	Provider        string                 `mapstructure:"provider"`
	Model           string                 `mapstructure:"model"`
	MaxTokens       int                    `mapstructure:"max_tokens"`
	Temperature     float64                `mapstructure:"temperature"`
	Settings        map[string]interface{} `mapstructure:"settings"`
	MaxTextLength   int                    `mapstructure:"max_text_length"`
	UpstreamTimeout time.Duration          `mapstructure:"upstream_timeout"`
	PreviewLength   int                    `mapstructure:"preview_length"`
	CacheTTL        time.Duration          `mapstructure:"cache_ttl"`
}

type NotificationsConfig struct {
	QueueSize   int           `mapstructure:"queue_size"`
	WorkerCount int           `mapstructure:"worker_count"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
	Slack       SlackConfig   `mapstructure:"slack"`
	Email       EmailConfig   `mapstructure:"email"`
}

type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
}

type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	SenderName  string `mapstructure:"sender_name"`
	SenderEmail string `mapstructure:"sender_email"`
	Recipient   string `mapstructure:"recipient"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}

	setDefaultValues()

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Moderation.Provider == "" {
		globalConfig.Moderation.Provider = "gemini"
	}
}

func GetConfig() *Config {
	return &globalConfig
}
