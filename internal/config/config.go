package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Registry struct {
		Dir string `yaml:"dir"`
	} `yaml:"registry"`
	Corpus struct {
		TrainPath string   `yaml:"train_path"`
		TestPath  string   `yaml:"test_path"`
		Labels    []string `yaml:"labels"`
	} `yaml:"corpus"`
	Training struct {
		FeedbackWeight int `yaml:"feedback_weight"`
		MaxFeatures    int `yaml:"max_features"`
	} `yaml:"training"`
	Notifications struct {
		TelegramEnabled  bool   `yaml:"telegram_enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"notifications"`
}

// LoadConfig reads configuration from the specified YAML file and
// applies defaults for omitted values.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.URL == "" {
		c.Database.URL = "data/humanloopml.db"
	}
	if c.Registry.Dir == "" {
		c.Registry.Dir = "models"
	}
	if c.Training.FeedbackWeight == 0 {
		c.Training.FeedbackWeight = 1
	}
	if c.Training.MaxFeatures == 0 {
		c.Training.MaxFeatures = 10000
	}
}
