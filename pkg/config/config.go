package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robert8597/swifthackathon/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logger    logger.Config   `yaml:"logger"`
	Storage   StorageConfig   `yaml:"storage"`
	Gleif     GleifConfig     `yaml:"gleif"`
	Rates     RatesConfig     `yaml:"rates"`
	Local     LocalConfig     `yaml:"local"`
	EventBus  EventBusConfig  `yaml:"event_bus"`
	Security  SecurityConfig  `yaml:"security"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type GleifConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIPath string        `yaml:"api_path"`
	Timeout time.Duration `yaml:"timeout"`
}

// UnmarshalYAML accepts the timeout in time.ParseDuration notation ("10s"),
// which the yaml package cannot decode into a time.Duration on its own.
func (g *GleifConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL string `yaml:"base_url"`
		APIPath string `yaml:"api_path"`
		Timeout string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	g.BaseURL = raw.BaseURL
	g.APIPath = raw.APIPath
	if raw.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid gleif timeout %q: %w", raw.Timeout, err)
		}
		g.Timeout = timeout
	}
	return nil
}

type RatesConfig struct {
	FilePath string `yaml:"file_path"`
}

// LocalConfig identifies the institution this service runs for. Message
// direction is derived by comparing agent BICs against LocalBIC.
type LocalConfig struct {
	BIC       string `yaml:"bic"`
	LegalName string `yaml:"legal_name"`
}

type EventBusConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

type SecurityConfig struct {
	APIKey string `yaml:"api_key"`
}

type WebSocketConfig struct {
	ReadBufferSize  int  `yaml:"read_buffer_size"`
	WriteBufferSize int  `yaml:"write_buffer_size"`
	CheckOrigin     bool `yaml:"check_origin"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	path := os.Getenv("DFX_CONFIG")
	if path == "" {
		path = "./config.yaml"
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "/tmp/dfx-messages"
	}
	if c.Gleif.BaseURL == "" {
		c.Gleif.BaseURL = "https://api.gleif.org/api/v1"
	}
	if c.Gleif.APIPath == "" {
		c.Gleif.APIPath = "/lei-records/"
	}
	if c.Gleif.Timeout == 0 {
		c.Gleif.Timeout = 10 * time.Second
	}
	if c.Rates.FilePath == "" {
		c.Rates.FilePath = "./rates.json"
	}
	if c.Local.BIC == "" {
		c.Local.BIC = "DEUTDEFFXXX"
	}
	if c.Local.LegalName == "" {
		c.Local.LegalName = "DEUTSCHE BANK AKTIENGESELLSCHAFT"
	}
	if c.EventBus.Workers == 0 {
		c.EventBus.Workers = 4
	}
	if c.EventBus.QueueSize == 0 {
		c.EventBus.QueueSize = 256
	}
	if c.WebSocket.ReadBufferSize == 0 {
		c.WebSocket.ReadBufferSize = 1024
	}
	if c.WebSocket.WriteBufferSize == 0 {
		c.WebSocket.WriteBufferSize = 1024
	}
}
