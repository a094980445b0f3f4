package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/fkmtimer/fkm/go/clients/wca_api_client"
	"github.com/fkmtimer/fkm/go/clients/wca_live_client"
	"github.com/fkmtimer/fkm/go/internal/gateway"
)

type Config struct {
	WcaLive struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"wca_live"`
	WcaAPI struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"wca_api"`
	WebSocket struct {
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		PingInterval   time.Duration `yaml:"ping_interval"`
		MaxMessageSize int64         `yaml:"max_message_size"`
	} `yaml:"websocket"`
	Nats struct {
		StreamName string        `yaml:"stream_name"`
		MaxAge     time.Duration `yaml:"max_age"`
	} `yaml:"nats"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

func defaultConfig() *Config {
	var config Config
	config.WcaLive.BaseURL = wca_live_client.BaseURL
	config.WcaLive.Timeout = 30 * time.Second
	config.WcaAPI.BaseURL = wca_api_client.BaseURL
	config.WcaAPI.Timeout = 30 * time.Second

	ws := gateway.DefaultConnectionConfig()
	config.WebSocket.WriteTimeout = ws.WriteTimeout
	config.WebSocket.ReadTimeout = ws.ReadTimeout
	config.WebSocket.PingInterval = ws.PingInterval
	config.WebSocket.MaxMessageSize = ws.MaxMessageSize

	js := gateway.DefaultJetStreamConfig()
	config.Nats.StreamName = js.StreamName
	config.Nats.MaxAge = js.MaxAge

	config.CORS.AllowedOrigins = []string{"*"}
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads path over the defaults. A missing file keeps the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func (c *Config) connectionConfig() gateway.ConnectionConfig {
	ws := gateway.DefaultConnectionConfig()
	ws.WriteTimeout = c.WebSocket.WriteTimeout
	ws.ReadTimeout = c.WebSocket.ReadTimeout
	ws.PingInterval = c.WebSocket.PingInterval
	ws.MaxMessageSize = c.WebSocket.MaxMessageSize
	return ws
}

func (c *Config) jetStreamConfig(url string) gateway.JetStreamConfig {
	js := gateway.DefaultJetStreamConfig()
	js.URL = url
	js.StreamName = c.Nats.StreamName
	js.MaxAge = c.Nats.MaxAge
	return js
}
