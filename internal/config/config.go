package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env string `yaml:"env" env:"APP_ENV" env-default:"local"`
	API struct {
		BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-default:"http://127.0.0.1:8000/api"`
		WSURL   string `yaml:"ws_url" env:"API_WS_URL" env-default:"ws://127.0.0.1:8000/ws"`
		Timeout int    `yaml:"timeout_seconds" env-default:"10"`
	} `yaml:"api"`
	Session struct {
		TokenFile string `yaml:"token_file" env:"TOKEN_FILE" env-default:".portal-token"`
	} `yaml:"session"`
	Chat struct {
		PageSize          int `yaml:"page_size" env-default:"20"`
		PollSeconds       int `yaml:"poll_seconds" env-default:"10"`
		ReconnectAttempts int `yaml:"reconnect_attempts" env-default:"5"`
		ReconnectDelayMs  int `yaml:"reconnect_delay_ms" env-default:"500"`
	} `yaml:"chat"`
	Booking struct {
		MaxPhotos int `yaml:"max_photos" env-default:"5"`
	} `yaml:"booking"`
}

// APITimeout returns the HTTP client timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	if c.API.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.Timeout) * time.Second
}

// PollInterval returns the admin thread list polling interval.
func (c *Config) PollInterval() time.Duration {
	if c.Chat.PollSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Chat.PollSeconds) * time.Second
}

// ReconnectDelay returns the base delay between socket reconnect attempts.
func (c *Config) ReconnectDelay() time.Duration {
	if c.Chat.ReconnectDelayMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Chat.ReconnectDelayMs) * time.Millisecond
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
