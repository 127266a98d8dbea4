package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	TCPPort    string    `yaml:"tcp-port" env:"TCP_PORT" env-default:"12345"`
	Redis      Redis     `yaml:"redis"`
	Broadcast  Broadcast `yaml:"broadcast"`
	RPS        RPS       `yaml:"rps"`
	WebSocket  WebSocket `yaml:"websocket"`
}

type Redis struct {
	Enabled      bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host         string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port         string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password     string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB           int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	ResultsLimit int    `yaml:"results-limit" env:"REDIS_RESULTS_LIMIT" env-default:"100"`
}

type Broadcast struct {
	// QueueSize is the number of frames a slow client may lag behind before it is dropped.
	QueueSize int `yaml:"queue-size" env:"BROADCAST_QUEUE_SIZE" env-default:"64"`
}

type RPS struct {
	RoundDelay   time.Duration `yaml:"round-delay" env:"RPS_ROUND_DELAY" env-default:"500ms"`
	MaxFrameSize int           `yaml:"max-frame-size" env:"RPS_MAX_FRAME_SIZE" env-default:"4096"`
	WriteTimeout time.Duration `yaml:"write-timeout" env:"RPS_WRITE_TIMEOUT" env-default:"5s"`
}

type WebSocket struct {
	ReadLimit    int64         `yaml:"read-limit" env:"WS_READ_LIMIT" env-default:"4096"`
	WriteTimeout time.Duration `yaml:"write-timeout" env:"WS_WRITE_TIMEOUT" env-default:"5s"`
}

// MustLoad - load all configurations in config.yml file, environment variables win.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
