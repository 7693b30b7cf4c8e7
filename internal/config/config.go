package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	BaseURL    string     `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
	AdminToken string     `yaml:"admin_token" env:"ADMIN_TOKEN" env-required:"true"`
	HTTPServer HTTPServer `yaml:"http_server"`
	DB         DB         `yaml:"db"`
	Cache      Cache      `yaml:"cache"`
	Blob       Blob       `yaml:"blob"`
	Email      Email      `yaml:"email"`
	Share      Share      `yaml:"share"`
	Sweeper    Sweeper    `yaml:"sweeper"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-required:"true"`
	DB       string `yaml:"database" env:"DB_NAME" env-required:"true"`
}

type Cache struct {
	Addr       string        `yaml:"addr" env:"CACHE_ADDR" env-default:"localhost:6379"`
	Password   string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB         int           `yaml:"db" env:"CACHE_DB" env-default:"0"`
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"24h"`
	DocsTTL    time.Duration `yaml:"docs_ttl" env-default:"5m"`
}

// Blob selects the blob store backend: "file" keeps content on the
// local filesystem, "s3" talks to S3 or a minio endpoint.
type Blob struct {
	Backend string `yaml:"backend" env:"BLOB_BACKEND" env-default:"file"`
	Path    string `yaml:"path" env:"BLOB_PATH" env-default:"./storage"`
	S3      S3     `yaml:"s3"`
}

type S3 struct {
	Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Local     bool   `yaml:"local" env:"S3_LOCAL"`
}

type Email struct {
	Host     string `yaml:"host" env:"EMAIL_HOST"`
	Port     int    `yaml:"port" env:"EMAIL_PORT" env-default:"587"`
	User     string `yaml:"user" env:"EMAIL_USER"`
	Password string `yaml:"password" env:"EMAIL_PASSWORD"`
	From     string `yaml:"from" env:"EMAIL_FROM"`
}

type Share struct {
	Secret string        `yaml:"secret" env:"SHARE_SECRET" env-required:"true"`
	TTL    time.Duration `yaml:"ttl" env-default:"60s"`
}

type Sweeper struct {
	Interval time.Duration `yaml:"interval" env-default:"1m"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
