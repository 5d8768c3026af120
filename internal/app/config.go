package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

// DefaultMaxFileSize caps submission uploads at 15 MiB.
const DefaultMaxFileSize = 15 << 20

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Uploads struct {
		Backend     string `toml:"backend"`
		Dir         string `toml:"dir"`
		MaxFileSize int64  `toml:"max_file_size"`

		S3 struct {
			Endpoint  string `toml:"endpoint"`
			Region    string `toml:"region"`
			Bucket    string `toml:"bucket"`
			AccessKey string `toml:"access_key"`
			SecretKey string `toml:"secret_key"`
		} `toml:"s3"`
	} `toml:"uploads"`

	Grading struct {
		PassingGrades []string `toml:"passing_grades"`
	} `toml:"grading"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	if config.Auth.TokenHeader == "" {
		config.Auth.TokenHeader = "Authorization"
	}
	if config.Auth.TokenKeyTemplate == "" {
		config.Auth.TokenKeyTemplate = "auth:{email}"
	}
	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if config.Uploads.Backend == "" {
		config.Uploads.Backend = "fs"
	}
	if config.Uploads.Dir == "" {
		config.Uploads.Dir = "./uploads"
	}
	if config.Uploads.MaxFileSize == 0 {
		config.Uploads.MaxFileSize = DefaultMaxFileSize
	}

	logger.Debug.Printf("Loaded grading config: %+v", config.Grading)

	return &config, nil
}
