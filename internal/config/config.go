package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Dataset              DatasetConfig  `mapstructure:"dataset"`
	Storage              StorageConfig  `mapstructure:"storage"`
	Database             DatabaseConfig `mapstructure:"database"`
	Catalog              CatalogConfig  `mapstructure:"catalog"`
	Outputs              OutputsConfig  `mapstructure:"outputs"`
	Server               ServerConfig   `mapstructure:"server"`
	DebounceMilliseconds int            `mapstructure:"debounce_milliseconds" validate:"gte=0"`
}

type DatasetConfig struct {
	Source         string `mapstructure:"source" validate:"required,source"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
	RetryAttempts  int    `mapstructure:"retry_attempts" validate:"gte=0,lte=10"`
}

const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
	StorageDriverMySQL  = "mysql"
)

type StorageConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=file sqlite mysql"`
	Directory  string `mapstructure:"directory"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type CatalogConfig struct {
	DefaultCategory string `mapstructure:"default_category" validate:"required"`
}

type OutputsConfig struct {
	ExportDirectory  string `mapstructure:"export_directory"`
	CompareDirectory string `mapstructure:"compare_directory"`
	ImageDirectory   string `mapstructure:"image_directory"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=1,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (c DatasetConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) DebounceInterval() time.Duration {
	return time.Duration(c.DebounceMilliseconds) * time.Millisecond
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/phonecompare")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("dataset.source", "phone_data.json")
	v.SetDefault("dataset.timeout_seconds", 10)
	v.SetDefault("dataset.retry_attempts", 2)
	v.SetDefault("storage.driver", StorageDriverFile)
	v.SetDefault("storage.directory", filepath.Join("data", "user"))
	v.SetDefault("storage.sqlite_path", filepath.Join("data", "phonecompare.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "phonecompare")
	v.SetDefault("database.username", "user")
	v.SetDefault("catalog.default_category", "中端")
	v.SetDefault("outputs.export_directory", ".")
	v.SetDefault("outputs.compare_directory", filepath.Join("outputs", "compare"))
	v.SetDefault("outputs.image_directory", filepath.Join("outputs", "images"))
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("debounce_milliseconds", 300)

	// Variables already set in the environment take precedence over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load > %w", err)
	}
	if err := v.BindEnv("dataset.source", "PHONECOMPARE_DATASET"); err != nil {
		return nil, fmt.Errorf("failed to bind PHONECOMPARE_DATASET environment variable: %w", err)
	}
	// The database password is read from the environment only
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
