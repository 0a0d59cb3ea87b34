package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	MediaDriverS3     = "s3"
	MediaDriverMemory = "memory"
)

type AppConfig struct {
	Port             string        `mapstructure:"PORT"`
	GRPCPort         string        `mapstructure:"GRPC_PORT"`
	AppEnv           string        `mapstructure:"APP_ENV"`
	ServiceName      string        `mapstructure:"SERVICE_NAME"`
	BaseURL          string        `mapstructure:"BASE_URL"`
	PostgresUsername string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase string        `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode  string        `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost     string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string        `mapstructure:"POSTGRES_PORT"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	TokenTTL         time.Duration `mapstructure:"TOKEN_TTL"`
	RabbitMQURL      string        `mapstructure:"RABBITMQ_URL"`
	MediaDriver      string        `mapstructure:"MEDIA_DRIVER"`
	MediaPublicURL   string        `mapstructure:"MEDIA_PUBLIC_URL"`
	AWSEndpoint      string        `mapstructure:"AWS_ENDPOINT"`
	AWSBucket        string        `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion string        `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey     string        `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey     string        `mapstructure:"AWS_SECRET_KEY"`
}

func Read() *AppConfig {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	var appConfig AppConfig
	err := viper.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	return &appConfig
}

// Validate reports settings the binaries cannot start without.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}

	switch c.MediaDriver {
	case MediaDriverMemory:
	case MediaDriverS3:
		if c.AWSBucket == "" {
			errs = append(errs, errors.New("AWS_BUCKET is required when MEDIA_DRIVER=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MEDIA_DRIVER %q", c.MediaDriver))
	}

	return errors.Join(errs...)
}

func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUsername, c.PostgresPassword, c.PostgresDatabase, c.PostgresSSLMode,
	)
}

func (c *AppConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func bindEnvVariables() {
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("GRPC_PORT")
	_ = viper.BindEnv("APP_ENV")
	_ = viper.BindEnv("SERVICE_NAME")
	_ = viper.BindEnv("BASE_URL")
	_ = viper.BindEnv("POSTGRES_USERNAME")
	_ = viper.BindEnv("POSTGRES_PASSWORD")
	_ = viper.BindEnv("POSTGRES_DATABASE")
	_ = viper.BindEnv("POSTGRES_SSLMODE")
	_ = viper.BindEnv("POSTGRES_HOST")
	_ = viper.BindEnv("POSTGRES_PORT")
	_ = viper.BindEnv("REDIS_ADDR")
	_ = viper.BindEnv("REDIS_PASSWORD")
	_ = viper.BindEnv("REDIS_DB")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("TOKEN_TTL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("MEDIA_DRIVER")
	_ = viper.BindEnv("MEDIA_PUBLIC_URL")
	_ = viper.BindEnv("AWS_ENDPOINT")
	_ = viper.BindEnv("AWS_BUCKET")
	_ = viper.BindEnv("AWS_DEFAULT_REGION")
	_ = viper.BindEnv("AWS_ACCESS_KEY")
	_ = viper.BindEnv("AWS_SECRET_KEY")
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GRPC_PORT", "9090")
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("SERVICE_NAME", "isletmenum")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_DATABASE", "isletmenum")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("MEDIA_DRIVER", MediaDriverS3)
}
