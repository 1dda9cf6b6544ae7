package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Identity IdentityConfig
	Video    VideoConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// IdentityConfig points at the third-party identity provider used to verify
// external ID tokens and revoke provider sessions.
type IdentityConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// VideoConfig points at the video-conferencing provider that issues room
// credentials. CredentialTTL bounds how long an issued credential is cached.
type VideoConfig struct {
	BaseURL       string
	AppID         string
	APIKey        string
	Timeout       time.Duration
	CredentialTTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	identityTimeout, err := time.ParseDuration(viper.GetString("IDENTITY_TIMEOUT"))
	if err != nil {
		identityTimeout = 10 * time.Second
	}

	videoTimeout, err := time.ParseDuration(viper.GetString("VIDEO_TIMEOUT"))
	if err != nil {
		videoTimeout = 10 * time.Second
	}

	credentialTTL, err := time.ParseDuration(viper.GetString("VIDEO_CREDENTIAL_TTL"))
	if err != nil {
		credentialTTL = 30 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Identity: IdentityConfig{
			BaseURL: viper.GetString("IDENTITY_BASE_URL"),
			APIKey:  viper.GetString("IDENTITY_API_KEY"),
			Timeout: identityTimeout,
		},
		Video: VideoConfig{
			BaseURL:       viper.GetString("VIDEO_BASE_URL"),
			AppID:         viper.GetString("VIDEO_APP_ID"),
			APIKey:        viper.GetString("VIDEO_API_KEY"),
			Timeout:       videoTimeout,
			CredentialTTL: credentialTTL,
		},
	}

	return config, nil
}
