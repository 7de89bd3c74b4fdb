package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Mpesa    MpesaConfig
	Session  SessionConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// MpesaConfig berisi kredensial Daraja API
type MpesaConfig struct {
	BaseURL          string
	ConsumerKey      string
	ConsumerSecret   string
	ShortCode        string
	PassKey          string
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
	Timeout          time.Duration
	CacheToken       bool
}

type SessionConfig struct {
	ExpiryHours int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "ehousing-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke")
	viper.SetDefault("MPESA_ACCOUNT_REFERENCE", "E-Housing")
	viper.SetDefault("MPESA_TRANSACTION_DESC", "E-Housing Payment")
	viper.SetDefault("MPESA_TIMEOUT_SECONDS", 30)
	viper.SetDefault("MPESA_TOKEN_CACHE", true)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)

	// .env opsional, env variable tetap dibaca
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Mpesa: MpesaConfig{
			BaseURL:          viper.GetString("MPESA_BASE_URL"),
			ConsumerKey:      viper.GetString("CONSUMER_KEY"),
			ConsumerSecret:   viper.GetString("CONSUMER_SECRET"),
			ShortCode:        viper.GetString("BUSINESS_SHORTCODE"),
			PassKey:          viper.GetString("PASSKEY"),
			CallbackURL:      viper.GetString("CALLBACK_URL"),
			AccountReference: viper.GetString("MPESA_ACCOUNT_REFERENCE"),
			TransactionDesc:  viper.GetString("MPESA_TRANSACTION_DESC"),
			Timeout:          time.Duration(viper.GetInt("MPESA_TIMEOUT_SECONDS")) * time.Second,
			CacheToken:       viper.GetBool("MPESA_TOKEN_CACHE"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
