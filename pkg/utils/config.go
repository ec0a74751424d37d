package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	MPesa    MPesaConfig
	SMS      SMSConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	MaxConns      int32
	WaitAttempts  int
	WaitInterval  time.Duration
	MigrationsDir string
}

type MPesaConfig struct {
	Environment    string // sandbox or production
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
}

type SMSConfig struct {
	Username string
	APIKey   string
	SenderID string
}

type AdminConfig struct {
	Bootstrap bool
	Email     string
	Password  string
	Phone     string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "matatubook")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_WAIT_ATTEMPTS", 30)
	viper.SetDefault("DB_WAIT_INTERVAL", "1s")
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("MPESA_ENVIRONMENT", "sandbox")
	viper.SetDefault("AT_USERNAME", "sandbox")

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional in containers; environment variables still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			Name:          viper.GetString("DB_NAME"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASS"),
			MaxConns:      viper.GetInt32("DB_MAX_CONNS"),
			WaitAttempts:  viper.GetInt("DB_WAIT_ATTEMPTS"),
			WaitInterval:  viper.GetDuration("DB_WAIT_INTERVAL"),
			MigrationsDir: viper.GetString("MIGRATIONS_DIR"),
		},
		MPesa: MPesaConfig{
			Environment:    viper.GetString("MPESA_ENVIRONMENT"),
			ConsumerKey:    viper.GetString("MPESA_CONSUMER_KEY"),
			ConsumerSecret: viper.GetString("MPESA_CONSUMER_SECRET"),
			ShortCode:      viper.GetString("MPESA_SHORTCODE"),
			Passkey:        viper.GetString("MPESA_PASSKEY"),
			CallbackURL:    viper.GetString("MPESA_CALLBACK_URL"),
		},
		SMS: SMSConfig{
			Username: viper.GetString("AT_USERNAME"),
			APIKey:   viper.GetString("AT_API_KEY"),
			SenderID: viper.GetString("AT_SENDER_ID"),
		},
		Admin: AdminConfig{
			Bootstrap: viper.GetBool("ADMIN_BOOTSTRAP"),
			Email:     viper.GetString("ADMIN_EMAIL"),
			Password:  viper.GetString("ADMIN_PASSWORD"),
			Phone:     viper.GetString("ADMIN_PHONE"),
		},
	}

	return config, nil
}
