package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPort     string `mapstructure:"DB_PORT"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`

	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_SECRET"`

	HeartsRefillRateHours int `mapstructure:"HEARTS_REFILL_RATE_HOURS"`
	CurrentMaxSection     int `mapstructure:"CURRENT_MAX_SECTION"`

	SourceEmail         string `mapstructure:"SOURCE_EMAIL"`
	SendgridAPIKey      string `mapstructure:"SENDGRID_API_KEY"`
	FrontendCallbackURL string `mapstructure:"FRONTEND_CALLBACK_URL"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.BindEnv("PORT")
	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("JWT_REFRESH_SECRET")
	viper.BindEnv("HEARTS_REFILL_RATE_HOURS")
	viper.BindEnv("CURRENT_MAX_SECTION")
	viper.BindEnv("SOURCE_EMAIL")
	viper.BindEnv("SENDGRID_API_KEY")
	viper.BindEnv("FRONTEND_CALLBACK_URL")
	viper.BindEnv("ALLOWED_ORIGINS")

	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("HEARTS_REFILL_RATE_HOURS", 3)
	viper.SetDefault("CURRENT_MAX_SECTION", 30)

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
