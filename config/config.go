package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	JWT      JWT
	Sweeper  Sweeper
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWT struct {
	Secret     string
	TTLMinutes int
}

type Sweeper struct {
	IntervalSeconds int
	BatchSize       int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("JWT_TTL_MINUTES", 60*24)
	viper.SetDefault("SWEEPER_INTERVAL_SECONDS", 30)
	viper.SetDefault("SWEEPER_BATCH_SIZE", 200)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.TTLMinutes = viper.GetInt("JWT_TTL_MINUTES")

	config.Sweeper.IntervalSeconds = viper.GetInt("SWEEPER_INTERVAL_SECONDS")
	config.Sweeper.BatchSize = viper.GetInt("SWEEPER_BATCH_SIZE")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
