package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	JWT          JWT
	GeminiApiKey string
	AMQP         AMQP
	MinIO        MinIO
	Proctoring   Proctoring
	RateLimit    RateLimit
	Scoring      Scoring
}

type Server struct {
	Port string
	Mode string // "debug" or "release"
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWT struct {
	Secret           string
	AccessTTLMinutes int
	RefreshTTLHours  int
}

type AMQP struct {
	URL      string
	Exchange string
}

type MinIO struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

type Proctoring struct {
	ServiceURL          string
	SuspiciousThreshold int
	AlertConfidence     float64
}

type RateLimit struct {
	RequestsPerWindow int
	WindowSeconds     int
}

type Scoring struct {
	FallbackScore float64
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("JWT_ACCESS_TTL_MINUTES", 15)
	viper.SetDefault("JWT_REFRESH_TTL_HOURS", 24*7)
	viper.SetDefault("AMQP_EXCHANGE", "exam.events")
	viper.SetDefault("MINIO_BUCKET", "exam-assets")
	viper.SetDefault("PROCTORING_SUSPICIOUS_THRESHOLD", 5)
	viper.SetDefault("PROCTORING_ALERT_CONFIDENCE", 0.8)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("SCORING_FALLBACK_SCORE", 50.0)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.Mode = viper.GetString("SERVER_MODE")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.AccessTTLMinutes = viper.GetInt("JWT_ACCESS_TTL_MINUTES")
	config.JWT.RefreshTTLHours = viper.GetInt("JWT_REFRESH_TTL_HOURS")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	config.AMQP.URL = viper.GetString("AMQP_URL")
	config.AMQP.Exchange = viper.GetString("AMQP_EXCHANGE")

	config.MinIO.Endpoint = viper.GetString("MINIO_ENDPOINT")
	config.MinIO.AccessKeyID = viper.GetString("MINIO_ACCESS_KEY")
	config.MinIO.SecretAccessKey = viper.GetString("MINIO_SECRET_KEY")
	config.MinIO.Bucket = viper.GetString("MINIO_BUCKET")
	config.MinIO.UseSSL = viper.GetBool("MINIO_USE_SSL")

	config.Proctoring.ServiceURL = viper.GetString("PROCTORING_SERVICE_URL")
	config.Proctoring.SuspiciousThreshold = viper.GetInt("PROCTORING_SUSPICIOUS_THRESHOLD")
	config.Proctoring.AlertConfidence = viper.GetFloat64("PROCTORING_ALERT_CONFIDENCE")

	config.RateLimit.RequestsPerWindow = viper.GetInt("RATE_LIMIT_REQUESTS")
	config.RateLimit.WindowSeconds = viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")

	config.Scoring.FallbackScore = viper.GetFloat64("SCORING_FALLBACK_SCORE")

	log.Info().Str("port", config.Server.Port).Str("database", config.Database.Name).Msg("Config loaded")
	return &config, nil
}
