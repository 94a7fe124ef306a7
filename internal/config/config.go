package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI string
	ListenAddr  string
	JWTSecret   string

	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	SMTPAddr     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	FCMProjectID       string
	FCMCredentialsPath string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURI: os.Getenv("DATABASE_URI"),
		ListenAddr:  getEnvOrDefault("LISTEN_ADDR", ":8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIBaseURL: getEnvOrDefault("AI_BASE_URL", "https://api.openai.com/v1"),
		AIModel:   getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),

		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),

		FCMProjectID:       os.Getenv("FCM_PROJECT_ID"),
		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
