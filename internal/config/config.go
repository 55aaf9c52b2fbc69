package config

import "os"

type Config struct {
	DatabaseURL       string
	JWTSecret         string
	Port              string
	RedisURL          string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	FCMServiceAccount string
	SFTPHost          string
	SFTPPort          string
	SFTPUser          string
	SFTPPassword      string
	SFTPBaseURL       string
}

func Load() *Config {
	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", "mkbpilot.db"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:              getEnv("PORT", "8080"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "MKB Pilot"),
		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
		SFTPHost:          getEnv("SFTP_HOST", ""),
		SFTPPort:          getEnv("SFTP_PORT", "22"),
		SFTPUser:          getEnv("SFTP_USER", ""),
		SFTPPassword:      getEnv("SFTP_PASSWORD", ""),
		SFTPBaseURL:       getEnv("SFTP_BASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
