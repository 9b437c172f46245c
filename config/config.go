package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	SMTP   SMTPConfig
	Push   PushConfig
	Crypto CryptoConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	FrontendOrigin string
}

type MongoConfig struct {
	URL      string
	Database string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Enabled  bool
}

type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	Enabled         bool
}

type CryptoConfig struct {
	Secret string
}

func Load() *Config {
	_ = godotenv.Load()

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			Env:            getEnv("ENV", "development"),
			FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		},
		Mongo: MongoConfig{
			URL:      getEnv("MONGODB_URL", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "carniceria"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@carniceria.cl"),
		},
		Push: PushConfig{
			VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
			VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
			Subscriber:      getEnv("VAPID_SUBSCRIBER", "mailto:admin@carniceria.cl"),
		},
		Crypto: CryptoConfig{
			Secret: getEnv("SECRET_KEY", ""),
		},
	}
	cfg.SMTP.Enabled = cfg.SMTP.Host != ""
	cfg.Push.Enabled = cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != ""

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
