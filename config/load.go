package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func Load() App {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := App{
		Port:           getenv("APP_PORT", "5000"),
		MongoURI:       must("MONGO_URI"),
		DBName:         getenv("DB_NAME", "bookLending"),
		JWTSecret:      getenv("JWT_SECRET", "local_dev_secret"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "http://localhost:5173"),
		Env:            getenv("APP_ENV", "dev"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
