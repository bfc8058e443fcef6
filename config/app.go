package config

type App struct {
	Port           string `env:"APP_PORT" default:"5000"`
	MongoURI       string `env:"MONGO_URI,required"`
	DBName         string `env:"DB_NAME" default:"bookLending"`
	JWTSecret      string `env:"JWT_SECRET,required"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	Env            string `env:"APP_ENV" default:"dev"`
}
