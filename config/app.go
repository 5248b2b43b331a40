package config

import "time"

type App struct {
	Port        string `envconfig:"APP_PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	JWTTTLHours int    `envconfig:"JWT_TTL_HOURS" default:"24"`
	Env         string `envconfig:"APP_ENV" default:"dev"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	AuthRequired      bool          `envconfig:"AUTH_REQUIRED" default:"true"`
	SeedOnStart       bool          `envconfig:"SEED_ON_START" default:"false"`
	SeedAdminPassword string        `envconfig:"SEED_ADMIN_PASSWORD" default:"admin123"`
	ReconcileInterval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"0s"`
	RateLimitRPS      float64       `envconfig:"RATE_LIMIT_RPS" default:"20"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	RabbitURL           string `envconfig:"RABBIT_URL"`
	ReservationExchange string `envconfig:"RESERVATION_EXCHANGE" default:"hotel.reservations"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RoomLockTTL   time.Duration `envconfig:"ROOM_LOCK_TTL" default:"10s"`
}

func (a App) JWTTTL() time.Duration { return time.Duration(a.JWTTTLHours) * time.Hour }
