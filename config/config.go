package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// BookingConfig carries the concurrency-control knobs. Strategy selects the
// capacity guard implementation; valid values are "pessimistic",
// "optimistic" and "redis_lock".
type BookingConfig struct {
	Strategy             string
	SeatHoldTTL          time.Duration
	EventLockTTL         time.Duration
	OptimisticMaxRetries int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Booking:  GetBookingConfig(),
		JWT:      GetJWTConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8081", Mode: "test"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5433", // test DB runs on 5433
			User:     "postgres",
			Password: "postgres",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     "6380", // test Redis runs on 6380
			Password: "",
			DB:       1,
		},
		Booking: BookingConfig{
			Strategy:             "pessimistic",
			SeatHoldTTL:          10 * time.Minute,
			EventLockTTL:         10 * time.Second,
			OptimisticMaxRetries: 5,
		},
		JWT: JWTConfig{Secret: "test-secret", TTL: time.Hour},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnv("SERVER_PORT", "8080"),
		Mode: getEnv("GIN_MODE", "debug"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "eventhub"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetBookingConfig() BookingConfig {
	return BookingConfig{
		Strategy:             getEnv("CAPACITY_STRATEGY", "pessimistic"),
		SeatHoldTTL:          getDuration("SEAT_HOLD_TTL", 10*time.Minute),
		EventLockTTL:         getDuration("EVENT_LOCK_TTL", 10*time.Second),
		OptimisticMaxRetries: getInt("OPTIMISTIC_MAX_RETRIES", 5),
	}
}

func GetJWTConfig() JWTConfig {
	return JWTConfig{
		Secret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		TTL:    getDuration("JWT_TTL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
