package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Identity IdentityConfig
	Limits   LimitsConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
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

// IdentityConfig holds the parameters used to verify session tokens minted
// by the external identity provider.
type IdentityConfig struct {
	JWTSecret string
	Issuer    string
}

// LimitsConfig holds the two-axis rate-limit windows for write endpoints.
type LimitsConfig struct {
	SubmitPerUser   int
	SubmitPerIP     int
	SubmitWindowMin int
	VotePerUser     int
	VotePerIP       int
	VoteWindowMin   int
	BurstPerSec     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	origins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",")

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "archive"),
			Password: getEnv("DB_PASSWORD", "archive_password"),
			DBName:   getEnv("DB_NAME", "archive_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Identity: IdentityConfig{
			JWTSecret: getEnv("IDENTITY_JWT_SECRET", "change-this-secret-key"),
			Issuer:    getEnv("IDENTITY_ISSUER", ""),
		},
		Limits: LimitsConfig{
			SubmitPerUser:   getEnvInt("RATE_LIMIT_SUBMIT_PER_USER", 5),
			SubmitPerIP:     getEnvInt("RATE_LIMIT_SUBMIT_PER_IP", 10),
			SubmitWindowMin: getEnvInt("RATE_LIMIT_SUBMIT_WINDOW_MINUTES", 10),
			VotePerUser:     getEnvInt("RATE_LIMIT_VOTE_PER_USER", 10),
			VotePerIP:       getEnvInt("RATE_LIMIT_VOTE_PER_IP", 20),
			VoteWindowMin:   getEnvInt("RATE_LIMIT_VOTE_WINDOW_MINUTES", 1),
			BurstPerSec:     getEnvInt("RATE_LIMIT_BURST_PER_SECOND", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: origins,
		},
	}

	// Validate required fields
	if cfg.Identity.JWTSecret == "change-this-secret-key" && cfg.Server.Env == "production" {
		return nil, fmt.Errorf("IDENTITY_JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}
