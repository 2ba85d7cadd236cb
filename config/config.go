package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Chat      ChatConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type ChatConfigs struct {
	// MessagePageLimit bounds the page size of message history reads.
	MessagePageLimit int

	// PresenceTTL is how long an online marker lives without a refresh.
	PresenceTTL time.Duration
}

// Load reads configurations from environment variables. A .env file in the
// working directory is applied first if present.
func Load() Configs {
	godotenv.Load()

	return Configs{
		Env: getEnv("ENV", "local"),
		Database: DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "pulsespace"),
			User:     getEnv("MYSQL_USER", "pulsespace"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
		},
		ApiServer: ServerConfigs{
			Host: getEnv("API_HOST", "0.0.0.0"),
			Port: getEnv("API_PORT", "8080"),
		},
		Auth: AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: TokenConfigs{
				Name:       getEnv("ACCESS_TOKEN_NAME", "access_token"),
				Expiration: getDuration("ACCESS_TOKEN_DURATION", time.Hour*24),
			},
		},
		Redis: RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Chat: ChatConfigs{
			MessagePageLimit: getInt("CHAT_MESSAGE_PAGE_LIMIT", 50),
			PresenceTTL:      getDuration("CHAT_PRESENCE_TTL", time.Minute),
		},
	}
}

func getEnv(key, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return def
}

func getInt(key string, def int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return def
}
