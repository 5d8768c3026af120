package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	timeFormat  = "2006-01-02 15:04:05"
	tokenPrefix = "sk-edqst-"
)

// Auth hashes credentials and manages opaque bearer tokens. Tokens live in a
// redis hash per account, alongside issue stats. With auth disabled tokens
// are still handed out on login but nothing persists or checks them.
type Auth struct {
	enabled     bool
	redis       *redis.Client
	keyTemplate string
	tokenHeader string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		enabled:     true,
		redis:       client,
		keyTemplate: config.Auth.TokenKeyTemplate,
		tokenHeader: config.Auth.TokenHeader,
	}, nil
}

func (a *Auth) Enabled() bool {
	return a.enabled
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

func (a *Auth) key(email string) string {
	return strings.NewReplacer("{email}", email).Replace(a.keyTemplate)
}

// IssueToken returns the account's bearer token, creating one on first login.
// Repeat logins reuse the stored token and bump its request stats.
func (a *Auth) IssueToken(ctx context.Context, email string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	if !a.enabled {
		return token, nil
	}

	key := a.key(email)
	existing, err := a.redis.HGet(ctx, key, "token").Result()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("failed to check token: %w", err)
	}

	now := time.Now().UTC()

	if err == redis.Nil {
		pipe := a.redis.Pipeline()
		pipe.HSet(ctx, key, map[string]interface{}{
			"token":                 token,
			"request_count":         1,
			"last_request_dttm_utc": now.Format(timeFormat),
			"created_dttm_utc":      now.Format(timeFormat),
		})
		if _, err := pipe.Exec(ctx); err != nil {
			return "", fmt.Errorf("failed to store token: %w", err)
		}
		return token, nil
	}

	pipe := a.redis.Pipeline()
	pipe.HIncrBy(ctx, key, "request_count", 1)
	pipe.HSet(ctx, key, "last_request_dttm_utc", now.Format(timeFormat))
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to update token stats: %w", err)
	}

	return existing, nil
}

func (a *Auth) ValidateToken(ctx context.Context, email, token string) error {
	if !a.enabled {
		return nil
	}

	key := a.key(email)

	fields, err := a.redis.HGetAll(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug.Printf("Token not found for key: %s", key)
		return fmt.Errorf("token not found")
	}
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return fmt.Errorf("redis error: %w", err)
	}

	if fields["token"] != token {
		logger.Debug.Printf("Token mismatch for %s", key)
		return fmt.Errorf("invalid token")
	}

	return nil
}
