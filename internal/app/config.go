package app

import (
	"time"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/utils"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RedisAddr       string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:            utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTokenTTL: time.Duration(utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)) * time.Second,
		RedisAddr:       utils.GetEnv("REDIS_ADDR", "", log),
	}
}
