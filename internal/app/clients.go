package app

import (
	"fmt"
	"os"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	brevoclient "github.com/avaraper/calily-backend/internal/clients/brevo"
	openaiclient "github.com/avaraper/calily-backend/internal/clients/openai"
	redisclient "github.com/avaraper/calily-backend/internal/clients/redis"
	"github.com/avaraper/calily-backend/internal/insight/cache"
	"github.com/avaraper/calily-backend/internal/insight/quota"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
)

type Clients struct {
	OpenAI openaiclient.Client
	Brevo  brevoclient.Client
	Redis  *goredis.Client

	QuotaStore quota.Store
	CacheStore cache.Store
}

// wireClients builds the external clients and the pipeline's shared stores.
// With REDIS_ADDR set, quota and cache state live in Redis so multiple
// instances share one budget; otherwise both stay in-process.
func wireClients(cfg Config, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	openaiClient, err := openaiclient.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	clients := Clients{
		OpenAI:     openaiClient,
		QuotaStore: quota.NewMemoryStore(),
		CacheStore: cache.NewMemoryStore(),
	}

	// Email is optional: without it, password resets run in dev mode and
	// return the code to the caller.
	if strings.TrimSpace(os.Getenv("BREVO_API_KEY")) != "" {
		brevoClient, err := brevoclient.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init brevo client: %w", err)
		}
		clients.Brevo = brevoClient
	} else {
		log.Warn("BREVO_API_KEY not set, password reset emails disabled")
	}

	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis client: %w", err)
		}
		clients.Redis = rdb
		clients.QuotaStore = quota.NewRedisStore(rdb)
		clients.CacheStore = cache.NewRedisStore(rdb)
	}

	return clients, nil
}
