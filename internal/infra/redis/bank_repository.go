package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"escape-game-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the level bank from a backing store (e.g. Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context) (domain.LevelBank, error)
}

const bankKey = "game:levelbank"

// BankRepository caches the serialized level bank in Redis and falls back to
// the loader on cache miss. The bank is a single static blob, so it is stored
// as one JSON value rather than per-question hashes.
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) (domain.LevelBank, error) {
	if bank, ok := r.fromCache(ctx); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return domain.LevelBank{}, err
		}

		if raw, err := json.Marshal(bank); err == nil {
			_ = r.client.Set(ctx, bankKey, raw, r.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return domain.LevelBank{}, err
	}
	return result.(domain.LevelBank), nil
}

func (r *BankRepository) fromCache(ctx context.Context) (domain.LevelBank, bool) {
	raw, err := r.client.Get(ctx, bankKey).Bytes()
	if err != nil || len(raw) == 0 {
		return domain.LevelBank{}, false
	}
	var bank domain.LevelBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.LevelBank{}, false
	}
	return bank, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
