package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"escape-game-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the level bank from a backing store (e.g. Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context) (domain.LevelBank, error)
}

// BankRepository caches the level bank with TTL to avoid repeated store hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    domain.LevelBank
	hasCache  bool
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) (domain.LevelBank, error) {
	now := r.clock()

	r.mu.RLock()
	if r.hasCache && r.expiresAt.After(now) {
		bank := r.cached
		r.mu.RUnlock()
		return bank, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.hasCache && r.expiresAt.After(now) {
			bank := r.cached
			r.mu.RUnlock()
			return bank, nil
		}
		r.mu.RUnlock()

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return domain.LevelBank{}, err
		}

		r.mu.Lock()
		r.cached = bank
		r.hasCache = true
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.LevelBank{}, err
	}
	return result.(domain.LevelBank), nil
}

// StaticBankLoader serves a fixed bank (the built-in content, or test data).
type StaticBankLoader struct {
	bank domain.LevelBank
}

func NewStaticBankLoader(bank domain.LevelBank) *StaticBankLoader {
	return &StaticBankLoader{bank: bank}
}

func (l *StaticBankLoader) LoadBank(context.Context) (domain.LevelBank, error) {
	if err := l.bank.Validate(); err != nil {
		return domain.LevelBank{}, err
	}
	return l.bank, nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
