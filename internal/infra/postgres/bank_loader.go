package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"escape-game-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads the level bank JSONB from Postgres. A single active row
// holds the whole bank; content updates are a new row flip, not a rebuild.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context) (domain.LevelBank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM level_banks WHERE active ORDER BY created_at DESC LIMIT 1`).Scan(&raw)
	if err != nil {
		return domain.LevelBank{}, fmt.Errorf("load level bank: %w", err)
	}
	var bank domain.LevelBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.LevelBank{}, fmt.Errorf("unmarshal level bank: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return domain.LevelBank{}, fmt.Errorf("validate level bank: %w", err)
	}
	return bank, nil
}
