package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"escape-game-service/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(sampleBank()),
	}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticBankLoaderRejectsEmptyBank(t *testing.T) {
	loader := NewStaticBankLoader(domain.LevelBank{})
	if _, err := loader.LoadBank(context.Background()); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank-not-found, got %v", err)
	}
}

func TestStaticBankLoaderRejectsMalformedBank(t *testing.T) {
	bank := sampleBank()
	bank.Levels[0].Questions = nil
	loader := NewStaticBankLoader(bank)
	if _, err := loader.LoadBank(context.Background()); err == nil {
		t.Fatalf("a level without questions must not load")
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) (domain.LevelBank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}

func sampleBank() domain.LevelBank {
	return domain.LevelBank{
		SecretWord: "ELEVEN",
		Levels: []domain.LevelDefinition{
			{
				LevelNumber:    1,
				Modality:       domain.ModalityChoice,
				LetterToUnlock: "E",
				SlotPosition:   0,
				ClearThreshold: 1,
				Questions: []domain.Question{
					{ID: "q1", Modality: domain.ModalityChoice, AcceptedAnswer: "4", Points: 10, TimeLimitSeconds: 30},
				},
			},
		},
	}
}
