package domain

import "testing"

func TestLevelBankValidate(t *testing.T) {
	valid := LevelBank{
		SecretWord: "E",
		Levels: []LevelDefinition{
			{
				LevelNumber:    1,
				ClearThreshold: 1,
				Questions: []Question{
					{ID: "q1", Modality: ModalityChoice, AcceptedAnswer: "4", Points: 10, TimeLimitSeconds: 30},
				},
			},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid bank rejected: %v", err)
	}

	empty := LevelBank{}
	if err := empty.Validate(); err != ErrBankNotFound {
		t.Fatalf("empty bank must be rejected, got %v", err)
	}

	noQuestions := valid
	noQuestions.Levels = []LevelDefinition{{LevelNumber: 1, ClearThreshold: 1}}
	if err := noQuestions.Validate(); err == nil {
		t.Fatalf("a level without questions must be rejected")
	}

	badThreshold := valid
	badThreshold.Levels = []LevelDefinition{{
		LevelNumber:    1,
		ClearThreshold: 2,
		Questions: []Question{
			{ID: "q1", Modality: ModalityChoice, AcceptedAnswer: "4", Points: 10, TimeLimitSeconds: 30},
		},
	}}
	if err := badThreshold.Validate(); err == nil {
		t.Fatalf("a threshold above the question count must be rejected")
	}
}
