package memory

import (
	"context"
	"testing"
	"time"

	"etika-quiz-service/internal/domain"
)

func TestBankCacheLoadsOnce(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewQuestionBank(
			[]domain.Question{{ID: 1, Text: "soal"}},
			[]domain.AnswerOption{
				{ID: 11, QuestionID: 1, Text: "benar", Correct: true},
				{ID: 12, QuestionID: 1, Text: "salah"},
			},
		),
	}
	cache := NewBankCache(loader, time.Minute)

	ids, err := cache.RemainingIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("remaining ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second read should hit the cached snapshot.
	if _, err := cache.OptionByID(context.Background(), 11); err != nil {
		t.Fatalf("option: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestBankCacheExcludes(t *testing.T) {
	bank := NewQuestionBank(
		[]domain.Question{{ID: 1}, {ID: 2}, {ID: 3}},
		nil,
	)
	cache := NewBankCache(&countingLoader{BankLoader: bank}, time.Minute)

	ids, err := cache.RemainingIDs(context.Background(), []int64{2})
	if err != nil {
		t.Fatalf("remaining ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) ([]domain.Question, []domain.AnswerOption, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}
