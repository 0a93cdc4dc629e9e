package memory

import (
	"context"
	"sort"

	"etika-quiz-service/internal/domain"
)

// QuestionBank is an in-memory implementation of app.QuestionBank, backed by
// plain maps (useful for tests and the no-postgres fallback mode).
type QuestionBank struct {
	questions map[int64]domain.Question
	options   map[int64]domain.AnswerOption
	byQst     map[int64][]domain.AnswerOption
}

func NewQuestionBank(questions []domain.Question, options []domain.AnswerOption) *QuestionBank {
	b := &QuestionBank{
		questions: make(map[int64]domain.Question, len(questions)),
		options:   make(map[int64]domain.AnswerOption, len(options)),
		byQst:     make(map[int64][]domain.AnswerOption),
	}
	for _, q := range questions {
		b.questions[q.ID] = q
	}
	for _, o := range options {
		b.options[o.ID] = o
		b.byQst[o.QuestionID] = append(b.byQst[o.QuestionID], o)
	}
	return b
}

func (b *QuestionBank) RemainingIDs(_ context.Context, excluded []int64) ([]int64, error) {
	skip := make(map[int64]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	ids := make([]int64, 0, len(b.questions))
	for id := range b.questions {
		if _, ok := skip[id]; !ok {
			ids = append(ids, id)
		}
	}
	// Stable order so a seeded shuffle picks deterministically in tests.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (b *QuestionBank) QuestionByID(_ context.Context, id int64) (domain.Question, error) {
	q, ok := b.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (b *QuestionBank) OptionsFor(_ context.Context, questionID int64) ([]domain.AnswerOption, error) {
	opts, ok := b.byQst[questionID]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	out := make([]domain.AnswerOption, len(opts))
	copy(out, opts)
	return out, nil
}

func (b *QuestionBank) OptionByID(_ context.Context, id int64) (domain.AnswerOption, error) {
	o, ok := b.options[id]
	if !ok {
		return domain.AnswerOption{}, domain.ErrOptionNotFound
	}
	return o, nil
}

// LoadBank lets the in-memory bank double as a BankLoader behind BankCache.
func (b *QuestionBank) LoadBank(_ context.Context) ([]domain.Question, []domain.AnswerOption, error) {
	questions := make([]domain.Question, 0, len(b.questions))
	for _, q := range b.questions {
		questions = append(questions, q)
	}
	options := make([]domain.AnswerOption, 0, len(b.options))
	for _, o := range b.options {
		options = append(options, o)
	}
	return questions, options, nil
}
