package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"etika-quiz-service/internal/domain"
)

// QuestionBank exposes the read-only question store. The engine shuffles
// remaining IDs itself so the randomness source stays seedable in tests.
type QuestionBank interface {
	RemainingIDs(ctx context.Context, excluded []int64) ([]int64, error)
	QuestionByID(ctx context.Context, id int64) (domain.Question, error)
	OptionsFor(ctx context.Context, questionID int64) ([]domain.AnswerOption, error)
	OptionByID(ctx context.Context, id int64) (domain.AnswerOption, error)
}

// ScoreLedger persists users, their accumulated scores, and the answer log.
// RecordAnswer must apply the answer insert and the conditional score
// increment as a single transaction.
type ScoreLedger interface {
	RecordAnswer(ctx context.Context, answer domain.UserAnswer) error
	ResetScore(ctx context.Context, userID int64) error
	TopN(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
}

// ProgressStore abstracts where per-login quiz progress lives (redis, memory).
type ProgressStore interface {
	Get(ctx context.Context, token string) (domain.Progress, bool, error)
	Save(ctx context.Context, token string, p domain.Progress) error
	Clear(ctx context.Context, token string) error
}

// QuizService contains the quiz engine use cases.
type QuizService struct {
	bank     QuestionBank
	ledger   ScoreLedger
	progress ProgressStore

	maxQuestions int
	topSize      int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NextQuestionView is everything the quiz page needs for one question.
type NextQuestionView struct {
	Question   domain.Question
	Options    []domain.AnswerOption
	Answered   int
	TotalScore int
}

// Summary is the finish-page result of an attempt.
type Summary struct {
	Correct  int
	Answered int
}

func NewQuizService(bank QuestionBank, ledger ScoreLedger, progress ProgressStore, maxQuestions, topSize int) *QuizService {
	return NewQuizServiceWithRand(bank, ledger, progress, maxQuestions, topSize,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuizServiceWithRand is test-only for deterministic question selection.
func NewQuizServiceWithRand(bank QuestionBank, ledger ScoreLedger, progress ProgressStore, maxQuestions, topSize int, rnd *rand.Rand) *QuizService {
	return &QuizService{
		bank:         bank,
		ledger:       ledger,
		progress:     progress,
		maxQuestions: maxQuestions,
		topSize:      topSize,
		rnd:          rnd,
	}
}

// ensureProgress lazily creates zeroed progress for the login session.
func (s *QuizService) ensureProgress(ctx context.Context, token string) (domain.Progress, error) {
	p, ok, err := s.progress.Get(ctx, token)
	if err != nil {
		return domain.Progress{}, err
	}
	if ok {
		return p, nil
	}
	p = domain.Progress{}
	if err := s.progress.Save(ctx, token, p); err != nil {
		return domain.Progress{}, err
	}
	return p, nil
}

// NextQuestion picks the next unanswered question for the user. The bool
// result reports whether the attempt is finished instead: the attempt hit
// the question limit, the bank ran dry, or the user is parked on the
// leaderboard with a positive score (they must reset to requeue).
func (s *QuizService) NextQuestion(ctx context.Context, token string, userID int64) (NextQuestionView, bool, error) {
	p, err := s.ensureProgress(ctx, token)
	if err != nil {
		return NextQuestionView{}, false, err
	}

	if p.Answered >= s.maxQuestions {
		return NextQuestionView{}, true, nil
	}

	// The leaderboard gate only applies to a fresh attempt; a user who
	// climbs into the top ranks mid-attempt keeps playing.
	if p.Answered == 0 {
		gated, err := s.qualifiesForGate(ctx, userID)
		if err != nil {
			return NextQuestionView{}, false, err
		}
		if gated {
			return NextQuestionView{}, true, nil
		}
	}

	remaining, err := s.bank.RemainingIDs(ctx, p.AnsweredIDs)
	if err != nil {
		return NextQuestionView{}, false, err
	}
	if len(remaining) == 0 {
		// Bank exhausted before the limit: a valid early finish, not an error.
		return NextQuestionView{}, true, nil
	}

	s.mu.Lock()
	s.rnd.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	s.mu.Unlock()

	question, err := s.bank.QuestionByID(ctx, remaining[0])
	if err != nil {
		return NextQuestionView{}, false, err
	}
	options, err := s.bank.OptionsFor(ctx, question.ID)
	if err != nil {
		return NextQuestionView{}, false, err
	}
	// Re-shuffled on every render so the correct option is never positional.
	s.mu.Lock()
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	s.mu.Unlock()

	user, err := s.ledger.UserByID(ctx, userID)
	if err != nil {
		return NextQuestionView{}, false, err
	}

	return NextQuestionView{
		Question:   question,
		Options:    options,
		Answered:   p.Answered,
		TotalScore: user.TotalScore,
	}, false, nil
}

// SubmitAnswer validates the chosen option, records the answer, and advances
// the session. Submissions against a finished attempt (limit reached, or a
// ranked user gated out of a fresh one) short-circuit to finished without
// writing, so a replayed POST can never grow the score. A chosen option that
// does not belong to the submitted question fails with
// domain.ErrOptionMismatch, and a question already answered this attempt with
// domain.ErrQuestionAnswered, both before anything is written. The bool
// result reports whether the attempt is finished.
func (s *QuizService) SubmitAnswer(ctx context.Context, token string, userID, questionID, optionID int64) (bool, bool, error) {
	p, err := s.ensureProgress(ctx, token)
	if err != nil {
		return false, false, err
	}

	if p.Answered >= s.maxQuestions {
		return false, true, nil
	}
	if p.Answered == 0 {
		gated, err := s.qualifiesForGate(ctx, userID)
		if err != nil {
			return false, false, err
		}
		if gated {
			return false, true, nil
		}
	}
	if p.HasAnswered(questionID) {
		return false, false, domain.ErrQuestionAnswered
	}

	option, err := s.bank.OptionByID(ctx, optionID)
	if err != nil {
		return false, false, err
	}
	if option.QuestionID != questionID {
		return false, false, domain.ErrOptionMismatch
	}
	correct := option.Correct

	if err := s.ledger.RecordAnswer(ctx, domain.UserAnswer{
		UserID:         userID,
		QuestionID:     questionID,
		ChosenOptionID: optionID,
		Correct:        correct,
	}); err != nil {
		return false, false, err
	}

	if correct {
		p.Correct++
	}
	p.AnsweredIDs = append(p.AnsweredIDs, questionID)
	p.Answered++
	if err := s.progress.Save(ctx, token, p); err != nil {
		return false, false, err
	}

	return correct, p.Answered >= s.maxQuestions, nil
}

// FinishSummary returns the attempt just played, or a synthetic full-attempt
// summary from the persistent score when the user was gated in without
// answering anything this visit.
func (s *QuizService) FinishSummary(ctx context.Context, token string, userID int64) (Summary, error) {
	p, err := s.ensureProgress(ctx, token)
	if err != nil {
		return Summary{}, err
	}
	if p.Answered > 0 {
		return Summary{Correct: p.Correct, Answered: p.Answered}, nil
	}
	user, err := s.ledger.UserByID(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Correct: user.TotalScore, Answered: s.maxQuestions}, nil
}

// Reset clears the quiz session. A user currently holding a leaderboard spot
// with a positive score forfeits it; that is the price of requeueing, and the
// only path that ever lowers a total score. The bool result reports whether
// the score was forfeited.
func (s *QuizService) Reset(ctx context.Context, token string, userID int64) (bool, error) {
	gated, err := s.qualifiesForGate(ctx, userID)
	if err != nil {
		return false, err
	}
	if gated {
		if err := s.ledger.ResetScore(ctx, userID); err != nil {
			return false, err
		}
	}
	if err := s.progress.Clear(ctx, token); err != nil {
		return gated, err
	}
	return gated, nil
}

// ClearProgress drops the quiz session without touching any score. Used on
// logout so state never leaks to the next identity on the same browser.
func (s *QuizService) ClearProgress(ctx context.Context, token string) error {
	return s.progress.Clear(ctx, token)
}

// Leaderboard returns the ranked top users for display.
func (s *QuizService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.ledger.TopN(ctx, s.topSize)
}

func (s *QuizService) qualifiesForGate(ctx context.Context, userID int64) (bool, error) {
	top, err := s.ledger.TopN(ctx, s.topSize)
	if err != nil {
		return false, err
	}
	for _, entry := range top {
		if entry.UserID == userID {
			return entry.TotalScore > 0, nil
		}
	}
	return false, nil
}
