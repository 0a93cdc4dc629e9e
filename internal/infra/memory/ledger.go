package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"etika-quiz-service/internal/domain"
)

// Ledger is an in-memory implementation of app.UserStore and app.ScoreLedger.
// All mutations run under one mutex, which gives RecordAnswer the same
// all-or-nothing behavior the postgres transaction provides.
type Ledger struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]*domain.User
	answers []domain.UserAnswer
	now     func() time.Time
}

func NewLedger() *Ledger {
	return NewLedgerWithClock(time.Now)
}

// NewLedgerWithClock allows deterministic created_at timestamps in tests.
func NewLedgerWithClock(now func() time.Time) *Ledger {
	return &Ledger{
		nextID: 1,
		users:  make(map[int64]*domain.User),
		now:    now,
	}
}

func (l *Ledger) CreateUser(_ context.Context, user *domain.User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}

	user.ID = l.nextID
	l.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = l.now()
	}
	stored := *user
	l.users[user.ID] = &stored
	return nil
}

func (l *Ledger) UserByEmail(_ context.Context, email string) (domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, u := range l.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (l *Ledger) UserByUsername(_ context.Context, username string) (domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, u := range l.users {
		if u.Username == username {
			return *u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (l *Ledger) UserByID(_ context.Context, id int64) (domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	u, ok := l.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *u, nil
}

func (l *Ledger) RecordAnswer(_ context.Context, answer domain.UserAnswer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, ok := l.users[answer.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}

	answer.ID = int64(len(l.answers) + 1)
	answer.CreatedAt = l.now()
	l.answers = append(l.answers, answer)
	if answer.Correct {
		user.TotalScore++
	}
	return nil
}

func (l *Ledger) ResetScore(_ context.Context, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	user, ok := l.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.TotalScore = 0
	return nil
}

func (l *Ledger) TopN(_ context.Context, n int) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]domain.LeaderboardEntry, 0, len(l.users))
	for _, u := range l.users {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:     u.ID,
			Username:   u.Username,
			TotalScore: u.TotalScore,
			CreatedAt:  u.CreatedAt,
		})
	}

	// Score descending; earlier registrants win ties.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].UserID < entries[j].UserID
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// AnswerCount reports how many answers were logged; test helper.
func (l *Ledger) AnswerCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.answers)
}
