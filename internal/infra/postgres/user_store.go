package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"etika-quiz-service/internal/domain"
)

// UserStore implements app.UserStore and app.ScoreLedger on top of bun.
type UserStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, user *domain.User) error {
	exists, err := s.db.NewSelect().Model((*domain.User)(nil)).
		Where("email = ?", user.Email).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.ErrEmailTaken
	}

	exists, err = s.db.NewSelect().Model((*domain.User)(nil)).
		Where("username = ?", user.Username).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists {
		return domain.ErrUsernameTaken
	}

	if _, err := s.db.NewInsert().Model(user).
		ExcludeColumn("created_at").
		Returning("id, created_at").Exec(ctx); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.userWhere(ctx, "email = ?", email)
}

func (s *UserStore) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.userWhere(ctx, "username = ?", username)
}

func (s *UserStore) UserByID(ctx context.Context, id int64) (domain.User, error) {
	return s.userWhere(ctx, "u.id = ?", id)
}

func (s *UserStore) userWhere(ctx context.Context, where string, arg interface{}) (domain.User, error) {
	var user domain.User
	err := s.db.NewSelect().Model(&user).Where(where, arg).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// RecordAnswer appends the answer row and, when correct, bumps the user's
// total score. Both writes commit in one transaction so a failure can never
// leave a score without its audit row or vice versa.
func (s *UserStore) RecordAnswer(ctx context.Context, answer domain.UserAnswer) error {
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&answer).
			ExcludeColumn("created_at").Exec(ctx); err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
		if answer.Correct {
			res, err := tx.NewUpdate().Model((*domain.User)(nil)).
				Set("total_score = total_score + 1").
				Where("id = ?", answer.UserID).Exec(ctx)
			if err != nil {
				return fmt.Errorf("increment score: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return domain.ErrUserNotFound
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

func (s *UserStore) ResetScore(ctx context.Context, userID int64) error {
	res, err := s.db.NewUpdate().Model((*domain.User)(nil)).
		Set("total_score = 0").
		Where("id = ?", userID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("reset score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) TopN(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	var users []domain.User
	err := s.db.NewSelect().Model(&users).
		Order("total_score DESC").
		Order("created_at ASC").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:     u.ID,
			Username:   u.Username,
			TotalScore: u.TotalScore,
			CreatedAt:  u.CreatedAt,
		})
	}
	return entries, nil
}
