package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"etika-quiz-service/internal/domain"
)

// QuestionBank reads the seeded question bank from Postgres with raw SQL.
type QuestionBank struct {
	pool *pgxpool.Pool
}

func NewQuestionBank(pool *pgxpool.Pool) *QuestionBank {
	return &QuestionBank{pool: pool}
}

func (b *QuestionBank) RemainingIDs(ctx context.Context, excluded []int64) ([]int64, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if len(excluded) == 0 {
		rows, err = b.pool.Query(ctx, `SELECT id FROM questions ORDER BY id`)
	} else {
		rows, err = b.pool.Query(ctx, `SELECT id FROM questions WHERE NOT (id = ANY($1)) ORDER BY id`, excluded)
	}
	if err != nil {
		return nil, fmt.Errorf("remaining ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (b *QuestionBank) QuestionByID(ctx context.Context, id int64) (domain.Question, error) {
	var q domain.Question
	err := b.pool.QueryRow(ctx, `SELECT id, text FROM questions WHERE id=$1`, id).Scan(&q.ID, &q.Text)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func (b *QuestionBank) OptionsFor(ctx context.Context, questionID int64) ([]domain.AnswerOption, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT id, question_id, text, is_correct FROM answer_options WHERE question_id=$1 ORDER BY id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	defer rows.Close()

	var options []domain.AnswerOption
	for rows.Next() {
		var o domain.AnswerOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Correct); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, domain.ErrQuestionNotFound
	}
	return options, nil
}

func (b *QuestionBank) OptionByID(ctx context.Context, id int64) (domain.AnswerOption, error) {
	var o domain.AnswerOption
	err := b.pool.QueryRow(ctx,
		`SELECT id, question_id, text, is_correct FROM answer_options WHERE id=$1`, id).
		Scan(&o.ID, &o.QuestionID, &o.Text, &o.Correct)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AnswerOption{}, domain.ErrOptionNotFound
	}
	if err != nil {
		return domain.AnswerOption{}, fmt.Errorf("load option: %w", err)
	}
	return o, nil
}

// LoadBank fetches the full bank for the memory.BankCache decorator.
func (b *QuestionBank) LoadBank(ctx context.Context) ([]domain.Question, []domain.AnswerOption, error) {
	rows, err := b.pool.Query(ctx, `SELECT id, text FROM questions ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("load bank questions: %w", err)
	}
	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	rows, err = b.pool.Query(ctx, `SELECT id, question_id, text, is_correct FROM answer_options ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("load bank options: %w", err)
	}
	defer rows.Close()
	var options []domain.AnswerOption
	for rows.Next() {
		var o domain.AnswerOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Correct); err != nil {
			return nil, nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	return questions, options, rows.Err()
}
