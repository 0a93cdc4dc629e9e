package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a registered player. Email is stored lower-cased and unique;
// usernames are case-sensitive and unique. TotalScore is the persistent
// leaderboard score and is only ever touched by the quiz engine.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Email        string    `bun:"email,notnull,unique"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	TotalScore   int       `bun:"total_score,notnull,default:0"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Question is immutable after seeding.
type Question struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Text string `bun:"text,notnull"`
}

// AnswerOption belongs to exactly one question; each question has at least
// two options and exactly one with Correct set.
type AnswerOption struct {
	bun.BaseModel `bun:"table:answer_options,alias:ao"`

	ID         int64  `bun:"id,pk,autoincrement"`
	QuestionID int64  `bun:"question_id,notnull"`
	Text       string `bun:"text,notnull"`
	Correct    bool   `bun:"is_correct,notnull,default:false"`
}

// UserAnswer is the append-only audit record of a submission. The engine
// writes it and never reads it back.
type UserAnswer struct {
	bun.BaseModel `bun:"table:user_answers,alias:ua"`

	ID             int64     `bun:"id,pk,autoincrement"`
	UserID         int64     `bun:"user_id,notnull"`
	QuestionID     int64     `bun:"question_id,notnull"`
	ChosenOptionID int64     `bun:"chosen_option_id,notnull"`
	Correct        bool      `bun:"is_correct,notnull,default:false"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Progress is the ephemeral per-login-session quiz state. It lives in the
// session store (redis or memory), never in postgres.
type Progress struct {
	Answered    int     `json:"answered"`
	Correct     int     `json:"correct"`
	AnsweredIDs []int64 `json:"answeredIds"`
}

// HasAnswered reports whether the question was already answered this attempt.
func (p Progress) HasAnswered(questionID int64) bool {
	for _, id := range p.AnsweredIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// LeaderboardEntry is a display view of a ranked user.
type LeaderboardEntry struct {
	UserID     int64     `json:"userId"`
	Username   string    `json:"username"`
	TotalScore int       `json:"totalScore"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ForecastDay is one row of the 3-day weather summary shown on the landing
// page. Day temperature is the max between 12:00 and 15:00, night the min
// between 21:00 and 03:00 local time.
type ForecastDay struct {
	Day       string `json:"day"`
	Date      string `json:"date"`
	DayTemp   int    `json:"dayTemp"`
	NightTemp int    `json:"nightTemp"`
}
