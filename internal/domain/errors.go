package domain

import "errors"

var (
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a registration reuses an email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when a registration reuses a username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound is returned when a login session token is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is invalid.
	ErrOptionNotFound = errors.New("option not found")
	// ErrOptionMismatch indicates the chosen option belongs to a different question.
	ErrOptionMismatch = errors.New("option does not belong to question")
	// ErrQuestionAnswered indicates the question was already answered this attempt.
	ErrQuestionAnswered = errors.New("question already answered")
	// ErrWeatherUnavailable indicates the forecast lookup failed or found nothing.
	ErrWeatherUnavailable = errors.New("weather unavailable")
)
