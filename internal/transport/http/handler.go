package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"etika-quiz-service/internal/app"
	"etika-quiz-service/internal/domain"
	"etika-quiz-service/web"
)

const (
	sessionCookie    = "quiz_session"
	flashCookie      = "quiz_flash"
	newAccountCookie = "quiz_new_account"
)

// WeatherProvider is the external forecast collaborator; failures surface as
// domain.ErrWeatherUnavailable and never block the page.
type WeatherProvider interface {
	Forecast(ctx context.Context, city string) ([]domain.ForecastDay, error)
}

// Handler serves the HTML pages and wires them into the quiz and auth
// use cases.
type Handler struct {
	auth         *app.AuthService
	quiz         *app.QuizService
	weather      WeatherProvider
	hub          *LeaderboardHub
	templates    map[string]*template.Template
	maxQuestions int
	sessionTTL   time.Duration
}

func NewHandler(auth *app.AuthService, quiz *app.QuizService, weather WeatherProvider, maxQuestions int, sessionTTL time.Duration) (*Handler, error) {
	pages := []string{"index", "register", "login", "quiz", "quiz_finished", "leaderboard"}
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("base").Funcs(funcs).ParseFS(web.Templates,
			"templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Handler{
		auth:         auth,
		quiz:         quiz,
		weather:      weather,
		hub:          NewLeaderboardHub(),
		templates:    templates,
		maxQuestions: maxQuestions,
		sessionTTL:   sessionTTL,
	}, nil
}

// Routes registers all endpoints on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.index)
	mux.HandleFunc("/register", h.register)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.requireUser(h.logout))
	mux.HandleFunc("/quiz", h.requireUser(h.quizPage))
	mux.HandleFunc("/quiz/finish", h.requireUser(h.quizFinish))
	mux.HandleFunc("/quiz/reset", h.requireUser(h.quizReset))
	mux.HandleFunc("/leaderboard", h.leaderboard)
	mux.HandleFunc("/leaderboard/live", h.leaderboardWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

type flash struct {
	Category string
	Message  string
}

type pageBase struct {
	LoggedIn bool
	Flashes  []flash
}

// requireUser resolves the session cookie and passes token plus user ID on;
// anonymous requests bounce to the login page.
func (h *Handler) requireUser(next func(w http.ResponseWriter, r *http.Request, token string, userID int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		userID, err := h.auth.Resolve(r.Context(), cookie.Value)
		if err != nil {
			h.clearCookie(w, sessionCookie)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, cookie.Value, userID)
	}
}

func (h *Handler) loggedIn(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	_, err = h.auth.Resolve(r.Context(), cookie.Value)
	return err == nil
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := struct {
		pageBase
		City         string
		Weather      []domain.ForecastDay
		Today        time.Time
		MaxQuestions int
	}{
		Today:        time.Now(),
		MaxQuestions: h.maxQuestions,
	}

	if r.Method == http.MethodPost {
		data.City = strings.TrimSpace(r.FormValue("city"))
		rows, err := h.weather.Forecast(r.Context(), data.City)
		if err != nil {
			data.Flashes = append(data.Flashes, flash{
				Category: "warning",
				Message:  "Kota tidak ditemukan atau terjadi error. Pastikan nama kota benar dan API key aktif.",
			})
		} else {
			data.Weather = rows
		}
	}

	data.LoggedIn = h.loggedIn(r)
	data.Flashes = append(h.popFlashes(w, r), data.Flashes...)
	h.render(w, "index", data)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		data := struct{ pageBase }{}
		data.LoggedIn = h.loggedIn(r)
		data.Flashes = h.popFlashes(w, r)
		h.render(w, "register", data)
		return
	}

	_, err := h.auth.Register(r.Context(),
		r.FormValue("email"),
		r.FormValue("username"),
		r.FormValue("password"),
		r.FormValue("confirm"),
	)
	switch {
	case errors.Is(err, domain.ErrPasswordMismatch):
		h.setFlash(w, "danger", "Konfirmasi kata sandi tidak cocok.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	case errors.Is(err, domain.ErrEmailTaken):
		h.setFlash(w, "danger", "Email sudah dipakai.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	case errors.Is(err, domain.ErrUsernameTaken):
		h.setFlash(w, "danger", "Username sudah dipakai.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	case err != nil:
		log.Printf("register failed: %v", err)
		http.Error(w, "registration failed", http.StatusInternalServerError)
	default:
		// Mark the account as brand new so the first login forces a reset
		// and the user starts with clean session state.
		http.SetCookie(w, &http.Cookie{
			Name:     newAccountCookie,
			Value:    "1",
			Path:     "/",
			MaxAge:   int((24 * time.Hour).Seconds()),
			HttpOnly: true,
		})
		h.setFlash(w, "success", "Registrasi berhasil, silakan login.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		data := struct{ pageBase }{}
		data.LoggedIn = h.loggedIn(r)
		data.Flashes = h.popFlashes(w, r)
		h.render(w, "login", data)
		return
	}

	_, token, err := h.auth.Login(r.Context(),
		r.FormValue("email_or_username"),
		r.FormValue("password"),
	)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.setFlash(w, "danger", "Login gagal. Periksa email/username dan password kamu.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		log.Printf("login failed: %v", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
	})

	if _, err := r.Cookie(newAccountCookie); err == nil {
		h.clearCookie(w, newAccountCookie)
		http.Redirect(w, r, "/quiz/reset", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request, token string, _ int64) {
	// Drop quiz progress first so nothing leaks to whoever logs in next
	// from the same browser.
	if err := h.quiz.ClearProgress(r.Context(), token); err != nil {
		log.Printf("clear progress on logout: %v", err)
	}
	if err := h.auth.Logout(r.Context(), token); err != nil {
		log.Printf("logout: %v", err)
	}
	h.clearCookie(w, sessionCookie)
	h.setFlash(w, "info", "Kamu telah logout.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) quizPage(w http.ResponseWriter, r *http.Request, token string, userID int64) {
	if r.Method == http.MethodPost {
		h.submitAnswer(w, r, token, userID)
		return
	}

	view, finished, err := h.quiz.NextQuestion(r.Context(), token, userID)
	if err != nil {
		log.Printf("next question: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if finished {
		http.Redirect(w, r, "/quiz/finish", http.StatusSeeOther)
		return
	}

	data := struct {
		pageBase
		Question     domain.Question
		Options      []domain.AnswerOption
		Progress     int
		TotalScore   int
		MaxQuestions int
	}{
		Question:     view.Question,
		Options:      view.Options,
		Progress:     view.Answered,
		TotalScore:   view.TotalScore,
		MaxQuestions: h.maxQuestions,
	}
	data.LoggedIn = true
	data.Flashes = h.popFlashes(w, r)
	h.render(w, "quiz", data)
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request, token string, userID int64) {
	questionID, err1 := strconv.ParseInt(r.FormValue("question_id"), 10, 64)
	optionID, err2 := strconv.ParseInt(r.FormValue("option_id"), 10, 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	correct, finished, err := h.quiz.SubmitAnswer(r.Context(), token, userID, questionID, optionID)
	switch {
	case errors.Is(err, domain.ErrOptionNotFound), errors.Is(err, domain.ErrOptionMismatch):
		// A forged or stale option ID is malformed input, not a wrong answer.
		http.Error(w, "option does not belong to question", http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrQuestionAnswered):
		// Browser re-submit of an already-recorded answer; just move on.
		http.Redirect(w, r, "/quiz", http.StatusSeeOther)
		return
	case err != nil:
		log.Printf("submit answer: %v", err)
		http.Error(w, "could not record answer, try again", http.StatusInternalServerError)
		return
	}

	if correct {
		h.broadcastLeaderboard(r.Context())
	}
	if finished {
		http.Redirect(w, r, "/quiz/finish", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

func (h *Handler) quizFinish(w http.ResponseWriter, r *http.Request, token string, userID int64) {
	summary, err := h.quiz.FinishSummary(r.Context(), token, userID)
	if err != nil {
		log.Printf("finish summary: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := struct {
		pageBase
		Correct  int
		Answered int
	}{Correct: summary.Correct, Answered: summary.Answered}
	data.LoggedIn = true
	data.Flashes = h.popFlashes(w, r)
	h.render(w, "quiz_finished", data)
}

func (h *Handler) quizReset(w http.ResponseWriter, r *http.Request, token string, userID int64) {
	forfeited, err := h.quiz.Reset(r.Context(), token, userID)
	if err != nil {
		log.Printf("reset: %v", err)
		http.Error(w, "could not reset, try again", http.StatusInternalServerError)
		return
	}
	if forfeited {
		h.setFlash(w, "warning", "Skor leaderboard kamu direset untuk bermain kembali.")
		h.broadcastLeaderboard(r.Context())
	} else {
		h.setFlash(w, "info", "Sesi kuis direset. Selamat bermain lagi!")
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.quiz.Leaderboard(r.Context())
	if err != nil {
		log.Printf("leaderboard: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := struct {
		pageBase
		Entries []domain.LeaderboardEntry
	}{Entries: entries}
	data.LoggedIn = h.loggedIn(r)
	data.Flashes = h.popFlashes(w, r)
	h.render(w, "leaderboard", data)
}

func (h *Handler) broadcastLeaderboard(ctx context.Context) {
	entries, err := h.quiz.Leaderboard(ctx)
	if err != nil {
		log.Printf("leaderboard broadcast: %v", err)
		return
	}
	h.hub.Broadcast(entries)
}

func (h *Handler) render(w http.ResponseWriter, page string, data interface{}) {
	t, ok := h.templates[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("render %s: %v", page, err)
	}
}

func (h *Handler) setFlash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		HttpOnly: true,
	})
}

func (h *Handler) popFlashes(w http.ResponseWriter, r *http.Request) []flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	h.clearCookie(w, flashCookie)
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(raw, "|")
	if !ok {
		return nil
	}
	return []flash{{Category: category, Message: message}}
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}
