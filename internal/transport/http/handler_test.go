package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"etika-quiz-service/internal/app"
	"etika-quiz-service/internal/domain"
	"etika-quiz-service/internal/infra/memory"
)

type stubWeather struct {
	rows []domain.ForecastDay
	err  error
}

func (s stubWeather) Forecast(context.Context, string) ([]domain.ForecastDay, error) {
	return s.rows, s.err
}

func newTestServer(t *testing.T, maxQuestions int) (*httptest.Server, *memory.Ledger) {
	t.Helper()

	bank := memory.NewQuestionBank(
		[]domain.Question{{ID: 1, Text: "Apa itu AI Fairness?"}},
		[]domain.AnswerOption{
			{ID: 11, QuestionID: 1, Text: "Keadilan dalam hasil AI", Correct: true},
			{ID: 12, QuestionID: 1, Text: "Kecepatan AI"},
		},
	)
	ledger := memory.NewLedger()
	auth := app.NewAuthService(ledger, memory.NewSessionStore(), bcrypt.MinCost)
	quiz := app.NewQuizService(bank, ledger, memory.NewProgressStore(), maxQuestions, 20)

	handler, err := NewHandler(auth, quiz, stubWeather{err: domain.ErrWeatherUnavailable}, maxQuestions, time.Hour)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server, ledger
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(target, form)
	if err != nil {
		t.Fatalf("post %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func get(t *testing.T, client *http.Client, target string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("get %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestQuizRequiresLogin(t *testing.T) {
	server, _ := newTestServer(t, 20)
	browser := newBrowser(t)

	resp, body := get(t, browser, server.URL+"/quiz")
	if resp.Request.URL.Path != "/login" {
		t.Fatalf("expected redirect to /login, landed on %s", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Login") {
		t.Fatalf("expected login page")
	}
}

func TestRegisterLoginAndPlay(t *testing.T) {
	server, ledger := newTestServer(t, 20)
	browser := newBrowser(t)

	resp, body := postForm(t, browser, server.URL+"/register", url.Values{
		"email":    {"Alice@Example.com"},
		"username": {"alice"},
		"password": {"rahasia"},
		"confirm":  {"rahasia"},
	})
	if resp.Request.URL.Path != "/login" {
		t.Fatalf("expected to land on /login, got %s", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Registrasi berhasil") {
		t.Fatalf("expected success flash, got page: %s", body)
	}

	// New-account fast path: login routes through /quiz/reset into the quiz.
	resp, body = postForm(t, browser, server.URL+"/login", url.Values{
		"email_or_username": {"alice@example.com"},
		"password":          {"rahasia"},
	})
	if resp.Request.URL.Path != "/quiz" {
		t.Fatalf("expected to land on /quiz, got %s", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Apa itu AI Fairness?") {
		t.Fatalf("expected question page, got: %s", body)
	}

	// A stale option from another question is malformed input, not a wrong answer.
	resp, _ = postForm(t, browser, server.URL+"/quiz", url.Values{
		"question_id": {"1"},
		"option_id":   {"999"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for foreign option, got %d", resp.StatusCode)
	}
	user, err := ledger.UserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if user.TotalScore != 0 || ledger.AnswerCount() != 0 {
		t.Fatalf("rejected submission must not write: score=%d answers=%d", user.TotalScore, ledger.AnswerCount())
	}

	// Correct answer exhausts the single-question bank and lands on the finish page.
	resp, body = postForm(t, browser, server.URL+"/quiz", url.Values{
		"question_id": {"1"},
		"option_id":   {"11"},
	})
	if resp.Request.URL.Path != "/quiz/finish" {
		t.Fatalf("expected finish page, got %s", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "<strong>1</strong> benar") {
		t.Fatalf("expected 1 correct in summary, got: %s", body)
	}

	user, _ = ledger.UserByUsername(context.Background(), "alice")
	if user.TotalScore != 1 {
		t.Fatalf("expected total score 1, got %d", user.TotalScore)
	}

	// Re-posting the answered question records nothing and lands back on the
	// finish page.
	resp, _ = postForm(t, browser, server.URL+"/quiz", url.Values{
		"question_id": {"1"},
		"option_id":   {"11"},
	})
	if resp.Request.URL.Path != "/quiz/finish" {
		t.Fatalf("expected finish page after replay, got %s", resp.Request.URL.Path)
	}
	user, _ = ledger.UserByUsername(context.Background(), "alice")
	if user.TotalScore != 1 || ledger.AnswerCount() != 1 {
		t.Fatalf("replayed submission must not write: score=%d answers=%d", user.TotalScore, ledger.AnswerCount())
	}

	_, body = get(t, browser, server.URL+"/leaderboard")
	if !strings.Contains(body, "alice") {
		t.Fatalf("expected alice on leaderboard: %s", body)
	}

	resp, _ = get(t, browser, server.URL+"/logout")
	if resp.Request.URL.Path != "/" {
		t.Fatalf("expected to land on index after logout, got %s", resp.Request.URL.Path)
	}
	resp, _ = get(t, browser, server.URL+"/quiz")
	if resp.Request.URL.Path != "/login" {
		t.Fatalf("expected quiz to require login again, got %s", resp.Request.URL.Path)
	}
}

func TestInvalidLoginShowsFlash(t *testing.T) {
	server, _ := newTestServer(t, 20)
	browser := newBrowser(t)

	resp, body := postForm(t, browser, server.URL+"/login", url.Values{
		"email_or_username": {"ghost"},
		"password":          {"nope"},
	})
	if resp.Request.URL.Path != "/login" {
		t.Fatalf("expected to stay on /login, got %s", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Login gagal") {
		t.Fatalf("expected failure flash, got: %s", body)
	}
}

func TestIndexWeatherWarning(t *testing.T) {
	server, _ := newTestServer(t, 20)
	browser := newBrowser(t)

	_, body := postForm(t, browser, server.URL+"/", url.Values{"city": {"Atlantis"}})
	if !strings.Contains(body, "Kota tidak ditemukan") {
		t.Fatalf("expected weather warning, got: %s", body)
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	server, _ := newTestServer(t, 20)
	browser := newBrowser(t)

	form := url.Values{
		"email":    {"bob@example.com"},
		"username": {"bob"},
		"password": {"rahasia"},
		"confirm":  {"rahasia"},
	}
	postForm(t, browser, server.URL+"/register", form)

	resp, body := postForm(t, browser, server.URL+"/register", form)
	if resp.Request.URL.Path != "/register" {
		t.Fatalf("expected to bounce back to /register, got %s", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Email sudah dipakai") {
		t.Fatalf("expected duplicate email flash, got: %s", body)
	}
}
