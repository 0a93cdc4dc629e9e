package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"etika-quiz-service/internal/domain"
)

func TestForecastSummarizesThreeDays(t *testing.T) {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local) // a Monday

	type item struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	var list []item
	addItem := func(day int, hour int, temp float64) {
		ts := base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
		var it item
		it.Dt = ts.Unix()
		it.Main.Temp = temp
		list = append(list, it)
	}
	// Four days of samples; only the first three should be reported.
	for day := 0; day < 4; day++ {
		addItem(day, 9, 26)
		addItem(day, 13, 31+float64(day)) // day temp
		addItem(day, 15, 30)
		addItem(day, 22, 22-float64(day)) // night temp
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/geo":
			if r.URL.Query().Get("q") != "Jakarta" {
				t.Errorf("unexpected city %q", r.URL.Query().Get("q"))
			}
			fmt.Fprint(w, `[{"lat":-6.2,"lon":106.8}]`)
		case "/forecast":
			json.NewEncoder(w).Encode(map[string]interface{}{"list": list})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURLs("test-key", server.URL+"/geo", server.URL+"/forecast")
	rows, err := client.Forecast(context.Background(), "Jakarta")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Day != "Senin" || rows[1].Day != "Selasa" || rows[2].Day != "Rabu" {
		t.Fatalf("unexpected day names: %+v", rows)
	}
	if rows[0].DayTemp != 31 || rows[0].NightTemp != 22 {
		t.Fatalf("unexpected temps for day 0: %+v", rows[0])
	}
	if rows[2].DayTemp != 33 || rows[2].NightTemp != 20 {
		t.Fatalf("unexpected temps for day 2: %+v", rows[2])
	}
}

func TestForecastUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`) // city not found
	}))
	defer server.Close()

	client := NewClientWithBaseURLs("test-key", server.URL+"/geo", server.URL+"/forecast")
	if _, err := client.Forecast(context.Background(), "Atlantis"); !errors.Is(err, domain.ErrWeatherUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	// Missing API key short-circuits without any request.
	client = NewClientWithBaseURLs("", server.URL+"/geo", server.URL+"/forecast")
	if _, err := client.Forecast(context.Background(), "Jakarta"); !errors.Is(err, domain.ErrWeatherUnavailable) {
		t.Fatalf("expected unavailable without key, got %v", err)
	}
}
