package memory

import (
	"context"
	"errors"
	"testing"

	"etika-quiz-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	token, err := store.Create(ctx, 42)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	userID, err := store.Resolve(ctx, token)
	if err != nil || userID != 42 {
		t.Fatalf("resolve: id=%d err=%v", userID, err)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Resolve(ctx, token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestProgressStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	if _, ok, err := store.Get(ctx, "tok"); ok || err != nil {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}

	p := domain.Progress{Answered: 2, Correct: 1, AnsweredIDs: []int64{1, 5}}
	if err := store.Save(ctx, "tok", p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Get(ctx, "tok")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Answered != 2 || got.Correct != 1 || len(got.AnsweredIDs) != 2 {
		t.Fatalf("unexpected progress %+v", got)
	}

	if err := store.Clear(ctx, "tok"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "tok"); ok {
		t.Fatalf("expected cleared progress")
	}
}
