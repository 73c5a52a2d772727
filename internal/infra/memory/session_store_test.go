package memory

import (
	"testing"

	"mochi-games/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	store.Put(app.NewGameSession("s1", "1", BuiltinQuestions()["1"]))
	session, ok := store.Get("s1")
	if !ok || session.CategoryID() != "1" {
		t.Fatalf("expected session present")
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
	store.Delete("s1")
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
