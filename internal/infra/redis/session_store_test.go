package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"mochi-games/internal/app"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)

	store.Put(app.NewGameSession("conn-1", "4", nil))
	if !mr.Exists("mochi:session:conn-1") {
		t.Fatalf("expected redis key to be set")
	}
	if v, _ := mr.Get("mochi:session:conn-1"); v != "4" {
		t.Fatalf("expected category as marker value, got %q", v)
	}
	if _, ok := store.Get("conn-1"); !ok {
		t.Fatalf("expected session to be found")
	}

	store.Delete("conn-1")
	if mr.Exists("mochi:session:conn-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("conn-1"); ok {
		t.Fatalf("expected session to be gone")
	}
}
