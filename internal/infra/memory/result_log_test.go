package memory

import (
	"context"
	"testing"

	"mochi-games/internal/domain"
)

func TestRecentResultsKeepsNewest(t *testing.T) {
	log := NewRecentResults(2)
	for _, id := range []string{"a", "b", "c"} {
		if err := log.Record(context.Background(), domain.Result{SessionID: id}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	got := log.Results()
	if len(got) != 2 || got[0].SessionID != "b" || got[1].SessionID != "c" {
		t.Fatalf("expected the two newest results, got %+v", got)
	}
}
