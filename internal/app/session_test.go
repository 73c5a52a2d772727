package app_test

import (
	"errors"
	"testing"
	"time"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
)

func TestSessionThreeQuestionScenario(t *testing.T) {
	completed := time.Date(2025, 2, 2, 10, 0, 0, 0, time.UTC)
	s := app.NewGameSessionWithClock("s1", "1", fruitQuestions(), func() time.Time { return completed })

	mustSubmit(t, s, app.ClickOption(1), true) // Apple
	mustContinue(t, s)

	mustSubmit(t, s, app.ClickOption(1), false) // Orange, wrong
	if !s.Retry() {
		t.Fatalf("retry should apply after feedback")
	}
	mustSubmit(t, s, app.ClickOption(2), true)
	mustContinue(t, s)

	mustSubmit(t, s, app.ClickOption(2), true)
	mustContinue(t, s)

	if s.State() != app.StateComplete {
		t.Fatalf("expected complete, got %s", s.State())
	}
	snap := s.Snapshot()
	if snap.Score != 3 || snap.Index != 3 {
		t.Fatalf("expected score 3 index 3, got score %d index %d", snap.Score, snap.Index)
	}
	result, ok := s.Result()
	if !ok || result.Score != 3 || result.Total != 3 || !result.CompletedAt.Equal(completed) {
		t.Fatalf("unexpected result %+v ok=%v", result, ok)
	}
	if s.Continue() || s.Retry() {
		t.Fatalf("complete is terminal")
	}
	if _, ok, _ := s.Submit(app.ClickOption(1)); ok {
		t.Fatalf("submit after completion should be ignored")
	}
}

func TestSessionCorrectByOptionID(t *testing.T) {
	qs := fruitQuestions()[:1]
	// Two options share the label; only the id decides.
	qs[0].Options[2].Label = "Apple"
	qs[0].CorrectAnswerID = 3

	for _, tc := range []struct {
		option  int
		correct bool
	}{{1, false}, {2, false}, {3, true}} {
		s := app.NewGameSession("s", "1", qs)
		fb, ok, err := s.Submit(app.ClickOption(tc.option))
		if err != nil || !ok {
			t.Fatalf("submit %d: ok=%v err=%v", tc.option, ok, err)
		}
		if fb.IsCorrect != tc.correct {
			t.Fatalf("option %d: expected correct=%v", tc.option, tc.correct)
		}
	}
}

func TestSessionCorrectByLabelIgnoresCase(t *testing.T) {
	qs := fruitQuestions()[:1]
	qs[0].CorrectAnswer = "APPLE"

	s := app.NewGameSession("s", "1", qs)
	fb, _, _ := s.Submit(app.ClickOption(1))
	if !fb.IsCorrect {
		t.Fatalf("expected case-insensitive label match")
	}
	if fb.Message != "Great job! You found the Apple!" || fb.Encouragement != "Keep it up!" {
		t.Fatalf("unexpected message %+v", fb)
	}
}

func TestSessionSubmitWhileFeedbackShownIsIgnored(t *testing.T) {
	s := app.NewGameSession("s", "1", fruitQuestions())
	mustSubmit(t, s, app.ClickOption(1), true)
	before := s.Snapshot()

	fb, ok, err := s.Submit(app.ClickOption(2))
	if ok || err != nil || fb != (domain.Feedback{}) {
		t.Fatalf("expected silent no-op, got ok=%v err=%v", ok, err)
	}
	after := s.Snapshot()
	if after.Score != before.Score || after.Selected.ID != before.Selected.ID || *after.Feedback != *before.Feedback {
		t.Fatalf("state changed: before %+v after %+v", before, after)
	}
}

func TestSessionRetryKeepsScoreAndIndex(t *testing.T) {
	s := app.NewGameSession("s", "1", fruitQuestions())
	mustSubmit(t, s, app.ClickOption(1), true)
	s.Retry()

	snap := s.Snapshot()
	if snap.Index != 0 || snap.Score != 1 || snap.Selected != nil || snap.Feedback != nil {
		t.Fatalf("retry changed progress: %+v", snap)
	}
	// Answering the same question correctly again does not earn a second point.
	mustSubmit(t, s, app.ClickOption(1), true)
	if got := s.Snapshot().Score; got != 1 {
		t.Fatalf("expected score to stay 1, got %d", got)
	}
}

func TestSessionContinueAdvancesByOne(t *testing.T) {
	s := app.NewGameSession("s", "1", fruitQuestions())
	if s.Continue() {
		t.Fatalf("continue without feedback should be ignored")
	}
	mustSubmit(t, s, app.ClickOption(3), false)
	mustContinue(t, s)
	snap := s.Snapshot()
	if snap.Index != 1 || snap.Score != 0 || snap.State != app.StateAwaitingAnswer {
		t.Fatalf("unexpected snapshot after continue: %+v", snap)
	}
}

func TestSessionRejectsForeignOption(t *testing.T) {
	s := app.NewGameSession("s", "1", fruitQuestions())
	_, ok, err := s.Submit(app.ClickOption(7))
	if !errors.Is(err, domain.ErrInvalidSelection) || ok {
		t.Fatalf("expected invalid selection, got ok=%v err=%v", ok, err)
	}
	if s.State() != app.StateAwaitingAnswer {
		t.Fatalf("invalid selection must not change state")
	}
}

func TestSessionTranscript(t *testing.T) {
	s := app.NewGameSession("s", "1", fruitQuestions())
	fb, ok, err := s.Submit(app.SpokenAnswer("aPPle"))
	if err != nil || !ok || !fb.IsCorrect {
		t.Fatalf("expected spoken apple to be correct, got %+v ok=%v err=%v", fb, ok, err)
	}
	if s.Snapshot().Selected.ID != 1 {
		t.Fatalf("spoken answer should select the matching option")
	}

	s = app.NewGameSession("s", "1", fruitQuestions())
	fb, ok, _ = s.Submit(app.SpokenAnswer("apples"))
	if !ok || fb.IsCorrect {
		t.Fatalf("non-matching transcript must be incorrect")
	}
	if fb.Message != "Close! Try finding the Apple!" {
		t.Fatalf("unexpected message %q", fb.Message)
	}
	snap := s.Snapshot()
	if snap.Selected != nil || snap.Score != 0 || snap.State != app.StateFeedbackShown {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestSessionTicketDropsStaleAnswers(t *testing.T) {
	s := app.NewGameSession("s", "1", fruitQuestions())
	ticket := s.Ticket()

	mustSubmit(t, s, app.ClickOption(2), false)
	s.Retry()

	if _, ok, _ := s.SubmitWithTicket(ticket, app.SpokenAnswer("apple")); ok {
		t.Fatalf("stale ticket must be ignored")
	}
	if _, ok, _ := s.SubmitWithTicket(s.Ticket(), app.SpokenAnswer("apple")); !ok {
		t.Fatalf("fresh ticket should apply")
	}
}

func TestSessionWithoutQuestions(t *testing.T) {
	s := app.NewGameSession("s", "9", nil)
	if s.State() != app.StateNoContent {
		t.Fatalf("expected no-content state, got %s", s.State())
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("expected no current question")
	}
	if _, ok, _ := s.Submit(app.ClickOption(1)); ok {
		t.Fatalf("submit on empty session should be ignored")
	}
	if s.Continue() || s.Retry() {
		t.Fatalf("empty session has no transitions")
	}
	snap := s.Snapshot()
	if snap.Index != 0 || snap.Total != 0 || snap.Score != 0 || snap.Question != nil {
		t.Fatalf("expected zero progress, got %+v", snap)
	}
	if _, ok := s.Result(); ok {
		t.Fatalf("empty session has no result")
	}
}

func TestFeedbackForUnknownTarget(t *testing.T) {
	q := domain.Question{TargetItem: domain.UnknownTarget}
	if got := app.FeedbackFor(q, false).Message; got != "Close! Try finding the correct answer!" {
		t.Fatalf("unexpected message %q", got)
	}
}

func mustSubmit(t *testing.T, s *app.GameSession, answer domain.Answer, correct bool) {
	t.Helper()
	fb, ok, err := s.Submit(answer)
	if err != nil || !ok {
		t.Fatalf("submit: ok=%v err=%v", ok, err)
	}
	if fb.IsCorrect != correct {
		t.Fatalf("expected correct=%v, got %+v", correct, fb)
	}
}

func mustContinue(t *testing.T, s *app.GameSession) {
	t.Helper()
	if !s.Continue() {
		t.Fatalf("continue was ignored in state %s", s.State())
	}
}
