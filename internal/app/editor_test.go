package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
	"mochi-games/internal/infra/memory"
)

func TestEditorCarriesTitleForward(t *testing.T) {
	e := app.NewEditor(nil)
	if err := e.SetTitle(0, "Fruit Quiz"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	idx := e.AddQuestion()
	if idx != 1 || e.Current() != 1 || e.Len() != 2 {
		t.Fatalf("unexpected cursor after add: idx=%d current=%d len=%d", idx, e.Current(), e.Len())
	}
	q, _ := e.Question(1)
	if q.Title != "Fruit Quiz" || q.Prompt != "" {
		t.Fatalf("expected carried title and blank prompt, got %+v", q)
	}
	if e.Next() {
		t.Fatalf("next on last question should not move")
	}
	if err := e.Select(0); err != nil || !e.Next() {
		t.Fatalf("select/next failed")
	}
}

func TestEditorSingleCorrectOption(t *testing.T) {
	e := app.NewEditor(nil)
	fillOptions(t, e, 0, "Cat", "Dog", "Bird")

	_ = e.SetCorrectOption(0, 0)
	_ = e.SetCorrectOption(0, 2)
	q, _ := e.Question(0)
	if q.CorrectAnswerID != 3 || q.CorrectAnswer != "Bird" {
		t.Fatalf("expected only the last designation to remain, got %+v", q)
	}

	if err := e.SetCorrectOption(0, 3); !errors.Is(err, domain.ErrOptionIndex) {
		t.Fatalf("expected option index error, got %v", err)
	}
	if err := e.UpdateOption(4, 0, app.OptionPatch{}); !errors.Is(err, domain.ErrQuestionIndex) {
		t.Fatalf("expected question index error, got %v", err)
	}
}

func TestEditorCommitValidation(t *testing.T) {
	e := app.NewEditor(nil)
	fillOptions(t, e, 0, "Cat", "", "Bird")
	_ = e.SetCorrectOption(0, 0)
	if _, err := e.Commit(); !errors.Is(err, domain.ErrMissingLabel) {
		t.Fatalf("expected missing label, got %v", err)
	}

	fillOptions(t, e, 0, "Cat", "Dog", "Bird")
	e.AddQuestion()
	fillOptions(t, e, 1, "Red", "Blue", "Green")
	if _, err := e.Commit(); !errors.Is(err, domain.ErrNoCorrectOption) {
		t.Fatalf("expected missing correct option, got %v", err)
	}

	_ = e.SetCorrectOption(1, 1)
	qs, err := e.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if qs[0].Options[0].ImageURL != "" {
		t.Fatalf("images are optional and stay empty")
	}
}

func TestEditorSaveThenPlayPreservesAuthoring(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContentStore(nil)
	content := app.NewContentServiceWithClock(memory.NewBuiltinCatalog(nil, 0), store, nil,
		func() string { return "game-1" },
		func() time.Time { return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC) })

	e := app.NewEditor(content)
	_ = e.SetTitle(0, "Pets")
	_ = e.SetPrompt(0, "Can you show me the Dog?")
	fillOptions(t, e, 0, "Cat", "Dog", "Bird")
	img := "dog.png"
	_ = e.UpdateOption(0, 1, app.OptionPatch{Image: &img})
	_ = e.SetCorrectOption(0, 1)
	e.AddQuestion()
	fillOptions(t, e, 1, "Fish", "Horse", "Cow")
	_ = e.SetCorrectOption(1, 2)

	game, err := e.Save(ctx, "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if game.ID != "game-1" || game.Name != "Pets" || game.Description != "Manually created lesson" || game.QuestionCount != 2 {
		t.Fatalf("unexpected saved game %+v", game)
	}

	questions, err := content.ListQuestions(ctx, "game-1")
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	wantLabels := [][]string{{"Cat", "Dog", "Bird"}, {"Fish", "Horse", "Cow"}}
	wantCorrect := []int{2, 3}
	for i, q := range questions {
		for j, opt := range q.Options {
			if opt.ID != j+1 || opt.Label != wantLabels[i][j] {
				t.Fatalf("question %d option %d changed: %+v", i, j, opt)
			}
		}
		if q.CorrectAnswerID != wantCorrect[i] {
			t.Fatalf("question %d correct id %d, want %d", i, q.CorrectAnswerID, wantCorrect[i])
		}
	}
	if questions[0].Options[1].ImageURL != "dog.png" || questions[0].Options[0].ImageURL != domain.PlaceholderImage("Cat") {
		t.Fatalf("unexpected images %+v", questions[0].Options)
	}
	if questions[1].TargetItem != "Cow" {
		t.Fatalf("expected target to fall back to the correct label, got %q", questions[1].TargetItem)
	}

	s := app.NewGameSession("s", game.ID, questions)
	fb, _, _ := s.Submit(app.ClickOption(2))
	if !fb.IsCorrect {
		t.Fatalf("authored correct option should score")
	}
}

func fillOptions(t *testing.T, e *app.Editor, qi int, labels ...string) {
	t.Helper()
	for i, label := range labels {
		label := label
		if err := e.UpdateOption(qi, i, app.OptionPatch{Label: &label}); err != nil {
			t.Fatalf("update option: %v", err)
		}
	}
}
