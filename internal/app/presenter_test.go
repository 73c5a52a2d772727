package app_test

import (
	"testing"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
)

func TestPresenterRendersQuestion(t *testing.T) {
	p := app.NewPresenter(app.NewGameSession("s", "1", fruitQuestions()))

	v := p.View()
	if v.Prompt != "Can you show me the Apple?" || v.Progress != "1 of 3" || v.Mood != domain.MoodHappy {
		t.Fatalf("unexpected view %+v", v)
	}
	if !v.InputEnabled || v.CanProceed || len(v.Options) != 3 {
		t.Fatalf("unexpected input flags %+v", v)
	}
	for _, opt := range v.Options {
		if opt.Revealed || opt.Selected {
			t.Fatalf("options must be hidden before answering: %+v", opt)
		}
	}
}

func TestPresenterMoodFollowsFeedback(t *testing.T) {
	s := app.NewGameSession("s", "1", fruitQuestions())
	p := app.NewPresenter(s)

	_, _, _ = s.Submit(app.ClickOption(2))
	v := p.View()
	if v.Mood != domain.MoodEncouraging || v.CanProceed || v.InputEnabled {
		t.Fatalf("unexpected view after wrong answer %+v", v)
	}
	if !v.Options[1].Selected || !v.Options[1].Revealed || v.Options[1].Correct || !v.Options[0].Correct {
		t.Fatalf("unexpected option flags %+v", v.Options)
	}

	if changed, _ := p.Relay(app.IntentNext); changed {
		t.Fatalf("next must be disabled after a wrong answer")
	}
	if changed, _ := p.Relay(app.IntentRetry); !changed {
		t.Fatalf("retry should apply")
	}

	_, _, _ = s.Submit(app.ClickOption(1))
	v = p.View()
	if v.Mood != domain.MoodCelebrating || !v.CanProceed {
		t.Fatalf("unexpected view after correct answer %+v", v)
	}
	if changed, _ := p.Relay(app.IntentNext); !changed {
		t.Fatalf("next should continue after a correct answer")
	}
	if got := p.View().Progress; got != "2 of 3" {
		t.Fatalf("expected second question, got %s", got)
	}
}

func TestPresenterEmptyAndComplete(t *testing.T) {
	v := app.NewPresenter(app.NewGameSession("s", "x", nil)).View()
	if v.State != "no_content" || v.Prompt != "No questions available" || v.InputEnabled {
		t.Fatalf("unexpected empty view %+v", v)
	}

	s := app.NewGameSession("s", "1", fruitQuestions()[:1])
	_, _, _ = s.Submit(app.ClickOption(1))
	s.Continue()
	v = app.Present(s.Snapshot())
	if v.State != "complete" || v.Prompt != "You got 1 out of 1!" || v.Mood != domain.MoodCelebrating {
		t.Fatalf("unexpected complete view %+v", v)
	}
}

func TestPresenterRejectsUnknownIntent(t *testing.T) {
	p := app.NewPresenter(app.NewGameSession("s", "1", fruitQuestions()))
	if _, err := p.Relay(app.Intent("dance")); err == nil {
		t.Fatalf("expected error for unknown intent")
	}
}
