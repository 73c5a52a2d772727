package app

import (
	"fmt"

	"mochi-games/internal/domain"
)

// Intent is a user action relayed from the feedback overlay or the game header.
type Intent string

const (
	IntentContinue Intent = "continue"
	IntentRetry    Intent = "retry"
	// IntentNext continues only after a correct answer.
	IntentNext Intent = "next"
)

// OptionView is an answer card as rendered on the game screen.
type OptionView struct {
	domain.Option
	Selected bool `json:"selected"`
	Revealed bool `json:"revealed"`
	Correct  bool `json:"correct"`
}

// View is everything the game screen renders for the current state.
type View struct {
	SessionID       string           `json:"sessionId"`
	State           string           `json:"state"`
	Prompt          string           `json:"prompt"`
	Mood            domain.Mood      `json:"mood"`
	Number          int              `json:"number"`
	Total           int              `json:"total"`
	Progress        string           `json:"progress"`
	Score           int              `json:"score"`
	Options         []OptionView     `json:"options"`
	Feedback        *domain.Feedback `json:"feedback,omitempty"`
	FeedbackVisible bool             `json:"feedbackVisible"`
	InputEnabled    bool             `json:"inputEnabled"`
	CanProceed      bool             `json:"canProceed"`
}

// Present renders a snapshot. It holds no state of its own.
func Present(snap Snapshot) View {
	v := View{
		SessionID:       snap.SessionID,
		State:           snap.State.String(),
		Mood:            domain.MoodHappy,
		Total:           snap.Total,
		Score:           snap.Score,
		Options:         []OptionView{},
		Feedback:        snap.Feedback,
		FeedbackVisible: snap.FeedbackVisible,
		InputEnabled:    snap.State == StateAwaitingAnswer,
	}

	switch snap.State {
	case StateNoContent:
		v.Prompt = "No questions available"
		return v
	case StateComplete:
		v.Mood = domain.MoodCelebrating
		v.Number = snap.Total
		v.Progress = fmt.Sprintf("%d of %d", snap.Total, snap.Total)
		v.Prompt = fmt.Sprintf("You got %d out of %d!", snap.Score, snap.Total)
		return v
	}

	q := *snap.Question
	v.Number = snap.Index + 1
	v.Progress = fmt.Sprintf("%d of %d", v.Number, snap.Total)
	v.Prompt = fmt.Sprintf("Can you show me the %s?", q.TargetItem)
	if snap.Feedback != nil && snap.FeedbackVisible {
		if snap.Feedback.IsCorrect {
			v.Mood = domain.MoodCelebrating
			v.CanProceed = true
		} else {
			v.Mood = domain.MoodEncouraging
		}
	}
	for _, opt := range q.Options {
		v.Options = append(v.Options, OptionView{
			Option:   opt,
			Selected: snap.Selected != nil && snap.Selected.ID == opt.ID,
			Revealed: snap.FeedbackVisible,
			Correct:  q.IsCorrect(opt),
		})
	}
	return v
}

// Presenter renders a session and relays overlay intents back to it.
type Presenter struct {
	session *GameSession
}

func NewPresenter(session *GameSession) *Presenter {
	return &Presenter{session: session}
}

func (p *Presenter) View() View {
	return Present(p.session.Snapshot())
}

// Relay applies an intent and reports whether the session changed.
func (p *Presenter) Relay(intent Intent) (bool, error) {
	switch intent {
	case IntentContinue:
		return p.session.Continue(), nil
	case IntentRetry:
		return p.session.Retry(), nil
	case IntentNext:
		snap := p.session.Snapshot()
		if snap.Selected == nil || snap.Feedback == nil || !snap.Feedback.IsCorrect {
			return false, nil
		}
		return p.session.Continue(), nil
	default:
		return false, fmt.Errorf("unsupported intent %q", intent)
	}
}
