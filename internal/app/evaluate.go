package app

import (
	"fmt"

	"mochi-games/internal/domain"
)

const (
	encourageCorrect   = "Keep it up!"
	encourageIncorrect = "You can do it! Try again!"
)

// TargetName is how messages refer to the item the learner must find.
func TargetName(q domain.Question) string {
	if q.TargetItem == "" || q.TargetItem == domain.UnknownTarget {
		return "correct answer"
	}
	return q.TargetItem
}

// FeedbackFor builds the fixed message for a correct or incorrect answer.
func FeedbackFor(q domain.Question, correct bool) domain.Feedback {
	target := TargetName(q)
	if correct {
		return domain.Feedback{
			IsCorrect:     true,
			Message:       fmt.Sprintf("Great job! You found the %s!", target),
			Encouragement: encourageCorrect,
		}
	}
	return domain.Feedback{
		IsCorrect:     false,
		Message:       fmt.Sprintf("Close! Try finding the %s!", target),
		Encouragement: encourageIncorrect,
	}
}

// Evaluate scores an answer against q. The returned option is nil when a transcript
// matched none of the options; such answers are always incorrect.
func Evaluate(q domain.Question, answer domain.Answer) (domain.Feedback, *domain.Option, error) {
	var (
		opt domain.Option
		ok  bool
	)
	switch answer.Kind {
	case domain.AnswerOption:
		opt, ok = q.Option(answer.OptionID)
		if !ok {
			return domain.Feedback{}, nil, domain.ErrInvalidSelection
		}
	case domain.AnswerTranscript:
		opt, ok = q.OptionByLabel(answer.Text)
		if !ok {
			return FeedbackFor(q, false), nil, nil
		}
	default:
		return domain.Feedback{}, nil, domain.ErrInvalidSelection
	}
	return FeedbackFor(q, q.IsCorrect(opt)), &opt, nil
}
