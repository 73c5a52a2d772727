package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mochi-games/internal/domain"
)

// FeedbackProvider generates learner feedback for an answer. The game session never
// consults it; its messages come from FeedbackFor.
type FeedbackProvider interface {
	Feedback(ctx context.Context, submitted, correct, target string) (domain.Feedback, error)
}

// MockFeedbackProvider stands in for the generative feedback service.
type MockFeedbackProvider struct {
	clock Clock
	delay time.Duration
}

func NewMockFeedbackProvider(clock Clock, delay time.Duration) *MockFeedbackProvider {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MockFeedbackProvider{clock: clock, delay: delay}
}

func (p *MockFeedbackProvider) Feedback(ctx context.Context, submitted, correct, _ string) (domain.Feedback, error) {
	if err := Wait(ctx, p.clock, p.delay); err != nil {
		return domain.Feedback{}, err
	}
	if strings.EqualFold(submitted, correct) {
		return domain.Feedback{
			IsCorrect:     true,
			Message:       fmt.Sprintf("Great job! That is a %s! 🎉", correct),
			Encouragement: "You're doing amazing!",
		}, nil
	}
	return domain.Feedback{
		IsCorrect:     false,
		Message:       fmt.Sprintf("Close! That is a %s. Try finding the %s!", submitted, correct),
		Encouragement: encourageIncorrect,
	}, nil
}
