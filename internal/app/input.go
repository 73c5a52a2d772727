package app

import (
	"context"
	"time"

	"mochi-games/internal/domain"
)

// ClickOption normalizes an answer-card click.
func ClickOption(optionID int) domain.Answer {
	return domain.Answer{Kind: domain.AnswerOption, OptionID: optionID}
}

// SpokenAnswer normalizes a voice transcript.
func SpokenAnswer(transcript string) domain.Answer {
	return domain.Answer{Kind: domain.AnswerTranscript, Text: transcript}
}

// Transcriber turns a recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context) (string, error)
}

// SimulatedTranscriber "listens" for a fixed delay and returns a canned transcript.
type SimulatedTranscriber struct {
	clock      Clock
	delay      time.Duration
	transcript string
}

func NewSimulatedTranscriber(clock Clock, delay time.Duration, transcript string) *SimulatedTranscriber {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SimulatedTranscriber{clock: clock, delay: delay, transcript: transcript}
}

func (t *SimulatedTranscriber) Transcribe(ctx context.Context) (string, error) {
	if err := Wait(ctx, t.clock, t.delay); err != nil {
		return "", err
	}
	return t.transcript, nil
}
