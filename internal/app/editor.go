package app

import (
	"context"
	"fmt"
	"strings"

	"mochi-games/internal/domain"
)

const (
	optionsPerQuestion     = 3
	defaultGameName        = "Custom Game"
	defaultGameDescription = "Manually created lesson"
)

// GameSaver is the part of the content source the editor needs.
type GameSaver interface {
	SaveGame(ctx context.Context, name, description string, questions []domain.AuthoredQuestion) (domain.SavedGame, error)
}

// OptionPatch changes the label and/or image of one option. Nil fields are left alone.
type OptionPatch struct {
	Label *string
	Image *string
}

type draftQuestion struct {
	title   string
	prompt  string
	options [optionsPerQuestion]domain.Option
	correct int // option id, 0 when none is designated
}

// Editor builds an append-only list of questions for a new game.
type Editor struct {
	saver     GameSaver
	questions []draftQuestion
	current   int
}

// NewEditor starts with a single blank question.
func NewEditor(saver GameSaver) *Editor {
	e := &Editor{saver: saver}
	e.questions = append(e.questions, blankQuestion(""))
	return e
}

func blankQuestion(title string) draftQuestion {
	q := draftQuestion{title: title}
	for i := range q.options {
		q.options[i].ID = i + 1
	}
	return q
}

func (e *Editor) Len() int     { return len(e.questions) }
func (e *Editor) Current() int { return e.current }

// Select moves the cursor to question i.
func (e *Editor) Select(i int) error {
	if i < 0 || i >= len(e.questions) {
		return domain.ErrQuestionIndex
	}
	e.current = i
	return nil
}

// Next advances the cursor; it reports false on the last question.
func (e *Editor) Next() bool {
	if e.current >= len(e.questions)-1 {
		return false
	}
	e.current++
	return true
}

// AddQuestion appends a blank question that carries the current question's title
// and moves the cursor to it.
func (e *Editor) AddQuestion() int {
	e.questions = append(e.questions, blankQuestion(e.questions[e.current].title))
	e.current = len(e.questions) - 1
	return e.current
}

func (e *Editor) SetTitle(qi int, title string) error {
	q, err := e.question(qi)
	if err != nil {
		return err
	}
	q.title = title
	return nil
}

func (e *Editor) SetPrompt(qi int, prompt string) error {
	q, err := e.question(qi)
	if err != nil {
		return err
	}
	q.prompt = prompt
	return nil
}

// UpdateOption patches option oi (0-based) of question qi in place.
func (e *Editor) UpdateOption(qi, oi int, patch OptionPatch) error {
	q, err := e.question(qi)
	if err != nil {
		return err
	}
	if oi < 0 || oi >= optionsPerQuestion {
		return domain.ErrOptionIndex
	}
	if patch.Label != nil {
		q.options[oi].Label = *patch.Label
	}
	if patch.Image != nil {
		q.options[oi].ImageURL = *patch.Image
	}
	return nil
}

// SetCorrectOption designates option oi as the only correct answer of question qi.
func (e *Editor) SetCorrectOption(qi, oi int) error {
	q, err := e.question(qi)
	if err != nil {
		return err
	}
	if oi < 0 || oi >= optionsPerQuestion {
		return domain.ErrOptionIndex
	}
	q.correct = oi + 1
	return nil
}

// Question returns question qi in its authored form.
func (e *Editor) Question(qi int) (domain.AuthoredQuestion, error) {
	q, err := e.question(qi)
	if err != nil {
		return domain.AuthoredQuestion{}, err
	}
	return q.authored(), nil
}

func (e *Editor) question(qi int) (*draftQuestion, error) {
	if qi < 0 || qi >= len(e.questions) {
		return nil, domain.ErrQuestionIndex
	}
	return &e.questions[qi], nil
}

func (q draftQuestion) authored() domain.AuthoredQuestion {
	aq := domain.AuthoredQuestion{
		Title:           q.title,
		Prompt:          q.prompt,
		Options:         append([]domain.Option(nil), q.options[:]...),
		CorrectAnswerID: q.correct,
	}
	if q.correct != 0 {
		aq.CorrectAnswer = q.options[q.correct-1].Label
	}
	return aq
}

// Commit validates the draft and returns the questions ready to save. Images are optional.
func (e *Editor) Commit() ([]domain.AuthoredQuestion, error) {
	out := make([]domain.AuthoredQuestion, len(e.questions))
	for i, q := range e.questions {
		out[i] = q.authored()
	}
	return ValidateQuestions(out)
}

// Save commits and persists the game. The name comes from the first question's title.
func (e *Editor) Save(ctx context.Context, description string) (domain.SavedGame, error) {
	questions, err := e.Commit()
	if err != nil {
		return domain.SavedGame{}, err
	}
	name := questions[0].Title
	if strings.TrimSpace(name) == "" {
		name = defaultGameName
	}
	return e.saver.SaveGame(ctx, name, description, questions)
}

// ValidateQuestions checks authored questions and fills in the correct option id and
// label from whichever designator is present.
func ValidateQuestions(questions []domain.AuthoredQuestion) ([]domain.AuthoredQuestion, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", domain.ErrQuestionIndex)
	}
	out := make([]domain.AuthoredQuestion, len(questions))
	for i, q := range questions {
		if len(q.Options) != optionsPerQuestion {
			return nil, fmt.Errorf("question %d: %w", i+1, domain.ErrOptionIndex)
		}
		options := make([]domain.Option, optionsPerQuestion)
		for j, opt := range q.Options {
			if strings.TrimSpace(opt.Label) == "" {
				return nil, fmt.Errorf("question %d option %d: %w", i+1, j+1, domain.ErrMissingLabel)
			}
			options[j] = domain.Option{ID: j + 1, Label: opt.Label, ImageURL: opt.ImageURL}
		}
		q.Options = options

		switch {
		case q.CorrectAnswerID >= 1 && q.CorrectAnswerID <= optionsPerQuestion:
			q.CorrectAnswer = options[q.CorrectAnswerID-1].Label
		case q.CorrectAnswer != "":
			id := 0
			for _, opt := range options {
				if strings.EqualFold(opt.Label, q.CorrectAnswer) {
					id = opt.ID
					break
				}
			}
			if id == 0 {
				return nil, fmt.Errorf("question %d: %w", i+1, domain.ErrNoCorrectOption)
			}
			q.CorrectAnswerID = id
			q.CorrectAnswer = options[id-1].Label
		default:
			return nil, fmt.Errorf("question %d: %w", i+1, domain.ErrNoCorrectOption)
		}
		out[i] = q
	}
	return out, nil
}
