package domain

import (
	"strings"
	"time"
)

// Category is a themed group of questions shown in the game gallery.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	CreatedBy   *int64 `json:"created_by,omitempty"`
	Color       string `json:"color"`
	Custom      bool   `json:"custom"`
}

// Option is one of the three selectable answers of a question.
// IDs are 1-based and stable within the owning question.
type Option struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	ImageURL string `json:"image_url"`
}

// Question asks the learner to find TargetItem among Options.
type Question struct {
	ID            int      `json:"id"`
	CategoryID    string   `json:"category_id"`
	TargetItem    string   `json:"target_item"`
	Prompt        string   `json:"prompt,omitempty"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	// CorrectAnswerID takes precedence over CorrectAnswer when non-zero.
	CorrectAnswerID int    `json:"correct_answer_id,omitempty"`
	AudioURL        string `json:"audio_url,omitempty"`
}

// Option returns the option with the given id.
func (q Question) Option(id int) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// OptionByLabel matches a label case-insensitively.
func (q Question) OptionByLabel(label string) (Option, bool) {
	for _, opt := range q.Options {
		if strings.EqualFold(opt.Label, label) {
			return opt, true
		}
	}
	return Option{}, false
}

// IsCorrect reports whether opt is the designated answer of q.
func (q Question) IsCorrect(opt Option) bool {
	if q.CorrectAnswerID != 0 {
		return opt.ID == q.CorrectAnswerID
	}
	return strings.EqualFold(opt.Label, q.CorrectAnswer)
}

// AnswerKind distinguishes how an answer reached the session.
type AnswerKind int

const (
	AnswerOption AnswerKind = iota
	AnswerTranscript
)

// Answer is the normalized "answer submitted" event produced by input adapters.
type Answer struct {
	Kind     AnswerKind
	OptionID int
	Text     string
}

// Mood is the mascot expression shown alongside feedback.
type Mood string

const (
	MoodHappy       Mood = "happy"
	MoodEncouraging Mood = "encouraging"
	MoodCelebrating Mood = "celebrating"
)

// Feedback is the evaluation shown after an answer.
type Feedback struct {
	IsCorrect     bool   `json:"isCorrect"`
	Message       string `json:"message"`
	Encouragement string `json:"encouragement"`
}

// Result is what a finished session hands back to its caller.
type Result struct {
	SessionID   string    `json:"sessionId"`
	CategoryID  string    `json:"categoryId"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completedAt"`
}

// AuthoredQuestion is the editor-time shape persisted inside a SavedGame.
type AuthoredQuestion struct {
	Title           string   `json:"gameTitle"`
	Prompt          string   `json:"questionText"`
	TargetItem      string   `json:"target_item,omitempty"`
	Options         []Option `json:"options"`
	CorrectAnswer   string   `json:"correct_answer"`
	CorrectAnswerID int      `json:"correct_answer_id"`
}

// SavedGame is a user-authored set of questions.
type SavedGame struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	QuestionCount int                `json:"questionCount"`
	Questions     []AuthoredQuestion `json:"questions"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// Category renders the saved game as a gallery entry.
func (g SavedGame) Category() Category {
	return Category{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Color:       "bg-amber-100",
		Custom:      true,
	}
}

// PlayableQuestions converts authored questions into the canonical shape the session plays.
func (g SavedGame) PlayableQuestions() []Question {
	out := make([]Question, 0, len(g.Questions))
	for i, aq := range g.Questions {
		options := make([]Option, len(aq.Options))
		for j, opt := range aq.Options {
			image := opt.ImageURL
			if image == "" {
				image = PlaceholderImage(opt.Label)
			}
			options[j] = Option{ID: j + 1, Label: opt.Label, ImageURL: image}
		}

		correct := aq.CorrectAnswer
		if correct == "" && aq.CorrectAnswerID >= 1 && aq.CorrectAnswerID <= len(options) {
			correct = options[aq.CorrectAnswerID-1].Label
		}
		if correct == "" {
			correct = UnknownTarget
		}
		target := aq.TargetItem
		if target == "" {
			target = correct
		}

		out = append(out, Question{
			ID:              i + 1,
			CategoryID:      g.ID,
			TargetItem:      target,
			Prompt:          aq.Prompt,
			Options:         options,
			CorrectAnswer:   correct,
			CorrectAnswerID: aq.CorrectAnswerID,
		})
	}
	return out
}

// UnknownTarget marks questions whose target could not be recovered.
const UnknownTarget = "Unknown"

// PlaceholderImage is used for options saved without an image.
func PlaceholderImage(label string) string {
	return "https://placehold.co/300x300?text=" + strings.ReplaceAll(label, " ", "+")
}
