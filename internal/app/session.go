package app

import (
	"sync"
	"time"

	"mochi-games/internal/domain"
)

// State is the position of a GameSession in its per-question cycle.
type State int

const (
	// StateNoContent is the dead state of a session started without questions.
	StateNoContent State = iota
	StateAwaitingAnswer
	StateFeedbackShown
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateFeedbackShown:
		return "feedback_shown"
	case StateComplete:
		return "complete"
	default:
		return "no_content"
	}
}

// Ticket identifies the exact question attempt an asynchronous answer was started for.
type Ticket struct {
	index int
	epoch uint64
}

// Snapshot is a copy of the session state safe to hand to renderers.
type Snapshot struct {
	SessionID       string
	CategoryID      string
	State           State
	Index           int
	Total           int
	Score           int
	Question        *domain.Question
	Selected        *domain.Option
	Feedback        *domain.Feedback
	FeedbackVisible bool
}

// GameSession drives one play-through of an ordered question list.
// index == len(questions) means the session is complete.
type GameSession struct {
	id          string
	categoryID  string
	now         func() time.Time
	questions   []domain.Question
	completedAt time.Time

	mu              sync.Mutex
	index           int
	selected        *domain.Option
	feedback        *domain.Feedback
	feedbackVisible bool
	score           int
	credited        []bool
	epoch           uint64
}

// NewGameSession starts a session at the first question.
func NewGameSession(id, categoryID string, questions []domain.Question) *GameSession {
	return NewGameSessionWithClock(id, categoryID, questions, time.Now)
}

// NewGameSessionWithClock allows deterministic completion timestamps in tests.
func NewGameSessionWithClock(id, categoryID string, questions []domain.Question, now func() time.Time) *GameSession {
	qs := make([]domain.Question, len(questions))
	copy(qs, questions)
	return &GameSession{
		id:         id,
		categoryID: categoryID,
		now:        now,
		questions:  qs,
		credited:   make([]bool, len(qs)),
	}
}

func (s *GameSession) ID() string         { return s.id }
func (s *GameSession) CategoryID() string { return s.categoryID }

func (s *GameSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *GameSession) stateLocked() State {
	switch {
	case len(s.questions) == 0:
		return StateNoContent
	case s.index >= len(s.questions):
		return StateComplete
	case s.feedbackVisible:
		return StateFeedbackShown
	default:
		return StateAwaitingAnswer
	}
}

// Current returns the question being played, if any.
func (s *GameSession) Current() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.index], true
}

// Ticket captures the current attempt; see SubmitWithTicket.
func (s *GameSession) Ticket() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{index: s.index, epoch: s.epoch}
}

// Submit evaluates an answer for the current question. Submissions outside
// StateAwaitingAnswer are ignored and reported with ok == false.
func (s *GameSession) Submit(answer domain.Answer) (fb domain.Feedback, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(answer)
}

// SubmitWithTicket applies an answer only if the session is still on the attempt
// the ticket was taken for. Late voice transcripts use this.
func (s *GameSession) SubmitWithTicket(t Ticket, answer domain.Answer) (domain.Feedback, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.index != s.index || t.epoch != s.epoch {
		return domain.Feedback{}, false, nil
	}
	return s.submitLocked(answer)
}

func (s *GameSession) submitLocked(answer domain.Answer) (domain.Feedback, bool, error) {
	if s.stateLocked() != StateAwaitingAnswer {
		return domain.Feedback{}, false, nil
	}
	q := s.questions[s.index]
	fb, opt, err := Evaluate(q, answer)
	if err != nil {
		return domain.Feedback{}, false, err
	}

	s.selected = opt
	s.feedback = &fb
	s.feedbackVisible = true
	if fb.IsCorrect && !s.credited[s.index] {
		s.credited[s.index] = true
		s.score++
	}
	s.epoch++
	return fb, true, nil
}

// Continue clears the feedback and advances to the next question, or completes the
// session after the last one. It is a no-op unless feedback is shown.
func (s *GameSession) Continue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stateLocked() != StateFeedbackShown {
		return false
	}
	s.clearLocked()
	s.index++
	if s.index == len(s.questions) {
		s.completedAt = s.now()
	}
	return true
}

// Retry clears the feedback and re-shows the same question. Score is untouched.
func (s *GameSession) Retry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stateLocked() != StateFeedbackShown {
		return false
	}
	s.clearLocked()
	return true
}

func (s *GameSession) clearLocked() {
	s.selected = nil
	s.feedback = nil
	s.feedbackVisible = false
	s.epoch++
}

// Result is available once the session is complete.
func (s *GameSession) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stateLocked() != StateComplete {
		return domain.Result{}, false
	}
	return domain.Result{
		SessionID:   s.id,
		CategoryID:  s.categoryID,
		Score:       s.score,
		Total:       len(s.questions),
		CompletedAt: s.completedAt,
	}, true
}

func (s *GameSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:       s.id,
		CategoryID:      s.categoryID,
		State:           s.stateLocked(),
		Index:           s.index,
		Total:           len(s.questions),
		Score:           s.score,
		FeedbackVisible: s.feedbackVisible,
	}
	if s.index < len(s.questions) {
		q := s.questions[s.index]
		snap.Question = &q
	}
	if s.selected != nil {
		opt := *s.selected
		snap.Selected = &opt
	}
	if s.feedback != nil {
		fb := *s.feedback
		snap.Feedback = &fb
	}
	return snap
}
