package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mochi-games/internal/domain"
)

// SessionRepository abstracts where live game sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *GameSession)
	Get(sessionID string) (*GameSession, bool)
	Delete(sessionID string)
}

// ResultSink receives the outcome of every completed session.
type ResultSink interface {
	Record(ctx context.Context, result domain.Result) error
}

// PlayService contains the game screen use cases.
type PlayService struct {
	content  *ContentService
	sessions SessionRepository
	voice    Transcriber
	sinks    []ResultSink
	log      *zap.Logger
}

func NewPlayService(content *ContentService, sessions SessionRepository, voice Transcriber, log *zap.Logger, sinks ...ResultSink) *PlayService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlayService{
		content:  content,
		sessions: sessions,
		voice:    voice,
		sinks:    sinks,
		log:      log,
	}
}

// Load fetches the questions of a category. Failures come back as an empty list
// plus an error wrapping domain.ErrContentUnavailable.
func (p *PlayService) Load(ctx context.Context, categoryID string) ([]domain.Question, error) {
	return p.content.ListQuestions(ctx, categoryID)
}

// Begin replaces whatever session sessionID had with a fresh one over questions.
func (p *PlayService) Begin(sessionID, categoryID string, questions []domain.Question) View {
	session := NewGameSession(sessionID, categoryID, questions)
	p.sessions.Put(session)
	p.log.Debug("session started",
		zap.String("session", sessionID),
		zap.String("category", categoryID),
		zap.Int("questions", len(questions)))
	return Present(session.Snapshot())
}

// Open loads a category and begins a session on it.
func (p *PlayService) Open(ctx context.Context, sessionID, categoryID string) (View, error) {
	questions, err := p.Load(ctx, categoryID)
	view := p.Begin(sessionID, categoryID, questions)
	return view, err
}

// View renders the current state of a session.
func (p *PlayService) View(sessionID string) (View, error) {
	session, ok := p.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return Present(session.Snapshot()), nil
}

// Submit applies an answer. Answers arriving while feedback is shown are ignored.
func (p *PlayService) Submit(_ context.Context, sessionID string, answer domain.Answer) (View, error) {
	session, ok := p.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	if _, _, err := session.Submit(answer); err != nil {
		return Present(session.Snapshot()), err
	}
	return Present(session.Snapshot()), nil
}

// Listen records a (simulated) voice answer. applied is false when the session moved
// past the attempt before the transcript arrived.
func (p *PlayService) Listen(ctx context.Context, sessionID string) (view View, applied bool, err error) {
	session, ok := p.sessions.Get(sessionID)
	if !ok {
		return View{}, false, domain.ErrSessionNotFound
	}
	if session.State() != StateAwaitingAnswer {
		return Present(session.Snapshot()), false, nil
	}
	ticket := session.Ticket()

	transcript, err := p.voice.Transcribe(ctx)
	if err != nil {
		return Present(session.Snapshot()), false, fmt.Errorf("transcribe: %w", err)
	}
	_, applied, err = session.SubmitWithTicket(ticket, SpokenAnswer(transcript))
	if !applied {
		p.log.Debug("voice answer dropped", zap.String("session", sessionID), zap.String("transcript", transcript))
	}
	return Present(session.Snapshot()), applied, err
}

// Relay forwards an overlay or header intent. When the session completes the
// result is handed to the sinks and the session is released.
func (p *PlayService) Relay(ctx context.Context, sessionID string, intent Intent) (View, error) {
	session, ok := p.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	changed, err := NewPresenter(session).Relay(intent)
	if err != nil {
		return Present(session.Snapshot()), err
	}
	if changed {
		if result, done := session.Result(); done {
			p.finish(ctx, result)
			p.sessions.Delete(sessionID)
		}
	}
	return Present(session.Snapshot()), nil
}

// End abandons a session without reporting a result.
func (p *PlayService) End(_ context.Context, sessionID string) {
	p.sessions.Delete(sessionID)
}

func (p *PlayService) finish(ctx context.Context, result domain.Result) {
	p.log.Info("session complete",
		zap.String("session", result.SessionID),
		zap.String("category", result.CategoryID),
		zap.Int("score", result.Score),
		zap.Int("total", result.Total))
	for _, sink := range p.sinks {
		if err := sink.Record(ctx, result); err != nil {
			p.log.Warn("record result", zap.String("session", result.SessionID), zap.Error(err))
		}
	}
}
