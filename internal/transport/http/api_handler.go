package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
)

// ResultReader exposes recently completed sessions.
type ResultReader interface {
	Results() []domain.Result
}

// APIHandler serves the content gallery, saved games, results and feedback endpoints.
type APIHandler struct {
	content  *app.ContentService
	feedback app.FeedbackProvider
	results  ResultReader
	log      *zap.Logger
}

func NewAPIHandler(content *app.ContentService, feedback app.FeedbackProvider, results ResultReader, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{content: content, feedback: feedback, results: results, log: log}
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("GET /api/categories/{id}/questions", h.listQuestions)
	mux.HandleFunc("GET /api/games", h.listGames)
	mux.HandleFunc("POST /api/games", h.saveGame)
	mux.HandleFunc("DELETE /api/games/{id}", h.deleteGame)
	mux.HandleFunc("POST /api/feedback", h.giveFeedback)
	mux.HandleFunc("GET /api/results", h.listResults)
}

type categoriesResponse struct {
	Categories []domain.Category `json:"categories"`
	Error      string            `json:"error,omitempty"`
}

type questionsResponse struct {
	Questions []domain.Question `json:"questions"`
	Error     string            `json:"error,omitempty"`
}

type saveGameRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Questions   []domain.AuthoredQuestion `json:"questions"`
}

type feedbackRequest struct {
	Submitted string `json:"submitted"`
	Correct   string `json:"correct"`
	Target    string `json:"target"`
}

// Load failures are not fatal: the gallery renders whatever came back.
func (h *APIHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.content.ListCategories(r.Context())
	resp := categoriesResponse{Categories: cats}
	if err != nil {
		resp.Error = domain.ErrContentUnavailable.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.content.ListQuestions(r.Context(), r.PathValue("id"))
	resp := questionsResponse{Questions: qs}
	if err != nil {
		resp.Error = domain.ErrContentUnavailable.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.content.SavedGames(r.Context())
	if err != nil {
		h.log.Warn("list saved games", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, domain.ErrContentUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *APIHandler) saveGame(w http.ResponseWriter, r *http.Request) {
	var req saveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	game, err := h.content.SaveGame(r.Context(), req.Name, req.Description, req.Questions)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, game)
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err)
	default:
		h.log.Error("save game", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("could not save game"))
	}
}

func (h *APIHandler) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		h.log.Error("delete game", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("could not delete game"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) giveFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Correct == "" {
		writeError(w, http.StatusBadRequest, errors.New("submitted and correct are required"))
		return
	}
	fb, err := h.feedback.Feedback(r.Context(), req.Submitted, req.Correct, req.Target)
	if err != nil {
		h.log.Warn("feedback", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, errors.New("feedback unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func (h *APIHandler) listResults(w http.ResponseWriter, r *http.Request) {
	results := []domain.Result{}
	if h.results != nil {
		results = append(results, h.results.Results()...)
	}
	writeJSON(w, http.StatusOK, results)
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrQuestionIndex) ||
		errors.Is(err, domain.ErrOptionIndex) ||
		errors.Is(err, domain.ErrMissingLabel) ||
		errors.Is(err, domain.ErrNoCorrectOption)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorPayload{Message: err.Error()})
}
