package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultSlot is the storage key holding the list of saved games.
const DefaultSlot = "created_games"

// DecodeSavedGames parses a slot value, normalizing every accepted legacy shape into
// SavedGame. Records that cannot be played are skipped and reported in skipped; err is
// only set when the slot itself is unreadable.
func DecodeSavedGames(data []byte) (games []SavedGame, skipped []error, err error) {
	raws, err := rawRecords(data)
	if err != nil {
		return nil, nil, err
	}
	games = make([]SavedGame, 0, len(raws))
	for i, raw := range raws {
		game, err := DecodeSavedGame(raw)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		games = append(games, game)
	}
	return games, skipped, nil
}

type rawSavedGame struct {
	ID            flexID        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	QuestionCount int           `json:"questionCount"`
	Questions     []rawQuestion `json:"questions"`
	CreatedAt     string        `json:"createdAt"`
}

type rawQuestion struct {
	Title              string      `json:"gameTitle"`
	Prompt             string      `json:"questionText"`
	TargetItem         string      `json:"target_item"`
	Options            []rawOption `json:"options"`
	CorrectAnswer      string      `json:"correct_answer"`
	CorrectAnswerID    int         `json:"correct_answer_id"`
	CorrectOptionIndex *int        `json:"correctOptionIndex"`
}

type rawOption struct {
	Label    string  `json:"label"`
	ImageURL string  `json:"image_url"`
	Image    *string `json:"image"`
}

// flexID accepts both string and numeric ids; older records used a millisecond timestamp.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// DecodeSavedGame normalizes a single persisted record.
func DecodeSavedGame(raw []byte) (SavedGame, error) {
	var r rawSavedGame
	if err := json.Unmarshal(raw, &r); err != nil {
		return SavedGame{}, fmt.Errorf("%w: %v", ErrMalformedSavedGame, err)
	}
	if r.ID == "" {
		return SavedGame{}, fmt.Errorf("%w: missing id", ErrMalformedSavedGame)
	}
	if len(r.Questions) == 0 {
		return SavedGame{}, fmt.Errorf("%w: no questions", ErrMalformedSavedGame)
	}

	game := SavedGame{
		ID:            string(r.ID),
		Name:          r.Name,
		Description:   r.Description,
		QuestionCount: r.QuestionCount,
		Questions:     make([]AuthoredQuestion, 0, len(r.Questions)),
	}
	if r.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
			game.CreatedAt = ts
		} else if ms, err := strconv.ParseInt(r.CreatedAt, 10, 64); err == nil {
			game.CreatedAt = time.UnixMilli(ms).UTC()
		}
	}

	for i, rq := range r.Questions {
		q, err := normalizeQuestion(rq)
		if err != nil {
			return SavedGame{}, fmt.Errorf("%w: question %d: %s", ErrMalformedSavedGame, i+1, err)
		}
		game.Questions = append(game.Questions, q)
	}
	if game.QuestionCount == 0 {
		game.QuestionCount = len(game.Questions)
	}
	return game, nil
}

func normalizeQuestion(rq rawQuestion) (AuthoredQuestion, error) {
	if len(rq.Options) != 3 {
		return AuthoredQuestion{}, fmt.Errorf("expected 3 options, got %d", len(rq.Options))
	}
	q := AuthoredQuestion{
		Title:      rq.Title,
		Prompt:     rq.Prompt,
		TargetItem: rq.TargetItem,
		Options:    make([]Option, len(rq.Options)),
	}
	for i, ro := range rq.Options {
		if strings.TrimSpace(ro.Label) == "" {
			return AuthoredQuestion{}, fmt.Errorf("option %d has no label", i+1)
		}
		image := ro.ImageURL
		if image == "" && ro.Image != nil {
			image = *ro.Image
		}
		q.Options[i] = Option{ID: i + 1, Label: ro.Label, ImageURL: image}
	}

	switch {
	case rq.CorrectAnswerID != 0:
		if rq.CorrectAnswerID < 1 || rq.CorrectAnswerID > len(q.Options) {
			return AuthoredQuestion{}, fmt.Errorf("correct option id %d out of range", rq.CorrectAnswerID)
		}
		q.CorrectAnswerID = rq.CorrectAnswerID
		q.CorrectAnswer = rq.CorrectAnswer
		if q.CorrectAnswer == "" {
			q.CorrectAnswer = q.Options[rq.CorrectAnswerID-1].Label
		}
	case rq.CorrectOptionIndex != nil:
		idx := *rq.CorrectOptionIndex
		if idx < 0 || idx >= len(q.Options) {
			return AuthoredQuestion{}, fmt.Errorf("correct option index %d out of range", idx)
		}
		q.CorrectAnswerID = idx + 1
		q.CorrectAnswer = q.Options[idx].Label
	case rq.CorrectAnswer != "":
		matched := false
		for _, opt := range q.Options {
			if strings.EqualFold(opt.Label, rq.CorrectAnswer) {
				matched = true
				break
			}
		}
		if !matched {
			return AuthoredQuestion{}, fmt.Errorf("correct answer %q matches no option", rq.CorrectAnswer)
		}
		q.CorrectAnswer = rq.CorrectAnswer
	default:
		return AuthoredQuestion{}, fmt.Errorf("no correct answer designated")
	}
	return q, nil
}

// PrependSavedGame adds game at the front of a slot value. Existing records are kept
// byte-for-byte, including ones that fail to decode.
func PrependSavedGame(slot []byte, game SavedGame) ([]byte, error) {
	raws, err := rawRecords(slot)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(game)
	if err != nil {
		return nil, err
	}
	return json.Marshal(append([]json.RawMessage{encoded}, raws...))
}

// RemoveSavedGame drops every record whose id equals id. removed is false when no
// record matched, in which case the slot should be left as is.
func RemoveSavedGame(slot []byte, id string) (updated []byte, removed bool, err error) {
	raws, err := rawRecords(slot)
	if err != nil {
		return nil, false, err
	}
	kept := make([]json.RawMessage, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			ID flexID `json:"id"`
		}
		if json.Unmarshal(raw, &head) == nil && string(head.ID) == id {
			removed = true
			continue
		}
		kept = append(kept, raw)
	}
	if !removed {
		return slot, false, nil
	}
	updated, err = json.Marshal(kept)
	return updated, true, err
}

func rawRecords(slot []byte) ([]json.RawMessage, error) {
	if len(bytes.TrimSpace(slot)) == 0 {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(slot, &raws); err != nil {
		return nil, fmt.Errorf("decode saved games: %w", err)
	}
	return raws, nil
}
