package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
)

type WSHandler struct {
	service  *app.PlayService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PlayService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type openPayload struct {
	CategoryID string `json:"categoryId"`
}

type selectPayload struct {
	OptionID int `json:"optionId"`
}

type completePayload struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// connection is the play screen bound to one websocket.
type connection struct {
	h         *WSHandler
	sessionID string
	ctx       context.Context
	send      chan outboundMessage[any]
	workers   sync.WaitGroup
	nav       app.Navigator
	// serializes applying a finished load with newer navigation
	applyMu sync.Mutex
}

// ServeWS upgrades HTTP requests to websockets and runs one game screen per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	c := &connection{
		h:         h,
		sessionID: uuid.NewString(),
		ctx:       ctx,
		send:      make(chan outboundMessage[any], 16),
	}
	log := h.log.With(zap.String("session", c.sessionID))
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn("ws write error", zap.Error(err))
				// unblocks pushes waiting on a dead connection
				cancel()
				return
			}
		}
	}()

	if id := r.URL.Query().Get("categoryId"); id != "" {
		c.open(id)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		c.handle(inbound)
	}

	cancel()
	c.workers.Wait()
	h.service.End(context.Background(), c.sessionID)
	close(c.send)
	<-writerDone
}

func (c *connection) handle(inbound inboundMessage) {
	switch inbound.Type {
	case "open":
		var payload openPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.CategoryID == "" {
			c.fail("invalid open payload")
			return
		}
		c.open(payload.CategoryID)
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.fail("invalid select payload")
			return
		}
		view, err := c.h.service.Submit(c.ctx, c.sessionID, app.ClickOption(payload.OptionID))
		if err != nil {
			c.fail(err.Error())
			return
		}
		c.push("view", view)
	case "voice":
		c.listen()
	case "continue", "retry", "next":
		view, err := c.h.service.Relay(c.ctx, c.sessionID, app.Intent(inbound.Type))
		if err != nil {
			c.fail(err.Error())
			return
		}
		if view.State == app.StateComplete.String() {
			c.push("complete", completePayload{Score: view.Score, Total: view.Total})
		}
		c.push("view", view)
	case "end":
		c.end()
	default:
		c.fail("unsupported message type")
	}
}

// open loads the category in the background; the result is only applied if no
// other category was opened meanwhile.
func (c *connection) open(categoryID string) {
	visit := c.nav.Open(categoryID)
	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		questions, loadErr := c.h.service.Load(c.ctx, categoryID)

		c.applyMu.Lock()
		defer c.applyMu.Unlock()
		if !c.nav.IsCurrent(visit) {
			c.h.log.Debug("dropping stale content load",
				zap.String("session", c.sessionID),
				zap.String("category", categoryID),
				zap.Error(domain.ErrStaleLoad))
			return
		}
		view := c.h.service.Begin(c.sessionID, categoryID, questions)

		if loadErr != nil && !errors.Is(loadErr, context.Canceled) {
			c.h.log.Warn("load questions", zap.String("category", categoryID), zap.Error(loadErr))
			c.fail("content unavailable")
		}
		if view.Total == 0 {
			c.push("empty", view)
			return
		}
		c.push("view", view)
	}()
}

// end leaves the screen. It holds applyMu so a load that already passed its
// navigation check cannot begin a session afterwards.
func (c *connection) end() {
	c.applyMu.Lock()
	defer c.applyMu.Unlock()
	c.nav.Leave()
	c.h.service.End(c.ctx, c.sessionID)
}

func (c *connection) listen() {
	view, err := c.h.service.View(c.sessionID)
	if err != nil {
		c.fail(err.Error())
		return
	}
	if !view.InputEnabled {
		return
	}
	c.push("listening", view)

	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		view, applied, err := c.h.service.Listen(c.ctx, c.sessionID)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				c.fail(err.Error())
			}
			return
		}
		if applied {
			c.push("view", view)
		}
	}()
}

func (c *connection) push(typ string, payload any) {
	select {
	case c.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-c.ctx.Done():
	}
}

func (c *connection) fail(message string) {
	c.push("error", errorPayload{Message: message})
}
