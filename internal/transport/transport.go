// Package transport implements the external interfaces: the
// update channel the engine pushes GameUpdates through, and the caller
// API (connect/handle_action/handle_update_field/handle_drag_card) a
// front-end shell drives. The caller API itself is transport-agnostic —
// websocket.go is the one piece that's actually gorilla/websocket
// specific, leaving room for "a future gRPC, HTTP, or
// in-process adapter can sit in front of it without touching the core."
package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forgecore/cardsim/internal/game/action"
	"github.com/forgecore/cardsim/internal/game/prompt"
	"github.com/forgecore/cardsim/internal/persistence"
	"github.com/forgecore/cardsim/internal/primitives"
)

// GameUpdateKind tags what a GameUpdate is carrying.
type GameUpdateKind int

const (
	GameUpdateNewPrompt GameUpdateKind = iota
	GameUpdateViewSnapshot
	GameUpdateResponseRequest
)

// GameUpdate is a message the engine pushes to a connected client: a
// new prompt was raised, a rendered view snapshot is ready, or a
// previously-raised prompt's response request should be redisplayed
// (e.g. after a reconnect).
type GameUpdate struct {
	Kind     GameUpdateKind
	Prompt   *prompt.Request `json:",omitempty"`
	View     []byte          `json:",omitempty"`
	Response *prompt.Response `json:",omitempty"`
}

// UpdateChannel is the optional push sink: a game state with
// no channel set (e.g. one being driven by AI search) pushes nothing.
type UpdateChannel interface {
	Push(update GameUpdate)
}

// SceneCommandKind tags what a SceneCommand tells the client to render.
type SceneCommandKind int

const (
	SceneShowMainMenu SceneCommandKind = iota
	SceneResumeGame
)

// SceneCommand is one instruction returned from Connect describing what
// the front-end shell should render.
type SceneCommand struct {
	Kind   SceneCommandKind
	GameID uuid.UUID `json:",omitempty"`
}

// UserActionKind enumerates the action kinds handle_action dispatches,
// keeping the server from blocking on a slow client.
type UserActionKind int

const (
	UserActionNewGame UserActionKind = iota
	UserActionGameAction
	UserActionPromptAction
	UserActionPanelOpen
	UserActionPanelClose
	UserActionLeaveGame
	UserActionQuit
)

// UserAction is one caller-api request from the front-end shell.
type UserAction struct {
	Kind           UserActionKind
	GameID         uuid.UUID       `json:",omitempty"`
	Action         *action.Action  `json:",omitempty"`
	PromptResponse *prompt.Response `json:",omitempty"`
	Panel          string          `json:",omitempty"`
}

// GameActionHandler runs a UserAction against the actual game engine and
// streams back the resulting GameUpdates; transport has no dependency on
// the rules engine beyond this function type, which cmd/server supplies.
type GameActionHandler func(ctx context.Context, userID uuid.UUID, clientData []byte, userAction UserAction) (<-chan GameUpdate, error)

// Service implements the caller API over a persistence.Store and an
// injected GameActionHandler.
type Service struct {
	store   persistence.Store
	handler GameActionHandler
	logger  *zap.Logger

	mu        sync.Mutex
	formState map[uuid.UUID]map[string]string
}

// NewService builds a caller-api Service.
func NewService(store persistence.Store, handler GameActionHandler, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		handler:   handler,
		logger:    logger,
		formState: make(map[uuid.UUID]map[string]string),
	}
}

// Connect returns the commands needed to render either a fresh main
// menu (no saved user state) or a resumed game.
func (s *Service) Connect(ctx context.Context, userID uuid.UUID) ([]SceneCommand, error) {
	_, err := s.store.FetchUser(ctx, userID)
	if err != nil {
		return []SceneCommand{{Kind: SceneShowMainMenu}}, nil
	}
	return []SceneCommand{{Kind: SceneResumeGame, GameID: userID}}, nil
}

// HandleAction dispatches userAction to the configured GameActionHandler.
func (s *Service) HandleAction(ctx context.Context, userID uuid.UUID, clientData []byte, userAction UserAction) (<-chan GameUpdate, error) {
	if s.handler == nil {
		return nil, fmt.Errorf("transport: no game action handler configured")
	}
	return s.handler(ctx, userID, clientData, userAction)
}

// HandleUpdateField records UI-local form state for userID, e.g. a
// pick-number input that hasn't yet been submitted as an action.
func (s *Service) HandleUpdateField(userID uuid.UUID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.formState[userID]
	if !ok {
		fields = make(map[string]string)
		s.formState[userID] = fields
	}
	fields[key] = value
}

// FormState returns a snapshot of the recorded fields for userID.
func (s *Service) FormState(userID uuid.UUID) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.formState[userID]))
	for k, v := range s.formState[userID] {
		out[k] = v
	}
	return out
}

// HandleDragCard logs a card-order prompt drag event; the actual target
// order is submitted separately as a prompt response action.
func (s *Service) HandleDragCard(userID uuid.UUID, card primitives.CardId, location string, index int) {
	if s.logger != nil {
		s.logger.Debug("drag card",
			zap.String("user", userID.String()),
			zap.Uint64("card", uint64(card)),
			zap.String("location", location),
			zap.Int("index", index),
		)
	}
}
