package transport

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/forgecore/cardsim/internal/persistence"
)

func TestConnectReturnsMainMenuForUnknownUser(t *testing.T) {
	svc := NewService(persistence.NewMemoryStore(), nil, nil)
	commands, err := svc.Connect(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if len(commands) != 1 || commands[0].Kind != SceneShowMainMenu {
		t.Fatalf("expected a single SceneShowMainMenu command, got %+v", commands)
	}
}

func TestConnectResumesGameForKnownUser(t *testing.T) {
	store := persistence.NewMemoryStore()
	userID := uuid.New()
	if err := store.WriteUser(context.Background(), userID, []byte("saved-state")); err != nil {
		t.Fatalf("WriteUser: %v", err)
	}

	svc := NewService(store, nil, nil)
	commands, err := svc.Connect(context.Background(), userID)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if len(commands) != 1 || commands[0].Kind != SceneResumeGame {
		t.Fatalf("expected a single SceneResumeGame command, got %+v", commands)
	}
}

func TestHandleActionFailsWithoutAHandlerConfigured(t *testing.T) {
	svc := NewService(persistence.NewMemoryStore(), nil, nil)
	_, err := svc.HandleAction(context.Background(), uuid.New(), nil, UserAction{Kind: UserActionNewGame})
	if err == nil {
		t.Fatal("expected an error when no GameActionHandler is configured")
	}
}

func TestHandleActionDelegatesToConfiguredHandler(t *testing.T) {
	called := false
	handler := func(ctx context.Context, userID uuid.UUID, clientData []byte, userAction UserAction) (<-chan GameUpdate, error) {
		called = true
		ch := make(chan GameUpdate, 1)
		ch <- GameUpdate{Kind: GameUpdateViewSnapshot}
		close(ch)
		return ch, nil
	}

	svc := NewService(persistence.NewMemoryStore(), handler, nil)
	updates, err := svc.HandleAction(context.Background(), uuid.New(), nil, UserAction{Kind: UserActionGameAction})
	if err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if !called {
		t.Fatal("expected the configured handler to be invoked")
	}
	update := <-updates
	if update.Kind != GameUpdateViewSnapshot {
		t.Fatalf("expected a view snapshot update, got %+v", update)
	}
}

func TestHandleUpdateFieldRecordsFormState(t *testing.T) {
	svc := NewService(persistence.NewMemoryStore(), nil, nil)
	userID := uuid.New()
	svc.HandleUpdateField(userID, "pick_number", "3")

	fields := svc.FormState(userID)
	if fields["pick_number"] != "3" {
		t.Fatalf("expected pick_number=3, got %+v", fields)
	}
}
