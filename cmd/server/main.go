package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/forgecore/cardsim/internal/config"
	"github.com/forgecore/cardsim/internal/game"
	"github.com/forgecore/cardsim/internal/oracle"
	"github.com/forgecore/cardsim/internal/persistence"
	"github.com/forgecore/cardsim/internal/transport"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting cardsim server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// The oracle importer populates the card catalog out of process (§6
	// treats it as an external collaborator); a fresh server starts with
	// an empty table and a real deployment feeds it before serving. The
	// duel engine itself carries its own small, self-contained starter
	// card pool (see internal/game/starterdeck.go) so it never depends
	// on this table being populated.
	catalog := oracle.NewTable(nil)
	logger.Info("oracle table initialized", zap.Int("cards", catalog.Len()))

	store, err := persistence.NewPostgresStore(ctx, cfg.Database.DSN, cfg.Database.MaxConnections, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	stats := store.Stats()
	logger.Info("database connection pool initialized",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("idle_conns", stats.IdleConns()),
	)

	engine := game.NewEngine(logger)

	svc := transport.NewService(store, gameActionHandler(engine, logger), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", transport.ServeHTTP(svc, logger))

	httpServer := &http.Server{
		Addr:    cfg.Server.WebSocketAddress,
		Handler: mux,
	}

	go func() {
		logger.Info("starting websocket server", zap.String("address", cfg.Server.WebSocketAddress))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("websocket server error", zap.Error(serveErr))
		}
	}()

	logger.Info("cardsim server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocketAddress),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	cancel()

	if err := httpServer.Shutdown(context.Background()); err != nil {
		logger.Warn("error during http server shutdown", zap.Error(err))
	}

	logger.Info("cardsim server stopped")
}

// gameActionHandler bridges the transport-level UserAction into the
// typed duel Engine's StartGame/ProcessAction/ProcessPromptResponse
// surface. It is the one place that knows about both transport and
// game: cmd/server wires config → logger → oracle → persistence →
// game engine → transport, in that order.
//
// There is no lobby/matchmaking layer in this tree to pair two real
// connections into one gameID (see DESIGN.md), so UserActionNewGame
// seats the requesting player against a fixed second seat named after
// their own id; a future lobby service would replace this with a real
// opponent lookup without changing Engine's surface at all.
func gameActionHandler(engine *game.Engine, logger *zap.Logger) transport.GameActionHandler {
	return func(ctx context.Context, userID uuid.UUID, clientData []byte, userAction transport.UserAction) (<-chan transport.GameUpdate, error) {
		gameID := userAction.GameID.String()
		playerID := userID.String()

		switch userAction.Kind {
		case transport.UserActionNewGame:
			opponent := playerID + ":opponent"
			if err := engine.StartGame(gameID, []string{playerID, opponent}, "TwoPlayerDuel"); err != nil {
				return nil, fmt.Errorf("starting game: %w", err)
			}
		case transport.UserActionGameAction:
			if userAction.Action == nil {
				return nil, fmt.Errorf("game action with no action payload")
			}
			if _, err := engine.ProcessAction(gameID, playerID, *userAction.Action); err != nil {
				return nil, fmt.Errorf("processing action: %w", err)
			}
		case transport.UserActionPromptAction:
			if userAction.PromptResponse == nil {
				return nil, fmt.Errorf("prompt action with no response payload")
			}
			if _, err := engine.ProcessPromptResponse(gameID, playerID, *userAction.PromptResponse); err != nil {
				return nil, fmt.Errorf("processing prompt response: %w", err)
			}
		case transport.UserActionLeaveGame:
			if err := engine.PlayerQuit(gameID, playerID); err != nil {
				return nil, fmt.Errorf("leaving game: %w", err)
			}
		case transport.UserActionQuit:
			if err := engine.PlayerConcede(gameID, playerID); err != nil {
				return nil, fmt.Errorf("conceding game: %w", err)
			}
		case transport.UserActionPanelOpen, transport.UserActionPanelClose:
			// UI-local; nothing to process against the engine.
		}

		out := make(chan transport.GameUpdate, 1)
		defer close(out)

		view, err := engine.GetGameView(gameID, playerID)
		if err != nil {
			logger.Debug("no game view available after action", zap.Error(err))
			return out, nil
		}

		data, err := json.Marshal(view)
		if err != nil {
			return nil, fmt.Errorf("marshaling game view: %w", err)
		}
		out <- transport.GameUpdate{Kind: transport.GameUpdateViewSnapshot, View: data}
		return out, nil
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
