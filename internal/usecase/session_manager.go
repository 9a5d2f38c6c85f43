package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

type sessionRepo interface {
	Save(ctx context.Context, id string, snapshot *entity.Snapshot) error
	GetByID(ctx context.Context, id string) (*entity.Snapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionManager binds browser sessions to games. Calls are serialized, so each game sees one event at a time.
type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	mu    sync.Mutex
	newID func() string
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo) *SessionManager {
	return &SessionManager{
		logger:      logger.With("component", "session_manager"),
		sessionRepo: sessionRepo,
		newID:       pkg.GenerateSessionID,
	}
}

func (that *SessionManager) NewSession(ctx context.Context) (*entity.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id := that.newID()
	state := tictactoe.NewGameState()

	if err := that.saveGame(ctx, id, state); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "session", id)

	return view(id, state), nil
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	state, err := that.loadGame(ctx, id)
	if err != nil {
		return nil, err
	}

	return view(id, state), nil
}

// PlayMove applies a move for the session. Occupied cells and won boards are ignored, and the game is then left unsaved.
func (that *SessionManager) PlayMove(ctx context.Context, id string, cell int) (*entity.GameView, error) {
	if cell < 0 || cell >= entity.BoardSize {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	return that.mutate(ctx, id, "PlayMove", func(state *tictactoe.GameState) error {
		state.PlayMove(cell)
		return nil
	})
}

func (that *SessionManager) JumpTo(ctx context.Context, id string, position int) (*entity.GameView, error) {
	return that.mutate(ctx, id, "JumpTo", func(state *tictactoe.GameState) error {
		return state.JumpTo(position)
	})
}

func (that *SessionManager) Restart(ctx context.Context, id string) (*entity.GameView, error) {
	return that.mutate(ctx, id, "Restart", func(state *tictactoe.GameState) error {
		state.Initialize()
		return nil
	})
}

func (that *SessionManager) DeleteSession(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session deleted", "session", id)

	return nil
}

// mutate loads the game, applies op and saves the game only if an observer saw a change.
func (that *SessionManager) mutate(ctx context.Context, id, method string, op func(*tictactoe.GameState) error) (*entity.GameView, error) {
	log := that.logger.With("method", method, "session", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	state, err := that.loadGame(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	state.Subscribe(func(*tictactoe.GameState) {
		changed = true
	})

	if err = op(state); err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", method, err)
	}

	if !changed {
		log.Debug("event ignored", "position", state.Position())
		return view(id, state), nil
	}

	if err = that.saveGame(ctx, id, state); err != nil {
		return nil, err
	}

	log.Debug("game updated", "position", state.Position(), "history", state.HistoryLength())

	return view(id, state), nil
}

func (that *SessionManager) loadGame(ctx context.Context, id string) (*tictactoe.GameState, error) {
	snapshot, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	state, err := tictactoe.Restore(*snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	return state, nil
}

func (that *SessionManager) saveGame(ctx context.Context, id string, state *tictactoe.GameState) error {
	snapshot := state.Snapshot()

	if err := that.sessionRepo.Save(ctx, id, &snapshot); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func view(id string, state *tictactoe.GameState) *entity.GameView {
	gameView := tictactoe.NewView(state)
	gameView.SessionID = id

	return gameView
}
