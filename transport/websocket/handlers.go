package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
)

var (
	errSessionRequired  = errors.New("session_id is required")
	errCellRequired     = errors.New("cell is required")
	errPositionRequired = errors.New("position is required")
)

func (that *Server) handleNewSession(ctx context.Context, _ *Payload) (*entity.GameView, error) {
	return that.sessions.NewSession(ctx)
}

func (that *Server) handleResume(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.SessionID == "" {
		return nil, errSessionRequired
	}

	return that.sessions.GetSession(ctx, payload.SessionID)
}

func (that *Server) handlePlay(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.SessionID == "" {
		return nil, errSessionRequired
	}

	if payload.Cell == nil {
		return nil, errCellRequired
	}

	return that.sessions.PlayMove(ctx, payload.SessionID, *payload.Cell)
}

func (that *Server) handleJump(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.SessionID == "" {
		return nil, errSessionRequired
	}

	if payload.Position == nil {
		return nil, errPositionRequired
	}

	return that.sessions.JumpTo(ctx, payload.SessionID, *payload.Position)
}

func (that *Server) handleRestart(ctx context.Context, payload *Payload) (*entity.GameView, error) {
	if payload.SessionID == "" {
		return nil, errSessionRequired
	}

	return that.sessions.Restart(ctx, payload.SessionID)
}

// errorMessage - hides internal failures from the client.
func errorMessage(err error) string {
	known := []error{
		repository.ErrSessionNotFound,
		apperror.ErrInvalidCell,
		apperror.ErrOutOfRange,
		errSessionRequired,
		errCellRequired,
		errPositionRequired,
	}

	for _, target := range known {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return "internal error"
}
