package tictactoe

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

// Snapshot copies the history so the caller can store it without aliasing the game.
func (that *GameState) Snapshot() entity.Snapshot {
	return entity.Snapshot{
		History:  slices.Clone(that.history),
		Position: that.position,
	}
}

// Restore rebuilds a game from a snapshot after checking every history invariant.
func Restore(snapshot entity.Snapshot) (*GameState, error) {
	if err := validateSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptSnapshot, err)
	}

	return &GameState{
		history:  slices.Clone(snapshot.History),
		position: snapshot.Position,
	}, nil
}

func validateSnapshot(snapshot entity.Snapshot) error {
	if len(snapshot.History) == 0 {
		return errors.New("empty history")
	}

	if snapshot.History[0] != (entity.Board{}) {
		return errors.New("history does not start from the empty board")
	}

	for move := 1; move < len(snapshot.History); move++ {
		if err := validateStep(snapshot.History[move-1], snapshot.History[move], move); err != nil {
			return fmt.Errorf("move %d: %w", move, err)
		}
	}

	if snapshot.Position < 0 || snapshot.Position >= len(snapshot.History) {
		return fmt.Errorf("position %d: %w", snapshot.Position, apperror.ErrOutOfRange)
	}

	return nil
}

// validateStep checks that next is prev with one empty cell filled by the mark whose turn it was.
func validateStep(prev, next entity.Board, move int) error {
	if Evaluate(prev) != entity.MarkNone {
		return errors.New("played after the game was won")
	}

	for cell := range prev {
		if prev[cell] == next[cell] {
			continue
		}

		if prev[cell] != entity.MarkNone {
			return fmt.Errorf("cell %d overwritten", cell)
		}

		if next[cell] != entity.MarkForPosition(move-1) {
			return fmt.Errorf("cell %d holds %q out of turn", cell, next[cell])
		}
	}

	if placed := next.Occupied() - prev.Occupied(); placed != 1 {
		return fmt.Errorf("%d marks placed, expected 1", placed)
	}

	return nil
}
