package tictactoe

import (
	"fmt"
	"iter"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

// Observer is notified after every operation that changed the game state.
type Observer func(state *GameState)

// GameState owns the board history and the index of the board that is currently shown.
//
// history[0] is always the empty board and history[k] differs from history[k-1] in exactly one cell.
// Whose turn it is and who has won are never stored: both are derived from position and the current board.
// A GameState is not safe for concurrent use; callers serialize access.
type GameState struct {
	history  []entity.Board
	position int

	observers []Observer
}

func NewGameState() *GameState {
	state := &GameState{}
	state.reset()

	return state
}

// Initialize drops the whole history and starts over from the empty board.
func (that *GameState) Initialize() {
	that.reset()
	that.notify()
}

func (that *GameState) reset() {
	that.history = []entity.Board{{}}
	that.position = 0
}

// PlayMove puts the mark of the current turn into cell. Moves into an occupied or out-of-range cell,
// and moves on a board that already has a winner, are ignored without any state change.
//
// Playing from a past position discards every board after it before the new board is appended.
func (that *GameState) PlayMove(cell int) {
	current := that.CurrentBoard()

	if cell < 0 || cell >= entity.BoardSize {
		return
	}

	if !current.IsEmpty(cell) || Evaluate(current) != entity.MarkNone {
		return
	}

	next := current.With(cell, that.CurrentTurn())

	// full slice expression forces append to copy, so slices handed out earlier never see the new branch
	that.history = append(that.history[:that.position+1:that.position+1], next)
	that.position = len(that.history) - 1

	that.notify()
}

// JumpTo makes the board at target the current one. The history itself is not changed.
func (that *GameState) JumpTo(target int) error {
	if target < 0 || target >= len(that.history) {
		return fmt.Errorf("%w: %d not in [0, %d)", apperror.ErrOutOfRange, target, len(that.history))
	}

	that.position = target
	that.notify()

	return nil
}

func (that *GameState) CurrentBoard() entity.Board {
	return that.history[that.position]
}

func (that *GameState) CurrentTurn() entity.Mark {
	return entity.MarkForPosition(that.position)
}

func (that *GameState) CurrentWinner() entity.Mark {
	return Evaluate(that.CurrentBoard())
}

func (that *GameState) Position() int {
	return that.position
}

func (that *GameState) HistoryLength() int {
	return len(that.history)
}

// IsDraw reports a full board without a winner.
func (that *GameState) IsDraw() bool {
	return result(that.CurrentBoard()) == entity.ResultDraw
}

// Status is the line shown above the board.
func (that *GameState) Status() string {
	if winner := that.CurrentWinner(); winner != entity.MarkNone {
		return "Winner: " + string(winner)
	}

	return "Next player: " + string(that.CurrentTurn())
}

// ListMoves yields (index, isFirst) for every history entry. The sequence reads the history
// at the time it is ranged over, so it can be iterated any number of times.
func (that *GameState) ListMoves() iter.Seq2[int, bool] {
	return func(yield func(int, bool) bool) {
		for index := range that.history {
			if !yield(index, index == 0) {
				return
			}
		}
	}
}

// Subscribe registers an observer for state changes. Ignored moves do not notify.
func (that *GameState) Subscribe(observer Observer) {
	that.observers = append(that.observers, observer)
}

func (that *GameState) notify() {
	for _, observer := range that.observers {
		observer(that)
	}
}
