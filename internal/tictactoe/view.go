package tictactoe

import "github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"

// NewView collects the derived state the presentation layer redraws from.
func NewView(state *GameState) *entity.GameView {
	board := state.CurrentBoard()

	moves := make([]entity.MoveEntry, 0, state.HistoryLength())
	for index, isFirst := range state.ListMoves() {
		moves = append(moves, entity.MoveEntry{
			Index:       index,
			IsFirst:     isFirst,
			Current:     index == state.Position(),
			Description: entity.MoveDescription(index),
		})
	}

	view := &entity.GameView{
		Board:    board,
		Turn:     state.CurrentTurn(),
		Winner:   state.CurrentWinner(),
		Result:   result(board),
		Status:   state.Status(),
		Position: state.Position(),
		Moves:    moves,
	}

	// nobody moves on a finished board
	if view.Result != entity.ResultOngoing {
		view.Turn = entity.MarkNone
	}

	return view
}
