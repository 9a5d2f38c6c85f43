package tictactoe

import "github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"

// Evaluate returns the mark that owns a complete row, column or diagonal, or entity.MarkNone.
func Evaluate(board entity.Board) entity.Mark {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.MarkNone && a == b && b == c {
			return a
		}
	}

	return entity.MarkNone
}

// result maps a board to one of the entity.Result* values.
func result(board entity.Board) string {
	switch {
	case Evaluate(board) != entity.MarkNone:
		return entity.ResultWin
	case board.IsFull():
		return entity.ResultDraw
	default:
		return entity.ResultOngoing
	}
}
