package entity

import "strconv"

// Mark is the symbol a player puts into a cell.
type Mark string

const (
	MarkX    Mark = "X"
	MarkO    Mark = "O"
	MarkNone Mark = ""
)

const (
	ResultOngoing = "ongoing"
	ResultWin     = "win"
	ResultDraw    = "draw"
)

const BoardSize = 9

// WinCombos are the rows, columns and diagonals, in the order they are checked.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid stored row-major. It is a value type: assigning it copies every cell.
type Board [BoardSize]Mark

func (that Board) IsEmpty(cell int) bool {
	return that[cell] == MarkNone
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == MarkNone {
			return false
		}
	}

	return true
}

// Occupied returns the number of non-empty cells.
func (that Board) Occupied() int {
	count := 0
	for _, cell := range that {
		if cell != MarkNone {
			count++
		}
	}

	return count
}

// With returns a copy of the board with cell set to mark. The receiver is left untouched.
func (that Board) With(cell int, mark Mark) Board {
	next := that
	next[cell] = mark

	return next
}

// MarkForPosition returns whose turn it is at the given history position: X on even, O on odd.
func MarkForPosition(position int) Mark {
	if position%2 == 0 {
		return MarkX
	}

	return MarkO
}

// MoveDescription is the label of a history entry as shown in the move list.
func MoveDescription(index int) string {
	if index > 0 {
		return "Go to move #" + strconv.Itoa(index)
	}

	return "Go to game start"
}
