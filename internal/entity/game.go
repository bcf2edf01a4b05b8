package entity

import (
	"errors"
	"fmt"
)

const (
	Rows = 6
	Cols = 7
)

// Cell is the content of one board position as delivered by the authority.
type Cell int

const (
	Empty     Cell = 0
	PlayerOne Cell = 1
	PlayerTwo Cell = 2
)

// Symbol is the disc a player was assigned for a match.
type Symbol = Cell

var (
	ErrInvalidCell   = errors.New("invalid cell value")
	ErrInvalidSymbol = errors.New("invalid player symbol")
)

// Board is the full 6x7 grid. It is a value type: assigning a Board copies it.
type Board [Rows][Cols]Cell

// Position is one cell of the grid, row 0 at the top.
type Position struct {
	Row int
	Col int
}

// Valid - reports whether the position lies on the grid.
func (that Position) Valid() bool {
	return that.Row >= 0 && that.Row < Rows && that.Col >= 0 && that.Col < Cols
}

// NewBoard - returns an all-empty grid.
func NewBoard() Board {
	return Board{}
}

// Validate - checks that every cell holds a known value.
func (that Board) Validate() error {
	for r := range that {
		for c := range that[r] {
			if !that[r][c].valid() {
				return fmt.Errorf("%w: %d at row %d col %d", ErrInvalidCell, that[r][c], r, c)
			}
		}
	}

	return nil
}

// IsEmpty - reports whether no disc has been dropped yet.
func (that Board) IsEmpty() bool {
	return that == Board{}
}

// Count - returns how many cells hold the given value.
func (that Board) Count(cell Cell) int {
	n := 0
	for r := range that {
		for c := range that[r] {
			if that[r][c] == cell {
				n++
			}
		}
	}

	return n
}

func (that Cell) valid() bool {
	return that == Empty || that == PlayerOne || that == PlayerTwo
}

// ValidateSymbol - a symbol must be one of the two player discs.
func ValidateSymbol(symbol Symbol) error {
	if symbol != PlayerOne && symbol != PlayerTwo {
		return fmt.Errorf("%w: %d", ErrInvalidSymbol, symbol)
	}

	return nil
}

// ValidColumn reports whether a column index is on the board.
func ValidColumn(column int) bool {
	return column >= 0 && column < Cols
}

// GameInfo describes the running match from this client's point of view.
type GameInfo struct {
	GameID   string
	Opponent string
	Symbol   Symbol
	IsMyTurn bool
}
