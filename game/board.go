package game

import (
	"strings"
)

// Rand is the subset of a seeded generator the board draws from.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Board holds the grid and the piece pool of one game. The zero value is not
// usable, create boards with NewBoard.
//
// The grid and the pieces are fixed-size arrays, so copying a Board by value
// yields a fully independent board.
type Board struct {
	grid   [Rows][Columns]int8
	pieces [NumPieces]Piece
	placed int
}

func NewBoard() *Board {
	b := &Board{}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			b.grid[r][c] = NoPiece
		}
	}
	for id := 0; id < NumPieces; id++ {
		b.pieces[id] = newPiece(id)
	}
	return b
}

// Clone returns a deep copy sharing no state with b.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// PlacePiece puts piece id on (row, col). It fails without mutating the board
// if the coordinates are out of range, the id is invalid, the piece is
// already placed or the cell is taken.
func (b *Board) PlacePiece(row, col, id int) bool {
	cell := Cell{Row: row, Col: col}
	if !cell.InBounds() || !ValidPiece(id) {
		return false
	}
	if b.pieces[id].placed || b.grid[row][col] != NoPiece {
		return false
	}
	b.pieces[id].placed = true
	b.pieces[id].position = cell
	b.grid[row][col] = int8(id)
	b.placed++
	return true
}

// Place is PlacePiece for a Cell.
func (b *Board) Place(cell Cell, id int) bool {
	return b.PlacePiece(cell.Row, cell.Col, id)
}

// PieceOn returns the piece on (row, col), ok is false for empty or out of
// range cells.
func (b *Board) PieceOn(row, col int) (Piece, bool) {
	if !(Cell{Row: row, Col: col}).InBounds() {
		return Piece{}, false
	}
	id := b.grid[row][col]
	if id == NoPiece {
		return Piece{}, false
	}
	return b.pieces[id], true
}

func (b *Board) IsOccupied(row, col int) bool {
	_, ok := b.PieceOn(row, col)
	return ok
}

func (b *Board) IsPiecePlaced(id int) bool {
	if !ValidPiece(id) {
		return false
	}
	return b.pieces[id].placed
}

// Piece returns the piece with the given id, ok is false for invalid ids.
func (b *Board) Piece(id int) (Piece, bool) {
	if !ValidPiece(id) {
		return Piece{}, false
	}
	return b.pieces[id], true
}

// Placed returns the number of pieces on the board.
func (b *Board) Placed() int {
	return b.placed
}

func (b *Board) IsEmpty() bool {
	return b.placed == 0
}

func (b *Board) IsFull() bool {
	return b.placed == Rows*Columns
}

// UnplacedPieces returns the ids of pieces still in the pool, ascending.
func (b *Board) UnplacedPieces() []int {
	ids := make([]int, 0, NumPieces-b.placed)
	for id := range b.pieces {
		if !b.pieces[id].placed {
			ids = append(ids, id)
		}
	}
	return ids
}

// EmptyCells returns the free cells in row-major order.
func (b *Board) EmptyCells() []Cell {
	cells := make([]Cell, 0, Rows*Columns-b.placed)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b.grid[r][c] == NoPiece {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// FirstUnplacedPiece returns the lowest unplaced id, or NoPiece.
func (b *Board) FirstUnplacedPiece() int {
	for id := range b.pieces {
		if !b.pieces[id].placed {
			return id
		}
	}
	return NoPiece
}

// FirstEmptyCell returns the first free cell in row-major order, or NoCell.
func (b *Board) FirstEmptyCell() Cell {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b.grid[r][c] == NoPiece {
				return Cell{Row: r, Col: c}
			}
		}
	}
	return NoCell
}

// PickRandomUnplacedPiece draws up to maxAttempts uniform ids and returns the
// first unplaced one. When every draw collides it falls back to the first
// unplaced piece, so it terminates with a legal piece whenever one exists.
func (b *Board) PickRandomUnplacedPiece(rng Rand, maxAttempts int) int {
	for i := 0; i < maxAttempts; i++ {
		id := rng.Intn(NumPieces)
		if !b.pieces[id].placed {
			return id
		}
	}
	return b.FirstUnplacedPiece()
}

// PickRandomEmptyCell draws up to maxAttempts uniform cells and returns the
// first empty one, falling back to the first empty cell in row-major order.
func (b *Board) PickRandomEmptyCell(rng Rand, maxAttempts int) Cell {
	for i := 0; i < maxAttempts; i++ {
		r, c := rng.Intn(Rows), rng.Intn(Columns)
		if b.grid[r][c] == NoPiece {
			return Cell{Row: r, Col: c}
		}
	}
	return b.FirstEmptyCell()
}

// String renders the board the way the server transcript prints it: one row
// per line, each cell either a binary piece id or "null".
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if id := b.grid[r][c]; id != NoPiece {
				sb.WriteString(PieceBinary(int(id)))
			} else {
				sb.WriteString("null")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
