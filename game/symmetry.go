package game

// Symmetry is one of the 8 symmetries of the square board. Rows, columns and
// both diagonals map onto lines, so the win predicate is invariant under all
// of them.
type Symmetry int

const (
	Identity Symmetry = iota
	Rotate90
	Rotate180
	Rotate270
	MirrorColumns
	MirrorRows
	Transpose
	AntiTranspose
)

var Symmetries = []Symmetry{Identity, Rotate90, Rotate180, Rotate270, MirrorColumns, MirrorRows, Transpose, AntiTranspose}

// Apply maps a cell to its image. Rotations are clockwise.
func (s Symmetry) Apply(cell Cell) Cell {
	const n = Rows - 1
	r, c := cell.Row, cell.Col
	switch s {
	case Identity:
		return Cell{Row: r, Col: c}
	case Rotate90:
		return Cell{Row: c, Col: n - r}
	case Rotate180:
		return Cell{Row: n - r, Col: n - c}
	case Rotate270:
		return Cell{Row: n - c, Col: r}
	case MirrorColumns:
		return Cell{Row: r, Col: n - c}
	case MirrorRows:
		return Cell{Row: n - r, Col: c}
	case Transpose:
		return Cell{Row: c, Col: r}
	case AntiTranspose:
		return Cell{Row: n - c, Col: n - r}
	default:
		panic("unknown symmetry")
	}
}

// Transform returns the image of the board under s as a new board.
func (b *Board) Transform(s Symmetry) *Board {
	out := b.Clone()
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			to := s.Apply(Cell{Row: r, Col: c})
			id := b.grid[r][c]
			out.grid[to.Row][to.Col] = id
			if id != NoPiece {
				out.pieces[id].position = to
			}
		}
	}
	return out
}

// Rotate returns the board rotated 90 degrees clockwise.
func (b *Board) Rotate() *Board {
	return b.Transform(Rotate90)
}

// SameGrid reports whether both boards hold the same piece on every cell.
func (b *Board) SameGrid(other *Board) bool {
	return b.grid == other.grid
}

// CanonicalEmptyCells returns one representative empty cell per orbit of the
// symmetries that leave the board unchanged. On a board without any such
// symmetry this is EmptyCells.
func (b *Board) CanonicalEmptyCells() []Cell {
	var fixing []Symmetry
	for _, s := range Symmetries[1:] {
		if b.Transform(s).SameGrid(b) {
			fixing = append(fixing, s)
		}
	}
	empty := b.EmptyCells()
	if len(fixing) == 0 {
		return empty
	}
	cells := make([]Cell, 0, len(empty))
	for _, cell := range empty {
		canonical := true
		for _, s := range fixing {
			if index(s.Apply(cell)) < index(cell) {
				canonical = false
				break
			}
		}
		if canonical {
			cells = append(cells, cell)
		}
	}
	return cells
}

func index(cell Cell) int {
	return cell.Row*Columns + cell.Col
}
