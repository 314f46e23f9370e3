package game

import "strconv"

// checkLine applies the win predicate to 5 cells: all must be occupied and
// for some characteristic the pieces must all agree.
func (b *Board) checkLine(cells [Rows]Cell) bool {
	var counts [Characteristics]int
	for _, cell := range cells {
		id := b.grid[cell.Row][cell.Col]
		if id == NoPiece {
			return false
		}
		for i, has := range b.pieces[id].characteristics {
			if has {
				counts[i]++
			}
		}
	}
	for _, n := range counts {
		if n == 0 || n == len(cells) {
			return true
		}
	}
	return false
}

func rowCells(row int) [Rows]Cell {
	var cells [Rows]Cell
	for c := 0; c < Columns; c++ {
		cells[c] = Cell{Row: row, Col: c}
	}
	return cells
}

func columnCells(col int) [Rows]Cell {
	var cells [Rows]Cell
	for r := 0; r < Rows; r++ {
		cells[r] = Cell{Row: r, Col: col}
	}
	return cells
}

func diagonalCells() [Rows]Cell {
	var cells [Rows]Cell
	for i := 0; i < Rows; i++ {
		cells[i] = Cell{Row: i, Col: i}
	}
	return cells
}

func antiDiagonalCells() [Rows]Cell {
	var cells [Rows]Cell
	for i := 0; i < Rows; i++ {
		cells[i] = Cell{Row: Rows - 1 - i, Col: i}
	}
	return cells
}

// CheckRow reports whether row forms a winning line. Out of range rows are
// never won.
func (b *Board) CheckRow(row int) bool {
	if row < 0 || row >= Rows {
		return false
	}
	return b.checkLine(rowCells(row))
}

func (b *Board) CheckColumn(col int) bool {
	if col < 0 || col >= Columns {
		return false
	}
	return b.checkLine(columnCells(col))
}

// CheckDiagonals reports whether either full diagonal is won.
func (b *Board) CheckDiagonals() bool {
	return b.checkLine(diagonalCells()) || b.checkLine(antiDiagonalCells())
}

// WinsAt reports whether a line through cell is won. It is the cheap check
// after placing a piece on cell.
func (b *Board) WinsAt(cell Cell) bool {
	if !cell.InBounds() {
		return false
	}
	return b.CheckRow(cell.Row) || b.CheckColumn(cell.Col) || b.CheckDiagonals()
}

func (b *Board) IsWon() bool {
	return b.WinningLine() != ""
}

// WinningLine names the first won line found, or "" when none is.
func (b *Board) WinningLine() string {
	for r := 0; r < Rows; r++ {
		if b.CheckRow(r) {
			return "row " + strconv.Itoa(r)
		}
	}
	for c := 0; c < Columns; c++ {
		if b.CheckColumn(c) {
			return "column " + strconv.Itoa(c)
		}
	}
	if b.checkLine(diagonalCells()) {
		return "diagonal"
	}
	if b.checkLine(antiDiagonalCells()) {
		return "anti-diagonal"
	}
	return ""
}

// WinningCells returns the empty cells where placing piece would win.
func (b *Board) WinningCells(piece int) []Cell {
	if !ValidPiece(piece) || b.pieces[piece].placed {
		return nil
	}
	var cells []Cell
	for _, cell := range b.EmptyCells() {
		next := b.Clone()
		next.Place(cell, piece)
		if next.WinsAt(cell) {
			cells = append(cells, cell)
		}
	}
	return cells
}
