package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformedReply  = errors.New("malformed reply")
	ErrIllegalChoice   = errors.New("illegal choice")
	ErrMalformedLayout = errors.New("malformed layout")
)

// Cell is a zero-indexed board coordinate.
type Cell struct {
	Row int
	Col int
}

// NoCell is returned when a board has no empty cell left.
var NoCell = Cell{Row: -1, Col: -1}

func (c Cell) String() string {
	return strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col)
}

func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < Rows && c.Col >= 0 && c.Col < Columns
}

// ParseCell parses a "row,col" pair. Range is not checked.
func ParseCell(s string) (Cell, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return NoCell, fmt.Errorf("%w: move %q is not row,col", ErrMalformedReply, s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return NoCell, fmt.Errorf("%w: move row %q: %v", ErrMalformedReply, parts[0], err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return NoCell, fmt.Errorf("%w: move column %q: %v", ErrMalformedReply, parts[1], err)
	}
	return Cell{Row: row, Col: col}, nil
}
