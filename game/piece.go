package game

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Rows            = 5
	Columns         = 5
	NumPieces       = 32
	Characteristics = 5
)

// NoPiece marks an empty grid cell or the absence of a piece choice.
const NoPiece = -1

// Characteristic indexes into a piece's characteristic vector.
type Characteristic int

const (
	Tall Characteristic = iota
	Solid
	White
	Wood
	Round
)

// Piece is one of the 32 Quarto pieces. Its characteristics are the binary
// expansion of its id, most significant bit first.
type Piece struct {
	id              int
	characteristics [Characteristics]bool
	placed          bool
	position        Cell
}

func newPiece(id int) Piece {
	p := Piece{id: id, position: Cell{Row: -1, Col: -1}}
	for i := 0; i < Characteristics; i++ {
		p.characteristics[i] = id&(1<<(Characteristics-1-i)) != 0
	}
	return p
}

func (p Piece) ID() int {
	return p.id
}

func (p Piece) Has(c Characteristic) bool {
	return p.characteristics[c]
}

func (p Piece) Characteristics() [Characteristics]bool {
	return p.characteristics
}

func (p Piece) IsPlaced() bool {
	return p.placed
}

// Position returns the cell holding the piece, ok is false while unplaced.
func (p Piece) Position() (Cell, bool) {
	return p.position, p.placed
}

// Binary returns the 5-digit wire representation of the piece id.
func (p Piece) Binary() string {
	return PieceBinary(p.id)
}

// Describe renders the characteristics in words, e.g. "tall hollow black wood round".
func (p Piece) Describe() string {
	words := [Characteristics][2]string{
		{"short", "tall"},
		{"hollow", "solid"},
		{"black", "white"},
		{"metal", "wood"},
		{"square", "round"},
	}
	parts := make([]string, Characteristics)
	for i, has := range p.characteristics {
		if has {
			parts[i] = words[i][1]
		} else {
			parts[i] = words[i][0]
		}
	}
	return strings.Join(parts, " ")
}

func PieceBinary(id int) string {
	return fmt.Sprintf("%05b", id)
}

// ParsePiece parses a 5-digit binary piece id such as "00101".
func ParsePiece(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != Characteristics {
		return NoPiece, fmt.Errorf("%w: piece %q is not %d binary digits", ErrMalformedReply, s, Characteristics)
	}
	id, err := strconv.ParseUint(s, 2, 8)
	if err != nil {
		return NoPiece, fmt.Errorf("%w: piece %q: %v", ErrMalformedReply, s, err)
	}
	return int(id), nil
}

// ValidPiece reports whether id names one of the 32 pieces.
func ValidPiece(id int) bool {
	return id >= 0 && id < NumPieces
}
