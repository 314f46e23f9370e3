package game

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const emptyToken = "null"

// LoadLayoutFile reads a board layout from path. See LoadLayout.
func LoadLayoutFile(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout: %w", err)
	}
	defer f.Close()

	b, err := LoadLayout(f)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return b, nil
}

// LoadLayout parses one row per line, whitespace separated, each cell either
// "null" or a 5-digit binary piece id. Missing trailing rows are empty. A
// layout that already contains a winning line is rejected.
func LoadLayout(r io.Reader) (*Board, error) {
	b := NewBoard()
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if row >= Rows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrMalformedLayout, Rows)
		}
		cells := strings.Fields(line)
		if len(cells) != Columns {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedLayout, row, len(cells), Columns)
		}
		for col, token := range cells {
			if token == emptyToken {
				continue
			}
			id, err := ParsePiece(token)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrMalformedLayout, row, col, err)
			}
			if !b.PlacePiece(row, col, id) {
				return nil, fmt.Errorf("%w: piece %s at %d,%d cannot be placed", ErrMalformedLayout, token, row, col)
			}
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}

	if line := b.WinningLine(); line != "" {
		return nil, fmt.Errorf("%w: layout is already won via %s", ErrMalformedLayout, line)
	}
	return b, nil
}
