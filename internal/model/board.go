package model

// Cell color indices. Zero is an empty cell.
const (
	ColorEmpty   = 0
	ColorGarbage = 8
	// MaxColor is the highest valid color index
	MaxColor = ColorGarbage
)

// Position is the top-left anchor of a piece on the board
type Position struct {
	X int `json:"x"` // column, 0-indexed from left
	Y int `json:"y"` // row, 0-indexed from top
}

// Board is a fixed-size grid of cell colors
type Board struct {
	Width  int
	Height int
	Cells  [][]int // Row-major: Cells[row][col], 0 means empty
}

// NewBoard creates an empty board
func NewBoard(width, height int) *Board {
	cells := make([][]int, height)
	for i := range cells {
		cells[i] = make([]int, width)
	}
	return &Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// Get returns the color at the given cell, or 0 if out of bounds
func (b *Board) Get(x, y int) int {
	if !b.InBounds(x, y) {
		return ColorEmpty
	}
	return b.Cells[y][x]
}

// Set writes a color into a cell; out-of-bounds writes are ignored
func (b *Board) Set(x, y, color int) {
	if b.InBounds(x, y) {
		b.Cells[y][x] = color
	}
}

// InBounds returns true if the cell is on the board
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// IsOccupied returns true for out-of-bounds cells and non-empty cells
func (b *Board) IsOccupied(x, y int) bool {
	if !b.InBounds(x, y) {
		return true
	}
	return b.Cells[y][x] != ColorEmpty
}

// IsRowFull returns true if every cell in the row is non-empty
func (b *Board) IsRowFull(y int) bool {
	if y < 0 || y >= b.Height {
		return false
	}
	for _, c := range b.Cells[y] {
		if c == ColorEmpty {
			return false
		}
	}
	return true
}

// Clear empties every cell
func (b *Board) Clear() {
	for _, row := range b.Cells {
		for x := range row {
			row[x] = ColorEmpty
		}
	}
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	out := &Board{Width: b.Width, Height: b.Height, Cells: make([][]int, b.Height)}
	for y, row := range b.Cells {
		out.Cells[y] = make([]int, len(row))
		copy(out.Cells[y], row)
	}
	return out
}

// Rows returns a copy of the grid suitable for serialization
func (b *Board) Rows() [][]int {
	return b.Clone().Cells
}

// FilledCount returns the number of non-empty cells
func (b *Board) FilledCount() int {
	count := 0
	for _, row := range b.Cells {
		for _, c := range row {
			if c != ColorEmpty {
				count++
			}
		}
	}
	return count
}
