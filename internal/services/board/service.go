package board

import (
	"github.com/mcoot/vstetris/internal/dependencies/random"
	"github.com/mcoot/vstetris/internal/model"
)

// Service provides board operations that need a random source
type Service struct {
	random random.Random
}

// New creates a new BoardService
func New(rnd random.Random) *Service {
	return &Service{
		random: rnd,
	}
}

// Collides returns true if any occupied piece cell lands out of bounds
// or on an occupied board cell when the piece is anchored at pos
func Collides(b *model.Board, p *model.Piece, pos model.Position) bool {
	for y, row := range p.Cells {
		for x, c := range row {
			if c == model.ColorEmpty {
				continue
			}
			if b.IsOccupied(pos.X+x, pos.Y+y) {
				return true
			}
		}
	}
	return false
}

// Merge writes the piece's colors into the board. Cells outside the board are dropped.
func Merge(b *model.Board, p *model.Piece, pos model.Position) {
	for y, row := range p.Cells {
		for x, c := range row {
			if c != model.ColorEmpty {
				b.Set(pos.X+x, pos.Y+y, c)
			}
		}
	}
}

// Sweep removes every full row, including the bottom row, and inserts the
// same number of empty rows at the top. Returns the number of rows removed.
func Sweep(b *model.Board) int {
	kept := make([][]int, 0, b.Height)
	var full [][]int
	for y := b.Height - 1; y >= 0; y-- {
		if b.IsRowFull(y) {
			full = append(full, b.Cells[y])
			continue
		}
		kept = append(kept, b.Cells[y])
	}
	if len(full) == 0 {
		return 0
	}

	cells := make([][]int, 0, b.Height)
	for _, row := range full {
		clear(row)
		cells = append(cells, row)
	}
	// kept was collected bottom-up
	for i := len(kept) - 1; i >= 0; i-- {
		cells = append(cells, kept[i])
	}
	b.Cells = cells
	return len(full)
}

// Ghost returns the lowest non-colliding position reachable by dropping straight down
func Ghost(b *model.Board, p *model.Piece, pos model.Position) model.Position {
	ghost := pos
	if Collides(b, p, ghost) {
		return ghost
	}
	for !Collides(b, p, model.Position{X: ghost.X, Y: ghost.Y + 1}) {
		ghost.Y++
	}
	return ghost
}

// IsGrounded returns true if the piece cannot move one row down
func IsGrounded(b *model.Board, p *model.Piece, pos model.Position) bool {
	return Collides(b, p, model.Position{X: pos.X, Y: pos.Y + 1})
}

// InjectGarbage pushes count garbage rows in from the bottom, dropping the same
// number of rows off the top. Each garbage row has exactly one empty dig column.
func (s *Service) InjectGarbage(b *model.Board, count int) {
	if count <= 0 {
		return
	}
	if count > b.Height {
		count = b.Height
	}

	cells := make([][]int, 0, b.Height)
	cells = append(cells, b.Cells[count:]...)
	for i := 0; i < count; i++ {
		row := make([]int, b.Width)
		for x := range row {
			row[x] = model.ColorGarbage
		}
		row[s.random.Intn(b.Width)] = model.ColorEmpty
		cells = append(cells, row)
	}
	b.Cells = cells
}

// Interface for dependency injection
type ServiceInterface interface {
	InjectGarbage(b *model.Board, count int)
}

var _ ServiceInterface = (*Service)(nil)
