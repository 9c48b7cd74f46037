package model

// PieceType identifies one of the seven tetrominoes
type PieceType string

const (
	PieceI PieceType = "I"
	PieceL PieceType = "L"
	PieceJ PieceType = "J"
	PieceO PieceType = "O"
	PieceZ PieceType = "Z"
	PieceS PieceType = "S"
	PieceT PieceType = "T"
)

// AllPieceTypes returns the seven piece types in bag refill order
func AllPieceTypes() []PieceType {
	return []PieceType{PieceI, PieceL, PieceJ, PieceO, PieceT, PieceS, PieceZ}
}

// Color returns the board color index for the piece type
func (t PieceType) Color() int {
	switch t {
	case PieceI:
		return 1
	case PieceL:
		return 2
	case PieceJ:
		return 3
	case PieceO:
		return 4
	case PieceZ:
		return 5
	case PieceS:
		return 6
	case PieceT:
		return 7
	default:
		return ColorEmpty
	}
}

// IsValid returns true for the seven known types
func (t PieceType) IsValid() bool {
	return t.Color() != ColorEmpty
}

// Piece is a square cell grid plus the SRS rotation index it is in.
// Rotation is 0 (spawn), 1 (right), 2 (flipped), 3 (left).
type Piece struct {
	Type     PieceType
	Rotation int
	Cells    [][]int
}

// NewPiece creates a piece of the given type in its spawn orientation
func NewPiece(t PieceType) *Piece {
	return &Piece{
		Type:     t,
		Rotation: 0,
		Cells:    spawnCells(t),
	}
}

func spawnCells(t PieceType) [][]int {
	c := t.Color()
	switch t {
	case PieceI:
		return [][]int{
			{0, 0, 0, 0},
			{c, c, c, c},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}
	case PieceO:
		return [][]int{
			{c, c},
			{c, c},
		}
	case PieceJ:
		return [][]int{
			{c, 0, 0},
			{c, c, c},
			{0, 0, 0},
		}
	case PieceL:
		return [][]int{
			{0, 0, c},
			{c, c, c},
			{0, 0, 0},
		}
	case PieceS:
		return [][]int{
			{0, c, c},
			{c, c, 0},
			{0, 0, 0},
		}
	case PieceZ:
		return [][]int{
			{c, c, 0},
			{0, c, c},
			{0, 0, 0},
		}
	case PieceT:
		return [][]int{
			{0, c, 0},
			{c, c, c},
			{0, 0, 0},
		}
	default:
		return nil
	}
}

// Size returns the side length of the piece grid
func (p *Piece) Size() int {
	return len(p.Cells)
}

// Clone returns a deep copy of the piece
func (p *Piece) Clone() *Piece {
	cells := make([][]int, len(p.Cells))
	for y, row := range p.Cells {
		cells[y] = make([]int, len(row))
		copy(cells[y], row)
	}
	return &Piece{Type: p.Type, Rotation: p.Rotation, Cells: cells}
}

// Blocks returns the grid offsets of every occupied cell
func (p *Piece) Blocks() []Position {
	var out []Position
	for y, row := range p.Cells {
		for x, c := range row {
			if c != ColorEmpty {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}
