package rotation

import (
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/services/board"
)

// Direction is the sense of a rotation
type Direction int

const (
	CW  Direction = 1
	CCW Direction = -1
)

// Kick is a candidate offset in SRS table orientation (y grows upward)
type Kick struct {
	DX int
	DY int
}

// Kick tables indexed by the rotation index the piece is leaving.
// Clockwise and counter-clockwise tables differ because SRS kicks are asymmetric.
var (
	jlstzCW = [4][5]Kick{
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // 0->1
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},     // 1->2
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},    // 2->3
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},  // 3->0
	}
	jlstzCCW = [4][5]Kick{
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},    // 0->3
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},     // 1->0
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // 2->1
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},  // 3->2
	}
	iCW = [4][5]Kick{
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}}, // 0->1
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}}, // 1->2
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}}, // 2->3
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}}, // 3->0
	}
	iCCW = [4][5]Kick{
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}}, // 0->3
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}}, // 1->0
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}}, // 2->1
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}}, // 3->2
	}
)

// NextIndex returns the rotation index reached by rotating from the given index
func NextIndex(from int, dir Direction) int {
	return ((from+int(dir))%4 + 4) % 4
}

// Kicks returns the five candidate offsets for leaving rotation index from in
// direction dir. O pieces have no kicks.
func Kicks(t model.PieceType, from int, dir Direction) []Kick {
	from = NextIndex(from, 0)
	var table *[4][5]Kick
	switch {
	case t == model.PieceO:
		return nil
	case t == model.PieceI && dir == CW:
		table = &iCW
	case t == model.PieceI:
		table = &iCCW
	case dir == CW:
		table = &jlstzCW
	default:
		table = &jlstzCCW
	}
	row := table[from]
	return row[:]
}

// RotateCells returns a rotated copy of a square grid.
// CW is transpose then reverse each row; CCW is transpose then reverse row order.
func RotateCells(cells [][]int, dir Direction) [][]int {
	n := len(cells)
	out := make([][]int, n)
	for y := range out {
		out[y] = make([]int, n)
		for x := range out[y] {
			out[y][x] = cells[x][y]
		}
	}
	if dir == CW {
		for _, row := range out {
			for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
	} else {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Rotate tries an SRS rotation of p anchored at pos. On success the piece's
// cells and rotation index and pos are updated and the index of the accepted
// kick is returned. On failure nothing is modified.
func Rotate(b *model.Board, p *model.Piece, pos *model.Position, dir Direction) (int, bool) {
	if p.Type == model.PieceO {
		return -1, false
	}

	rotated := &model.Piece{
		Type:     p.Type,
		Rotation: NextIndex(p.Rotation, dir),
		Cells:    RotateCells(p.Cells, dir),
	}
	for i, k := range Kicks(p.Type, p.Rotation, dir) {
		// Board y grows downward, so the table's vertical component is inverted
		candidate := model.Position{X: pos.X + k.DX, Y: pos.Y - k.DY}
		if board.Collides(b, rotated, candidate) {
			continue
		}
		p.Cells = rotated.Cells
		p.Rotation = rotated.Rotation
		*pos = candidate
		return i, true
	}
	return -1, false
}
