package bag

import (
	"github.com/mcoot/vstetris/internal/dependencies/random"
	"github.com/mcoot/vstetris/internal/model"
)

// Bag is a 7-bag randomizer. Every type appears exactly once per refill,
// so the same type is never more than 12 draws apart.
type Bag struct {
	random random.Random
	items  []model.PieceType
}

// New creates an empty bag; the first draw triggers a refill
func New(rnd random.Random) *Bag {
	return &Bag{random: rnd}
}

var _ model.PieceSource = (*Bag)(nil)

// Next pops a piece type, refilling and shuffling when the bag is empty
func (b *Bag) Next() model.PieceType {
	if len(b.items) == 0 {
		b.refill()
	}
	last := len(b.items) - 1
	t := b.items[last]
	b.items = b.items[:last]
	return t
}

// Remaining returns how many draws are left before the next refill
func (b *Bag) Remaining() int {
	return len(b.items)
}

// Reset discards the current bag contents
func (b *Bag) Reset() {
	b.items = nil
}

func (b *Bag) refill() {
	b.items = model.AllPieceTypes()
	random.Shuffle(b.random, b.items)
}
