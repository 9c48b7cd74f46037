package bag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/vstetris/internal/dependencies/mocks"
	"github.com/mcoot/vstetris/internal/dependencies/random"
	"github.com/mcoot/vstetris/internal/model"
)

func TestBagDrawsPermutationPerRefill(t *testing.T) {
	b := New(random.New())

	for round := 0; round < 50; round++ {
		seen := make(map[model.PieceType]int)
		for i := 0; i < 7; i++ {
			seen[b.Next()]++
		}
		require.Len(t, seen, 7, "round %d", round)
		for pt, n := range seen {
			assert.Equal(t, 1, n, "round %d type %s", round, pt)
		}
	}
}

func TestBagRepeatDistanceBounded(t *testing.T) {
	b := New(random.New())
	last := make(map[model.PieceType]int)

	for i := 0; i < 700; i++ {
		pt := b.Next()
		if prev, ok := last[pt]; ok {
			gap := i - prev
			// Within a bag a type never repeats; across a boundary at most 12 draws apart
			assert.GreaterOrEqual(t, gap, 1)
			assert.LessOrEqual(t, gap, 13, "draw %d type %s", i, pt)
			if prev/7 == i/7 {
				t.Fatalf("type %s repeated within one bag at draws %d and %d", pt, prev, i)
			}
		}
		last[pt] = i
	}
}

func TestBagDeterministicWithMockRandom(t *testing.T) {
	rnd := mocks.NewMockRandom()
	b := New(rnd)

	// All zeros: each step swaps items[i] with items[0]
	got := make([]model.PieceType, 7)
	for i := range got {
		got[i] = b.Next()
	}

	// Refill order I L J O T S Z; shuffle with j=0 for i=6..1 yields
	// [L J O T S Z I], popped from the end
	assert.Equal(t, []model.PieceType{
		model.PieceI, model.PieceZ, model.PieceS, model.PieceT,
		model.PieceO, model.PieceJ, model.PieceL,
	}, got)
	assert.Equal(t, []int{7, 6, 5, 4, 3, 2}, rnd.Calls)
}

func TestBagRemainingAndReset(t *testing.T) {
	b := New(mocks.NewMockRandom())

	assert.Equal(t, 0, b.Remaining())
	b.Next()
	assert.Equal(t, 6, b.Remaining())

	b.Reset()
	assert.Equal(t, 0, b.Remaining())
	b.Next()
	assert.Equal(t, 6, b.Remaining())
}
