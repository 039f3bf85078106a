package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	for _, tt := range []struct {
		name     string
		dice     []int
		cat      Category
		opp      Opposing
		eligible bool
		score    int
	}{
		{"large straight low", []int{1, 2, 3, 4, 5}, LargeStraight, Opposing{}, true, 50},
		{"large straight high", []int{6, 2, 3, 4, 5}, LargeStraight, Opposing{}, true, 50},
		{"large straight broken", []int{1, 5, 3, 4, 1}, LargeStraight, Opposing{}, false, 0},
		{"small straight from large", []int{1, 2, 3, 4, 5}, SmallStraight, Opposing{}, true, 45},
		{"small straight with pair", []int{1, 5, 3, 4, 1}, SmallStraight, Opposing{}, false, 0},
		{"small straight duplicate inside", []int{3, 4, 4, 5, 6}, SmallStraight, Opposing{}, true, 45},
		{"small straight low four of five distinct", []int{1, 2, 3, 4, 6}, SmallStraight, Opposing{}, true, 45},
		{"small straight high four of five distinct", []int{1, 3, 4, 5, 6}, SmallStraight, Opposing{}, true, 45},
		{"small straight gap", []int{1, 2, 4, 5, 6}, SmallStraight, Opposing{}, false, 0},
		{"poker", []int{4, 4, 4, 4, 2}, Poker, Opposing{}, true, 56},
		{"poker from yams", []int{1, 1, 1, 1, 1}, Poker, Opposing{}, true, 44},
		{"no poker", []int{1, 2, 3, 4, 5}, Poker, Opposing{}, false, 0},
		{"full", []int{4, 2, 4, 4, 2}, Full, Opposing{}, true, 46},
		{"full needs pair and triple", []int{3, 2, 3, 4, 3}, Full, Opposing{}, false, 0},
		{"yams is not full", []int{2, 2, 2, 2, 2}, Full, Opposing{}, false, 0},
		{"yams", []int{1, 1, 1, 1, 1}, Yams, Opposing{}, true, 55},
		{"no yams", []int{1, 5, 3, 4, 1}, Yams, Opposing{}, false, 0},
		{"rigole", []int{1, 1, 6, 1, 1}, Rigole, Opposing{}, true, 50},
		{"rigole sorted", []int{1, 1, 1, 1, 6}, Rigole, Opposing{}, true, 50},
		{"rigole three four", []int{3, 4, 4, 4, 4}, Rigole, Opposing{}, true, 50},
		{"rigole wrong sum", []int{1, 1, 5, 1, 1}, Rigole, Opposing{}, false, 0},
		{"rigole needs one odd die", []int{1, 1, 1, 1, 1}, Rigole, Opposing{}, false, 0},
		{"ones", []int{1, 1, 2, 1, 1}, One, Opposing{}, true, 4},
		{"threes", []int{3, 2, 3, 4, 3}, Three, Opposing{}, true, 9},
		{"sixes absent", []int{3, 2, 3, 4, 3}, Six, Opposing{}, true, 0},
		{"min unset max", []int{6, 6, 6, 6, 6}, Min, Opposing{}, true, 30},
		{"min below max", []int{1, 2, 3, 4, 5}, Min, Opposing{Value: 20, Set: true}, true, 15},
		{"min equal max", []int{4, 4, 4, 4, 4}, Min, Opposing{Value: 20, Set: true}, true, 20},
		{"min above max", []int{6, 6, 6, 6, 6}, Min, Opposing{Value: 20, Set: true}, false, 0},
		{"min against explicit zero max", []int{1, 1, 1, 1, 1}, Min, Opposing{Value: 0, Set: true}, false, 0},
		{"max unset min", []int{1, 1, 1, 1, 1}, Max, Opposing{}, true, 5},
		{"max above min", []int{6, 6, 6, 6, 5}, Max, Opposing{Value: 10, Set: true}, true, 29},
		{"max below min", []int{1, 1, 1, 1, 2}, Max, Opposing{Value: 10, Set: true}, false, 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			eligible, score, err := Evaluate(tt.cat, tt.dice, tt.opp)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, eligible)
			assert.Equal(t, tt.score, score)
		})
	}
}

func TestEvaluateUnknownCategory(t *testing.T) {
	_, _, err := Evaluate(Category("chance"), []int{1, 2, 3, 4, 5}, Opposing{})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestIsConsecutiveRun(t *testing.T) {
	assert.True(t, IsConsecutiveRun(nil))
	assert.True(t, IsConsecutiveRun([]int{2}))
	assert.True(t, IsConsecutiveRun([]int{2, 3, 4}))
	assert.False(t, IsConsecutiveRun([]int{4, 2, 3}))
	assert.False(t, IsConsecutiveRun([]int{2, 2, 3}))
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.NotEmpty(t, c.Label())
	}
	_, err := ParseCategory("ONE")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestSectionPartition(t *testing.T) {
	counts := map[Section]int{}
	for _, c := range Categories {
		counts[c.Section()]++
	}
	assert.Equal(t, map[Section]int{SectionUpper: 6, SectionMiddle: 2, SectionLower: 6}, counts)
}
