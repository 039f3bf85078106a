// internal/game/evaluator.go
//
// Pattern detection and scoring for each category.
// All detection works on face frequency counts and sorted runs of values;
// nothing here mutates state.

package game

import (
	"fmt"
	"slices"
)

// Opposing carries the recorded value of the MIN/MAX counterpart, if any.
// It is ignored for every other category.
type Opposing struct {
	Value int
	Set   bool
}

// Evaluate reports whether dice satisfy c and the points c is worth.
// Ineligible categories score 0.
func Evaluate(c Category, dice []int, opp Opposing) (eligible bool, score int, err error) {
	if !c.Valid() {
		return false, 0, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	counts := faceCounts(dice)
	sum := total(dice)

	switch c {
	case One, Two, Three, Four, Five, Six:
		f := c.face()
		return true, f * counts[f], nil
	case Min:
		if !opp.Set || sum <= opp.Value {
			return true, sum, nil
		}
	case Max:
		if !opp.Set || sum >= opp.Value {
			return true, sum, nil
		}
	case Poker:
		if v, ok := valueWithCount(counts, 4); ok {
			return true, 40 + 4*v, nil
		}
	case Full:
		_, two := valueExactly(counts, 2)
		_, three := valueExactly(counts, 3)
		if two && three {
			return true, 30 + sum, nil
		}
	case SmallStraight:
		if isSmallStraight(dice) {
			return true, 45, nil
		}
	case LargeStraight:
		sorted := slices.Clone(dice)
		slices.Sort(sorted)
		if len(sorted) == NumDice && IsConsecutiveRun(sorted) {
			return true, 50, nil
		}
	case Yams:
		if _, ok := valueExactly(counts, NumDice); ok {
			return true, 50 + sum, nil
		}
	case Rigole:
		x, one := valueExactly(counts, 1)
		y, four := valueExactly(counts, 4)
		if one && four && x+y == 7 {
			return true, 50, nil
		}
	}
	return false, 0, nil
}

// Score is Evaluate without the eligibility flag.
func Score(c Category, dice []int, opp Opposing) (int, error) {
	_, s, err := Evaluate(c, dice, opp)
	return s, err
}

// IsConsecutiveRun reports whether every element is its predecessor plus one.
// Empty and single-element sequences are trivially consecutive.
func IsConsecutiveRun(seq []int) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i] != seq[i-1]+1 {
			return false
		}
	}
	return true
}

// isSmallStraight looks for a four-long run over the distinct faces. With five
// distinct faces either the lowest four or the highest four must be a run.
func isSmallStraight(dice []int) bool {
	distinct := slices.Clone(dice)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	switch len(distinct) {
	case 4:
		return IsConsecutiveRun(distinct)
	case 5:
		return IsConsecutiveRun(distinct[:4]) || IsConsecutiveRun(distinct[1:])
	}
	return false
}

// faceCounts indexes frequencies by face value (index 0 unused).
func faceCounts(dice []int) [Faces + 1]int {
	var counts [Faces + 1]int
	for _, v := range dice {
		if v >= 1 && v <= Faces {
			counts[v]++
		}
	}
	return counts
}

func total(dice []int) int {
	s := 0
	for _, v := range dice {
		s += v
	}
	return s
}

// valueWithCount returns the face appearing at least n times.
func valueWithCount(counts [Faces + 1]int, n int) (int, bool) {
	for v := 1; v <= Faces; v++ {
		if counts[v] >= n {
			return v, true
		}
	}
	return 0, false
}

// valueExactly returns the face appearing exactly n times.
func valueExactly(counts [Faces + 1]int, n int) (int, bool) {
	for v := 1; v <= Faces; v++ {
		if counts[v] == n {
			return v, true
		}
	}
	return 0, false
}
