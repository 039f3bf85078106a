// internal/game/dice.go
//
// Five dice and the randomness behind them.
// Responsibilities:
//   - Hold exactly five face values in [1,6].
//   - Re-roll a caller-selected subset of dice by index.
//   - Expose values in die order and sorted for pattern detection.
//
// Randomness comes from a Roller so tests can be deterministic.

package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

const (
	// NumDice is the size of every DiceSet.
	NumDice = 5
	// Faces is the number of sides on each die.
	Faces = 6
)

// Roller produces uniform die faces in [1,Faces].
type Roller interface {
	Roll() int
}

// randRoller draws faces from a math/rand/v2 source.
type randRoller struct{ r *rand.Rand }

func (rr randRoller) Roll() int { return rr.r.IntN(Faces) + 1 }

// NewRandRoller returns a Roller seeded with seed. Equal seeds produce equal
// roll sequences.
func NewRandRoller(seed uint64) Roller {
	return randRoller{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// globalRoller uses the auto-seeded package source.
type globalRoller struct{}

func (globalRoller) Roll() int { return rand.IntN(Faces) + 1 }

// DefaultRoller is used when a Game is created without an explicit Roller.
var DefaultRoller Roller = globalRoller{}

// SequenceRoller replays fixed faces in order, wrapping around when exhausted.
type SequenceRoller struct {
	faces []int
	next  int
}

// NewSequenceRoller returns a Roller that yields faces in order. It panics if
// a face is outside [1,Faces].
func NewSequenceRoller(faces ...int) *SequenceRoller {
	for _, f := range faces {
		if f < 1 || f > Faces {
			panic(fmt.Errorf("%w: sequence face %d", ErrInvalidDice, f))
		}
	}
	return &SequenceRoller{faces: slices.Clone(faces)}
}

func (s *SequenceRoller) Roll() int {
	if len(s.faces) == 0 {
		return 1
	}
	v := s.faces[s.next%len(s.faces)]
	s.next++
	return v
}

// DiceSet owns five die values.
type DiceSet struct {
	values [NumDice]int
	roller Roller
}

// NewDiceSet returns a DiceSet with all five dice already rolled once.
func NewDiceSet(r Roller) *DiceSet {
	if r == nil {
		r = DefaultRoller
	}
	d := &DiceSet{roller: r}
	d.rollAll()
	return d
}

// DiceFromValues builds a DiceSet with fixed faces. Later rolls use r.
func DiceFromValues(values []int, r Roller) (*DiceSet, error) {
	if len(values) != NumDice {
		return nil, fmt.Errorf("%w: want %d dice, got %d", ErrInvalidDice, NumDice, len(values))
	}
	if r == nil {
		r = DefaultRoller
	}
	d := &DiceSet{roller: r}
	for i, v := range values {
		if v < 1 || v > Faces {
			return nil, fmt.Errorf("%w: die %d has face %d", ErrInvalidDice, i, v)
		}
		d.values[i] = v
	}
	return d, nil
}

// Roll re-rolls the dice at the given indexes. An empty slice is a no-op.
// Indexes are validated as a whole before any die changes.
func (d *DiceSet) Roll(indexes []int) error {
	if err := validateIndexes(indexes); err != nil {
		return err
	}
	for _, i := range indexes {
		d.values[i] = d.draw()
	}
	return nil
}

func (d *DiceSet) rollAll() {
	for i := range d.values {
		d.values[i] = d.draw()
	}
}

// draw takes one face from the roller. A roller returning a face outside
// [1,Faces] is a programming error and panics.
func (d *DiceSet) draw() int {
	v := d.roller.Roll()
	if v < 1 || v > Faces {
		panic(fmt.Errorf("%w: roller returned %d", ErrInvalidDice, v))
	}
	return v
}

// Values returns the five faces in die order.
func (d *DiceSet) Values() []int {
	out := make([]int, NumDice)
	copy(out, d.values[:])
	return out
}

// SortedValues returns the five faces in ascending order.
func (d *DiceSet) SortedValues() []int {
	out := d.Values()
	slices.Sort(out)
	return out
}

// validateIndexes rejects out-of-range, duplicated, or too many indexes.
func validateIndexes(indexes []int) error {
	if len(indexes) > NumDice {
		return fmt.Errorf("%w: %d indexes, at most %d allowed", ErrInvalidIndex, len(indexes), NumDice)
	}
	var seen [NumDice]bool
	for _, i := range indexes {
		if i < 0 || i >= NumDice {
			return fmt.Errorf("%w: %d out of range", ErrInvalidIndex, i)
		}
		if seen[i] {
			return fmt.Errorf("%w: %d duplicated", ErrInvalidIndex, i)
		}
		seen[i] = true
	}
	return nil
}
