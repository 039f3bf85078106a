package game

import "fmt"

const (
	bonusThreshold = 60
	bonusBase      = 30
)

type entry struct {
	value int
	set   bool
}

// ScoreCard records one player's category values in one game. Unset and an
// explicit zero are distinct; an entry is written at most once.
type ScoreCard struct {
	entries map[Category]entry
}

// NewScoreCard returns a card with every category unset.
func NewScoreCard() *ScoreCard {
	c := &ScoreCard{entries: make(map[Category]entry, len(Categories))}
	for _, cat := range Categories {
		c.entries[cat] = entry{}
	}
	return c
}

// Record sets the value for category. It fails if the category is unknown or
// already set; the stored value is never overwritten.
func (c *ScoreCard) Record(category Category, value int) error {
	e, ok := c.entries[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(category))
	}
	if e.set {
		return fmt.Errorf("%w: %s", ErrCategoryAlreadySet, category)
	}
	c.entries[category] = entry{value: value, set: true}
	return nil
}

// IsAvailable reports whether category exists and has not been scored yet.
func (c *ScoreCard) IsAvailable(category Category) bool {
	e, ok := c.entries[category]
	return ok && !e.set
}

// Value returns the recorded value and whether it is set.
func (c *ScoreCard) Value(category Category) (int, bool) {
	e := c.entries[category]
	return e.value, e.set
}

// Subtotal sums the set entries of section.
func (c *ScoreCard) Subtotal(section Section) int {
	sum := 0
	for cat, e := range c.entries {
		if e.set && cat.Section() == section {
			sum += e.value
		}
	}
	return sum
}

// Bonus is 30 plus every point above 60 once the upper subtotal reaches 60.
func (c *ScoreCard) Bonus() int {
	return BonusFor(c.Subtotal(SectionUpper))
}

// BonusFor computes the bonus for an upper subtotal.
func BonusFor(upper int) int {
	if upper < bonusThreshold {
		return 0
	}
	return bonusBase + (upper - bonusThreshold)
}

// Total is the running total: subtotals plus bonus over set entries only.
func (c *ScoreCard) Total() int {
	upper := c.Subtotal(SectionUpper)
	return upper + BonusFor(upper) + c.Subtotal(SectionMiddle) + c.Subtotal(SectionLower)
}

// IsComplete reports whether every category is set.
func (c *ScoreCard) IsComplete() bool {
	for _, e := range c.entries {
		if !e.set {
			return false
		}
	}
	return true
}

// Available lists unset categories in score-sheet order.
func (c *ScoreCard) Available() []Category {
	var out []Category
	for _, cat := range Categories {
		if !c.entries[cat].set {
			out = append(out, cat)
		}
	}
	return out
}
