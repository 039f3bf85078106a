package game

import "fmt"

// Section groups categories for subtotal computation.
type Section string

const (
	SectionUpper  Section = "upper"
	SectionMiddle Section = "middle"
	SectionLower  Section = "lower"
)

// Category is one of the fixed scoring combinations. The string value is the
// stable name callers pass verbatim.
type Category string

const (
	One           Category = "one"
	Two           Category = "two"
	Three         Category = "three"
	Four          Category = "four"
	Five          Category = "five"
	Six           Category = "six"
	Min           Category = "min"
	Max           Category = "max"
	Poker         Category = "poker"
	Full          Category = "full"
	SmallStraight Category = "small_straight"
	LargeStraight Category = "large_straight"
	Yams          Category = "yams"
	Rigole        Category = "rigole"
)

type categoryInfo struct {
	section Section
	face    int // UPPER only
	label   string
}

var categoryTable = map[Category]categoryInfo{
	One:           {SectionUpper, 1, "As"},
	Two:           {SectionUpper, 2, "Deux"},
	Three:         {SectionUpper, 3, "Trois"},
	Four:          {SectionUpper, 4, "Quatre"},
	Five:          {SectionUpper, 5, "Cinq"},
	Six:           {SectionUpper, 6, "Six"},
	Min:           {SectionMiddle, 0, "Inférieur"},
	Max:           {SectionMiddle, 0, "Supérieur"},
	Poker:         {SectionLower, 0, "Carré"},
	Full:          {SectionLower, 0, "Full"},
	SmallStraight: {SectionLower, 0, "Petite suite"},
	LargeStraight: {SectionLower, 0, "Grande suite"},
	Yams:          {SectionLower, 0, "Yam's"},
	Rigole:        {SectionLower, 0, "Rigole"},
}

// Categories lists every category in score-sheet order.
var Categories = []Category{
	One, Two, Three, Four, Five, Six,
	Min, Max,
	Poker, Full, SmallStraight, LargeStraight, Yams, Rigole,
}

// Sections lists the score-sheet sections in display order.
var Sections = []Section{SectionUpper, SectionMiddle, SectionLower}

// ParseCategory maps a caller-supplied name to a Category.
func ParseCategory(name string) (Category, error) {
	c := Category(name)
	if _, ok := categoryTable[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Section returns the score-sheet section c belongs to.
func (c Category) Section() Section { return categoryTable[c].section }

// Label is the French display name used on the score sheet.
func (c Category) Label() string { return categoryTable[c].label }

// face is the die value counted by an UPPER category, 0 otherwise.
func (c Category) face() int { return categoryTable[c].face }

// opposite pairs MIN with MAX; other categories have none.
func (c Category) opposite() (Category, bool) {
	switch c {
	case Min:
		return Max, true
	case Max:
		return Min, true
	}
	return "", false
}
