package game

// CardView is a read-only rendering of a score card. Unset entries are nil.
type CardView struct {
	Entries   map[Category]*int `json:"entries"`
	Subtotals map[Section]int   `json:"subtotals"`
	Bonus     int               `json:"bonus"`
	Total     int               `json:"total"`
	Complete  bool              `json:"complete"`
}

// View renders the card.
func (c *ScoreCard) View() CardView {
	v := CardView{
		Entries:   make(map[Category]*int, len(Categories)),
		Subtotals: make(map[Section]int, len(Sections)),
		Bonus:     c.Bonus(),
		Total:     c.Total(),
		Complete:  c.IsComplete(),
	}
	for _, cat := range Categories {
		if val, ok := c.Value(cat); ok {
			v.Entries[cat] = &val
		} else {
			v.Entries[cat] = nil
		}
	}
	for _, s := range Sections {
		v.Subtotals[s] = c.Subtotal(s)
	}
	return v
}

// PlayerView is one seat as shown to clients.
type PlayerView struct {
	ID       PlayerID `json:"id"`
	Resigned bool     `json:"resigned"`
	Quit     bool     `json:"quit"`
	Card     CardView `json:"card"`
}

// View is the full public state of a game.
type View struct {
	ID      string       `json:"id"`
	Stage   Stage        `json:"stage"`
	Dice    []int        `json:"dice"`
	Rolls   int          `json:"rolls"`
	Active  PlayerID     `json:"active,omitempty"`
	Players []PlayerView `json:"players"`
	Winners []PlayerID   `json:"winners,omitempty"`
}

// View renders the game for callers.
func (g *Game) View() View {
	v := View{
		ID:      g.ID,
		Stage:   g.round.stage,
		Dice:    g.dice.Values(),
		Rolls:   g.round.rolls,
		Players: make([]PlayerView, 0, len(g.players)),
		Winners: g.Winners(),
	}
	if id, ok := g.ActivePlayer(); ok {
		v.Active = id
	}
	for _, p := range g.players {
		v.Players = append(v.Players, PlayerView{
			ID:       p.ID,
			Resigned: p.Resigned,
			Quit:     p.Quit,
			Card:     p.Card.View(),
		})
	}
	return v
}
