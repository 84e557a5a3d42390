package hexrift

// Player sides are cosmetic faction labels.
const (
	SideBlue = "Blue"
	SideRed  = "Red"
)

// Player is one match participant's economic state.
type Player struct {
	ID          string
	Side        string
	Essence     int // clamped at 0, never negative
	NexusHealth int
	Income      int // base yield per tick, before monolith income and upkeep
}
