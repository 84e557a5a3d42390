package hexrift

// UnitView is the wire shape of a unit inside a snapshot.
type UnitView struct {
	Type          Archetype `json:"type"`
	Owner         string    `json:"owner"`
	HP            int       `json:"hp"`
	Attack        int       `json:"attack"`
	Range         int       `json:"range"`
	Upkeep        int       `json:"upkeep"`
	MovedThisTurn bool      `json:"movedThisTurn"`
}

// TileView is the wire shape of a tile inside a snapshot.
type TileView struct {
	ID      string    `json:"id"`
	Q       int       `json:"q"`
	R       int       `json:"r"`
	Owner   string    `json:"owner,omitempty"`
	Type    TileType  `json:"type"`
	Unit    *UnitView `json:"unit"`
	Dormant bool      `json:"dormant"`
}

// PlayerView is the wire shape of a player inside a snapshot.
type PlayerView struct {
	ID          string `json:"id"`
	Side        string `json:"side"`
	Essence     int    `json:"essence"`
	NexusHealth int    `json:"nexusHealth"`
	Income      int    `json:"income"`
}

// Snapshot is an immutable full-information view of a match. It is the sole
// channel by which renderers and UIs learn of state changes: both sides see
// the entire grid, there is no fog of war.
type Snapshot struct {
	MatchID string                `json:"matchId"`
	Turn    int                   `json:"turn"`
	Status  Status                `json:"status"`
	Players map[string]PlayerView `json:"players"`
	Grid    []TileView            `json:"grid"`
}

// Snapshot copies the current state into a detached Snapshot. Later
// mutations of the match do not affect snapshots already taken.
func (g *GameState) Snapshot() *Snapshot {
	snap := &Snapshot{
		MatchID: g.MatchID,
		Turn:    g.Turn,
		Status:  g.Status,
		Players: make(map[string]PlayerView, len(g.Players)),
		Grid:    make([]TileView, 0, g.Grid.Len()),
	}
	for id, p := range g.Players {
		snap.Players[id] = PlayerView{
			ID:          p.ID,
			Side:        p.Side,
			Essence:     p.Essence,
			NexusHealth: p.NexusHealth,
			Income:      p.Income,
		}
	}
	for _, tile := range g.Grid.Tiles() {
		tv := TileView{
			ID:      tile.ID,
			Q:       tile.Q,
			R:       tile.R,
			Owner:   tile.Owner,
			Type:    tile.Type,
			Dormant: tile.Dormant,
		}
		if tile.Unit != nil {
			tv.Unit = &UnitView{
				Type:          tile.Unit.Type,
				Owner:         tile.Unit.Owner,
				HP:            tile.Unit.HP,
				Attack:        tile.Unit.Attack,
				Range:         tile.Unit.Range,
				Upkeep:        tile.Unit.Upkeep,
				MovedThisTurn: tile.Unit.MovedThisTurn,
			}
		}
		snap.Grid = append(snap.Grid, tv)
	}
	return snap
}
