package hexrift

// Status is the match lifecycle state. The transition active -> finished is
// one-way and is driven by the orchestration layer, never by the engine.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// GameState is the authoritative state of one match. A match is the unit of
// isolation: nothing here is shared with any other match. Callers must
// serialize ProcessAction and Tick per match; GameState itself is not
// goroutine-safe.
type GameState struct {
	MatchID string
	Players map[string]*Player
	Grid    *HexGrid
	Turn    int
	Status  Status

	balance *Balance
}

// NewGameState sets up a fresh match between two participants: a hexagonal
// map, one nexus per player at opposite edges, and one Vanguard garrisoned
// on each nexus. A nil balance selects the stock table.
func NewGameState(matchID, p1ID, p2ID string, balance *Balance) (*GameState, error) {
	if balance == nil {
		balance = DefaultBalance()
	}
	g := &GameState{
		MatchID: matchID,
		Grid:    NewHexGrid(balance.MapRadius),
		Status:  StatusActive,
		balance: balance,
		Players: map[string]*Player{
			p1ID: {ID: p1ID, Side: SideBlue, Essence: balance.StartingEssence, NexusHealth: balance.NexusHealth, Income: balance.BaseIncome},
			p2ID: {ID: p2ID, Side: SideRed, Essence: balance.StartingEssence, NexusHealth: balance.NexusHealth, Income: balance.BaseIncome},
		},
	}

	r := balance.MapRadius
	if err := g.placeNexus(p1ID, 0, r); err != nil {
		return nil, err
	}
	if err := g.placeNexus(p2ID, 0, -r); err != nil {
		return nil, err
	}
	return g, nil
}

// placeNexus claims the tile at (q, r) as the player's nexus and garrisons a
// starting Vanguard on it.
func (g *GameState) placeNexus(playerID string, q, r int) error {
	tile := g.Grid.Tile(q, r)
	if tile == nil {
		return ruleErrorf(CodeInvalidCoordinates, "nexus position (%d,%d) is off the map", q, r)
	}
	unit, err := NewUnit(g.balance, Vanguard, playerID)
	if err != nil {
		return err
	}
	tile.Owner = playerID
	tile.Type = TileNexus
	tile.Unit = unit
	return nil
}

// Balance returns the balance table this match was created with.
func (g *GameState) Balance() *Balance {
	return g.balance
}

// Finish moves the match to its terminal state. Idempotent.
func (g *GameState) Finish() {
	g.Status = StatusFinished
}

// ProcessAction is the single entry point for all player-initiated mutation.
// It validates the action against the current state and either applies it or
// returns a *RuleError leaving the state untouched.
func (g *GameState) ProcessAction(playerID string, action Action) (*ActionResult, error) {
	if g.Status != StatusActive {
		return nil, ruleErrorf(CodeGameOver, "match %s is over", g.MatchID)
	}
	if _, ok := g.Players[playerID]; !ok {
		return nil, ruleErrorf(CodeUnknownPlayer, "player %s is not in this match", playerID)
	}

	switch action.Type {
	case ActionMove:
		if action.From == nil || action.To == nil {
			return nil, ruleErrorf(CodeInvalidCoordinates, "move requires from and to coordinates")
		}
		return g.moveUnit(playerID, *action.From, *action.To)
	case ActionBuild:
		return g.build(playerID, action.Structure, action.Q, action.R)
	case ActionRecruit:
		return g.recruit(playerID, action.UnitType, action.Q, action.R)
	default:
		return nil, ruleErrorf(CodeUnknownAction, "unknown action type %q", action.Type)
	}
}

// moveUnit relocates a unit one step, resolving combat when the destination
// holds an enemy and capturing unclaimed or enemy ground otherwise.
func (g *GameState) moveUnit(playerID string, from, to Coord) (*ActionResult, error) {
	origin := g.Grid.Tile(from.Q, from.R)
	dest := g.Grid.Tile(to.Q, to.R)
	if origin == nil || dest == nil {
		return nil, ruleErrorf(CodeInvalidCoordinates, "no tile at (%d,%d) or (%d,%d)", from.Q, from.R, to.Q, to.R)
	}
	if origin.Unit == nil {
		return nil, ruleErrorf(CodeNoUnitToMove, "no unit at %s", origin.ID)
	}
	if origin.Unit.Owner != playerID {
		return nil, ruleErrorf(CodeNotYourUnit, "unit at %s is not yours", origin.ID)
	}
	if origin.Unit.MovedThisTurn {
		return nil, ruleErrorf(CodeUnitExhausted, "unit at %s has already moved this turn", origin.ID)
	}
	if !g.adjacent(origin, dest) {
		return nil, ruleErrorf(CodeTargetNotAdjacent, "%s is not adjacent to %s", dest.ID, origin.ID)
	}

	if dest.Unit != nil {
		if dest.Unit.Owner == playerID {
			return nil, ruleErrorf(CodeDestinationOccupied, "a friendly unit already holds %s", dest.ID)
		}
		return g.resolveCombat(origin, dest), nil
	}

	// A nexus can never change hands: an empty foreign nexus is simply not a
	// legal destination.
	if dest.Type == TileNexus && dest.Owner != playerID {
		return nil, ruleErrorf(CodeNexusUnassailable, "nexus at %s cannot be entered", dest.ID)
	}

	dest.Unit = origin.Unit
	origin.Unit = nil
	dest.Unit.MovedThisTurn = true

	if dest.Owner == playerID {
		return &ActionResult{Outcome: OutcomeMoved}, nil
	}

	// Capture. Enemy structures are razed, with a loot bonus for the captor.
	dest.Owner = playerID
	result := &ActionResult{Outcome: OutcomeCaptured}
	if dest.Type == TileMonolith || dest.Type == TileBastion {
		dest.Type = TileEmpty
		result.Loot = g.balance.LootBonus
		g.Players[playerID].Essence += g.balance.LootBonus
	}
	return result, nil
}

// resolveCombat applies one round of combat from origin's unit against
// dest's unit. Attacking consumes the attacker's move exactly as relocation
// does; the attacker never advances into the defender's tile.
func (g *GameState) resolveCombat(origin, dest *Tile) *ActionResult {
	attacker := origin.Unit
	defender := dest.Unit

	damage := attacker.Attack - g.defenseBonus(dest)
	if damage < 1 {
		damage = 1
	}
	defender.HP -= damage
	attacker.MovedThisTurn = true

	if defender.HP <= 0 {
		dest.Unit = nil // destroyed; the tile keeps its owner and type
		return &ActionResult{Outcome: OutcomeKill, Damage: damage}
	}
	return &ActionResult{Outcome: OutcomeHit, Damage: damage}
}

// defenseBonus returns the shield-wall bonus for the defender on tile: only
// Vanguards benefit, gaining a fixed amount per adjacent allied Vanguard.
func (g *GameState) defenseBonus(tile *Tile) int {
	defender := tile.Unit
	if defender == nil || defender.Type != Vanguard {
		return 0
	}
	allies := 0
	for _, n := range g.Grid.Neighbors(tile.Q, tile.R) {
		if n.Unit != nil && n.Unit.Owner == defender.Owner && n.Unit.Type == Vanguard {
			allies++
		}
	}
	return g.balance.VanguardDefenseBonus * allies
}

// build places a structure on an owned, connected, empty tile.
func (g *GameState) build(playerID string, structure TileType, q, r int) (*ActionResult, error) {
	tile := g.Grid.Tile(q, r)
	if tile == nil {
		return nil, ruleErrorf(CodeInvalidTile, "no tile at (%d,%d)", q, r)
	}
	if tile.Owner != playerID {
		return nil, ruleErrorf(CodeNotOwner, "tile %s is not yours", tile.ID)
	}
	if tile.Unit != nil {
		return nil, ruleErrorf(CodeTileOccupied, "tile %s is occupied by a unit", tile.ID)
	}
	if tile.Type != TileEmpty {
		return nil, ruleErrorf(CodeAlreadyBuilt, "tile %s already holds a %s", tile.ID, tile.Type)
	}
	if tile.Dormant {
		return nil, ruleErrorf(CodeDisconnected, "tile %s is cut off from your nexus", tile.ID)
	}

	cost, err := g.balance.StructureCost(structure)
	if err != nil {
		return nil, err
	}
	player := g.Players[playerID]
	if player.Essence < cost {
		return nil, ruleErrorf(CodeInsufficientEssence, "%s costs %d essence, you have %d", structure, cost, player.Essence)
	}

	player.Essence -= cost
	tile.Type = structure
	return &ActionResult{Outcome: OutcomeBuilt}, nil
}

// recruit creates a new unit on the player's own unoccupied nexus.
func (g *GameState) recruit(playerID string, archetype Archetype, q, r int) (*ActionResult, error) {
	tile := g.Grid.Tile(q, r)
	if tile == nil {
		return nil, ruleErrorf(CodeInvalidTile, "no tile at (%d,%d)", q, r)
	}
	if tile.Owner != playerID {
		return nil, ruleErrorf(CodeNotOwner, "tile %s is not yours", tile.ID)
	}
	if tile.Type != TileNexus {
		return nil, ruleErrorf(CodeMustRecruitAtNexus, "units can only be recruited at your nexus")
	}
	if tile.Unit != nil {
		return nil, ruleErrorf(CodeNexusOccupied, "your nexus is occupied; move the unit first")
	}

	stats, err := g.balance.StatsFor(archetype)
	if err != nil {
		return nil, err
	}
	player := g.Players[playerID]
	if player.Essence < stats.RecruitCost {
		return nil, ruleErrorf(CodeInsufficientEssence, "%s costs %d essence, you have %d", archetype, stats.RecruitCost, player.Essence)
	}

	unit, err := NewUnit(g.balance, archetype, playerID)
	if err != nil {
		return nil, err
	}
	player.Essence -= stats.RecruitCost
	tile.Unit = unit
	return &ActionResult{Outcome: OutcomeRecruited}, nil
}

// adjacent reports whether dest is one of origin's neighbors.
func (g *GameState) adjacent(origin, dest *Tile) bool {
	for _, n := range g.Grid.Neighbors(origin.Q, origin.R) {
		if n == dest {
			return true
		}
	}
	return false
}
