package hexrift

// Balance holds every tunable economy and combat constant for a match.
// A Balance is shared read-only between matches; the scheduler builds one
// at startup and passes it to every GameState it creates.
type Balance struct {
	MapRadius       int
	StartingEssence int
	BaseIncome      int
	NexusHealth     int

	MonolithCost  int
	BastionCost   int
	MonolithYield int // per connected monolith per tick
	LootBonus     int // awarded for razing a captured structure

	// Defense bonus granted to a defending Vanguard per adjacent allied Vanguard.
	VanguardDefenseBonus int

	Units map[Archetype]Stats
}

// DefaultBalance returns the stock balance table.
func DefaultBalance() *Balance {
	return &Balance{
		MapRadius:       4,
		StartingEssence: 100,
		BaseIncome:      10,
		NexusHealth:     1000,

		MonolithCost:  50,
		BastionCost:   80,
		MonolithYield: 5,
		LootBonus:     25,

		VanguardDefenseBonus: 5,

		Units: map[Archetype]Stats{
			Vanguard:    {HP: 100, Attack: 20, Range: 1, Upkeep: 5, RecruitCost: 30},
			Siphon:      {HP: 40, Attack: 10, Range: 1, Upkeep: 3, RecruitCost: 25},
			SiegeEngine: {HP: 80, Attack: 50, Range: 2, Upkeep: 10, RecruitCost: 60},
			Overseer:    {HP: 60, Attack: 0, Range: 3, Upkeep: 8, RecruitCost: 40},
		},
	}
}

// StatsFor looks up the stat line for an archetype. Unknown archetypes are
// an error, never a silent fallback unit.
func (b *Balance) StatsFor(archetype Archetype) (Stats, error) {
	stats, ok := b.Units[archetype]
	if !ok {
		return Stats{}, ruleErrorf(CodeInvalidArchetype, "unknown unit archetype %q", archetype)
	}
	return stats, nil
}

// StructureCost returns the build cost for a structure type. Only monoliths
// and bastions can be built.
func (b *Balance) StructureCost(structure TileType) (int, error) {
	switch structure {
	case TileMonolith:
		return b.MonolithCost, nil
	case TileBastion:
		return b.BastionCost, nil
	default:
		return 0, ruleErrorf(CodeInvalidStructure, "cannot build structure %q", structure)
	}
}
