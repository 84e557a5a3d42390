package hexrift

// Archetype identifies a unit's stat line.
type Archetype string

const (
	Vanguard    Archetype = "Vanguard"    // melee line; gains defense from adjacent allied Vanguards
	Siphon      Archetype = "Siphon"      // steals half the yield of an enemy monolith it stands on
	SiegeEngine Archetype = "Siege-Engine"
	Overseer    Archetype = "Overseer"
)

// Archetypes returns all unit archetypes in recruitment-panel order.
func Archetypes() []Archetype {
	return []Archetype{Vanguard, Siphon, SiegeEngine, Overseer}
}

// Stats holds the per-archetype balance constants.
type Stats struct {
	HP          int
	Attack      int
	Range       int
	Upkeep      int
	RecruitCost int
}

// Unit is a single unit on the board. Stats are copied from the archetype
// table at creation; only HP and MovedThisTurn diverge afterwards. Ownership
// never transfers — a unit is destroyed, never captured.
type Unit struct {
	Type          Archetype
	Owner         string
	HP            int
	Attack        int
	Range         int
	Upkeep        int
	MovedThisTurn bool
}

// NewUnit creates a unit of the given archetype for the given owner.
func NewUnit(b *Balance, archetype Archetype, owner string) (*Unit, error) {
	stats, err := b.StatsFor(archetype)
	if err != nil {
		return nil, err
	}
	return &Unit{
		Type:   archetype,
		Owner:  owner,
		HP:     stats.HP,
		Attack: stats.Attack,
		Range:  stats.Range,
		Upkeep: stats.Upkeep,
	}, nil
}
