package hexrift

// ActionType tags the player command union.
type ActionType string

const (
	ActionMove    ActionType = "MOVE"
	ActionBuild   ActionType = "BUILD"
	ActionRecruit ActionType = "RECRUIT"
)

// Action is a player-issued command. The Type tag selects which fields are
// meaningful: MOVE uses From/To, BUILD uses Structure/Q/R, RECRUIT uses
// UnitType/Q/R. ProcessAction dispatches exhaustively and rejects unknown
// tags — an unrecognized type is an error, not a silent success.
type Action struct {
	Type ActionType `json:"type"`

	// MOVE
	From *Coord `json:"from,omitempty"`
	To   *Coord `json:"to,omitempty"`

	// BUILD
	Structure TileType `json:"structure,omitempty"`

	// RECRUIT
	UnitType Archetype `json:"unitType,omitempty"`

	// Target tile for BUILD and RECRUIT.
	Q int `json:"q"`
	R int `json:"r"`
}

// Outcome describes what a successful action did. The hit/kill distinction
// is part of the client feedback contract.
type Outcome string

const (
	OutcomeMoved     Outcome = "moved"
	OutcomeCaptured  Outcome = "captured"
	OutcomeHit       Outcome = "hit"
	OutcomeKill      Outcome = "kill"
	OutcomeBuilt     Outcome = "built"
	OutcomeRecruited Outcome = "recruited"
)

// ActionResult reports the outcome of a successful action.
type ActionResult struct {
	Outcome Outcome `json:"outcome"`
	Damage  int     `json:"damage,omitempty"` // combat outcomes only
	Loot    int     `json:"loot,omitempty"`   // essence awarded for razing a structure
}
