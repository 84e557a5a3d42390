package model

import "time"

// Guest represents an ephemeral guest identity. Guests are not persisted;
// the JWT issued at login is the only record of one.
type Guest struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// MatchRecord is the archived summary of a finished match.
type MatchRecord struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"` // pve or pvp
	PlayerIDs  []string  `json:"player_ids"`
	Reason     string    `json:"reason"` // why the match ended
	Turns      int       `json:"turns"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
