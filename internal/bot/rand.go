package bot

import "math/rand"

// botRng is the random source behind automaton decisions. Nil means the
// global math/rand default; SeedRng installs a deterministic source so tests
// and headless arenas are reproducible.
var botRng *rand.Rand

// SeedRng sets a deterministic random source for reproducible behavior.
func SeedRng(seed int64) {
	botRng = rand.New(rand.NewSource(seed))
}

// ResetRng reverts to the default non-deterministic source.
func ResetRng() {
	botRng = nil
}

func botIntn(n int) int {
	if botRng != nil {
		return botRng.Intn(n)
	}
	return rand.Intn(n)
}
