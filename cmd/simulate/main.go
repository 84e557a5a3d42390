// Command simulate runs headless automaton-vs-automaton matches at full
// speed, for balance tuning and engine soak testing.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/veldtlabs/hexrift/internal/bot"
	"github.com/veldtlabs/hexrift/internal/tuning"
	"github.com/veldtlabs/hexrift/pkg/hexrift"
)

type result struct {
	Match   int            `json:"match"`
	Ticks   int            `json:"ticks"`
	Units   map[string]int `json:"units"`
	Essence map[string]int `json:"essence"`
	Tiles   map[string]int `json:"tiles"`
	Elapsed string         `json:"elapsed"`
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		numMatches  int
		workers     int
		maxTicks    int
		seed        int64
		balanceFile string
		jsonOut     bool
	)

	flag.IntVar(&numMatches, "n", 1, "Number of matches to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel matches)")
	flag.IntVar(&maxTicks, "max-ticks", 1000, "Ticks per match")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = nondeterministic)")
	flag.StringVar(&balanceFile, "balance", "", "Balance tuning YAML file")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")

	flag.Parse()

	if seed != 0 {
		// The automaton RNG is process-global, so a seeded run is only
		// reproducible with a single worker.
		bot.SeedRng(seed)
		if workers > 1 {
			log.Warn().Msg("Seeded runs are only deterministic with -workers 1")
		}
	}

	balance, err := tuning.LoadFile(balanceFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Balance tuning failed")
	}

	results := make([]*result, numMatches)
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	start := time.Now()
	for i := 0; i < numMatches; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := runMatch(idx+1, maxTicks, balance)
			if err != nil {
				log.Error().Err(err).Int("match", idx+1).Msg("Match failed")
				return
			}
			results[idx] = res
		}(i)
	}
	wg.Wait()

	if jsonOut {
		json.NewEncoder(os.Stdout).Encode(results)
	} else {
		printSummary(results)
	}
	log.Info().Int("matches", numMatches).Dur("elapsed", time.Since(start)).Msg("Done")
}

func runMatch(n, maxTicks int, balance *hexrift.Balance) (*result, error) {
	start := time.Now()
	game, err := hexrift.NewGameState(fmt.Sprintf("sim-%d", n), "blue", "red", balance)
	if err != nil {
		return nil, err
	}
	blue := bot.New(game, "blue")
	red := bot.New(game, "red")

	for tick := 0; tick < maxTicks; tick++ {
		blue.DecideMove()
		red.DecideMove()
		game.Tick()
	}
	game.Finish()

	res := &result{
		Match:   n,
		Ticks:   game.Turn,
		Units:   map[string]int{},
		Essence: map[string]int{},
		Tiles:   map[string]int{},
		Elapsed: time.Since(start).Round(time.Millisecond).String(),
	}
	for id, p := range game.Players {
		res.Essence[id] = p.Essence
	}
	for _, tile := range game.Grid.Tiles() {
		if tile.Unit != nil {
			res.Units[tile.Unit.Owner]++
		}
		if tile.Owner != "" {
			res.Tiles[tile.Owner]++
		}
	}
	return res, nil
}

func printSummary(results []*result) {
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Printf("match %d: %d ticks in %s\n", r.Match, r.Ticks, r.Elapsed)
		for _, side := range []string{"blue", "red"} {
			fmt.Printf("  %-5s units=%-3d tiles=%-3d essence=%d\n",
				side, r.Units[side], r.Tiles[side], r.Essence[side])
		}
	}
}
