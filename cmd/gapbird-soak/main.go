package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/gapbird/config"
	"github.com/plus3/gapbird/game"
)

// Handles only; the soak runner never draws.
var soakAssets = game.Assets{
	Background:   1,
	Ground:       2,
	PlayerFrames: []game.ImageHandle{3, 4, 5, 6},
	Obstacles:    [4]game.ImageHandle{7, 8, 9, 10},
}

const tickDuration = time.Second / 60

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	configPath := flag.String("config", "", "YAML file laid over the built-in tuning.")
	seed := flag.Uint64("seed", 1, "Seed for both the autopilot and the obstacle layouts.")
	jumpChance := flag.Float64("jump-chance", 0.08, "Probability that the autopilot presses jump on a tick.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	tuning, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Running rounds for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	report := soak(ctx, tuning, *seed, *jumpChance, io.Discard)
	report.Duration = *duration
	report.GCPauseMetrics = *gcPauseMetrics

	log.Println("Soak finished.")

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// soak plays rounds back to back until ctx is done. Round logs go to roundLog.
func soak(ctx context.Context, tuning config.Tuning, seed uint64, jumpChance float64, roundLog io.Writer) *Report {
	rng := rand.New(rand.NewPCG(seed, seed))
	logger := log.New(roundLog, "", log.LstdFlags)

	report := &Report{
		Seed:       seed,
		JumpChance: jumpChance,
		Systems:    map[string]*SystemTotals{},
	}
	runtime.ReadMemStats(&report.MemStatsStart)
	startTime := time.Now()

	for ctx.Err() == nil {
		round := game.NewRound(soakAssets, tuning, game.WithRand(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))), game.WithLogger(logger))
		if !playRound(ctx, round, rng, jumpChance, report) {
			break
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	return report
}

// playRound ticks round until game over. It reports false if ctx ended first;
// an unfinished round is left out of the score figures.
func playRound(ctx context.Context, round *game.Round, rng *rand.Rand, jumpChance float64, report *Report) bool {
	for round.State().Playing {
		if ctx.Err() != nil {
			return false
		}

		if rng.Float64() < jumpChance {
			round.PressJump()
		} else {
			round.ReleaseJump()
		}

		tickStart := time.Now()
		round.Tick(tickDuration)
		report.TickTime.Add(time.Since(tickStart))
		report.TotalTicks++
	}

	report.addRound(round.State().Score, round.Stats())
	return true
}
