// Command analyze plays seeded games with a greedy bot on every configuration
// in the configs directory and prints survival statistics. It is a quick way
// to compare how hard arenas are after editing their pursuer settings.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/robots-game/game/config"
	"github.com/wricardo/robots-game/game/engine"
)

// Stats summarizes the games played on one configuration
type Stats struct {
	Config        string
	Games         int
	TotalScore    int
	BestScore     int
	TotalLevels   int
	BestLevel     int
	TotalTurns    int
	LevelsCleared int
	Survived      int // games still running when the turn limit hit
}

// AvgScore returns the mean final score
func (s Stats) AvgScore() float64 { return ratio(s.TotalScore, s.Games) }

// AvgLevel returns the mean level reached
func (s Stats) AvgLevel() float64 { return ratio(s.TotalLevels, s.Games) }

// AvgTurns returns the mean number of turns played
func (s Stats) AvgTurns() float64 { return ratio(s.TotalTurns, s.Games) }

func ratio(total, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// GameResult is the outcome of one simulated game
type GameResult struct {
	Score         int
	Level         int
	Turns         int
	LevelsCleared int
	Status        engine.Status
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Simulate a greedy bot on each configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "games", Value: 20, Usage: "Games per configuration"},
			&cli.IntFlag{Name: "max-turns", Value: 2000, Usage: "Turn limit per game"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Seed of the first game"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			stats, err := analyzeDir(cmd.String("config-dir"), cmd.Int("games"), cmd.Int("max-turns"), int64(cmd.Int("seed")))
			if err != nil {
				return err
			}
			printStats(cmd.Writer, stats)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// analyzeDir simulates games on every configuration found in dir
func analyzeDir(dir string, games, maxTurns int, seed int64) ([]Stats, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}
	infos, err := manager.ListConfigs()
	if err != nil {
		return nil, err
	}

	var all []Stats
	for _, info := range infos {
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", info.ConfigID, err)
		}
		stats, err := analyzeConfig(cfg, games, maxTurns, seed)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", info.ConfigID, err)
		}
		stats.Config = info.ConfigID
		all = append(all, stats)
	}
	return all, nil
}

// analyzeConfig plays games seeded seed, seed+1, ... on cfg
func analyzeConfig(cfg *engine.GameConfig, games, maxTurns int, seed int64) (Stats, error) {
	stats := Stats{Config: cfg.Name}
	for i := 0; i < games; i++ {
		game, err := engine.NewEngine(cfg, engine.NewRand(seed+int64(i)))
		if err != nil {
			return stats, err
		}
		res, err := simulate(game, maxTurns)
		if err != nil {
			return stats, err
		}

		stats.Games++
		stats.TotalScore += res.Score
		stats.TotalLevels += res.Level
		stats.TotalTurns += res.Turns
		stats.LevelsCleared += res.LevelsCleared
		if res.Score > stats.BestScore {
			stats.BestScore = res.Score
		}
		if res.Level > stats.BestLevel {
			stats.BestLevel = res.Level
		}
		if res.Status == engine.StatusPlaying {
			stats.Survived++
		}
	}
	return stats, nil
}

// simulate lets the greedy bot play game until it is caught or maxTurns pass
func simulate(game *engine.GameEngine, maxTurns int) (GameResult, error) {
	var res GameResult
	for res.Turns < maxTurns {
		turn := game.Play(greedyMove(game.GetField()))
		res.Turns++

		if turn.Status == engine.StatusWon {
			res.LevelsCleared++
			if _, err := game.NextLevel(); err != nil {
				return res, err
			}
			continue
		}
		if turn.Status != engine.StatusPlaying {
			break
		}
	}

	res.Score = game.GetScore()
	res.Level = game.GetLevel()
	res.Status = game.GetStatus()
	return res, nil
}

// greedyMove picks the safe step (or stay) that keeps the nearest pursuer
// farthest away. With no safe option it jumps to a random cell.
func greedyMove(f *engine.Field) engine.Symbol {
	candidates := engine.SafeMoves(f)
	if stayIsSafe(f) {
		candidates = append(candidates, engine.SymbolStay.String())
	}

	best := engine.SymbolRandom
	bestDist := -1
	for _, name := range candidates {
		sym := engine.ParseSymbol(name)
		in := engine.Classify(sym, f.Width(), f.Height(), nil)
		target := in.Target(f.PlayerPosition(), f.Width(), f.Height())
		if d := nearestDistance(f, target); d > bestDist {
			best, bestDist = sym, d
		}
	}
	return best
}

func stayIsSafe(f *engine.Field) bool {
	return nearestDistance(f, f.PlayerPosition()) > 1
}

func nearestDistance(f *engine.Field, from engine.Position) int {
	best := -1
	for _, p := range f.Pursuers() {
		if d := engine.ChebyshevDistance(p, from); best == -1 || d < best {
			best = d
		}
	}
	if best == -1 {
		return f.Width() + f.Height()
	}
	return best
}

func printStats(out io.Writer, stats []Stats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONFIG\tGAMES\tAVG SCORE\tBEST\tAVG LEVEL\tBEST LEVEL\tAVG TURNS\tCLEARED\tSURVIVED")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%d\t%.2f\t%d\t%.1f\t%d\t%d\n",
			s.Config, s.Games, s.AvgScore(), s.BestScore, s.AvgLevel(), s.BestLevel,
			s.AvgTurns(), s.LevelsCleared, s.Survived)
	}
	w.Flush()
}
