// Package engine provides the core game logic for the Robots chase game.
//
// The engine package implements the game mechanics including:
//   - The Field: player, pursuer and wreckage placement on a bounded grid
//   - Player move validation and the pursuer advance with collision merging
//   - Input symbol classification (eight directions, stay, random jump, freeze, quit)
//   - Level sequencing and score accounting in GameEngine
//   - Configuration loading and validation
//
// Core Types:
//
// Field owns the simulation of a single level and knows nothing about score
// or levels. GameEngine drives a whole game on top of it: it classifies input,
// moves the player, advances the pursuers and settles score and status.
// GameConfig defines field size and level scaling loaded from JSON files.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultGameConfig(), engine.NewRand(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res := gameEngine.Play(engine.SymbolUpLeft)
//	if gameEngine.IsLevelCleared() {
//		gameEngine.NextLevel()
//	}
//
// Game Rules:
//
// Every turn each pursuer steps one cell toward the player, diagonally while
// both offsets are nonzero. Pursuers landing on the same cell collapse into
// wreckage, and pursuers stepping onto wreckage are destroyed; each destroyed
// pursuer is worth one point. The player loses by sharing a cell with a
// pursuer or wreckage and clears the level, earning level*level_bonus, when no
// pursuers remain.
package engine
