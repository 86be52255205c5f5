// Package config provides configuration management for the Robots game.
//
// Game configurations are JSON files in a configs directory. Each defines the
// field size, how many pursuers a level starts with (level * pursuers_per_level,
// capped at max_pursuers), the bonus per cleared level and the message texts.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("small")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default is classic.json when present, otherwise the first valid file,
// otherwise the built-in engine.DefaultGameConfig. Loaded configurations are
// cached; ReloadConfig and RefreshCache re-read them from disk.
package config
