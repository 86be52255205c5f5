package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate field size
	if config.Width < MinFieldSize || config.Width > MaxFieldSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinFieldSize, MaxFieldSize, config.Width)
	}
	if config.Height < MinFieldSize || config.Height > MaxFieldSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinFieldSize, MaxFieldSize, config.Height)
	}

	// Validate level scaling
	if config.PursuersPerLevel < 1 {
		return fmt.Errorf("config validation: pursuers_per_level must be at least 1, got %d", config.PursuersPerLevel)
	}
	if config.MaxPursuers < config.PursuersPerLevel {
		return fmt.Errorf("config validation: max_pursuers (%d) must be at least pursuers_per_level (%d)",
			config.MaxPursuers, config.PursuersPerLevel)
	}
	if free := config.Width*config.Height - 1; config.MaxPursuers > free {
		return fmt.Errorf("config validation: max_pursuers %d exceeds the %d free cells of a %dx%d field",
			config.MaxPursuers, free, config.Width, config.Height)
	}
	if config.LevelBonus < 0 {
		return fmt.Errorf("config validation: level_bonus cannot be negative, got %d", config.LevelBonus)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Win == "" {
		return fmt.Errorf("config validation: messages.win is required")
	}
	if config.Messages.Lose == "" {
		return fmt.Errorf("config validation: messages.lose is required")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.Win, "%d") {
		return fmt.Errorf("config validation: messages.win must contain %%d for the level")
	}
	if config.Messages.Status != "" && strings.Count(config.Messages.Status, "%d") != 2 {
		return fmt.Errorf("config validation: messages.status must contain %%d for level and score")
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the built-in configuration used when none is provided
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:             "classic",
		Description:      "The classic robots chase on a 60x20 field",
		Width:            60,
		Height:           20,
		PursuersPerLevel: DefaultPursuers,
		MaxPursuers:      DefaultMaxPursuers,
		LevelBonus:       DefaultLevelBonus,
		Messages: Messages{
			Welcome:     "***Robots*** Lure the pursuers into each other!",
			Win:         "you win (level %d cleared)",
			Lose:        "you lose",
			InvalidMove: "Can't move there!",
			Unknown:     "Unknown command",
			Frozen:      "Pursuers frozen",
			Unfrozen:    "Pursuers moving again",
			Quit:        "Game ended",
			Status:      "level: %d, score: %d",
		},
	}
}

// PursuerCountForLevel returns how many pursuers a level starts with
func PursuerCountForLevel(config *GameConfig, level int) int {
	n := level * config.PursuersPerLevel
	if n > config.MaxPursuers {
		n = config.MaxPursuers
	}
	if n < 0 {
		n = 0
	}
	return n
}
