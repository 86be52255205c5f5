package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `{
	"name": "test",
	"description": "Test configuration",
	"width": 10,
	"height": 10,
	"pursuers_per_level": 3,
	"max_pursuers": 12,
	"level_bonus": 10,
	"messages": {
		"welcome": "Welcome!",
		"win": "Level %d cleared",
		"lose": "Caught!",
		"status": "level %d score %d"
	}
}`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "test.json", validConfig)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "test.json" {
		t.Errorf("Expected file name test.json, got %s", result.File)
	}

	info := strings.Join(result.Errors, "\n")
	for _, want := range []string{"✓ Name: test", "✓ Arena: 10x10 (100 cells)", "max 12 reached at level 4"} {
		if !strings.Contains(info, want) {
			t.Errorf("Expected %q in info:\n%s", want, info)
		}
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid JSON",
			content: `{"name": "test", invalid json}`,
			wantErr: "Invalid JSON",
		},
		{
			name:    "unknown field",
			content: strings.Replace(validConfig, `"width": 10,`, `"width": 10, "grid_size": 5,`, 1),
			wantErr: "unknown field",
		},
		{
			name:    "arena too small",
			content: strings.Replace(validConfig, `"width": 10,`, `"width": 3,`, 1),
			wantErr: "width must be between",
		},
		{
			name:    "max below per level",
			content: strings.Replace(validConfig, `"max_pursuers": 12,`, `"max_pursuers": 2,`, 1),
			wantErr: "max_pursuers (2) must be at least pursuers_per_level (3)",
		},
		{
			name:    "win message without level",
			content: strings.Replace(validConfig, `"Level %d cleared"`, `"Cleared"`, 1),
			wantErr: "messages.win must contain %d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "bad.json", tt.content)

			result := validateConfig(path)
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !strings.Contains(strings.Join(result.Errors, "\n"), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Error("Expected missing file to be invalid")
	}
	if !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Unexpected error %v", result.Errors)
	}
}

func TestValidateConfig_CrowdingWarning(t *testing.T) {
	crowded := strings.NewReplacer(
		`"pursuers_per_level": 3,`, `"pursuers_per_level": 10,`,
		`"max_pursuers": 12,`, `"max_pursuers": 40,`,
	).Replace(validConfig)
	path := writeConfig(t, t.TempDir(), "crowded.json", crowded)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Crowding is a warning, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Level 3 starts with 30 pursuers") {
		t.Errorf("Unexpected warnings %v", result.Warnings)
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "good.json", validConfig)

	var out bytes.Buffer
	ok, err := validateDir(dir, &out)
	if err != nil || !ok {
		t.Fatalf("Expected valid directory, got ok=%v err=%v", ok, err)
	}
	if !strings.Contains(out.String(), "All configurations are valid") {
		t.Errorf("Unexpected report:\n%s", out.String())
	}

	writeConfig(t, dir, "bad.json", `{}`)
	out.Reset()
	ok, err = validateDir(dir, &out)
	if err != nil || ok {
		t.Fatalf("Expected invalid directory, got ok=%v err=%v", ok, err)
	}
	if !strings.Contains(out.String(), "❌ INVALID") {
		t.Errorf("Unexpected report:\n%s", out.String())
	}

	if _, err := validateDir(t.TempDir(), &out); err == nil {
		t.Error("Expected error for directory without configs")
	}
}

func TestValidateDir_ShippedConfigs(t *testing.T) {
	configDir := filepath.Join("..", "configs")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Skip("configs directory not found")
	}

	var out bytes.Buffer
	ok, err := validateDir(configDir, &out)
	if err != nil {
		t.Fatalf("validateDir failed: %v", err)
	}
	if !ok {
		t.Errorf("Shipped configurations should be valid:\n%s", out.String())
	}
}
