package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetPrompt(t *testing.T) {
	tests := []struct {
		name      string
		promptKey PromptKey
		wantError bool
		contains  []string
	}{
		{
			name:      "planning guidance prompt",
			promptKey: KeyPlanningGuidance,
			wantError: false,
			contains:  []string{"save_plan", "complexity", "## "},
		},
		{
			name:      "unknown key",
			promptKey: PromptKey("NoSuchPrompt"),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := GetPrompt(tt.promptKey, t.TempDir())
			if (err != nil) != tt.wantError {
				t.Errorf("GetPrompt() error = %v, wantError %v", err, tt.wantError)
				return
			}
			if !tt.wantError {
				promptLower := strings.ToLower(prompt)
				for _, expected := range tt.contains {
					if !strings.Contains(promptLower, strings.ToLower(expected)) {
						t.Errorf("GetPrompt(%v) missing expected content %q in prompt", tt.promptKey, expected)
					}
				}
			}
		})
	}
}

func TestGetPrompt_CustomOverride(t *testing.T) {
	templatesDir := t.TempDir()
	custom := "plan it your own way"
	if err := os.WriteFile(filepath.Join(templatesDir, "planning_guidance.txt"), []byte(custom), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	prompt, err := GetPrompt(KeyPlanningGuidance, templatesDir)
	if err != nil {
		t.Fatalf("GetPrompt() error = %v", err)
	}
	if prompt != custom {
		t.Errorf("GetPrompt() = %q, want custom content %q", prompt, custom)
	}

	// An empty templates dir falls back to the built-in default.
	fallback, err := GetPrompt(KeyPlanningGuidance, "")
	if err != nil {
		t.Fatalf("GetPrompt() error = %v", err)
	}
	if fallback != PlanningGuidance {
		t.Error("GetPrompt() with no templates dir should return the default guidance")
	}
}
