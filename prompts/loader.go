package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptKey is a type for identifying specific prompts.
type PromptKey string

const (
	// KeyPlanningGuidance is the key for the guidance returned by start_planning.
	KeyPlanningGuidance PromptKey = "PlanningGuidance"
)

// promptConfig defines the default content and filename for a prompt.
type promptConfig struct {
	defaultContent string
	filename       string
}

// promptRegistry maps a PromptKey to its configuration.
var promptRegistry = map[PromptKey]promptConfig{
	KeyPlanningGuidance: {
		defaultContent: PlanningGuidance,
		filename:       "planning_guidance.txt",
	},
}

// GetPrompt searches for a user-provided prompt file in the project's templates
// directory. If found, it returns the content of that file. Otherwise, it returns
// the hardcoded default prompt content.
func GetPrompt(key PromptKey, templatesDir string) (string, error) {
	config, ok := promptRegistry[key]
	if !ok {
		return "", fmt.Errorf("unrecognized prompt key: %s", key)
	}

	// If templatesDir is not configured or is empty, always use default.
	if strings.TrimSpace(templatesDir) == "" {
		return config.defaultContent, nil
	}

	customPromptPath := filepath.Join(templatesDir, config.filename)

	// Check if the custom prompt file exists.
	if _, err := os.Stat(customPromptPath); err == nil {
		content, readErr := os.ReadFile(customPromptPath)
		if readErr != nil {
			return "", fmt.Errorf("failed to read custom prompt file at %s: %w", customPromptPath, readErr)
		}
		// Inform the user on stderr; stdout may carry MCP traffic.
		fmt.Fprintf(os.Stderr, "Using custom prompt from: %s\n", customPromptPath)
		return string(content), nil
	} else if !os.IsNotExist(err) {
		// Some other error occurred when checking for the file (e.g., permissions).
		return "", fmt.Errorf("error checking for custom prompt file at %s: %w", customPromptPath, err)
	}

	// File does not exist, so return the default content.
	return config.defaultContent, nil
}
