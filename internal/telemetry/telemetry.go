// Package telemetry provides opt-in anonymous usage telemetry for PlanWing.
//
// Telemetry is off until the user runs `planwing telemetry enable`, which
// records consent in ~/.planwing/telemetry.json. Events carry command and
// tool names, durations, and platform info only. No goals, plans, file
// paths, or other user content ever leave the machine.
package telemetry

import (
	"sync"
	"time"
)

var (
	defaultMu     sync.RWMutex
	defaultClient Client = NewNoopClient()
)

// Init builds the global client from the application settings. The client
// stays a no-op unless the consent file enables telemetry and an API key
// is configured, so callers can invoke Track unconditionally.
func Init(apiKey, endpoint, version string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	if apiKey == "" || !cfg.IsEnabled() {
		return nil
	}

	client, err := NewPostHogClient(ClientConfig{
		APIKey:   apiKey,
		Version:  version,
		Config:   cfg,
		Endpoint: endpoint,
	})
	if err != nil {
		return err
	}
	setDefault(client)
	return nil
}

func setDefault(c Client) {
	defaultMu.Lock()
	defaultClient = c
	defaultMu.Unlock()
}

// Default returns the global telemetry client.
func Default() Client {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClient
}

// Track records an event on the global client.
func Track(event string, properties Properties) {
	Default().Track(event, properties)
}

// TrackCommand records a completed CLI command invocation.
func TrackCommand(command string, duration time.Duration, success bool) {
	Track(EventCommandExecuted, Properties{
		"command":     command,
		"duration_ms": duration.Milliseconds(),
		"success":     success,
	})
}

// TrackToolCall records an MCP tool invocation by name.
func TrackToolCall(tool string) {
	Track(EventToolCalled, Properties{"tool": tool})
}

// Close flushes the global client and resets it to a no-op.
func Close() error {
	defaultMu.Lock()
	client := defaultClient
	defaultClient = NewNoopClient()
	defaultMu.Unlock()
	return client.Close()
}
