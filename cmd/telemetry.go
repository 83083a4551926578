/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/planwing/planwing/internal/telemetry"
	"github.com/spf13/cobra"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage PlanWing's anonymous telemetry settings.

PlanWing can collect anonymous usage statistics to improve the product.
No goal descriptions, plan text, or code is ever collected.

Sending requires both recorded consent and telemetry.enabled in the
config; either side alone keeps telemetry off.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		consent, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}

		if consent.NeedsConsent() {
			cmd.Println("📊 Telemetry: not configured yet")
			cmd.Println("   To enable: planwing telemetry enable")
			return nil
		}

		if consent.IsEnabled() {
			cmd.Println("📊 Telemetry: enabled")
			cmd.Printf("   Anonymous ID: %s\n", consent.AnonymousID)
			cmd.Println()
			cmd.Println("   To disable: planwing telemetry disable")
		} else {
			cmd.Println("📊 Telemetry: disabled")
			cmd.Println()
			cmd.Println("   To enable: planwing telemetry enable")
		}
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		consent, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to load telemetry config: %w", err)
		}
		consent.Enable()
		if err := consent.Save(); err != nil {
			return fmt.Errorf("failed to enable telemetry: %w", err)
		}
		if err := SetTelemetryEnabled(true); err != nil {
			return fmt.Errorf("failed to persist telemetry setting: %w", err)
		}
		cmd.Println("✅ Telemetry enabled. Thank you for helping improve PlanWing!")
		return nil
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		consent, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to load telemetry config: %w", err)
		}
		consent.Disable()
		if err := consent.Save(); err != nil {
			return fmt.Errorf("failed to disable telemetry: %w", err)
		}
		if err := SetTelemetryEnabled(false); err != nil {
			return fmt.Errorf("failed to persist telemetry setting: %w", err)
		}
		cmd.Println("📊 Telemetry disabled.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd)
	telemetryCmd.AddCommand(telemetryEnableCmd)
	telemetryCmd.AddCommand(telemetryDisableCmd)
}
