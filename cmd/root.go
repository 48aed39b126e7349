package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Oliver369X/agents-service/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "agents-service",
	Short: "Proactive financial agent orchestrator",
	Long:  "Coordinates reasoning, OCR, ML, ledger, and notification services into proactive financial workflows: budget audits, document registration, savings plans, categorization, insights, and spending alerts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
