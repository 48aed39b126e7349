package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit <user-id>",
	Short: "Run a budget audit for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		out, err := env.Orchestrator.AuditBudget(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "audit")
		}
		return printOutcome(out)
	},
}

func printOutcome(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
