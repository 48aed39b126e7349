package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Oliver369X/agents-service/internal/model"
)

var (
	categorizeAccount string
	categorizeAmount  float64
	categorizeText    string
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize <user-id>",
	Short: "Classify and register a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		out, err := env.Orchestrator.SmartCategorize(ctx, args[0], model.Transaction{
			AccountID:   categorizeAccount,
			Amount:      categorizeAmount,
			Description: categorizeText,
		})
		if err != nil {
			return eris.Wrap(err, "categorize")
		}
		return printOutcome(out)
	},
}

func init() {
	categorizeCmd.Flags().StringVar(&categorizeAccount, "account", "", "account to register against")
	categorizeCmd.Flags().Float64Var(&categorizeAmount, "amount", 0, "transaction amount (negative for expenses)")
	categorizeCmd.Flags().StringVar(&categorizeText, "text", "", "transaction description")
	_ = categorizeCmd.MarkFlagRequired("account")
	_ = categorizeCmd.MarkFlagRequired("amount")
	_ = categorizeCmd.MarkFlagRequired("text")
	rootCmd.AddCommand(categorizeCmd)
}
