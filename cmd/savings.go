package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	savingsTarget float64
	savingsMonths int
)

var savingsCmd = &cobra.Command{
	Use:   "savings <user-id>",
	Short: "Generate a savings plan for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		out, err := env.Orchestrator.SavingsPlan(ctx, args[0], savingsTarget, savingsMonths)
		if err != nil {
			return eris.Wrap(err, "savings")
		}
		return printOutcome(out)
	},
}

func init() {
	savingsCmd.Flags().Float64Var(&savingsTarget, "target", 0, "target amount to save")
	savingsCmd.Flags().IntVar(&savingsMonths, "months", 0, "months to reach the target")
	_ = savingsCmd.MarkFlagRequired("target")
	_ = savingsCmd.MarkFlagRequired("months")
	rootCmd.AddCommand(savingsCmd)
}
