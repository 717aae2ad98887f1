package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"debt-planner/cli"
	"debt-planner/scenario"
	"debt-planner/service"
)

var (
	flagMaxBudget  string
	flagStep       string
	flagPreference string
)

var adviseCmd = &cobra.Command{
	Use:   "advise <scenario>",
	Short: "Recommend a monthly budget for a scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvise,
}

func init() {
	adviseCmd.Flags().StringVar(&flagMaxBudget, "max-budget", "", "Highest budget to try (default: 3x the minimum payments)")
	adviseCmd.Flags().StringVar(&flagStep, "step", "", "Distance between candidate budgets")
	adviseCmd.Flags().StringVarP(&flagPreference, "preference", "p", "",
		"minimize_interest, minimize_payment or balanced")
	rootCmd.AddCommand(adviseCmd)
}

func runAdvise(cmd *cobra.Command, args []string) error {
	req, err := scenario.LoadAdvice(args[0])
	if err != nil {
		return err
	}
	if flagMaxBudget != "" {
		if req.MaxBudget, err = decimal.NewFromString(flagMaxBudget); err != nil {
			return fmt.Errorf("invalid --max-budget %q: %w", flagMaxBudget, err)
		}
	}
	if flagStep != "" {
		if req.Step, err = decimal.NewFromString(flagStep); err != nil {
			return fmt.Errorf("invalid --step %q: %w", flagStep, err)
		}
	}
	if flagPreference != "" {
		req.Preference = flagPreference
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := service.NewBudgetAdvisor(a.explainer(), a.opts).Recommend(cmd.Context(), req)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(res)
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET ADVICE  recommended " + cli.FormatMoney(res.RecommendedBudget)))
	fmt.Println()
	fmt.Print(cli.RenderAdvice(res))
	printExplanation(res.Explanation)
	return nil
}
