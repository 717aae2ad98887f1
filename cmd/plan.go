package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"debt-planner/cli"
	"debt-planner/domain"
	"debt-planner/scenario"
)

var (
	flagCompare  bool
	flagBudget   string
	flagStrategy string
	flagOrder    []string
	flagTimeline bool
)

var planCmd = &cobra.Command{
	Use:   "plan <scenario>",
	Short: "Simulate a payoff plan from a JSON, YAML or TOML scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&flagCompare, "compare", false, "Compare every strategy against minimum payments only")
	planCmd.Flags().StringVarP(&flagBudget, "budget", "b", "", "Override the monthly budget")
	planCmd.Flags().StringVarP(&flagStrategy, "strategy", "s", "", "Override the strategy (avalanche, snowball, custom)")
	planCmd.Flags().StringSliceVar(&flagOrder, "order", nil, "Debt ids in payoff order, e.g. --order card,car (implies custom)")
	planCmd.Flags().BoolVar(&flagTimeline, "timeline", false, "Include the month-by-month timeline in JSON output")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	req, err := scenario.LoadPlan(args[0])
	if err != nil {
		return err
	}
	if err := applyPlanFlags(&req); err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	svc := a.payoffService()

	if flagCompare {
		comparison, err := svc.Compare(cmd.Context(), req)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(comparison)
		}
		fmt.Println()
		fmt.Println(cli.RenderTitle("DEBT PAYOFF COMPARISON"))
		fmt.Println()
		fmt.Print(cli.RenderComparison(comparison))
		printExplanation(comparison.Explanation)
		return nil
	}

	resp, err := svc.CalculatePlan(cmd.Context(), req)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(resp)
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DEBT PAYOFF  %d debts", len(req.Debts))))
	fmt.Println()
	fmt.Print(cli.RenderPlan(resp.Plan))
	if resp.ID != "" {
		fmt.Println(cli.RenderNote("Plan %s", resp.ID))
	}
	printExplanation(resp.Explanation)
	return nil
}

func applyPlanFlags(req *domain.PlanRequest) error {
	if flagBudget != "" {
		budget, err := decimal.NewFromString(flagBudget)
		if err != nil {
			return fmt.Errorf("invalid --budget %q: %w", flagBudget, err)
		}
		req.Budget = budget
	}
	kind := domain.StrategyKind(flagStrategy)
	switch {
	case len(flagOrder) > 0:
		if kind != "" && kind != domain.Custom {
			return fmt.Errorf("--order only applies to the custom strategy, not %q", kind)
		}
		req.Strategy = domain.StrategySpec{Kind: domain.Custom, Order: flagOrder}
	case kind == domain.Custom:
		if len(req.Strategy.Order) == 0 {
			return fmt.Errorf("--strategy custom needs --order or an order in the scenario")
		}
		req.Strategy.Kind = domain.Custom
	case kind != "":
		req.Strategy = domain.StrategySpec{Kind: kind}
	}
	if flagTimeline {
		req.IncludeTimeline = true
	}
	return nil
}

func printExplanation(text string) {
	if text == "" {
		return
	}
	fmt.Println()
	fmt.Println(cli.RenderNote("%s", text))
	fmt.Println()
}
