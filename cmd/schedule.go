package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"debt-planner/cli"
	"debt-planner/domain"
	"debt-planner/service"
)

var (
	flagBalance string
	flagRate    string
	flagPayment string
	flagTerm    int
	flagStart   string
	flagRows    int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Amortization schedule for a single debt",
	Example: `  payoff schedule --balance 10000 --rate 12 --term 24
  payoff schedule --balance 2500 --rate 19.99 --payment 150 --start 2026-01`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&flagBalance, "balance", "", "Outstanding balance")
	scheduleCmd.Flags().StringVar(&flagRate, "rate", "0", "Annual interest rate in percent")
	scheduleCmd.Flags().StringVar(&flagPayment, "payment", "", "Fixed monthly payment")
	scheduleCmd.Flags().IntVar(&flagTerm, "term", 0, "Term in months, used when no payment is given")
	scheduleCmd.Flags().StringVar(&flagStart, "start", "", "First month as YYYY-MM (default: current month)")
	scheduleCmd.Flags().IntVar(&flagRows, "rows", 24, "Rows to show in the table, 0 shows all")
	_ = scheduleCmd.MarkFlagRequired("balance")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	req, err := scheduleRequest()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := service.NewScheduleService(a.opts).BuildSchedule(cmd.Context(), req)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(res)
	}
	fmt.Println()
	fmt.Print(cli.RenderSchedule(res, flagRows))
	return nil
}

func scheduleRequest() (domain.ScheduleRequest, error) {
	var req domain.ScheduleRequest
	var err error

	if req.Balance, err = decimal.NewFromString(flagBalance); err != nil {
		return req, fmt.Errorf("invalid --balance %q: %w", flagBalance, err)
	}
	if req.AnnualRate, err = decimal.NewFromString(flagRate); err != nil {
		return req, fmt.Errorf("invalid --rate %q: %w", flagRate, err)
	}
	if flagPayment != "" {
		if req.MonthlyPayment, err = decimal.NewFromString(flagPayment); err != nil {
			return req, fmt.Errorf("invalid --payment %q: %w", flagPayment, err)
		}
	}
	req.TermMonths = flagTerm
	if flagStart != "" {
		start, err := domain.ParseMonth(flagStart)
		if err != nil {
			return req, err
		}
		req.Start = &start
	}
	return req, nil
}
