package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"debt-planner/domain"
)

const dateLayout = "Jan 2006"

// RenderPlan renders the per-debt results of a plan in payoff order.
func RenderPlan(plan domain.Plan) string {
	var b strings.Builder

	if plan.InsufficientBudget {
		b.WriteString(RenderWarning("Budget %s does not cover the minimum payments of %s.",
			FormatMoney(plan.Budget), FormatMoney(plan.RequiredMinimum)))
		b.WriteString("\n")
	}

	results := make([]domain.PayoffResult, 0, len(plan.Results))
	for _, r := range plan.Results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Months != results[j].Months {
			return results[i].Months < results[j].Months
		}
		return results[i].DebtID < results[j].DebtID
	})

	rows := make([][]string, 0, len(results)+2)
	for _, r := range results {
		rows = append(rows, []string{
			r.DebtID,
			statusLabel(r.Status),
			FormatMonths(r.Months),
			r.PayoffDate.Format(dateLayout),
			FormatMoney(r.TotalInterest),
			FormatMoney(r.TotalPaid),
			strconv.Itoa(len(r.RedistributionHistory)),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"Total", "", FormatMonths(plan.Months), "",
		FormatMoney(plan.TotalInterest), FormatMoney(plan.TotalPaid), "",
	})

	b.WriteString(RenderTable(Table{
		Title:   fmt.Sprintf("%s  budget %s/month", strings.ToUpper(string(plan.Strategy)), FormatMoney(plan.Budget)),
		Headers: []string{"Debt", "Status", "Time", "Paid off", "Interest", "Total paid", "Rollovers"},
		Rows:    rows,
	}))

	for _, r := range plan.Rejected {
		b.WriteString(RenderWarning("%s skipped: %s", r.DebtID, r.Reason))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderComparison renders each strategy next to the minimum-only baseline.
func RenderComparison(c domain.Comparison) string {
	rows := make([][]string, 0, len(c.Outcomes)+2)
	for _, o := range c.Outcomes {
		name := string(o.Strategy)
		if o.Strategy == c.Best {
			name = goodStyle.Render(name + " *")
		}
		rows = append(rows, outcomeRow(name, o))
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, outcomeRow(mutedStyle.Render("minimums only"), c.Baseline))

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   "STRATEGY COMPARISON",
		Headers: []string{"Strategy", "Budget", "Interest", "Time"},
		Rows:    rows,
	}))
	b.WriteString(RenderNote("Best: %s, saves %s and %s against minimum payments only.",
		c.Best, FormatMoney(c.InterestSaved), FormatMonths(c.MonthsSaved)))
	b.WriteString("\n")
	return b.String()
}

func outcomeRow(name string, o domain.StrategyOutcome) []string {
	months := FormatMonths(o.Months)
	if o.InsufficientBudget {
		months = badStyle.Render("never")
	}
	return []string{name, FormatMoney(o.Budget), FormatMoney(o.TotalInterest), months}
}

// RenderSchedule renders an amortization schedule. Long schedules show the
// first and last maxRows/2 months.
func RenderSchedule(res domain.ScheduleResult, maxRows int) string {
	entries := res.Entries
	rows := make([][]string, 0, len(entries)+3)
	skipFrom, skipTo := -1, -1
	if maxRows > 0 && len(entries) > maxRows {
		skipFrom, skipTo = maxRows/2, len(entries)-maxRows/2
	}
	for i, e := range entries {
		if i == skipFrom {
			rows = append(rows, []string{"...", "", "", "", "", ""})
		}
		if i >= skipFrom && i < skipTo {
			continue
		}
		rows = append(rows, []string{
			e.Date.Format(dateLayout),
			FormatMoney(e.StartingBalance),
			FormatMoney(e.Payment),
			FormatMoney(e.Principal),
			FormatMoney(e.Interest),
			FormatMoney(e.EndingBalance),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", "", FormatMoney(res.TotalPaid), "", FormatMoney(res.TotalInterest), ""})

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   fmt.Sprintf("SCHEDULE  %s/month over %s", FormatMoney(res.MonthlyPayment), FormatMonths(res.Months)),
		Headers: []string{"Month", "Balance", "Payment", "Principal", "Interest", "Remaining"},
		Rows:    rows,
	}))
	if !res.PaidOff {
		b.WriteString(RenderWarning("Not paid off within %s.", FormatMonths(res.Months)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderAdvice renders ranked budget recommendations.
func RenderAdvice(res domain.BudgetAdviceResult) string {
	rows := make([][]string, 0, len(res.Recommendations))
	for i, r := range res.Recommendations {
		rank := strconv.Itoa(i + 1)
		if i == 0 {
			rank = goodStyle.Render(rank)
		}
		rows = append(rows, []string{
			rank,
			FormatMoney(r.Budget),
			FormatMoney(r.TotalInterest),
			FormatMonths(r.Months),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
		})
	}
	return RenderTable(Table{
		Title:   "BUDGET RECOMMENDATIONS",
		Headers: []string{"#", "Budget", "Interest", "Time", "Score"},
		Rows:    rows,
	})
}

func statusLabel(s domain.PayoffStatus) string {
	switch s {
	case domain.StatusPaid:
		return goodStyle.Render(string(s))
	case domain.StatusInvalid:
		return badStyle.Render(string(s))
	default:
		return warnStyle.Render(string(s))
	}
}
