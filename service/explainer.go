package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"debt-planner/config"
	"debt-planner/domain"
)

const systemPrompt = "You are a personal finance coach. You explain debt payoff plans in plain English, " +
	"quote the exact figures you are given and never invent numbers. Keep it short, concrete and encouraging."

// Explainer turns plans into short English explanations. With an API key it
// asks an OpenAI-compatible chat endpoint; otherwise, or when the call fails,
// it uses fixed templates.
type Explainer struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
	logger     *zap.Logger
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewExplainer(cfg config.ExplainerConfig, logger *zap.Logger) *Explainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Explainer{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.APIURL,
		model:   model,
		enabled: cfg.APIKey != "" && cfg.APIURL != "",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("explainer"),
	}
}

// ExplainPlan describes a single-strategy plan.
func (e *Explainer) ExplainPlan(ctx context.Context, plan domain.Plan) string {
	fallback := planFallback(plan)
	if !e.enabled || plan.InsufficientBudget {
		return fallback
	}

	prompt := fmt.Sprintf(`Explain this debt payoff plan in 3-4 sentences.

STRATEGY: %s (%s)
MONTHLY BUDGET: %s
TOTAL INTEREST: %s
MONTHS TO DEBT-FREE: %d (%.1f years)

DEBTS IN PAYOFF ORDER:
%s
Mention which debt is cleared first and how its freed minimum payment rolls into the next one.`,
		plan.Strategy, strategyDescription(plan.Strategy),
		plan.Budget.StringFixed(2), plan.TotalInterest.StringFixed(2),
		plan.Months, float64(plan.Months)/12.0,
		formatPayoffOrder(plan))

	return e.complete(ctx, prompt, fallback)
}

// ExplainComparison describes why the best strategy won.
func (e *Explainer) ExplainComparison(ctx context.Context, c domain.Comparison) string {
	fallback := comparisonFallback(c)
	if !e.enabled {
		return fallback
	}

	var lines strings.Builder
	for _, o := range c.Outcomes {
		fmt.Fprintf(&lines, "- %s: %s interest, %d months\n", o.Strategy, o.TotalInterest.StringFixed(2), o.Months)
	}
	prompt := fmt.Sprintf(`Compare these debt payoff strategies in 3-4 sentences.

%s- minimum payments only: %s interest, %d months

BEST: %s, saving %s in interest and %d months against minimum payments only.
Explain the trade-off between the strategies for this person.`,
		lines.String(),
		c.Baseline.TotalInterest.StringFixed(2), c.Baseline.Months,
		c.Best, c.InterestSaved.StringFixed(2), c.MonthsSaved)

	return e.complete(ctx, prompt, fallback)
}

// ExplainBudget describes the top budget recommendation.
func (e *Explainer) ExplainBudget(ctx context.Context, preference string, top domain.BudgetRecommendation) string {
	fallback := budgetFallback(preference, top)
	if !e.enabled {
		return fallback
	}

	prompt := fmt.Sprintf(`Explain this monthly budget recommendation for paying off debts in 2-3 sentences.

RECOMMENDED MONTHLY BUDGET: %s
TOTAL INTEREST: %s
MONTHS TO DEBT-FREE: %d
USER PREFERENCE: %s`,
		top.Budget.StringFixed(2), top.TotalInterest.StringFixed(2), top.Months, preferenceDescription(preference))

	return e.complete(ctx, prompt, fallback)
}

func (e *Explainer) complete(ctx context.Context, prompt, fallback string) string {
	text, err := e.callLLM(ctx, prompt)
	if err != nil {
		e.logger.Warn("explanation request failed, using template", zap.Error(err))
		return fallback
	}
	return text
}

func (e *Explainer) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", err
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response from model")
	}
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

func planFallback(plan domain.Plan) string {
	if plan.InsufficientBudget {
		return fmt.Sprintf("A monthly budget of %s does not cover the minimum payments of %s. Raise it by at least %s to get a payoff date.",
			plan.Budget.StringFixed(2), plan.RequiredMinimum.StringFixed(2),
			plan.RequiredMinimum.Sub(plan.Budget).StringFixed(2))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "With the %s strategy you are debt-free in %d months (%.1f years) and pay %s in interest. %s",
		plan.Strategy, plan.Months, float64(plan.Months)/12.0, plan.TotalInterest.StringFixed(2),
		strategyTip(plan.Strategy))
	if n := len(plan.Rejected); n > 0 {
		ids := make([]string, 0, n)
		for _, r := range plan.Rejected {
			ids = append(ids, r.DebtID)
		}
		fmt.Fprintf(&b, " %d debt(s) were left out because their minimum payment never pays them off: %s.", n, strings.Join(ids, ", "))
	}
	return b.String()
}

func comparisonFallback(c domain.Comparison) string {
	for _, o := range c.Outcomes {
		if o.Strategy != c.Best {
			continue
		}
		if o.InsufficientBudget {
			return "The monthly budget does not cover the minimum payments, so no strategy reaches a payoff date."
		}
		return fmt.Sprintf("The %s strategy costs %s in interest over %d months, saving %s and %d months compared to paying only the minimums. %s",
			o.Strategy, o.TotalInterest.StringFixed(2), o.Months,
			c.InterestSaved.StringFixed(2), c.MonthsSaved, strategyTip(o.Strategy))
	}
	return ""
}

func budgetFallback(preference string, top domain.BudgetRecommendation) string {
	switch preference {
	case PreferMinimizeInterest:
		return fmt.Sprintf("Paying %s a month keeps total interest down to %s and clears every debt in %d months.",
			top.Budget.StringFixed(2), top.TotalInterest.StringFixed(2), top.Months)
	case PreferMinimizePayment:
		return fmt.Sprintf("A monthly budget of %s leaves the most room in your budget while still clearing every debt in %d months (%s in interest).",
			top.Budget.StringFixed(2), top.Months, top.TotalInterest.StringFixed(2))
	default:
		return fmt.Sprintf("A monthly budget of %s balances the monthly effort against total cost: %s in interest over %d months.",
			top.Budget.StringFixed(2), top.TotalInterest.StringFixed(2), top.Months)
	}
}

func formatPayoffOrder(plan domain.Plan) string {
	results := make([]domain.PayoffResult, 0, len(plan.Results))
	for _, r := range plan.Results {
		if r.Status == domain.StatusPaid {
			results = append(results, r)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Months != results[j].Months {
			return results[i].Months < results[j].Months
		}
		return results[i].DebtID < results[j].DebtID
	})

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "- %s: paid off in month %d (%s), %s interest\n",
			r.DebtID, r.Months, r.PayoffDate.Format("January 2006"), r.TotalInterest.StringFixed(2))
	}
	return b.String()
}

func strategyDescription(kind domain.StrategyKind) string {
	switch kind {
	case domain.Snowball:
		return "smallest balance first"
	case domain.Custom:
		return "the order chosen by the user"
	default:
		return "highest interest rate first"
	}
}

func strategyTip(kind domain.StrategyKind) string {
	switch kind {
	case domain.Snowball:
		return "Clearing the smallest balances first gives you quick wins to stay motivated."
	case domain.Custom:
		return "Your own priority order is followed, and every freed minimum rolls into the next debt on your list."
	default:
		return "Targeting the highest rates first keeps the total interest as low as possible."
	}
}

func preferenceDescription(preference string) string {
	switch preference {
	case PreferMinimizeInterest:
		return "minimize total interest"
	case PreferMinimizePayment:
		return "minimize the monthly payment"
	default:
		return "balance monthly payment and total cost"
	}
}
