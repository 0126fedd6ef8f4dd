package core

// CategoryAmount is an expense total aggregated by category.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// MonthlyFlow is the income/expense pair for one calendar month ("2006-01").
type MonthlyFlow struct {
	Month    string `json:"month"`
	Income   Money  `json:"income"`
	Expenses Money  `json:"expenses"`
}

// AccountSummary is the slim account view returned with analytics.
type AccountSummary struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Type    AccountType `json:"type"`
	Balance Money       `json:"balance"`
}

// AnalyticsSummary is the owner-wide rollup: net worth counts credit card
// balances as debt, everything else as assets.
type AnalyticsSummary struct {
	NetWorth          Money            `json:"netWorth"`
	TotalIncome       Money            `json:"totalIncome"`
	TotalExpenses     Money            `json:"totalExpenses"`
	CategoryBreakdown []CategoryAmount `json:"categoryBreakdown"`
	MonthlyTrends     []MonthlyFlow    `json:"monthlyTrends"`
	Accounts          []AccountSummary `json:"accounts"`
}
