package domain

import "github.com/shopspring/decimal"

// PortfolioStats is the full dashboard aggregate. The three overview
// endpoints serve projections of one computation of this struct.
type PortfolioStats struct {
	Loans     LoanStats     `json:"loans"`
	Customers CustomerStats `json:"customers"`
	Payments  PaymentStats  `json:"payments"`
}

type LoanStats struct {
	TotalLoans                int             `json:"totalLoans"`
	ActiveLoans               int             `json:"activeLoans"`
	ClosedLoans               int             `json:"closedLoans"`
	DefaultedLoans            int             `json:"defaultedLoans"`
	DailyLoans                int             `json:"dailyLoans"`
	MonthlyLoans              int             `json:"monthlyLoans"`
	TotalPrincipalDisbursed   decimal.Decimal `json:"totalPrincipalDisbursed"`
	TotalOutstandingPrincipal decimal.Decimal `json:"totalOutstandingPrincipal"`
	TotalOutstandingInterest  decimal.Decimal `json:"totalOutstandingInterest"`
	TotalInterestEarned       decimal.Decimal `json:"totalInterestEarned"`
	WrittenOffPrincipal       decimal.Decimal `json:"writtenOffPrincipal"`
	TotalProfit               decimal.Decimal `json:"totalProfit"`
	NetProfitLoss             decimal.Decimal `json:"netProfitLoss"`
}

type CustomerStats struct {
	TotalCustomers  int `json:"totalCustomers"`
	ActiveCustomers int `json:"activeCustomers"`
}

type PaymentStats struct {
	TotalPayments       int             `json:"totalPayments"`
	TotalAmountReceived decimal.Decimal `json:"totalAmountReceived"`
	TotalInterestEarned decimal.Decimal `json:"totalInterestEarned"`
	TodayPayments       int             `json:"todayPayments"`
	TodayAmount         decimal.Decimal `json:"todayAmount"`
}

// ZeroPortfolioStats returns a stats aggregate with every decimal explicitly
// zeroed, so empty collections serialize as 0 rather than null.
func ZeroPortfolioStats() *PortfolioStats {
	return &PortfolioStats{
		Loans: LoanStats{
			TotalPrincipalDisbursed:   decimal.Zero,
			TotalOutstandingPrincipal: decimal.Zero,
			TotalOutstandingInterest:  decimal.Zero,
			TotalInterestEarned:       decimal.Zero,
			WrittenOffPrincipal:       decimal.Zero,
			TotalProfit:               decimal.Zero,
			NetProfitLoss:             decimal.Zero,
		},
		Payments: PaymentStats{
			TotalAmountReceived: decimal.Zero,
			TotalInterestEarned: decimal.Zero,
			TodayAmount:         decimal.Zero,
		},
	}
}
