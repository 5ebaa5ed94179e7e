package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	"github.com/kpraveenraj/lending-engine/internal/engine"
	"github.com/kpraveenraj/lending-engine/internal/repository"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/pkg/money"
)

const statsCacheKey = "stats:overview"

type StatsService struct {
	loans     repository.LoanRepository
	payments  repository.PaymentRepository
	customers repository.CustomerRepository
	redis     *redis.Client
	cacheTTL  time.Duration
}

func NewStatsService(
	loans repository.LoanRepository,
	payments repository.PaymentRepository,
	customers repository.CustomerRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
) *StatsService {
	return &StatsService{
		loans:     loans,
		payments:  payments,
		customers: customers,
		redis:     redisClient,
		cacheTTL:  cacheTTL,
	}
}

// Overview returns the portfolio aggregate as of asOf. The current-day view
// is served from the redis cache when warm; any other as-of date is computed
// fresh. Cache failures degrade to a direct computation.
func (s *StatsService) Overview(ctx context.Context, asOf time.Time) (*domain.PortfolioStats, error) {
	cacheable := s.redis != nil && money.Truncate(asOf).Equal(money.Truncate(time.Now()))

	if cacheable {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats domain.PortfolioStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	loans, err := s.loans.List(ctx, domain.LoanFilter{})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.payments.List(ctx, domain.PaymentFilter{})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	customers, err := s.customers.List(ctx, domain.CustomerFilter{})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	stats := Summarize(loans, payments, customers, asOf)

	if cacheable {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, statsCacheKey, encoded, s.cacheTTL).Err(); err != nil {
				log.WithError(err).Warn("failed to cache portfolio stats")
			}
		}
	}

	return stats, nil
}

// Invalidate drops the cached overview after any loan, payment or customer
// mutation.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, statsCacheKey).Err(); err != nil {
		log.WithError(err).Warn("failed to invalidate stats cache")
	}
}

// Summarize derives the dashboard aggregate from the full collections. It is
// a pure function: empty collections yield zeroed stats, never an error.
//
// Profit is recognized interest income; principal still outstanding on
// defaulted loans counts as a realized write-off against it.
func Summarize(loans []*domain.Loan, payments []*domain.Payment, customers []*domain.Customer, asOf time.Time) *domain.PortfolioStats {
	stats := domain.ZeroPortfolioStats()
	asOf = money.Truncate(asOf)

	for _, loan := range loans {
		stats.Loans.TotalLoans++
		stats.Loans.TotalPrincipalDisbursed = stats.Loans.TotalPrincipalDisbursed.Add(loan.PrincipalAmount)

		switch loan.InterestType {
		case domain.InterestTypeMonthly:
			stats.Loans.MonthlyLoans++
		case domain.InterestTypeDaily:
			stats.Loans.DailyLoans++
		}

		switch loan.Status {
		case domain.LoanStatusActive:
			stats.Loans.ActiveLoans++
			stats.Loans.TotalOutstandingPrincipal = stats.Loans.TotalOutstandingPrincipal.Add(loan.OutstandingPrincipal)

			if accrued, err := engine.AccruedInterest(loan, asOf); err == nil {
				stats.Loans.TotalOutstandingInterest = stats.Loans.TotalOutstandingInterest.Add(accrued)
			}
		case domain.LoanStatusClosed:
			stats.Loans.ClosedLoans++
		case domain.LoanStatusDefaulted:
			stats.Loans.DefaultedLoans++
			stats.Loans.WrittenOffPrincipal = stats.Loans.WrittenOffPrincipal.Add(loan.OutstandingPrincipal)
		}
	}

	for _, payment := range payments {
		if payment.Status != domain.PaymentStatusCompleted {
			continue
		}

		stats.Payments.TotalPayments++
		stats.Payments.TotalAmountReceived = stats.Payments.TotalAmountReceived.Add(payment.Amount)
		stats.Payments.TotalInterestEarned = stats.Payments.TotalInterestEarned.Add(payment.InterestPaid)

		if money.Truncate(payment.PaymentDate).Equal(asOf) {
			stats.Payments.TodayPayments++
			stats.Payments.TodayAmount = stats.Payments.TodayAmount.Add(payment.Amount)
		}
	}

	for _, customer := range customers {
		stats.Customers.TotalCustomers++
		if customer.Status == domain.CustomerStatusActive {
			stats.Customers.ActiveCustomers++
		}
	}

	stats.Loans.TotalInterestEarned = stats.Payments.TotalInterestEarned
	stats.Loans.TotalProfit = stats.Payments.TotalInterestEarned
	stats.Loans.NetProfitLoss = stats.Loans.TotalProfit.Sub(stats.Loans.WrittenOffPrincipal)

	return stats
}
