package analyze

import (
	"fmt"
	"sort"
	"time"

	"max.ks1230/finance-dashboard/internal/entity/budget"
	"max.ks1230/finance-dashboard/internal/entity/ledger"
)

type AdviceLevel string

const (
	AdviceGood     AdviceLevel = "good"
	AdviceModerate AdviceLevel = "moderate"
	AdviceHigh     AdviceLevel = "high"
)

// MonthlyAggregate maps first-of-month dates to summed expense amounts.
type MonthlyAggregate map[time.Time]float64

// CategoryAggregate maps category labels to summed expense amounts. Only
// categorized records contribute.
type CategoryAggregate map[string]float64

type MonthlyAdvice struct {
	Month   time.Time   `json:"month"`
	Amount  float64     `json:"amount"`
	Level   AdviceLevel `json:"level"`
	Message string      `json:"message"`
}

type OverspendAlert struct {
	Category string  `json:"category"`
	Spent    float64 `json:"spent"`
	Limit    float64 `json:"limit"`
}

type MonthPoint struct {
	Month  time.Time `json:"month"`
	Amount float64   `json:"amount"`
}

type CategoryPoint struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Report bundles every read operation over one ledger for the presentation
// layer: the total, both aggregate series, per-month advisories and
// overspend alerts.
type Report struct {
	TotalSpending float64          `json:"total_spending"`
	Monthly       []MonthPoint     `json:"monthly"`
	Advisories    []MonthlyAdvice  `json:"advisories"`
	Categories    []CategoryPoint  `json:"categories"`
	Alerts        []OverspendAlert `json:"alerts"`
}

type config interface {
	HighThreshold() float64
	ModerateThreshold() float64
}

// Analyzer classifies monthly spending against the configured advisory
// thresholds. All its operations are pure; session state is owned by the
// caller.
type Analyzer struct {
	high     float64
	moderate float64
}

func New(cfg config) *Analyzer {
	return &Analyzer{
		high:     cfg.HighThreshold(),
		moderate: cfg.ModerateThreshold(),
	}
}

func TotalSpending(l ledger.Ledger) float64 {
	total := 0.0
	for _, rec := range l {
		total += rec.Amount
	}
	return total
}

func Monthly(l ledger.Ledger) MonthlyAggregate {
	agg := make(MonthlyAggregate)
	for _, rec := range l {
		agg[rec.Month] += rec.Amount
	}
	return agg
}

func ByCategory(l ledger.Ledger) CategoryAggregate {
	agg := make(CategoryAggregate)
	for _, rec := range l {
		if rec.Uncategorized() {
			continue
		}
		agg[rec.Category] += rec.Amount
	}
	return agg
}

// Advisories classifies each monthly total. Boundaries are exclusive on the
// upper side: exactly 2000 is moderate, exactly 1500 is good. Results are
// sorted by month ascending.
func (a *Analyzer) Advisories(agg MonthlyAggregate) []MonthlyAdvice {
	res := make([]MonthlyAdvice, 0, len(agg))
	for month, amount := range agg {
		level, message := a.classify(amount)
		res = append(res, MonthlyAdvice{
			Month:   month,
			Amount:  amount,
			Level:   level,
			Message: message,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Month.Before(res[j].Month)
	})
	return res
}

func (a *Analyzer) classify(amount float64) (AdviceLevel, string) {
	switch {
	case amount > a.high:
		return AdviceHigh, fmt.Sprintf("High spending of $%.2f. Cut dining or subscriptions.", amount)
	case amount > a.moderate:
		return AdviceModerate, fmt.Sprintf("Moderate spending at $%.2f. Consider carpooling or cooking.", amount)
	default:
		return AdviceGood, fmt.Sprintf("Excellent! You spent only $%.2f.", amount)
	}
}

// OverspendAlerts reports every category whose aggregate spend strictly
// exceeds its limit. Spending exactly at the limit raises no alert. Alerts
// are sorted by spent descending.
func OverspendAlerts(agg CategoryAggregate, limits budget.Limits) []OverspendAlert {
	res := make([]OverspendAlert, 0)
	for category, spent := range agg {
		limit := limits.For(category)
		if spent > limit {
			res = append(res, OverspendAlert{Category: category, Spent: spent, Limit: limit})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Spent != res[j].Spent {
			return res[i].Spent > res[j].Spent
		}
		return res[i].Category < res[j].Category
	})
	return res
}

// BuildReport runs every read operation over the ledger. An empty ledger
// yields a zero total and empty series, never an error.
func (a *Analyzer) BuildReport(l ledger.Ledger, limits budget.Limits) Report {
	monthly := Monthly(l)
	categories := ByCategory(l)
	return Report{
		TotalSpending: TotalSpending(l),
		Monthly:       sortedMonthly(monthly),
		Advisories:    a.Advisories(monthly),
		Categories:    sortedCategories(categories),
		Alerts:        OverspendAlerts(categories, limits),
	}
}

func sortedMonthly(agg MonthlyAggregate) []MonthPoint {
	res := make([]MonthPoint, 0, len(agg))
	for month, amount := range agg {
		res = append(res, MonthPoint{Month: month, Amount: amount})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Month.Before(res[j].Month)
	})
	return res
}

func sortedCategories(agg CategoryAggregate) []CategoryPoint {
	res := make([]CategoryPoint, 0, len(agg))
	for category, amount := range agg {
		res = append(res, CategoryPoint{Category: category, Amount: amount})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Amount != res[j].Amount {
			return res[i].Amount > res[j].Amount
		}
		return res[i].Category < res[j].Category
	})
	return res
}
