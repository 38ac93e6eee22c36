package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/finance-dashboard/internal/entity/budget"
	"max.ks1230/finance-dashboard/internal/entity/ledger"
)

type thresholds struct {
	high     float64
	moderate float64
}

func (t thresholds) HighThreshold() float64     { return t.high }
func (t thresholds) ModerateThreshold() float64 { return t.moderate }

func defaultAnalyzer() *Analyzer {
	return New(thresholds{high: 2000, moderate: 1500})
}

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func record(amount float64, y int, m time.Month, d int, category string) ledger.ExpenseRecord {
	return ledger.ExpenseRecord{
		Amount:   amount,
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Month:    month(y, m),
		Category: category,
	}
}

func Test_OnAdvisories_ShouldClassifyBoundaryAmounts(t *testing.T) {
	agg := MonthlyAggregate{
		month(2024, time.January):  2000,    // boundary goes to the lower tier
		month(2024, time.February): 2000.01, // first amount above the boundary
		month(2024, time.March):    1500,
		month(2024, time.April):    1500.01,
	}

	advice := defaultAnalyzer().Advisories(agg)

	require.Len(t, advice, 4)
	assert.Equal(t, AdviceModerate, advice[0].Level)
	assert.Equal(t, AdviceHigh, advice[1].Level)
	assert.Equal(t, AdviceGood, advice[2].Level)
	assert.Equal(t, AdviceModerate, advice[3].Level)
}

func Test_OnAdvisories_ShouldSortByMonthAscending(t *testing.T) {
	agg := MonthlyAggregate{
		month(2024, time.March):   100,
		month(2023, time.October): 100,
		month(2024, time.January): 100,
	}

	advice := defaultAnalyzer().Advisories(agg)

	require.Len(t, advice, 3)
	assert.Equal(t, month(2023, time.October), advice[0].Month)
	assert.Equal(t, month(2024, time.January), advice[1].Month)
	assert.Equal(t, month(2024, time.March), advice[2].Month)
}

func Test_OnMonthlyAggregate_ShouldSumToTotalSpending(t *testing.T) {
	l := ledger.Ledger{
		record(50, 2024, time.January, 5, "Groceries"),
		record(2200, 2024, time.January, 20, "Dining"),
		record(17.25, 2024, time.February, 2, ""),
		record(3, 2024, time.February, 28, "Transport"),
	}

	sum := 0.0
	for _, amount := range Monthly(l) {
		sum += amount
	}

	assert.InDelta(t, TotalSpending(l), sum, 1e-9)
}

func Test_OnByCategory_ShouldSkipUncategorizedRecords(t *testing.T) {
	l := ledger.Ledger{
		record(50, 2024, time.January, 5, "Groceries"),
		record(30, 2024, time.January, 6, ""),
		record(20, 2024, time.January, 7, "Groceries"),
	}

	agg := ByCategory(l)

	assert.Equal(t, CategoryAggregate{"Groceries": 70}, agg)
	assert.Equal(t, 100.0, TotalSpending(l))
}

func Test_OnOverspendAlerts_ShouldBeStrictlyGreater(t *testing.T) {
	limits := budget.Limits{"Groceries": 100, "Dining": 100}
	agg := CategoryAggregate{
		"Groceries": 100,    // exactly at the limit, no alert
		"Dining":    100.01, // above
		"Vacation":  350,    // unknown category, default limit applies
	}

	alerts := OverspendAlerts(agg, limits)

	require.Len(t, alerts, 2)
	assert.Equal(t, OverspendAlert{Category: "Vacation", Spent: 350, Limit: budget.DefaultLimit}, alerts[0])
	assert.Equal(t, OverspendAlert{Category: "Dining", Spent: 100.01, Limit: 100}, alerts[1])
}

func Test_OnBuildReport_ShouldMatchSampleLedger(t *testing.T) {
	l := ledger.Ledger{
		record(50, 2024, time.January, 5, "Groceries"),
		record(2200, 2024, time.January, 20, "Dining"),
	}

	report := defaultAnalyzer().BuildReport(l, budget.DefaultLimits())

	assert.Equal(t, 2250.0, report.TotalSpending)
	require.Len(t, report.Monthly, 1)
	assert.Equal(t, MonthPoint{Month: month(2024, time.January), Amount: 2250}, report.Monthly[0])

	require.Len(t, report.Advisories, 1)
	assert.Equal(t, AdviceHigh, report.Advisories[0].Level)
	assert.Contains(t, report.Advisories[0].Message, "Cut dining or subscriptions")

	require.Len(t, report.Categories, 2)
	assert.Equal(t, CategoryPoint{Category: "Dining", Amount: 2200}, report.Categories[0])
	assert.Equal(t, CategoryPoint{Category: "Groceries", Amount: 50}, report.Categories[1])

	require.Len(t, report.Alerts, 1)
	assert.Equal(t, OverspendAlert{Category: "Dining", Spent: 2200, Limit: 300}, report.Alerts[0])
}

func Test_OnBuildReport_ShouldHandleEmptyLedger(t *testing.T) {
	report := defaultAnalyzer().BuildReport(nil, budget.DefaultLimits())

	assert.Zero(t, report.TotalSpending)
	assert.Empty(t, report.Monthly)
	assert.Empty(t, report.Advisories)
	assert.Empty(t, report.Categories)
	assert.Empty(t, report.Alerts)
}
