package etl

import (
	"sort"

	"txnetl/internal/core"
)

type (
	// DailyRow holds the aggregate metrics for one transaction date.
	DailyRow struct {
		Date             core.Date
		TransactionCount int
		TotalAmount      core.Money
		AvgAmount        core.Money
		MaxAmount        core.Money
	}

	// DailySummary lists one row per distinct date, ascending by date.
	DailySummary []DailyRow

	// CategoryRow holds the aggregate metrics for one merchant category.
	CategoryRow struct {
		Category         string
		TotalSpent       core.Money
		TransactionCount int
	}

	// CategorySummary lists one row per distinct category, descending by
	// total spent. Equal totals keep the order in which the categories
	// first appeared in the cleaned set.
	CategorySummary []CategoryRow
)

// Aggregate derives the two summary views from a cleaned record set.
//
// Grouping keys compare by exact value: date equality for dates, string
// equality for categories, no trimming or case folding. A record with a
// missing amount counts toward its group's transaction_count and
// contributes zero to sum, average, and maximum. An empty input yields
// empty summaries. The function is pure; calling it twice on the same
// input produces identical results.
func Aggregate(clean []core.Record) (DailySummary, CategorySummary) {
	type dailyAccum struct {
		count int
		total core.Money
		max   core.Money
	}
	dailyByDate := make(map[string]*dailyAccum)
	dailyDates := make(map[string]core.Date)

	type categoryAccum struct {
		count int
		total core.Money
	}
	categoryByName := make(map[string]*categoryAccum)
	categoryOrder := make([]string, 0)

	for _, rec := range clean {
		amount := rec.Amount
		if rec.AmountMissing {
			amount = core.Money{}
		}

		key := rec.Date.String()
		day, ok := dailyByDate[key]
		if !ok {
			day = &dailyAccum{max: amount}
			dailyByDate[key] = day
			dailyDates[key] = rec.Date
		}
		day.count++
		day.total = day.total.Add(amount)
		if day.max.Less(amount) {
			day.max = amount
		}

		cat, ok := categoryByName[rec.Category]
		if !ok {
			cat = &categoryAccum{}
			categoryByName[rec.Category] = cat
			categoryOrder = append(categoryOrder, rec.Category)
		}
		cat.count++
		cat.total = cat.total.Add(amount)
	}

	daily := make(DailySummary, 0, len(dailyByDate))
	for key, accum := range dailyByDate {
		daily = append(daily, DailyRow{
			Date:             dailyDates[key],
			TransactionCount: accum.count,
			TotalAmount:      accum.total,
			AvgAmount:        accum.total.DivideRound(int64(accum.count)),
			MaxAmount:        accum.max,
		})
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})

	categories := make(CategorySummary, 0, len(categoryOrder))
	for _, name := range categoryOrder {
		accum := categoryByName[name]
		categories = append(categories, CategoryRow{
			Category:         name,
			TotalSpent:       accum.total,
			TransactionCount: accum.count,
		})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[j].TotalSpent.Less(categories[i].TotalSpent)
	})

	return daily, categories
}
