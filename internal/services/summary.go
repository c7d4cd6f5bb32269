package services

import (
	"sort"

	"spendlog/internal/core"
)

type monthKey struct {
	year  int
	month int
}

// BuildSummary rolls grouped (category, month) totals up into a summary.
//
// Both the category and the month partitions are derived from the same rows,
// so each sums exactly to TotalAmount and TotalExpenses. Categories are
// ordered by total descending, then name ascending. Months are ordered newest
// first.
func BuildSummary(groups []core.GroupTotal) core.Summary {
	var (
		total      core.Money
		count      int
		byCategory = map[core.Category]*core.CategoryTotal{}
		byMonth    = map[monthKey]*core.MonthTotal{}
	)

	for _, g := range groups {
		total = total.Add(g.Total)
		count += g.Count

		ct, ok := byCategory[g.Category]
		if !ok {
			ct = &core.CategoryTotal{Category: g.Category}
			byCategory[g.Category] = ct
		}
		ct.TotalAmount = ct.TotalAmount.Add(g.Total)
		ct.Count += g.Count

		k := monthKey{year: g.Year, month: g.Month}
		mt, ok := byMonth[k]
		if !ok {
			mt = &core.MonthTotal{Year: g.Year, Month: g.Month, Period: core.Period(g.Year, g.Month)}
			byMonth[k] = mt
		}
		mt.TotalAmount = mt.TotalAmount.Add(g.Total)
		mt.Count += g.Count
	}

	categories := make([]core.CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		ct.Percentage = core.Percentage(ct.TotalAmount, total)
		categories = append(categories, *ct)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].TotalAmount.Cents != categories[j].TotalAmount.Cents {
			return categories[i].TotalAmount.Cents > categories[j].TotalAmount.Cents
		}
		return categories[i].Category < categories[j].Category
	})

	months := make([]core.MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		months = append(months, *mt)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})

	return core.Summary{
		TotalAmount:     total,
		TotalExpenses:   count,
		CategorySummary: categories,
		MonthSummary:    months,
	}
}
