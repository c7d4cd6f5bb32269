package core

import "fmt"

// GroupTotal is one row of the store-side grouped sum: the matching records of
// a single category within a single calendar month.
type GroupTotal struct {
	Category Category
	Year     int
	Month    int // 1-12
	Total    Money
	Count    int
}

// CategoryTotal is a category's share of a summary.
type CategoryTotal struct {
	Category    Category
	TotalAmount Money
	Count       int
	Percentage  float64
}

// MonthTotal aggregates a calendar month.
type MonthTotal struct {
	Year        int
	Month       int
	Period      string
	TotalAmount Money
	Count       int
}

// Summary is the aggregate view over a filtered record set.
type Summary struct {
	TotalAmount     Money
	TotalExpenses   int
	CategorySummary []CategoryTotal
	MonthSummary    []MonthTotal
}

// Period formats a year and month as YYYY-MM.
func Period(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
