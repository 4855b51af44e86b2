package sales

import (
	"fmt"
	"sort"
	"time"

	"izakaya-order/internal/models"
)

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// FormatDate renders t the way the register prints dates, e.g. 2026/10/18(日)
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d(%s)", t.Year(), int(t.Month()), t.Day(), weekdays[t.Weekday()])
}

// DailySummaries groups served and paid orders by calendar day in loc, newest day
// first. Orders inside a day keep the order they appear in the input. Pending and
// cancelled orders never count toward sales.
func DailySummaries(orders []models.Order, loc *time.Location) []models.DailySummary {
	if loc == nil {
		loc = time.Local
	}

	byDay := make(map[string]*models.DailySummary)
	var days []string

	for _, o := range orders {
		if !o.Status.Completed() {
			continue
		}
		local := o.Timestamp.In(loc)
		day := local.Format("2006-01-02")

		summary, ok := byDay[day]
		if !ok {
			summary = &models.DailySummary{Date: FormatDate(local), Day: day}
			byDay[day] = summary
			days = append(days, day)
		}
		summary.Orders = append(summary.Orders, o)
		summary.TotalAmount += o.TotalAmount
		summary.Count++
	}

	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	out := make([]models.DailySummary, 0, len(days))
	for _, day := range days {
		out = append(out, *byDay[day])
	}
	return out
}

// TableTotal sums what a table has ordered so far, ignoring cancelled orders
func TableTotal(orders []models.Order) int {
	total := 0
	for _, o := range orders {
		if o.Status == models.StatusCancelled {
			continue
		}
		total += o.TotalAmount
	}
	return total
}
