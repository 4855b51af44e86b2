package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izakaya-order/internal/models"
)

var jst = time.FixedZone("JST", 9*60*60)

func order(id string, status models.OrderStatus, amount int, ts time.Time) models.Order {
	return models.Order{ID: id, TableID: "1", Status: status, TotalAmount: amount, Timestamp: ts}
}

func TestDailySummaries_FiltersAndGroups(t *testing.T) {
	day1 := time.Date(2026, 10, 17, 19, 0, 0, 0, jst)
	day2 := time.Date(2026, 10, 18, 19, 0, 0, 0, jst)

	orders := []models.Order{
		order("o1", models.StatusServed, 1000, day1),
		order("o2", models.StatusPending, 5000, day2),
		order("o3", models.StatusPaid, 2300, day2),
		order("o4", models.StatusCancelled, 800, day1),
		order("o5", models.StatusPaid, 700, day1.Add(time.Hour)),
		order("o6", models.StatusServed, 1200, day2.Add(-time.Hour)),
	}

	got := DailySummaries(orders, jst)
	require.Len(t, got, 2)

	assert.Equal(t, "2026-10-18", got[0].Day)
	assert.Equal(t, "2026/10/18(日)", got[0].Date)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 3500, got[0].TotalAmount)
	assert.Equal(t, []string{"o3", "o6"}, ids(got[0].Orders), "insertion order within a day")

	assert.Equal(t, "2026-10-17", got[1].Day)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, 1700, got[1].TotalAmount)
	assert.Equal(t, []string{"o1", "o5"}, ids(got[1].Orders))
}

func TestDailySummaries_TotalsMatchFilteredSet(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, jst)
	statuses := []models.OrderStatus{models.StatusPending, models.StatusServed, models.StatusPaid, models.StatusCancelled}

	var orders []models.Order
	wantCount, wantSum := 0, 0
	for i := 0; i < 40; i++ {
		s := statuses[i%len(statuses)]
		o := order("o", s, 100*(i+1), base.Add(time.Duration(i)*7*time.Hour))
		orders = append(orders, o)
		if s == models.StatusServed || s == models.StatusPaid {
			wantCount++
			wantSum += o.TotalAmount
		}
	}

	got := DailySummaries(orders, jst)

	count, sum := 0, 0
	for i, g := range got {
		count += g.Count
		sum += g.TotalAmount
		if i > 0 {
			assert.Greater(t, got[i-1].Day, g.Day, "days sorted newest first")
		}
		for _, o := range g.Orders {
			assert.True(t, o.Status.Completed())
		}
	}
	assert.Equal(t, wantCount, count)
	assert.Equal(t, wantSum, sum)
}

func TestDailySummaries_DayBoundaryFollowsLocation(t *testing.T) {
	// 2026-10-17 16:30 UTC is already 10-18 in Tokyo
	ts := time.Date(2026, 10, 17, 16, 30, 0, 0, time.UTC)
	got := DailySummaries([]models.Order{order("o1", models.StatusPaid, 100, ts)}, jst)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-10-18", got[0].Day)

	got = DailySummaries([]models.Order{order("o1", models.StatusPaid, 100, ts)}, time.UTC)
	assert.Equal(t, "2026-10-17", got[0].Day)
}

func TestDailySummaries_Empty(t *testing.T) {
	got := DailySummaries(nil, jst)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	onlyPending := []models.Order{order("o1", models.StatusPending, 100, time.Now())}
	assert.Empty(t, DailySummaries(onlyPending, jst))
}

func TestTableTotal(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		order("o1", models.StatusPending, 1000, now),
		order("o2", models.StatusCancelled, 500, now),
		order("o3", models.StatusPaid, 300, now),
	}
	assert.Equal(t, 1300, TableTotal(orders))
}

func ids(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}
