package orders

import (
	"context"
	"sort"
	"time"

	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/storage"
)

// Dashboard periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Bucket is one time slice of the sales chart.
type Bucket struct {
	Label  string  `json:"label"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

// Dashboard is the back-office overview: totals, a status breakdown and a
// per-period sales series. Cancelled orders count toward the status
// breakdown but not toward sales.
type Dashboard struct {
	TotalOrders   int            `json:"totalOrders"`
	TotalSales    float64        `json:"totalSales"`
	PendingOrders int            `json:"pendingOrders"`
	StatusCounts  map[string]int `json:"statusCounts"`
	Series        []Bucket       `json:"series"`
}

// Dashboard aggregates all orders in one linear pass. period selects the
// bucket size of the sales series; anything unrecognized falls back to
// daily.
func (e *Engine) Dashboard(ctx context.Context, period string) (*Dashboard, error) {
	all, err := e.store.Orders().List(ctx, storage.OrderFilter{})
	if err != nil {
		return nil, err
	}

	d := &Dashboard{StatusCounts: make(map[string]int)}
	buckets := make(map[string]*Bucket)

	for _, order := range all {
		d.TotalOrders++
		d.StatusCounts[order.Status]++
		if order.Status == models.OrderStatusPending {
			d.PendingOrders++
		}
		if order.Status == models.OrderStatusCancelled {
			continue
		}
		d.TotalSales += order.Total

		label := bucketLabel(order.CreatedAt.Local(), period)
		b, ok := buckets[label]
		if !ok {
			b = &Bucket{Label: label}
			buckets[label] = b
		}
		b.Orders++
		b.Sales += order.Total
	}

	d.Series = make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		d.Series = append(d.Series, *b)
	}
	sort.Slice(d.Series, func(i, j int) bool { return d.Series[i].Label < d.Series[j].Label })

	return d, nil
}

// bucketLabel maps a timestamp to its calendar bucket. Weeks start on
// Sunday and are labelled by their first day.
func bucketLabel(t time.Time, period string) string {
	switch period {
	case PeriodMonthly:
		return t.Format("2006-01")
	case PeriodWeekly:
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return start.Format("2006-01-02")
	default:
		return t.Format("2006-01-02")
	}
}
