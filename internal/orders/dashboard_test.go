package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/curemart/internal/models"
)

func TestBucketLabel(t *testing.T) {
	// 2026-08-26 is a Wednesday; its week starts Sunday 2026-08-23.
	wednesday := time.Date(2026, 8, 26, 15, 30, 0, 0, time.Local)

	assert.Equal(t, "2026-08-26", bucketLabel(wednesday, PeriodDaily))
	assert.Equal(t, "2026-08-23", bucketLabel(wednesday, PeriodWeekly))
	assert.Equal(t, "2026-08", bucketLabel(wednesday, PeriodMonthly))

	sunday := time.Date(2026, 8, 23, 0, 0, 1, 0, time.Local)
	assert.Equal(t, "2026-08-23", bucketLabel(sunday, PeriodWeekly))

	assert.Equal(t, "2026-08-26", bucketLabel(wednesday, "bogus"))
}

func TestDashboardAggregation(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 8, 25, 10, 0, 0, 0, time.Local)

	seed := func(status string, total float64, at time.Time) {
		order := &models.Order{Status: status, Total: total}
		order.CreatedAt = at
		require.NoError(t, store.Orders().Create(ctx, order))
	}

	seed(models.OrderStatusPending, 100, day1)
	seed(models.OrderStatusDelivered, 250, day1)
	seed(models.OrderStatusConfirmed, 80, day2)
	// Cancelled orders count as orders but never as sales.
	seed(models.OrderStatusCancelled, 999, day2)

	dashboard, err := engine.Dashboard(ctx, PeriodDaily)
	require.NoError(t, err)

	assert.Equal(t, 4, dashboard.TotalOrders)
	assert.Equal(t, 430.0, dashboard.TotalSales)
	assert.Equal(t, 1, dashboard.PendingOrders)
	assert.Equal(t, 1, dashboard.StatusCounts[models.OrderStatusCancelled])

	require.Len(t, dashboard.Series, 2)
	assert.Equal(t, "2026-08-24", dashboard.Series[0].Label)
	assert.Equal(t, 2, dashboard.Series[0].Orders)
	assert.Equal(t, 350.0, dashboard.Series[0].Sales)
	assert.Equal(t, "2026-08-25", dashboard.Series[1].Label)
	assert.Equal(t, 1, dashboard.Series[1].Orders)
	assert.Equal(t, 80.0, dashboard.Series[1].Sales)

	weekly, err := engine.Dashboard(ctx, PeriodWeekly)
	require.NoError(t, err)
	require.Len(t, weekly.Series, 1)
	assert.Equal(t, "2026-08-23", weekly.Series[0].Label)
	assert.Equal(t, 3, weekly.Series[0].Orders)
}
