package services

import (
	"context"
	"fmt"
	"time"
	"woodzire_server/database"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	logger *gecho.Logger
	db     *database.DB
	now    func() time.Time
}

func NewDashboardService(logger *gecho.Logger, db *database.DB) *DashboardService {
	return &DashboardService{logger: logger, db: db, now: time.Now}
}

type statusCount struct {
	Status tables.OrderStatus `bun:"status"`
	Count  int                `bun:"count"`
}

// Stats runs the dashboard queries concurrently. Revenue counts every
// order that was not cancelled.
func (ds *DashboardService) Stats(ctx context.Context) (*structs.DashboardStats, error) {
	startTime := time.Now()
	stats := &structs.DashboardStats{OrdersByStatus: make(map[tables.OrderStatus]int, len(tables.OrderStatuses))}
	for _, s := range tables.OrderStatuses {
		stats.OrdersByStatus[s] = 0
	}

	g, ctx := errgroup.WithContext(ctx)

	var counts []statusCount
	g.Go(func() error {
		return ds.db.NewSelect().
			Model((*tables.Order)(nil)).
			Column("status").
			ColumnExpr("count(*) AS count").
			Group("status").
			Scan(ctx, &counts)
	})

	var revenue decimal.NullDecimal
	g.Go(func() error {
		return ds.db.NewSelect().
			Model((*tables.Order)(nil)).
			ColumnExpr("sum(total)").
			Where("status != ?", tables.OrderStatusCancelled).
			Scan(ctx, &revenue)
	})

	g.Go(func() error {
		y, m, d := ds.now().Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, ds.now().Location())
		n, err := database.Query[tables.Order](ds.db).WhereOp("created_at", ">=", midnight).Count(ctx)
		stats.TodayOrders = n
		return err
	})

	g.Go(func() error {
		products, err := database.Query[tables.Product](ds.db).
			Where("is_active", true).
			Where("is_made_to_order", false).
			WhereRaw("stock_quantity <= low_stock_threshold").
			OrderBy("stock_quantity", database.ASC).
			Limit(20).
			All(ctx)
		stats.LowStockProducts = products
		return err
	})

	g.Go(func() error {
		n, err := database.Query[tables.Review](ds.db).Where("is_approved", false).Count(ctx)
		stats.PendingReviews = n
		return err
	})

	g.Go(func() error {
		n, err := database.Query[tables.Inquiry](ds.db).Where("is_read", false).Count(ctx)
		stats.UnreadInquiries = n
		return err
	})

	if err := g.Wait(); err != nil {
		ds.logger.Error("Failed to build dashboard stats", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to build dashboard stats: %w", lib.MapPgError(err))
	}

	for _, c := range counts {
		stats.OrdersByStatus[c.Status] = c.Count
	}
	total := decimal.Zero
	if revenue.Valid {
		total = revenue.Decimal
	}
	stats.Revenue = total.StringFixed(2)
	stats.RevenueFormatted = lib.FormatINR(total)

	ds.logger.Debug("Dashboard stats built", gecho.Field("duration", time.Since(startTime)))
	return stats, nil
}
