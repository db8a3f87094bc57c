package database

import (
	"context"
	"fmt"

	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// models lists every table in creation order. Children follow parents so
// foreign keys resolve.
var models = []any{
	(*tables.Profile)(nil),
	(*tables.UserRole)(nil),
	(*tables.Address)(nil),
	(*tables.Category)(nil),
	(*tables.Product)(nil),
	(*tables.ProductBundle)(nil),
	(*tables.WishlistItem)(nil),
	(*tables.StockAlert)(nil),
	(*tables.Order)(nil),
	(*tables.OrderItem)(nil),
	(*tables.OrderStatusHistory)(nil),
	(*tables.GiftCard)(nil),
	(*tables.GiftCardTransaction)(nil),
	(*tables.ScheduledSale)(nil),
	(*tables.PromotionalBanner)(nil),
	(*tables.SiteSetting)(nil),
	(*tables.Testimonial)(nil),
	(*tables.Review)(nil),
	(*tables.Inquiry)(nil),
	(*tables.EmailCampaign)(nil),
	(*tables.EmailABTest)(nil),
	(*tables.EmailAnalytics)(nil),
	(*tables.EmailPreference)(nil),
	(*tables.AbandonedCart)(nil),
}

type index struct {
	model   any
	name    string
	columns []string
}

var indexes = []index{
	{(*tables.Product)(nil), "idx_products_category", []string{"category"}},
	{(*tables.Product)(nil), "idx_products_active_created", []string{"is_active", "created_at"}},
	{(*tables.Order)(nil), "idx_orders_customer_email", []string{"customer_email"}},
	{(*tables.Order)(nil), "idx_orders_user_id", []string{"user_id"}},
	{(*tables.Order)(nil), "idx_orders_status", []string{"status"}},
	{(*tables.OrderItem)(nil), "idx_order_items_order_id", []string{"order_id"}},
	{(*tables.OrderStatusHistory)(nil), "idx_order_status_history_order_id", []string{"order_id", "created_at"}},
	{(*tables.GiftCardTransaction)(nil), "idx_gift_card_transactions_card", []string{"gift_card_id"}},
	{(*tables.Review)(nil), "idx_reviews_product", []string{"product_id", "is_approved"}},
	{(*tables.EmailAnalytics)(nil), "idx_email_analytics_campaign", []string{"campaign_id"}},
	{(*tables.Address)(nil), "idx_addresses_user", []string{"user_id"}},
}

// foreignKeys are applied after all tables exist; bun's CreateTable cannot
// express ON DELETE behavior from struct tags alone.
var foreignKeys = []string{
	`ALTER TABLE order_items DROP CONSTRAINT IF EXISTS fk_order_items_order,
		ADD CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders (id) ON DELETE CASCADE`,
	`ALTER TABLE order_status_history DROP CONSTRAINT IF EXISTS fk_order_status_history_order,
		ADD CONSTRAINT fk_order_status_history_order FOREIGN KEY (order_id) REFERENCES orders (id) ON DELETE CASCADE`,
	`ALTER TABLE gift_card_transactions DROP CONSTRAINT IF EXISTS fk_gift_card_transactions_card,
		ADD CONSTRAINT fk_gift_card_transactions_card FOREIGN KEY (gift_card_id) REFERENCES gift_cards (id) ON DELETE CASCADE`,
	`ALTER TABLE user_roles DROP CONSTRAINT IF EXISTS fk_user_roles_profile,
		ADD CONSTRAINT fk_user_roles_profile FOREIGN KEY (user_id) REFERENCES profiles (id) ON DELETE CASCADE`,
	`ALTER TABLE wishlist_items DROP CONSTRAINT IF EXISTS fk_wishlist_items_product,
		ADD CONSTRAINT fk_wishlist_items_product FOREIGN KEY (product_id) REFERENCES products (id) ON DELETE CASCADE`,
	`ALTER TABLE reviews DROP CONSTRAINT IF EXISTS fk_reviews_product,
		ADD CONSTRAINT fk_reviews_product FOREIGN KEY (product_id) REFERENCES products (id) ON DELETE CASCADE`,
	`ALTER TABLE gift_cards DROP CONSTRAINT IF EXISTS chk_gift_cards_balance,
		ADD CONSTRAINT chk_gift_cards_balance CHECK (current_balance >= 0 AND current_balance <= initial_balance)`,
}

// Migrate creates missing tables, indexes and constraints. It is safe to
// run repeatedly.
func Migrate(ctx context.Context, db *DB, logger *gecho.Logger) error {
	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
		return fmt.Errorf("failed to enable pgcrypto: %w", err)
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}

	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	for _, stmt := range foreignKeys {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}

	logger.Info("Database schema is up to date",
		gecho.Field("tables", len(models)),
		gecho.Field("indexes", len(indexes)),
	)
	return nil
}
