package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"woodzire_server/database"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

var (
	ErrOrderNotFound       = fmt.Errorf("order %w", lib.ErrNotFound)
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrProductUnavailable  = fmt.Errorf("product is no longer available: %w", lib.ErrInvalid)
	ErrPaymentMethodOff    = errors.New("payment method is not enabled")
	ErrInvalidShippingCost = errors.New("shipping cost must not be negative")
)

type OrderService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	db           *database.DB
	cacheService *CacheService
	settings     SettingsProvider
	notifier     *NotificationService
	now          func() time.Time
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	cacheService *CacheService,
	settings SettingsProvider,
	notifier *NotificationService,
) *OrderService {
	return &OrderService{
		logger:       logger,
		cfg:          cfg,
		db:           db,
		cacheService: cacheService,
		settings:     settings,
		notifier:     notifier,
		now:          time.Now,
	}
}

// cartPlan is a priced cart plus the stock it consumes per product.
type cartPlan struct {
	Lines  []structs.QuoteLine
	Demand map[uuid.UUID]int
}

// planCart prices each line at the effective product price or the bundle
// price. Bundles consume one unit of every component per bundle. Stock is
// checked here for a clear error and again by the guarded decrement.
func planCart(lines []structs.CartLine, products map[uuid.UUID]*tables.Product, bundles map[uuid.UUID]*tables.ProductBundle) (*cartPlan, error) {
	plan := &cartPlan{Demand: make(map[uuid.UUID]int)}

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, lib.NewValidationError("items.quantity", "must be at least 1")
		}

		switch {
		case line.ProductID != nil:
			p, ok := products[*line.ProductID]
			if !ok || !p.IsActive {
				return nil, ErrProductUnavailable
			}
			if !p.IsMadeToOrder {
				plan.Demand[p.ID] += line.Quantity
			}
			plan.Lines = append(plan.Lines, structs.QuoteLine{
				ProductID: &p.ID,
				Name:      p.Name,
				Image:     p.PrimaryImage(),
				UnitPrice: p.EffectivePrice,
				Quantity:  line.Quantity,
			})

		case line.BundleID != nil:
			b, ok := bundles[*line.BundleID]
			if !ok || !b.IsActive {
				return nil, ErrProductUnavailable
			}
			image := b.ImageURL
			for _, id := range b.ProductIDs {
				p, ok := products[id]
				if !ok || !p.IsActive {
					return nil, ErrProductUnavailable
				}
				if !p.IsMadeToOrder {
					plan.Demand[p.ID] += line.Quantity
				}
				if image == "" {
					image = p.PrimaryImage()
				}
			}
			plan.Lines = append(plan.Lines, structs.QuoteLine{
				BundleID:  &b.ID,
				Name:      b.Name,
				Image:     image,
				UnitPrice: b.BundlePrice,
				Quantity:  line.Quantity,
			})

		default:
			return nil, lib.NewValidationError("items", "each line needs a product_id or a bundle_id")
		}
	}

	for id, qty := range plan.Demand {
		if p := products[id]; p.StockQuantity < qty {
			return nil, fmt.Errorf("%w for %s: %d available", ErrInsufficientStock, p.Name, max(p.StockQuantity, 0))
		}
	}
	return plan, nil
}

// restockDemand is the stock a cancelled order gives back, per product.
func restockDemand(items []tables.OrderItem, bundles map[uuid.UUID]*tables.ProductBundle) map[uuid.UUID]int {
	demand := make(map[uuid.UUID]int)
	for _, item := range items {
		switch {
		case item.ProductID != nil:
			demand[*item.ProductID] += item.Quantity
		case item.BundleID != nil:
			if b, ok := bundles[*item.BundleID]; ok {
				for _, id := range b.ProductIDs {
					demand[id] += item.Quantity
				}
			}
		}
	}
	return demand
}

func toAnys[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// loadCart fetches every product and bundle the lines reference, priced
// with today's live sales.
func (os *OrderService) loadCart(ctx context.Context, lines []structs.CartLine) (*cartPlan, error) {
	var productIDs, bundleIDs []uuid.UUID
	for _, l := range lines {
		if l.ProductID != nil {
			productIDs = append(productIDs, *l.ProductID)
		}
		if l.BundleID != nil {
			bundleIDs = append(bundleIDs, *l.BundleID)
		}
	}

	bundles := make(map[uuid.UUID]*tables.ProductBundle)
	if ids := uniqueIDs(bundleIDs); len(ids) > 0 {
		rows, err := database.Query[tables.ProductBundle](os.db).WhereIn("id", toAnys(ids)).All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load bundles: %w", lib.MapPgError(err))
		}
		for i := range rows {
			bundles[rows[i].ID] = &rows[i]
			productIDs = append(productIDs, rows[i].ProductIDs...)
		}
	}

	products := make(map[uuid.UUID]*tables.Product)
	if ids := uniqueIDs(productIDs); len(ids) > 0 {
		rows, err := database.Query[tables.Product](os.db).WhereIn("id", toAnys(ids)).All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load products: %w", lib.MapPgError(err))
		}
		now := os.now()
		sales, err := loadLiveSales(ctx, os.db, now)
		if err != nil {
			os.logger.Warn("Failed to load live sales, pricing without them", gecho.Field("error", err))
		}
		ApplyEffectivePricing(rows, sales, now)
		for i := range rows {
			products[rows[i].ID] = &rows[i]
		}
	}

	return planCart(lines, products, bundles)
}

func (os *OrderService) findGiftCard(ctx context.Context, code string) (*tables.GiftCard, error) {
	code = lib.NormalizeCode(code)
	if code == "" {
		return nil, nil
	}
	card, err := database.Query[tables.GiftCard](os.db).Where("code", code).First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up gift card: %w", lib.MapPgError(err))
	}
	return card, nil
}

// Quote prices a cart without touching stock or gift card balances.
func (os *OrderService) Quote(ctx context.Context, req *structs.QuoteRequest) (*structs.Quote, error) {
	settings, err := os.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := os.loadCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	card, err := os.findGiftCard(ctx, req.GiftCardCode)
	if err != nil {
		return nil, err
	}

	return CalculateQuote(QuoteInput{
		Lines:        plan.Lines,
		Country:      req.Country,
		Settings:     settings,
		GiftCardCode: req.GiftCardCode,
		GiftCard:     card,
		Now:          os.now(),
	}), nil
}

func paymentMethodEnabled(method string, s *structs.StoreSettings) bool {
	switch method {
	case "cod":
		return s.CODEnabled
	case "upi":
		return s.UPIEnabled
	case "razorpay":
		return s.RazorpayEnabled
	}
	return false
}

// Checkout creates the order in one transaction: guarded stock decrements,
// gift card redemption, the order with its items and the initial history
// row. Notifications go out after commit.
func (os *OrderService) Checkout(ctx context.Context, req *structs.CheckoutRequest, userID *uuid.UUID) (*tables.Order, error) {
	startTime := time.Now()

	settings, err := os.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	method := req.PaymentMethod
	if method == "" {
		method = "cod"
	}
	if !paymentMethodEnabled(method, settings) {
		return nil, lib.NewValidationError("payment_method", ErrPaymentMethodOff.Error())
	}

	plan, err := os.loadCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := os.now()
	card, err := os.findGiftCard(ctx, req.GiftCardCode)
	if err != nil {
		return nil, err
	}
	if req.GiftCardCode != "" {
		if err := CheckRedeemable(card, now); err != nil {
			return nil, err
		}
	}

	quote := CalculateQuote(QuoteInput{
		Lines:        plan.Lines,
		Country:      req.ShippingAddress.Country,
		Settings:     settings,
		GiftCardCode: req.GiftCardCode,
		GiftCard:     card,
		Now:          now,
	})

	orderNumber, err := lib.GenerateOrderNumber(now)
	if err != nil {
		return nil, err
	}

	order := &tables.Order{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		UserID:          userID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		ShippingAddress: req.ShippingAddress,
		Subtotal:        quote.Subtotal.Sub(quote.GiftCardDiscount),
		ShippingCost:    quote.ShippingCost,
		Tax:             quote.Tax,
		Total:           quote.GrandTotal,
		PaymentMethod:   method,
		Status:          tables.OrderStatusPending,
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.Subtotal.IsNegative() {
		order.Subtotal = decimal.Zero
	}
	if card != nil && quote.GiftCardDiscount.IsPositive() {
		order.GiftCardCode = card.Code
	}

	changedBy := "system"
	if userID != nil {
		changedBy = userID.String()
	}

	err = database.Transaction(os.db, ctx, func(ctx context.Context, tx bun.Tx) error {
		for id, qty := range plan.Demand {
			affected, err := database.QueryTx[tables.Product](tx).
				Where("id", id).
				Where("is_made_to_order", false).
				WhereOp("stock_quantity", ">=", qty).
				UpdateRaw(ctx, "stock_quantity = stock_quantity - ?, updated_at = ?", qty, now)
			if err != nil {
				return lib.MapPgError(err)
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}

		if _, err := database.QueryTx[tables.Order](tx).Insert(ctx, order); err != nil {
			return lib.MapPgError(err)
		}

		items := make([]tables.OrderItem, len(quote.Lines))
		for i, l := range quote.Lines {
			items[i] = tables.OrderItem{
				OrderID:      order.ID,
				ProductID:    l.ProductID,
				BundleID:     l.BundleID,
				ProductName:  l.Name,
				ProductImage: l.Image,
				UnitPrice:    l.UnitPrice,
				Quantity:     l.Quantity,
				LineTotal:    l.LineTotal,
			}
		}
		inserted, err := database.QueryTx[tables.OrderItem](tx).InsertMany(ctx, items)
		if err != nil {
			return lib.MapPgError(err)
		}
		order.Items = inserted

		if order.GiftCardCode != "" {
			if err := redeemGiftCard(ctx, tx, card.ID, order.ID, quote.GiftCardDiscount, now); err != nil {
				return err
			}
		}

		history := &tables.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    tables.OrderStatusPending,
			Notes:     "order placed",
			ChangedBy: changedBy,
			CreatedAt: now,
		}
		_, err = database.QueryTx[tables.OrderStatusHistory](tx).Insert(ctx, history)
		return lib.MapPgError(err)
	})
	if err != nil {
		if !IsClientError(err) {
			os.logger.Error("Checkout failed",
				gecho.Field("error", err),
				gecho.Field("order_number", orderNumber),
				gecho.Field("duration", time.Since(startTime)))
		}
		return nil, err
	}

	os.logger.Info("Order created",
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("total", order.Total.String()),
		gecho.Field("items", len(order.Items)),
		gecho.Field("duration", time.Since(startTime)))

	os.afterCheckout(order, plan)
	return order, nil
}

// redeemGiftCard decrements the balance only if it still covers amount and
// the card is still usable. A lost race surfaces as ErrGiftCardConflict.
func redeemGiftCard(ctx context.Context, tx bun.Tx, cardID, orderID uuid.UUID, amount decimal.Decimal, now time.Time) error {
	affected, err := database.QueryTx[tables.GiftCard](tx).
		Where("id", cardID).
		Where("is_active", true).
		WhereOp("current_balance", ">=", amount).
		WhereRaw("(usage_limit IS NULL OR usage_count < usage_limit)").
		WhereRaw("(expires_at IS NULL OR expires_at > ?)", now).
		UpdateRaw(ctx, "current_balance = current_balance - ?, usage_count = usage_count + 1, updated_at = ?", amount, now)
	if err != nil {
		return lib.MapPgError(err)
	}
	if affected == 0 {
		return ErrGiftCardConflict
	}

	card, err := database.QueryTx[tables.GiftCard](tx).Where("id", cardID).First(ctx)
	if err != nil || card == nil {
		return fmt.Errorf("failed to reload gift card: %w", lib.MapPgError(err))
	}

	_, err = database.QueryTx[tables.GiftCardTransaction](tx).Insert(ctx, &tables.GiftCardTransaction{
		GiftCardID:   cardID,
		OrderID:      &orderID,
		Amount:       amount,
		Type:         tables.GiftCardTransactionRedemption,
		BalanceAfter: card.CurrentBalance,
		CreatedAt:    now,
	})
	return lib.MapPgError(err)
}

func (os *OrderService) afterCheckout(order *tables.Order, plan *cartPlan) {
	os.notifier.DispatchAsync(&structs.NotificationPayload{
		Type:  structs.NotificationOrderCreated,
		Order: order,
	})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := database.Query[tables.AbandonedCart](os.db).
			Where("email", order.CustomerEmail).
			WhereNull("recovered_at").
			Update(ctx, map[string]any{"recovered_at": order.CreatedAt, "updated_at": order.CreatedAt}); err != nil {
			os.logger.Warn("Failed to mark abandoned cart recovered", gecho.Field("email", order.CustomerEmail), gecho.Field("error", err))
		}

		if len(plan.Demand) == 0 {
			return
		}
		ids := make([]uuid.UUID, 0, len(plan.Demand))
		for id := range plan.Demand {
			ids = append(ids, id)
		}
		if err := os.cacheService.InvalidateProduct(ctx, ids...); err != nil {
			os.logger.Warn("Failed to invalidate product cache", gecho.Field("error", err))
		}

		low, err := database.Query[tables.Product](os.db).
			WhereIn("id", toAnys(ids)).
			WhereRaw("stock_quantity <= low_stock_threshold").
			All(ctx)
		if err != nil {
			os.logger.Warn("Failed to check low stock", gecho.Field("error", err))
			return
		}
		for i := range low {
			p := low[i]
			os.notifier.DispatchAsync(&structs.NotificationPayload{
				Type:    structs.NotificationAdminAlert,
				Product: &p,
				Message: fmt.Sprintf("Low stock: %s has %d left after order %s", p.Name, p.StockQuantity, order.OrderNumber),
			})
		}
	}()
}

// UpdateStatus runs one transition in a transaction. Moving into cancelled
// returns stock for items that are not made to order and refunds any gift
// card redemption; a forced move back out takes both again.
func (os *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req *structs.StatusUpdateRequest, changedBy string) (*tables.Order, error) {
	now := os.now()
	var touched []uuid.UUID

	order, err := database.TransactionWithResult(os.db, ctx, func(ctx context.Context, tx bun.Tx) (*tables.Order, error) {
		order, err := database.QueryTx[tables.Order](tx).Where("id", orderID).ForUpdate().First(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		items, err := database.QueryTx[tables.OrderItem](tx).Where("order_id", orderID).All(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		order.Items = items

		previous := order.Status
		history, err := ApplyTransition(order, req, changedBy, now)
		if err != nil {
			return nil, err
		}
		order.UpdatedAt = now

		if err := database.QueryTx[tables.Order](tx).UpdateModel(ctx, order); err != nil {
			return nil, lib.MapPgError(err)
		}
		if _, err := database.QueryTx[tables.OrderStatusHistory](tx).Insert(ctx, history); err != nil {
			return nil, lib.MapPgError(err)
		}

		switch StockEffect(previous, order.Status) {
		case 1:
			if touched, err = restoreStock(ctx, tx, items, now); err != nil {
				return nil, err
			}
			if err := refundOrderGiftCard(ctx, tx, order.ID, now); err != nil {
				return nil, err
			}
		case -1:
			if touched, err = reserveStock(ctx, tx, items, now); err != nil {
				return nil, err
			}
			if err := rechargeOrderGiftCard(ctx, tx, order.ID, now); err != nil {
				return nil, err
			}
		}
		return order, nil
	})
	if err != nil {
		if !IsClientError(err) {
			os.logger.Error("Failed to update order status",
				gecho.Field("order_id", orderID),
				gecho.Field("status", req.Status),
				gecho.Field("error", err))
		}
		return nil, err
	}

	os.logger.Info("Order status updated",
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("status", order.Status),
		gecho.Field("forced", req.Force))

	if len(touched) > 0 {
		if err := os.cacheService.InvalidateProduct(ctx, touched...); err != nil {
			os.logger.Warn("Failed to invalidate product cache", gecho.Field("error", err))
		}
	}

	notification := structs.NotificationStatusChange
	if order.Status == tables.OrderStatusCancelled {
		notification = structs.NotificationOrderCancelled
	}
	os.notifier.DispatchAsync(&structs.NotificationPayload{Type: notification, Order: order})
	return order, nil
}

// orderDemand expands the order's bundles into per-product quantities.
func orderDemand(ctx context.Context, tx bun.Tx, items []tables.OrderItem) (map[uuid.UUID]int, error) {
	var bundleIDs []uuid.UUID
	for _, item := range items {
		if item.BundleID != nil {
			bundleIDs = append(bundleIDs, *item.BundleID)
		}
	}
	bundles := make(map[uuid.UUID]*tables.ProductBundle)
	if ids := uniqueIDs(bundleIDs); len(ids) > 0 {
		rows, err := database.QueryTx[tables.ProductBundle](tx).WhereIn("id", toAnys(ids)).All(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		for i := range rows {
			bundles[rows[i].ID] = &rows[i]
		}
	}
	return restockDemand(items, bundles), nil
}

func restoreStock(ctx context.Context, tx bun.Tx, items []tables.OrderItem, now time.Time) ([]uuid.UUID, error) {
	demand, err := orderDemand(ctx, tx, items)
	if err != nil {
		return nil, err
	}

	var restored []uuid.UUID
	for id, qty := range demand {
		affected, err := database.QueryTx[tables.Product](tx).
			Where("id", id).
			Where("is_made_to_order", false).
			UpdateRaw(ctx, "stock_quantity = stock_quantity + ?, updated_at = ?", qty, now)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if affected > 0 {
			restored = append(restored, id)
		}
	}
	return restored, nil
}

// reserveStock takes an un-cancelled order's stock again with the same
// guard checkout uses.
func reserveStock(ctx context.Context, tx bun.Tx, items []tables.OrderItem, now time.Time) ([]uuid.UUID, error) {
	demand, err := orderDemand(ctx, tx, items)
	if err != nil {
		return nil, err
	}

	var reserved []uuid.UUID
	for id, qty := range demand {
		affected, err := database.QueryTx[tables.Product](tx).
			Where("id", id).
			Where("is_made_to_order", false).
			WhereOp("stock_quantity", ">=", qty).
			UpdateRaw(ctx, "stock_quantity = stock_quantity - ?, updated_at = ?", qty, now)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if affected > 0 {
			reserved = append(reserved, id)
			continue
		}
		tracked, err := database.QueryTx[tables.Product](tx).
			Where("id", id).
			Where("is_made_to_order", false).
			Exists(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if tracked {
			return nil, ErrInsufficientStock
		}
	}
	return reserved, nil
}

// lastRedemption is the most recent charge the order made against a gift card.
func lastRedemption(ctx context.Context, tx bun.Tx, orderID uuid.UUID) (*tables.GiftCardTransaction, error) {
	txn, err := database.QueryTx[tables.GiftCardTransaction](tx).
		Where("order_id", orderID).
		Where("type", tables.GiftCardTransactionRedemption).
		OrderBy("created_at", database.DESC).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return txn, nil
}

func refundOrderGiftCard(ctx context.Context, tx bun.Tx, orderID uuid.UUID, now time.Time) error {
	redemption, err := lastRedemption(ctx, tx, orderID)
	if err != nil || redemption == nil {
		return err
	}

	card, err := database.QueryTx[tables.GiftCard](tx).Where("id", redemption.GiftCardID).ForUpdate().First(ctx)
	if err != nil {
		return lib.MapPgError(err)
	}
	if card == nil {
		return nil
	}

	credited := RefundGiftCard(card, redemption.Amount, now)
	if err := database.QueryTx[tables.GiftCard](tx).UpdateModel(ctx, card, "current_balance", "usage_count", "updated_at"); err != nil {
		return lib.MapPgError(err)
	}
	_, err = database.QueryTx[tables.GiftCardTransaction](tx).Insert(ctx, &tables.GiftCardTransaction{
		GiftCardID:   card.ID,
		OrderID:      &orderID,
		Amount:       credited,
		Type:         tables.GiftCardTransactionAdjustment,
		BalanceAfter: card.CurrentBalance,
		CreatedAt:    now,
	})
	return lib.MapPgError(err)
}

// rechargeOrderGiftCard redeems the order's last charge again after a
// forced un-cancel.
func rechargeOrderGiftCard(ctx context.Context, tx bun.Tx, orderID uuid.UUID, now time.Time) error {
	redemption, err := lastRedemption(ctx, tx, orderID)
	if err != nil || redemption == nil {
		return err
	}
	return redeemGiftCard(ctx, tx, redemption.GiftCardID, orderID, redemption.Amount, now)
}

// SetShippingCost overrides the shipping charge, recomputes the total and
// notes the change in the order history.
func (os *OrderService) SetShippingCost(ctx context.Context, orderID uuid.UUID, cost decimal.Decimal, changedBy string) (*tables.Order, error) {
	if cost.IsNegative() {
		return nil, lib.NewValidationError("shipping_cost", ErrInvalidShippingCost.Error())
	}

	return database.TransactionWithResult(os.db, ctx, func(ctx context.Context, tx bun.Tx) (*tables.Order, error) {
		order, err := database.QueryTx[tables.Order](tx).Where("id", orderID).ForUpdate().First(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}

		previous := order.ShippingCost
		history := ApplyShippingCost(order, cost, changedBy, os.now())
		if err := database.QueryTx[tables.Order](tx).UpdateModel(ctx, order, "shipping_cost", "total", "updated_at"); err != nil {
			return nil, lib.MapPgError(err)
		}
		if _, err := database.QueryTx[tables.OrderStatusHistory](tx).Insert(ctx, history); err != nil {
			return nil, lib.MapPgError(err)
		}
		os.logger.Info("Order shipping cost set",
			gecho.Field("order_number", order.OrderNumber),
			gecho.Field("previous_shipping_cost", previous.String()),
			gecho.Field("shipping_cost", order.ShippingCost.String()))
		return order, nil
	})
}

// DeleteOrder hard-deletes; items and history go with it.
func (os *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	affected, err := database.DeleteByID[tables.Order](os.db, ctx, orderID)
	if err != nil {
		os.logger.Error("Failed to delete order", gecho.Field("order_id", orderID), gecho.Field("error", err))
		return fmt.Errorf("failed to delete order: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	os.logger.Info("Order deleted", gecho.Field("order_id", orderID))
	return nil
}

func (os *OrderService) GetHistory(ctx context.Context, orderID uuid.UUID) ([]tables.OrderStatusHistory, error) {
	history, err := database.Query[tables.OrderStatusHistory](os.db).
		Where("order_id", orderID).
		OrderBy("created_at", database.ASC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", lib.MapPgError(err))
	}
	return history, nil
}

func (os *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*structs.OrderDetails, error) {
	order, err := database.Query[tables.Order](os.db).Where("id", orderID).Relation("Items").First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", lib.MapPgError(err))
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return os.withHistory(ctx, order)
}

// TrackOrder matches the order number and the customer email together,
// so a wrong email looks the same as a missing order.
func (os *OrderService) TrackOrder(ctx context.Context, orderNumber, email string) (*structs.OrderDetails, error) {
	order, err := database.Query[tables.Order](os.db).
		Where("order_number", strings.ToUpper(strings.TrimSpace(orderNumber))).
		Relation("Items").
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", lib.MapPgError(err))
	}
	if order == nil || !strings.EqualFold(order.CustomerEmail, strings.TrimSpace(email)) {
		return nil, ErrOrderNotFound
	}
	return os.withHistory(ctx, order)
}

func (os *OrderService) withHistory(ctx context.Context, order *tables.Order) (*structs.OrderDetails, error) {
	history, err := os.GetHistory(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &structs.OrderDetails{Order: order, History: history}, nil
}

func (os *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]tables.Order, error) {
	orders, err := database.Query[tables.Order](os.db).
		Where("user_id", userID).
		Relation("Items").
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		os.logger.Error("Failed to list user orders", gecho.Field("user_id", userID), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list orders: %w", lib.MapPgError(err))
	}
	return orders, nil
}

type OrderListOptions struct {
	Page     int
	PageSize int
	Status   tables.OrderStatus
	Search   string
}

// ListOrders is the admin listing, newest first. Search matches the order
// number, customer name or email.
func (os *OrderService) ListOrders(ctx context.Context, opts OrderListOptions) (*database.PaginationResult[tables.Order], error) {
	query := database.Query[tables.Order](os.db).Relation("Items")
	if opts.Status != "" {
		if !opts.Status.IsValid() {
			return nil, lib.NewValidationError("status", "unknown order status")
		}
		query = query.Where("status", opts.Status)
	}
	if term := strings.TrimSpace(opts.Search); term != "" {
		like := "%" + escapeLike(term) + "%"
		query = query.WhereRaw("(o.order_number ILIKE ? OR o.customer_name ILIKE ? OR o.customer_email ILIKE ?)", like, like, like)
	}
	query = query.OrderBy("created_at", database.DESC)

	result, err := database.Paginate(query, ctx, opts.Page, opts.PageSize)
	if err != nil {
		os.logger.Error("Failed to list orders", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list orders: %w", lib.MapPgError(err))
	}
	return result, nil
}

func isStatusRequirementError(err error) bool {
	for _, target := range []error{
		ErrSameStatus,
		ErrTrackingRequired,
		ErrCarrierRequired,
		ErrCancelReasonRequired,
		ErrInvalidRefund,
		ErrInvalidDeliveryDate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
