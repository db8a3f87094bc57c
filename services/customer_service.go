package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"woodzire_server/database"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrAddressNotFound      = fmt.Errorf("address %w", lib.ErrNotFound)
	ErrCartNotFound         = fmt.Errorf("abandoned cart %w", lib.ErrNotFound)
	ErrPreferenceNotFound   = fmt.Errorf("email preference %w", lib.ErrNotFound)
	ErrProductInStock       = fmt.Errorf("product is in stock: %w", lib.ErrInvalid)
	ErrCartAlreadyRecovered = fmt.Errorf("cart was already recovered: %w", lib.ErrInvalid)
)

// CustomerService covers saved addresses, wishlists, stock alerts, email
// preferences and abandoned carts.
type CustomerService struct {
	logger   *gecho.Logger
	db       *database.DB
	notifier *NotificationService
	now      func() time.Time
}

func NewCustomerService(logger *gecho.Logger, db *database.DB, notifier *NotificationService) *CustomerService {
	return &CustomerService{logger: logger, db: db, notifier: notifier, now: time.Now}
}

func (cs *CustomerService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]tables.Address, error) {
	addresses, err := database.Query[tables.Address](cs.db).
		Where("user_id", userID).
		OrderBy("is_default", database.DESC).
		OrderBy("created_at", database.ASC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", lib.MapPgError(err))
	}
	return addresses, nil
}

// SaveAddress creates a new address when id is nil and updates the user's
// own address otherwise. The first address and any address saved as
// default become the only default.
func (cs *CustomerService) SaveAddress(ctx context.Context, userID uuid.UUID, id *uuid.UUID, req *structs.AddressRequest) (*tables.Address, error) {
	return database.TransactionWithResult(cs.db, ctx, func(ctx context.Context, tx bun.Tx) (*tables.Address, error) {
		count, err := database.QueryTx[tables.Address](tx).Where("user_id", userID).Count(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}

		address := &tables.Address{UserID: userID}
		if id != nil {
			address, err = database.QueryTx[tables.Address](tx).Where("id", *id).Where("user_id", userID).ForUpdate().First(ctx)
			if err != nil {
				return nil, lib.MapPgError(err)
			}
			if address == nil {
				return nil, ErrAddressNotFound
			}
		}

		address.Label = strings.TrimSpace(req.Label)
		address.ShippingAddress = req.ShippingAddress
		address.IsDefault = req.IsDefault || count == 0 || (id != nil && count == 1)

		if address.IsDefault {
			if _, err := database.QueryTx[tables.Address](tx).
				Where("user_id", userID).
				Where("is_default", true).
				Update(ctx, map[string]any{"is_default": false}); err != nil {
				return nil, lib.MapPgError(err)
			}
		}

		if id == nil {
			_, err = database.QueryTx[tables.Address](tx).Insert(ctx, address)
		} else {
			err = database.QueryTx[tables.Address](tx).UpdateModel(ctx, address)
		}
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		return address, nil
	})
}

func (cs *CustomerService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := database.Query[tables.Address](cs.db).Where("id", id).Where("user_id", userID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (cs *CustomerService) ListWishlist(ctx context.Context, userID uuid.UUID) ([]tables.WishlistItem, error) {
	items, err := database.Query[tables.WishlistItem](cs.db).
		Where("wl.user_id", userID).
		Relation("Product").
		OrderBy("wl.created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", lib.MapPgError(err))
	}
	return items, nil
}

// AddToWishlist is idempotent.
func (cs *CustomerService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	exists, err := database.Query[tables.Product](cs.db).Where("id", productID).Where("is_active", true).Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check product: %w", lib.MapPgError(err))
	}
	if !exists {
		return ErrProductNotFound
	}
	_, err = database.Query[tables.WishlistItem](cs.db).Upsert(ctx, &tables.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}, "user_id, product_id")
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", lib.MapPgError(err))
	}
	return nil
}

func (cs *CustomerService) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := database.Query[tables.WishlistItem](cs.db).Where("user_id", userID).Where("product_id", productID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", lib.MapPgError(err))
	}
	return nil
}

// SubscribeStockAlert registers an email for a product that is out of
// stock. Subscribing again after being notified re-arms the alert.
func (cs *CustomerService) SubscribeStockAlert(ctx context.Context, req *structs.StockAlertRequest) (*tables.StockAlert, error) {
	product, err := database.Query[tables.Product](cs.db).Where("id", req.ProductID).Where("is_active", true).First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", lib.MapPgError(err))
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.IsMadeToOrder || product.StockQuantity > 0 {
		return nil, ErrProductInStock
	}

	alert := &tables.StockAlert{
		ProductID: req.ProductID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if _, err := database.Query[tables.StockAlert](cs.db).Upsert(ctx, alert, "product_id, email", "notified_at"); err != nil {
		return nil, fmt.Errorf("failed to save stock alert: %w", lib.MapPgError(err))
	}
	cs.logger.Info("Stock alert subscribed", gecho.Field("product_id", req.ProductID))
	return alert, nil
}

func (cs *CustomerService) GetEmailPreference(ctx context.Context, email string) (*tables.EmailPreference, error) {
	pref, err := database.Query[tables.EmailPreference](cs.db).Where("email", normalizeEmail(email)).First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load email preference: %w", lib.MapPgError(err))
	}
	if pref == nil {
		return nil, ErrPreferenceNotFound
	}
	return pref, nil
}

// SaveEmailPreference upserts by email. Flags left out of the request keep
// their stored value; a new row gets the table defaults.
func (cs *CustomerService) SaveEmailPreference(ctx context.Context, req *structs.EmailPreferenceRequest) (*tables.EmailPreference, error) {
	token, err := lib.GenerateRandomToken()
	if err != nil {
		return nil, err
	}

	pref := &tables.EmailPreference{
		Email:            normalizeEmail(req.Email),
		OrderUpdates:     true,
		UnsubscribeToken: token,
		UpdatedAt:        cs.now(),
	}
	columns := []string{"updated_at"}
	if req.MarketingOptIn != nil {
		pref.MarketingOptIn = *req.MarketingOptIn
		columns = append(columns, "marketing_opt_in")
	}
	if req.OrderUpdates != nil {
		pref.OrderUpdates = *req.OrderUpdates
		columns = append(columns, "order_updates")
	}

	if _, err := database.Query[tables.EmailPreference](cs.db).Upsert(ctx, pref, "email", columns...); err != nil {
		return nil, fmt.Errorf("failed to save email preference: %w", lib.MapPgError(err))
	}
	return pref, nil
}

// Unsubscribe turns marketing off for the token's owner.
func (cs *CustomerService) Unsubscribe(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrPreferenceNotFound
	}
	affected, err := database.Query[tables.EmailPreference](cs.db).
		Where("unsubscribe_token", token).
		Update(ctx, map[string]any{"marketing_opt_in": false, "updated_at": cs.now()})
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrPreferenceNotFound
	}
	cs.logger.Info("Email unsubscribed from marketing")
	return nil
}

// SaveAbandonedCart keeps the latest snapshot per email and re-opens a
// previously recovered cart.
func (cs *CustomerService) SaveAbandonedCart(ctx context.Context, req *structs.AbandonedCartRequest) (*tables.AbandonedCart, error) {
	now := cs.now()
	cart := &tables.AbandonedCart{
		Email:     normalizeEmail(req.Email),
		Items:     req.Items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := database.Query[tables.AbandonedCart](cs.db).Upsert(ctx, cart, "email", "items", "recovered_at", "reminder_sent_at", "updated_at"); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", lib.MapPgError(err))
	}
	return cart, nil
}

func (cs *CustomerService) ListAbandonedCarts(ctx context.Context, includeRecovered bool, page, pageSize int) (*database.PaginationResult[tables.AbandonedCart], error) {
	query := database.Query[tables.AbandonedCart](cs.db).OrderBy("updated_at", database.DESC)
	if !includeRecovered {
		query = query.WhereNull("recovered_at")
	}
	result, err := database.Paginate(query, ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", lib.MapPgError(err))
	}
	return result, nil
}

// SendCartReminder emails the cart owner and records when it went out.
func (cs *CustomerService) SendCartReminder(ctx context.Context, id uuid.UUID) (*tables.AbandonedCart, error) {
	cart, err := database.FindByID[tables.AbandonedCart](cs.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", lib.MapPgError(err))
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if cart.RecoveredAt != nil {
		return nil, ErrCartAlreadyRecovered
	}

	if err := cs.notifier.SendCartReminder(cart); err != nil {
		cs.logger.Error("Failed to send cart reminder", gecho.Field("id", id), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to send reminder: %w", err)
	}

	now := cs.now()
	cart.ReminderSentAt = &now
	if err := database.Query[tables.AbandonedCart](cs.db).UpdateModel(ctx, cart, "reminder_sent_at"); err != nil {
		return nil, fmt.Errorf("failed to record reminder: %w", lib.MapPgError(err))
	}
	cs.logger.Info("Cart reminder sent", gecho.Field("id", id))
	return cart, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
