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
	ErrSaleNotFound   = fmt.Errorf("sale %w", lib.ErrNotFound)
	ErrBannerNotFound = fmt.Errorf("banner %w", lib.ErrNotFound)
)

// PromotionService owns scheduled sales, banners and gift cards.
type PromotionService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
	notifier     *NotificationService
	now          func() time.Time
}

func NewPromotionService(logger *gecho.Logger, db *database.DB, cacheService *CacheService, notifier *NotificationService) *PromotionService {
	return &PromotionService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
		notifier:     notifier,
		now:          time.Now,
	}
}

// loadLiveSales narrows in SQL and lets IsSaleLive make the final call.
func loadLiveSales(ctx context.Context, db *database.DB, now time.Time) ([]tables.ScheduledSale, error) {
	sales, err := database.Query[tables.ScheduledSale](db).
		Where("is_active", true).
		Where("is_paused", false).
		WhereOp("start_date", "<=", now).
		WhereOp("end_date", ">", now).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load live sales: %w", lib.MapPgError(err))
	}
	live := sales[:0]
	for i := range sales {
		if IsSaleLive(&sales[i], now) {
			live = append(live, sales[i])
		}
	}
	return live, nil
}

func (ps *PromotionService) ListSales(ctx context.Context) (*structs.SaleBuckets, error) {
	sales, err := database.Query[tables.ScheduledSale](ps.db).OrderBy("start_date", database.DESC).All(ctx)
	if err != nil {
		ps.logger.Error("Failed to list sales", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list sales: %w", lib.MapPgError(err))
	}
	return ClassifySales(sales, ps.now()), nil
}

func (ps *PromotionService) CreateSale(ctx context.Context, req *structs.SaleRequest) (*tables.ScheduledSale, error) {
	sale := &tables.ScheduledSale{}
	if err := applySaleRequest(sale, req); err != nil {
		return nil, err
	}
	created, err := database.Query[tables.ScheduledSale](ps.db).Insert(ctx, sale)
	if err != nil {
		ps.logger.Error("Failed to create sale", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to create sale: %w", lib.MapPgError(err))
	}
	ps.invalidateProducts(ctx)
	ps.logger.Info("Sale created", gecho.Field("id", created.ID), gecho.Field("type", created.SaleType))
	return created, nil
}

func (ps *PromotionService) UpdateSale(ctx context.Context, id uuid.UUID, req *structs.SaleRequest) (*tables.ScheduledSale, error) {
	sale, err := ps.findSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applySaleRequest(sale, req); err != nil {
		return nil, err
	}
	sale.UpdatedAt = ps.now()
	if err := database.Query[tables.ScheduledSale](ps.db).UpdateModel(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", lib.MapPgError(err))
	}
	ps.invalidateProducts(ctx)
	ps.logger.Info("Sale updated", gecho.Field("id", id))
	return sale, nil
}

// SetSalePaused pauses or resumes a sale without touching its window.
func (ps *PromotionService) SetSalePaused(ctx context.Context, id uuid.UUID, paused bool) (*tables.ScheduledSale, error) {
	sale, err := ps.findSale(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.IsPaused = paused
	sale.UpdatedAt = ps.now()
	if err := database.Query[tables.ScheduledSale](ps.db).UpdateModel(ctx, sale, "is_paused", "updated_at"); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", lib.MapPgError(err))
	}
	ps.invalidateProducts(ctx)
	return sale, nil
}

func (ps *PromotionService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	affected, err := database.DeleteByID[tables.ScheduledSale](ps.db, ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrSaleNotFound
	}
	ps.invalidateProducts(ctx)
	ps.logger.Info("Sale deleted", gecho.Field("id", id))
	return nil
}

// ApplySale copies the sale's discount onto every product it targets.
func (ps *PromotionService) ApplySale(ctx context.Context, id uuid.UUID) (int, error) {
	sale, err := ps.findSale(ctx, id)
	if err != nil {
		return 0, err
	}
	affected, err := saleTargetQuery(database.Query[tables.Product](ps.db), sale).Update(ctx, map[string]any{
		"is_on_sale":          true,
		"discount_percentage": sale.DiscountPercentage,
		"updated_at":          ps.now(),
	})
	if err != nil {
		ps.logger.Error("Failed to apply sale", gecho.Field("id", id), gecho.Field("error", err))
		return 0, fmt.Errorf("failed to apply sale: %w", lib.MapPgError(err))
	}
	ps.invalidateProducts(ctx)
	ps.logger.Info("Sale applied", gecho.Field("id", id), gecho.Field("products", affected))
	return affected, nil
}

// ClearSale reverses ApplySale on products still carrying this sale's
// discount, leaving products changed since then alone.
func (ps *PromotionService) ClearSale(ctx context.Context, id uuid.UUID) (int, error) {
	sale, err := ps.findSale(ctx, id)
	if err != nil {
		return 0, err
	}
	affected, err := saleTargetQuery(database.Query[tables.Product](ps.db), sale).
		Where("is_on_sale", true).
		Where("discount_percentage", sale.DiscountPercentage).
		Update(ctx, map[string]any{
			"is_on_sale":          false,
			"discount_percentage": decimal.Zero,
			"updated_at":          ps.now(),
		})
	if err != nil {
		ps.logger.Error("Failed to clear sale", gecho.Field("id", id), gecho.Field("error", err))
		return 0, fmt.Errorf("failed to clear sale: %w", lib.MapPgError(err))
	}
	ps.invalidateProducts(ctx)
	ps.logger.Info("Sale cleared", gecho.Field("id", id), gecho.Field("products", affected))
	return affected, nil
}

func saleTargetQuery(q *database.QueryBuilder[tables.Product], sale *tables.ScheduledSale) *database.QueryBuilder[tables.Product] {
	switch sale.SaleType {
	case tables.SaleTypeCategory:
		return q.WhereRaw("lower(category) = lower(?)", strings.TrimSpace(sale.TargetCategory))
	case tables.SaleTypeProducts:
		return q.WhereIn("id", toAnys(sale.TargetProductIDs))
	default:
		return q.WhereRaw("TRUE")
	}
}

func (ps *PromotionService) findSale(ctx context.Context, id uuid.UUID) (*tables.ScheduledSale, error) {
	sale, err := database.FindByID[tables.ScheduledSale](ps.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", lib.MapPgError(err))
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

func applySaleRequest(s *tables.ScheduledSale, req *structs.SaleRequest) error {
	switch {
	case !req.DiscountPercentage.IsPositive() || req.DiscountPercentage.GreaterThan(hundred):
		return lib.NewValidationError("discount_percentage", "must be greater than 0 and at most 100")
	case !req.EndDate.After(req.StartDate):
		return lib.NewValidationError("end_date", "must be after start_date")
	case req.SaleType == tables.SaleTypeCategory && strings.TrimSpace(req.TargetCategory) == "":
		return lib.NewValidationError("target_category", "is required for a category sale")
	case req.SaleType == tables.SaleTypeProducts && len(uniqueIDs(req.TargetProductIDs)) == 0:
		return lib.NewValidationError("target_product_ids", "is required for a product sale")
	}

	s.Name = strings.TrimSpace(req.Name)
	s.DiscountPercentage = req.DiscountPercentage
	s.SaleType = req.SaleType
	s.TargetCategory = ""
	s.TargetProductIDs = nil
	switch req.SaleType {
	case tables.SaleTypeCategory:
		s.TargetCategory = strings.TrimSpace(req.TargetCategory)
	case tables.SaleTypeProducts:
		s.TargetProductIDs = uniqueIDs(req.TargetProductIDs)
	}
	s.StartDate = req.StartDate.UTC()
	s.EndDate = req.EndDate.UTC()
	s.IsActive = req.IsActive
	s.IsPaused = req.IsPaused
	return nil
}

func (ps *PromotionService) invalidateProducts(ctx context.Context) {
	if err := ps.cacheService.InvalidateAllProductCaches(ctx); err != nil {
		ps.logger.Warn("Failed to invalidate product caches", gecho.Field("error", err))
	}
}

func (ps *PromotionService) ListBanners(ctx context.Context) ([]tables.PromotionalBanner, error) {
	banners, err := database.Query[tables.PromotionalBanner](ps.db).
		OrderBy("sort_order", database.ASC).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", lib.MapPgError(err))
	}
	return banners, nil
}

// ActiveBanners is the storefront view: active and inside their window.
func (ps *PromotionService) ActiveBanners(ctx context.Context) ([]tables.PromotionalBanner, error) {
	banners, err := database.Query[tables.PromotionalBanner](ps.db).
		Where("is_active", true).
		OrderBy("sort_order", database.ASC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", lib.MapPgError(err))
	}
	return ActiveBanners(banners, ps.now()), nil
}

func (ps *PromotionService) CreateBanner(ctx context.Context, req *structs.BannerRequest) (*tables.PromotionalBanner, error) {
	banner := &tables.PromotionalBanner{}
	if err := applyBannerRequest(banner, req); err != nil {
		return nil, err
	}
	created, err := database.Query[tables.PromotionalBanner](ps.db).Insert(ctx, banner)
	if err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", lib.MapPgError(err))
	}
	ps.logger.Info("Banner created", gecho.Field("id", created.ID))
	return created, nil
}

func (ps *PromotionService) UpdateBanner(ctx context.Context, id uuid.UUID, req *structs.BannerRequest) (*tables.PromotionalBanner, error) {
	banner, err := database.FindByID[tables.PromotionalBanner](ps.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load banner: %w", lib.MapPgError(err))
	}
	if banner == nil {
		return nil, ErrBannerNotFound
	}
	if err := applyBannerRequest(banner, req); err != nil {
		return nil, err
	}
	if err := database.Query[tables.PromotionalBanner](ps.db).UpdateModel(ctx, banner); err != nil {
		return nil, fmt.Errorf("failed to update banner: %w", lib.MapPgError(err))
	}
	return banner, nil
}

func (ps *PromotionService) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	affected, err := database.DeleteByID[tables.PromotionalBanner](ps.db, ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrBannerNotFound
	}
	return nil
}

func applyBannerRequest(b *tables.PromotionalBanner, req *structs.BannerRequest) error {
	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		return lib.NewValidationError("end_date", "must be after start_date")
	}
	b.Message = strings.TrimSpace(req.Message)
	b.Link = strings.TrimSpace(req.Link)
	b.BackgroundColor = cmpOr(req.BackgroundColor, "#3d2b1f")
	b.TextColor = cmpOr(req.TextColor, "#ffffff")
	b.IsActive = req.IsActive
	b.IsSticky = req.IsSticky
	b.StartDate = req.StartDate
	b.EndDate = req.EndDate
	b.SortOrder = req.SortOrder
	return nil
}

func cmpOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

// IssueGiftCard creates a card with its purchase ledger row. Code clashes
// are retried with a fresh code.
func (ps *PromotionService) IssueGiftCard(ctx context.Context, req *structs.GiftCardIssueRequest) (*tables.GiftCard, error) {
	if !req.Amount.IsPositive() {
		return nil, lib.NewValidationError("amount", "must be greater than 0")
	}
	now := ps.now()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, lib.NewValidationError("expires_at", "must be in the future")
	}
	amount := req.Amount.Round(2)

	var card *tables.GiftCard
	var err error
	for range 3 {
		card, err = ps.issueOnce(ctx, req, amount, now)
		if err == nil || !lib.IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		ps.logger.Error("Failed to issue gift card", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to issue gift card: %w", err)
	}

	ps.logger.Info("Gift card issued", gecho.Field("id", card.ID), gecho.Field("amount", amount.String()))

	if req.SendEmail && card.RecipientEmail != "" {
		go func(c tables.GiftCard) {
			if err := ps.notifier.SendGiftCardEmail(&c); err != nil {
				ps.logger.Warn("Failed to send gift card email", gecho.Field("id", c.ID), gecho.Field("error", err))
			}
		}(*card)
	}
	return card, nil
}

func (ps *PromotionService) issueOnce(ctx context.Context, req *structs.GiftCardIssueRequest, amount decimal.Decimal, now time.Time) (*tables.GiftCard, error) {
	code, err := lib.GenerateGiftCardCode()
	if err != nil {
		return nil, err
	}

	return database.TransactionWithResult(ps.db, ctx, func(ctx context.Context, tx bun.Tx) (*tables.GiftCard, error) {
		card := &tables.GiftCard{
			Code:           code,
			InitialBalance: amount,
			CurrentBalance: amount,
			IsActive:       true,
			IsPublic:       req.IsPublic,
			UsageLimit:     req.UsageLimit,
			RecipientEmail: strings.ToLower(strings.TrimSpace(req.RecipientEmail)),
			PurchaserEmail: strings.ToLower(strings.TrimSpace(req.PurchaserEmail)),
			Message:        strings.TrimSpace(req.Message),
			ExpiresAt:      req.ExpiresAt,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := database.QueryTx[tables.GiftCard](tx).Insert(ctx, card); err != nil {
			return nil, lib.MapPgError(err)
		}
		_, err := database.QueryTx[tables.GiftCardTransaction](tx).Insert(ctx, &tables.GiftCardTransaction{
			GiftCardID:   card.ID,
			Amount:       amount,
			Type:         tables.GiftCardTransactionPurchase,
			BalanceAfter: amount,
			CreatedAt:    now,
		})
		return card, lib.MapPgError(err)
	})
}

func (ps *PromotionService) ListGiftCards(ctx context.Context, page, pageSize int) (*database.PaginationResult[tables.GiftCard], error) {
	query := database.Query[tables.GiftCard](ps.db).OrderBy("created_at", database.DESC)
	result, err := database.Paginate(query, ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list gift cards: %w", lib.MapPgError(err))
	}
	return result, nil
}

// UpdateGiftCard changes flags and limits only; balances move through the
// ledger. A usage limit of 0 removes the limit.
func (ps *PromotionService) UpdateGiftCard(ctx context.Context, id uuid.UUID, req *structs.GiftCardUpdateRequest) (*tables.GiftCard, error) {
	card, err := database.FindByID[tables.GiftCard](ps.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load gift card: %w", lib.MapPgError(err))
	}
	if card == nil {
		return nil, ErrGiftCardNotFound
	}

	if req.IsActive != nil {
		card.IsActive = *req.IsActive
	}
	if req.IsPublic != nil {
		card.IsPublic = *req.IsPublic
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit == 0 {
			card.UsageLimit = nil
		} else {
			limit := *req.UsageLimit
			card.UsageLimit = &limit
		}
	}
	switch {
	case req.ClearExpiry:
		card.ExpiresAt = nil
	case req.ExpiresAt != nil:
		card.ExpiresAt = req.ExpiresAt
	}
	card.UpdatedAt = ps.now()

	if err := database.Query[tables.GiftCard](ps.db).UpdateModel(ctx, card, "is_active", "is_public", "usage_limit", "expires_at", "updated_at"); err != nil {
		return nil, fmt.Errorf("failed to update gift card: %w", lib.MapPgError(err))
	}
	ps.logger.Info("Gift card updated", gecho.Field("id", id))
	return card, nil
}

func (ps *PromotionService) GiftCardTransactions(ctx context.Context, id uuid.UUID) ([]tables.GiftCardTransaction, error) {
	exists, err := database.Query[tables.GiftCard](ps.db).Where("id", id).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gift card: %w", lib.MapPgError(err))
	}
	if !exists {
		return nil, ErrGiftCardNotFound
	}
	txns, err := database.Query[tables.GiftCardTransaction](ps.db).
		Where("gift_card_id", id).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gift card transactions: %w", lib.MapPgError(err))
	}
	return txns, nil
}

// ValidateGiftCard never mutates the card. Failures come back as an
// invalid result rather than an error.
func (ps *PromotionService) ValidateGiftCard(ctx context.Context, req *structs.GiftCardValidateRequest) (*structs.GiftCardValidation, error) {
	code := lib.NormalizeCode(req.Code)
	card, err := database.Query[tables.GiftCard](ps.db).Where("code", code).First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up gift card: %w", lib.MapPgError(err))
	}
	return validateGiftCard(code, card, req.Amount, ps.now()), nil
}

func validateGiftCard(code string, card *tables.GiftCard, amount decimal.Decimal, now time.Time) *structs.GiftCardValidation {
	result := &structs.GiftCardValidation{
		Code:             code,
		AvailableBalance: decimal.Zero,
		Discount:         decimal.Zero,
	}
	if err := CheckRedeemable(card, now); err != nil {
		result.Message = err.Error()
		if !errors.Is(err, ErrGiftCardNotFound) {
			result.AvailableBalance = card.CurrentBalance
		}
		return result
	}
	result.Valid = true
	result.AvailableBalance = card.CurrentBalance
	result.Discount = RedeemableAmount(card, amount)
	return result
}

func (ps *PromotionService) PublicGiftCards(ctx context.Context) ([]structs.PublicGiftCard, error) {
	now := ps.now()
	cards, err := database.Query[tables.GiftCard](ps.db).
		Where("is_public", true).
		Where("is_active", true).
		WhereOp("current_balance", ">", 0).
		WhereRaw("(expires_at IS NULL OR expires_at > ?)", now).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public gift cards: %w", lib.MapPgError(err))
	}

	out := make([]structs.PublicGiftCard, 0, len(cards))
	for i := range cards {
		if CheckRedeemable(&cards[i], now) != nil {
			continue
		}
		out = append(out, structs.PublicGiftCard{
			Code:           cards[i].Code,
			CurrentBalance: cards[i].CurrentBalance,
			ExpiresAt:      cards[i].ExpiresAt,
		})
	}
	return out, nil
}
