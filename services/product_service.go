package services

import (
	"context"
	"errors"
	"fmt"
	"io"
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
	ErrProductNotFound = fmt.Errorf("product %w", lib.ErrNotFound)
	ErrSlugTaken       = fmt.Errorf("slug already in use: %w", lib.ErrConflict)
)

type ProductService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
	notifier     *NotificationService
	now          func() time.Time
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService, notifier *NotificationService) *ProductService {
	return &ProductService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
		notifier:     notifier,
		now:          time.Now,
	}
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	Category        string           `json:"category,omitempty"`
	WoodType        string           `json:"wood_type,omitempty"`
	IsFeatured      *bool            `json:"is_featured,omitempty"`
	IsTrending      *bool            `json:"is_trending,omitempty"`
	OnSale          *bool            `json:"on_sale,omitempty"`
	SearchTerm      string           `json:"search_term,omitempty"`
	MinPrice        *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice        *decimal.Decimal `json:"max_price,omitempty"`
	LowStockOnly    bool             `json:"low_stock_only,omitempty"`
	IncludeInactive bool             `json:"-"` // admin listings only

	SortBy        string `json:"sort_by"`
	SortDirection string `json:"sort_direction"`

	Timeout time.Duration `json:"-"`
}

type ProductListResult struct {
	Products   []tables.Product    `json:"products"`
	Pagination database.Pagination `json:"pagination"`
	Filters    ProductListOptions  `json:"filters"`
	QueryTime  time.Duration       `json:"query_time"`
}

var productSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"price":          true,
	"name":           true,
	"stock_quantity": true,
}

func (ps *ProductService) applyDefaultOptions(opts *ProductListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = string(database.DESC)
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
}

func validateProductListOptions(opts *ProductListOptions) error {
	if opts.PageSize > 100 {
		return lib.NewValidationError("page_size", "must be at most 100")
	}
	if !productSortFields[opts.SortBy] {
		return lib.NewValidationError("sort_by", "must be one of created_at, updated_at, price, name, stock_quantity")
	}
	if opts.SortDirection != string(database.ASC) && opts.SortDirection != string(database.DESC) {
		return lib.NewValidationError("sort_direction", "must be ASC or DESC")
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && opts.MinPrice.GreaterThan(*opts.MaxPrice) {
		return lib.NewValidationError("min_price", "must not exceed max_price")
	}
	return nil
}

// ListProducts returns a filtered page with effective prices filled in.
func (ps *ProductService) ListProducts(ctx context.Context, opts *ProductListOptions) (*ProductListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ProductListOptions{}
	}
	ps.applyDefaultOptions(opts)
	if err := validateProductListOptions(opts); err != nil {
		return nil, err
	}

	now := ps.now()
	sales := ps.liveSales(ctx, now)

	query := database.Query[tables.Product](ps.db).Timeout(opts.Timeout)
	query = ps.applyFilters(query, opts, sales, now)
	query = query.OrderBy(opts.SortBy, database.OrderDirection(opts.SortDirection)).OrderBy("id", database.ASC)

	result, err := database.Paginate(query, ctx, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("pageSize", opts.PageSize),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch products: %w", lib.MapPgError(err))
	}

	ApplyEffectivePricing(result.Data, sales, now)

	ps.logger.Debug("Products fetched successfully",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &ProductListResult{
		Products:   result.Data,
		Pagination: result.Pagination,
		Filters:    *opts,
		QueryTime:  time.Since(startTime),
	}, nil
}

func (ps *ProductService) applyFilters(query *database.QueryBuilder[tables.Product], opts *ProductListOptions, sales []tables.ScheduledSale, now time.Time) *database.QueryBuilder[tables.Product] {
	if !opts.IncludeInactive {
		query = query.Where("is_active", true)
	}
	if opts.Category != "" {
		query = query.WhereRaw("lower(category) = lower(?)", strings.TrimSpace(opts.Category))
	}
	if opts.WoodType != "" {
		query = query.WhereRaw("lower(wood_type) = lower(?)", strings.TrimSpace(opts.WoodType))
	}
	if opts.IsFeatured != nil {
		query = query.Where("is_featured", *opts.IsFeatured)
	}
	if opts.IsTrending != nil {
		query = query.Where("is_trending", *opts.IsTrending)
	}
	if opts.MinPrice != nil {
		query = query.WhereOp("price", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		query = query.WhereOp("price", "<=", *opts.MaxPrice)
	}
	if opts.LowStockOnly {
		query = query.WhereRaw("is_made_to_order = FALSE AND stock_quantity <= low_stock_threshold")
	}
	if term := strings.TrimSpace(opts.SearchTerm); term != "" {
		like := "%" + escapeLike(term) + "%"
		query = query.WhereRaw("(name ILIKE ? OR description ILIKE ? OR category ILIKE ? OR wood_type ILIKE ?)", like, like, like, like)
	}
	if opts.OnSale != nil {
		cond, args := onSaleCondition(sales, now)
		if !*opts.OnSale {
			cond = "NOT " + cond
		}
		query = query.WhereRaw(cond, args...)
	}
	return query
}

// onSaleCondition matches products with their own discount or a live sale.
func onSaleCondition(sales []tables.ScheduledSale, now time.Time) (string, []any) {
	parts := []string{"(is_on_sale = TRUE AND discount_percentage > 0)"}
	var args []any
	var categories []string
	var ids []uuid.UUID

	for i := range sales {
		s := &sales[i]
		if !IsSaleLive(s, now) {
			continue
		}
		switch s.SaleType {
		case tables.SaleTypeAll:
			return "(TRUE)", nil
		case tables.SaleTypeCategory:
			categories = append(categories, strings.ToLower(strings.TrimSpace(s.TargetCategory)))
		case tables.SaleTypeProducts:
			ids = append(ids, s.TargetProductIDs...)
		}
	}
	if len(categories) > 0 {
		parts = append(parts, "lower(category) IN (?)")
		args = append(args, bun.In(categories))
	}
	if len(ids) > 0 {
		parts = append(parts, "id IN (?)")
		args = append(args, bun.In(ids))
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetProductByID serves from cache first. Inactive products are hidden
// unless includeInactive is set.
func (ps *ProductService) GetProductByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*tables.Product, error) {
	startTime := time.Now()

	product, err := ps.cacheService.GetProductByID(ctx, id)
	if err != nil {
		ps.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
	}

	if product == nil {
		product, err = database.Query[tables.Product](ps.db).Where("id", id).Timeout(5 * time.Second).First(ctx)
		if err != nil {
			ps.logger.Error("Failed to fetch product by ID", gecho.Field("id", id), gecho.Field("error", err))
			return nil, fmt.Errorf("failed to fetch product: %w", lib.MapPgError(err))
		}
		if product == nil {
			ps.logger.Debug("Product not found", gecho.Field("id", id))
			return nil, ErrProductNotFound
		}

		go func(p tables.Product) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := ps.cacheService.SetProductByID(ctx, &p); err != nil {
				ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("id", p.ID))
			}
		}(*product)
	}

	if !product.IsActive && !includeInactive {
		return nil, ErrProductNotFound
	}

	return ps.priced(ctx, product, startTime), nil
}

func (ps *ProductService) GetProductBySlug(ctx context.Context, slug string, includeInactive bool) (*tables.Product, error) {
	startTime := time.Now()

	query := database.Query[tables.Product](ps.db).Where("slug", strings.ToLower(strings.TrimSpace(slug)))
	if !includeInactive {
		query = query.Where("is_active", true)
	}
	product, err := query.First(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch product by slug", gecho.Field("slug", slug), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to fetch product: %w", lib.MapPgError(err))
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return ps.priced(ctx, product, startTime), nil
}

func (ps *ProductService) priced(ctx context.Context, product *tables.Product, startTime time.Time) *tables.Product {
	now := ps.now()
	products := []tables.Product{*product}
	ApplyEffectivePricing(products, ps.liveSales(ctx, now), now)
	ps.logger.Debug("Product fetched", gecho.Field("id", product.ID), gecho.Field("duration", time.Since(startTime)))
	return &products[0]
}

func (ps *ProductService) liveSales(ctx context.Context, now time.Time) []tables.ScheduledSale {
	sales, err := loadLiveSales(ctx, ps.db, now)
	if err != nil {
		ps.logger.Warn("Failed to load live sales, pricing without them", gecho.Field("error", err))
		return nil
	}
	return sales
}

func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.ProductRequest) (*tables.Product, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, lib.NewValidationError("name", "This field is required")
	}
	if req.Price == nil {
		return nil, lib.NewValidationError("price", "This field is required")
	}

	product := &tables.Product{
		IsActive:          true,
		LowStockThreshold: 5,
		Images:            []string{},
	}
	applyProductRequest(product, req)
	if product.Slug == "" {
		product.Slug = lib.Slugify(product.Name)
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	created, err := database.Query[tables.Product](ps.db).Insert(ctx, product)
	if err != nil {
		err = lib.MapPgError(err)
		if lib.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		ps.logger.Error("Failed to create product", gecho.Field("error", err), gecho.Field("slug", product.Slug))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	ps.logger.Info("Product created", gecho.Field("id", created.ID), gecho.Field("slug", created.Slug))
	return created, nil
}

// UpdateProduct applies a partial update. A move from no stock to some stock
// notifies back-in-stock subscribers.
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *structs.ProductRequest) (*tables.Product, error) {
	var before int
	product, err := database.TransactionWithResult(ps.db, ctx, func(ctx context.Context, tx bun.Tx) (*tables.Product, error) {
		product, err := database.QueryTx[tables.Product](tx).Where("id", id).ForUpdate().First(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		before = product.StockQuantity

		applyProductRequest(product, req)
		if err := validateProduct(product); err != nil {
			return nil, err
		}
		product.UpdatedAt = ps.now()

		if err := database.QueryTx[tables.Product](tx).UpdateModel(ctx, product); err != nil {
			err = lib.MapPgError(err)
			if lib.IsUniqueViolation(err) {
				return nil, ErrSlugTaken
			}
			return nil, err
		}
		return product, nil
	})
	if err != nil {
		if !IsClientError(err) {
			ps.logger.Error("Failed to update product", gecho.Field("id", id), gecho.Field("error", err))
		}
		return nil, err
	}

	ps.invalidate(ctx, id)
	if before <= 0 && product.StockQuantity > 0 {
		ps.notifyBackInStock(product)
	}
	ps.logger.Info("Product updated", gecho.Field("id", id))
	return product, nil
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	affected, err := database.DeleteByID[tables.Product](ps.db, ctx, id)
	if err != nil {
		ps.logger.Error("Failed to delete product", gecho.Field("id", id), gecho.Field("error", err))
		return fmt.Errorf("failed to delete product: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	ps.invalidate(ctx, id)
	ps.logger.Info("Product deleted", gecho.Field("id", id))
	return nil
}

// RestockProduct adjusts stock by delta, clamping at zero unless the
// product is made to order.
func (ps *ProductService) RestockProduct(ctx context.Context, id uuid.UUID, delta int) (*tables.Product, error) {
	var before int
	product, err := database.TransactionWithResult(ps.db, ctx, func(ctx context.Context, tx bun.Tx) (*tables.Product, error) {
		product, err := database.QueryTx[tables.Product](tx).Where("id", id).ForUpdate().First(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		before = product.StockQuantity

		product.StockQuantity = clampStock(product.StockQuantity+delta, product.IsMadeToOrder)
		product.UpdatedAt = ps.now()
		if err := database.QueryTx[tables.Product](tx).UpdateModel(ctx, product, "stock_quantity", "updated_at"); err != nil {
			return nil, lib.MapPgError(err)
		}
		return product, nil
	})
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			ps.logger.Error("Failed to restock product", gecho.Field("id", id), gecho.Field("error", err))
		}
		return nil, err
	}

	ps.invalidate(ctx, id)
	if before <= 0 && product.StockQuantity > 0 {
		ps.notifyBackInStock(product)
	}
	ps.logger.Info("Product restocked",
		gecho.Field("id", id),
		gecho.Field("delta", delta),
		gecho.Field("stock", product.StockQuantity))
	return product, nil
}

func clampStock(stock int, madeToOrder bool) int {
	if stock < 0 && !madeToOrder {
		return 0
	}
	return stock
}

func (ps *ProductService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if err := ps.cacheService.InvalidateProduct(ctx, ids...); err != nil {
		ps.logger.Warn("Failed to invalidate product cache", gecho.Field("error", err))
	}
}

// notifyBackInStock emails pending subscribers and marks them notified.
func (ps *ProductService) notifyBackInStock(product *tables.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		alerts, err := database.Query[tables.StockAlert](ps.db).
			Where("product_id", product.ID).
			WhereNull("notified_at").
			All(ctx)
		if err != nil {
			ps.logger.Warn("Failed to load stock alerts", gecho.Field("product_id", product.ID), gecho.Field("error", err))
			return
		}
		if len(alerts) == 0 {
			return
		}

		emails := make([]string, len(alerts))
		ids := make([]any, len(alerts))
		for i, a := range alerts {
			emails[i] = a.Email
			ids[i] = a.ID
		}

		if _, err := ps.notifier.Dispatch(ctx, &structs.NotificationPayload{
			Type:    structs.NotificationStockUpdate,
			Product: product,
			Emails:  emails,
		}); err != nil {
			ps.logger.Warn("Back in stock notification failed", gecho.Field("product_id", product.ID), gecho.Field("error", err))
			return
		}

		if _, err := database.Query[tables.StockAlert](ps.db).WhereIn("id", ids).Update(ctx, map[string]any{"notified_at": time.Now()}); err != nil {
			ps.logger.Warn("Failed to mark stock alerts notified", gecho.Field("product_id", product.ID), gecho.Field("error", err))
		}
	}()
}

// ExportCSV writes every product, active or not, ordered by name.
func (ps *ProductService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	products, err := database.Query[tables.Product](ps.db).OrderBy("name", database.ASC).All(ctx)
	if err != nil {
		ps.logger.Error("Failed to load products for export", gecho.Field("error", err))
		return 0, fmt.Errorf("failed to load products: %w", lib.MapPgError(err))
	}
	if err := WriteProductsCSV(w, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// ImportCSV upserts every valid row by slug. Bad rows are reported and
// skipped; good rows are still applied.
func (ps *ProductService) ImportCSV(ctx context.Context, r io.Reader) (*structs.ImportReport, error) {
	rows, rowErrors, err := ParseProductsCSV(r)
	if err != nil {
		return nil, lib.NewValidationError("file", err.Error())
	}

	report := &structs.ImportReport{Errors: rowErrors}
	if report.Errors == nil {
		report.Errors = []structs.ImportRowError{}
	}

	for _, row := range rows {
		existing, err := database.Query[tables.Product](ps.db).Where("slug", row.Product.Slug).Exists(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to look up slug %s: %w", row.Product.Slug, lib.MapPgError(err))
		}

		product := row.Product
		if err := validateProduct(&product); err != nil {
			report.Errors = append(report.Errors, structs.ImportRowError{Line: row.Line, Message: err.Error()})
			continue
		}

		updateColumns := append(row.Columns[:0:0], row.Columns...)
		updateColumns = append(updateColumns, "updated_at")
		product.UpdatedAt = ps.now()

		if _, err := database.Query[tables.Product](ps.db).Upsert(ctx, &product, "slug", updateColumns...); err != nil {
			report.Errors = append(report.Errors, structs.ImportRowError{Line: row.Line, Message: lib.MapPgError(err).Error()})
			continue
		}
		if existing {
			report.Updated++
		} else {
			report.Created++
		}
	}

	if err := ps.cacheService.InvalidateAllProductCaches(ctx); err != nil {
		ps.logger.Warn("Failed to invalidate product caches after import", gecho.Field("error", err))
	}
	ps.logger.Info("Product import finished",
		gecho.Field("created", report.Created),
		gecho.Field("updated", report.Updated),
		gecho.Field("errors", len(report.Errors)))
	return report, nil
}

func applyProductRequest(p *tables.Product, req *structs.ProductRequest) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&p.Name, req.Name)
	setString(&p.Description, req.Description)
	setString(&p.CareInstructions, req.CareInstructions)
	setString(&p.ShippingInfo, req.ShippingInfo)
	setString(&p.Category, req.Category)
	setString(&p.WoodType, req.WoodType)
	if req.Slug != nil {
		p.Slug = lib.Slugify(*req.Slug)
	}

	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.CompareAtPrice != nil {
		if req.CompareAtPrice.IsZero() {
			p.CompareAtPrice = nil
		} else {
			v := *req.CompareAtPrice
			p.CompareAtPrice = &v
		}
	}
	if req.DiscountPercentage != nil {
		p.DiscountPercentage = *req.DiscountPercentage
	}
	if req.DeliveryCharge != nil {
		p.DeliveryCharge = *req.DeliveryCharge
	}
	if req.InternationalDeliveryCharge != nil {
		p.InternationalDeliveryCharge = *req.InternationalDeliveryCharge
	}

	for dst, src := range map[*int]*int{
		&p.StockQuantity:         req.StockQuantity,
		&p.LowStockThreshold:     req.LowStockThreshold,
		&p.PrepTimeDays:          req.PrepTimeDays,
		&p.EstimatedDeliveryDays: req.EstimatedDeliveryDays,
	} {
		if src != nil {
			*dst = *src
		}
	}
	for dst, src := range map[*bool]*bool{
		&p.IsOnSale:      req.IsOnSale,
		&p.IsMadeToOrder: req.IsMadeToOrder,
		&p.IsActive:      req.IsActive,
		&p.IsFeatured:    req.IsFeatured,
		&p.IsTrending:    req.IsTrending,
	} {
		if src != nil {
			*dst = *src
		}
	}

	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Dimensions != nil {
		p.Dimensions = req.Dimensions
	}
}

func validateProduct(p *tables.Product) error {
	switch {
	case p.Slug == "":
		return lib.NewValidationError("slug", "cannot be empty")
	case p.Price.IsNegative():
		return lib.NewValidationError("price", "must not be negative")
	case p.CompareAtPrice != nil && p.CompareAtPrice.IsNegative():
		return lib.NewValidationError("compare_at_price", "must not be negative")
	case p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(hundred):
		return lib.NewValidationError("discount_percentage", "must be between 0 and 100")
	case p.DeliveryCharge.IsNegative():
		return lib.NewValidationError("delivery_charge", "must not be negative")
	case p.InternationalDeliveryCharge.IsNegative():
		return lib.NewValidationError("international_delivery_charge", "must not be negative")
	case p.StockQuantity < 0 && !p.IsMadeToOrder:
		return lib.NewValidationError("stock_quantity", "must not be negative unless made to order")
	}
	return nil
}

// IsClientError reports failures caused by the request rather than the server.
func IsClientError(err error) bool {
	var ve *lib.ValidationError
	var te *TransitionError
	return errors.As(err, &ve) ||
		errors.As(err, &te) ||
		errors.Is(err, lib.ErrNotFound) ||
		errors.Is(err, lib.ErrConflict) ||
		errors.Is(err, lib.ErrInvalid) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrPaymentMethodOff) ||
		errors.Is(err, ErrInvalidShippingCost) ||
		errors.Is(err, ErrInvalidNotification) ||
		isGiftCardError(err) ||
		isStatusRequirementError(err)
}
