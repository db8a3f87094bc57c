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
	"github.com/shopspring/decimal"
)

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", lib.ErrNotFound)
	ErrBundleNotFound   = fmt.Errorf("bundle %w", lib.ErrNotFound)
)

// CatalogService manages categories and product bundles.
type CatalogService struct {
	logger *gecho.Logger
	db     *database.DB
	now    func() time.Time
}

func NewCatalogService(logger *gecho.Logger, db *database.DB) *CatalogService {
	return &CatalogService{logger: logger, db: db, now: time.Now}
}

func (cs *CatalogService) ListCategories(ctx context.Context, includeInactive bool) ([]tables.Category, error) {
	query := database.Query[tables.Category](cs.db).OrderBy("sort_order", database.ASC).OrderBy("name", database.ASC)
	if !includeInactive {
		query = query.Where("is_active", true)
	}
	categories, err := query.All(ctx)
	if err != nil {
		cs.logger.Error("Failed to list categories", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list categories: %w", lib.MapPgError(err))
	}
	return categories, nil
}

func (cs *CatalogService) CreateCategory(ctx context.Context, req *structs.CategoryRequest) (*tables.Category, error) {
	category := &tables.Category{}
	applyCategoryRequest(category, req)

	created, err := database.Query[tables.Category](cs.db).Insert(ctx, category)
	if err != nil {
		return nil, cs.writeError("create category", category.Slug, err)
	}
	cs.logger.Info("Category created", gecho.Field("id", created.ID), gecho.Field("slug", created.Slug))
	return created, nil
}

func (cs *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *structs.CategoryRequest) (*tables.Category, error) {
	category, err := database.FindByID[tables.Category](cs.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", lib.MapPgError(err))
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	applyCategoryRequest(category, req)
	if err := database.Query[tables.Category](cs.db).UpdateModel(ctx, category); err != nil {
		return nil, cs.writeError("update category", category.Slug, err)
	}
	cs.logger.Info("Category updated", gecho.Field("id", id))
	return category, nil
}

func (cs *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	affected, err := database.DeleteByID[tables.Category](cs.db, ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	cs.logger.Info("Category deleted", gecho.Field("id", id))
	return nil
}

func applyCategoryRequest(c *tables.Category, req *structs.CategoryRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.Slug = lib.Slugify(req.Slug)
	if c.Slug == "" {
		c.Slug = lib.Slugify(c.Name)
	}
	c.Description = strings.TrimSpace(req.Description)
	c.ImageURL = strings.TrimSpace(req.ImageURL)
	c.SortOrder = req.SortOrder
	c.IsActive = req.IsActive
}

// ListBundles returns bundles with their savings priced at today's
// effective item prices.
func (cs *CatalogService) ListBundles(ctx context.Context, includeInactive bool) ([]structs.BundleView, error) {
	query := database.Query[tables.ProductBundle](cs.db).OrderBy("created_at", database.DESC)
	if !includeInactive {
		query = query.Where("is_active", true)
	}
	bundles, err := query.All(ctx)
	if err != nil {
		cs.logger.Error("Failed to list bundles", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list bundles: %w", lib.MapPgError(err))
	}

	var ids []uuid.UUID
	for _, b := range bundles {
		ids = append(ids, b.ProductIDs...)
	}
	products, err := cs.pricedProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]structs.BundleView, 0, len(bundles))
	for i := range bundles {
		views = append(views, BuildBundleView(&bundles[i], products))
	}
	return views, nil
}

func (cs *CatalogService) GetBundle(ctx context.Context, id uuid.UUID) (*structs.BundleView, error) {
	bundle, err := database.FindByID[tables.ProductBundle](cs.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle: %w", lib.MapPgError(err))
	}
	if bundle == nil || !bundle.IsActive {
		return nil, ErrBundleNotFound
	}
	products, err := cs.pricedProducts(ctx, bundle.ProductIDs)
	if err != nil {
		return nil, err
	}
	view := BuildBundleView(bundle, products)
	return &view, nil
}

func (cs *CatalogService) CreateBundle(ctx context.Context, req *structs.BundleRequest) (*tables.ProductBundle, error) {
	bundle := &tables.ProductBundle{}
	if err := cs.applyBundleRequest(ctx, bundle, req); err != nil {
		return nil, err
	}
	created, err := database.Query[tables.ProductBundle](cs.db).Insert(ctx, bundle)
	if err != nil {
		return nil, cs.writeError("create bundle", bundle.Slug, err)
	}
	cs.logger.Info("Bundle created", gecho.Field("id", created.ID), gecho.Field("products", len(created.ProductIDs)))
	return created, nil
}

func (cs *CatalogService) UpdateBundle(ctx context.Context, id uuid.UUID, req *structs.BundleRequest) (*tables.ProductBundle, error) {
	bundle, err := database.FindByID[tables.ProductBundle](cs.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle: %w", lib.MapPgError(err))
	}
	if bundle == nil {
		return nil, ErrBundleNotFound
	}
	if err := cs.applyBundleRequest(ctx, bundle, req); err != nil {
		return nil, err
	}
	bundle.UpdatedAt = cs.now()
	if err := database.Query[tables.ProductBundle](cs.db).UpdateModel(ctx, bundle); err != nil {
		return nil, cs.writeError("update bundle", bundle.Slug, err)
	}
	cs.logger.Info("Bundle updated", gecho.Field("id", id))
	return bundle, nil
}

func (cs *CatalogService) DeleteBundle(ctx context.Context, id uuid.UUID) error {
	affected, err := database.DeleteByID[tables.ProductBundle](cs.db, ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete bundle: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrBundleNotFound
	}
	cs.logger.Info("Bundle deleted", gecho.Field("id", id))
	return nil
}

// applyBundleRequest rejects bundles that name unknown products.
func (cs *CatalogService) applyBundleRequest(ctx context.Context, b *tables.ProductBundle, req *structs.BundleRequest) error {
	if req.BundlePrice.IsNegative() {
		return lib.NewValidationError("bundle_price", "must not be negative")
	}
	ids := uniqueIDs(req.ProductIDs)
	if len(ids) < 2 {
		return lib.NewValidationError("product_ids", "a bundle needs at least two different products")
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	found, err := database.Query[tables.Product](cs.db).WhereIn("id", args).Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check bundle products: %w", lib.MapPgError(err))
	}
	if found != len(ids) {
		return lib.NewValidationError("product_ids", "one or more products do not exist")
	}

	b.Name = strings.TrimSpace(req.Name)
	b.Slug = lib.Slugify(req.Slug)
	if b.Slug == "" {
		b.Slug = lib.Slugify(b.Name)
	}
	b.Description = strings.TrimSpace(req.Description)
	b.ProductIDs = ids
	b.BundlePrice = lib.RoundRupees(req.BundlePrice)
	b.ImageURL = strings.TrimSpace(req.ImageURL)
	b.IsActive = req.IsActive
	return nil
}

func (cs *CatalogService) pricedProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*tables.Product, error) {
	out := make(map[uuid.UUID]*tables.Product)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	products, err := database.Query[tables.Product](cs.db).WhereIn("id", args).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle products: %w", lib.MapPgError(err))
	}

	now := cs.now()
	sales, err := loadLiveSales(ctx, cs.db, now)
	if err != nil {
		cs.logger.Warn("Failed to load live sales for bundles", gecho.Field("error", err))
	}
	ApplyEffectivePricing(products, sales, now)
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

func (cs *CatalogService) writeError(action, slug string, err error) error {
	err = lib.MapPgError(err)
	if lib.IsUniqueViolation(err) {
		return ErrSlugTaken
	}
	cs.logger.Error("Failed to "+action, gecho.Field("slug", slug), gecho.Field("error", err))
	return fmt.Errorf("failed to %s: %w", action, err)
}

// BuildBundleView totals the effective prices of the bundle's products.
// Savings never go below zero; missing products count as nothing.
func BuildBundleView(b *tables.ProductBundle, products map[uuid.UUID]*tables.Product) structs.BundleView {
	total := decimal.Zero
	for _, id := range b.ProductIDs {
		if p, ok := products[id]; ok {
			total = total.Add(p.EffectivePrice)
		}
	}
	savings := total.Sub(b.BundlePrice)
	if savings.IsNegative() {
		savings = decimal.Zero
	}
	return structs.BundleView{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		ProductIDs:  b.ProductIDs,
		BundlePrice: b.BundlePrice,
		ItemsTotal:  total,
		Savings:     savings,
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
