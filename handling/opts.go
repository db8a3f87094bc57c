package handling

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"woodzire_server/services"
	"woodzire_server/structs/tables"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParseProductListOptions parses HTTP query parameters into ProductListOptions
func ParseProductListOptions(r *http.Request) (*services.ProductListOptions, error) {
	query := r.URL.Query()

	// Early return if no query params
	if len(query) == 0 {
		return &services.ProductListOptions{}, nil
	}

	opts := &services.ProductListOptions{}
	var err error

	if opts.Page, opts.PageSize, err = ParsePagination(r); err != nil {
		return nil, err
	}

	opts.Category = strings.TrimSpace(query.Get("category"))
	opts.WoodType = strings.TrimSpace(query.Get("wood_type"))
	opts.SearchTerm = strings.TrimSpace(query.Get("search"))

	for key, dst := range map[string]**bool{
		"is_featured": &opts.IsFeatured,
		"is_trending": &opts.IsTrending,
		"on_sale":     &opts.OnSale,
	} {
		if *dst, err = parseOptionalBool(query.Get(key), key); err != nil {
			return nil, err
		}
	}

	if opts.MinPrice, err = parseOptionalDecimal(query.Get("min_price"), "min_price"); err != nil {
		return nil, err
	}
	if opts.MaxPrice, err = parseOptionalDecimal(query.Get("max_price"), "max_price"); err != nil {
		return nil, err
	}

	if lowStock := query.Get("low_stock"); lowStock != "" {
		if opts.LowStockOnly, err = strconv.ParseBool(lowStock); err != nil {
			return nil, fmt.Errorf("invalid low_stock: %w", err)
		}
	}

	opts.SortBy = query.Get("sort_by")
	opts.SortDirection = strings.ToUpper(query.Get("sort_direction"))

	return opts, nil
}

// ParseOrderListOptions reads the admin order filters.
func ParseOrderListOptions(r *http.Request) (services.OrderListOptions, error) {
	page, pageSize, err := ParsePagination(r)
	if err != nil {
		return services.OrderListOptions{}, err
	}

	opts := services.OrderListOptions{
		Page:     page,
		PageSize: pageSize,
		Status:   tables.OrderStatus(strings.ToLower(r.URL.Query().Get("status"))),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if opts.Status != "" && !opts.Status.IsValid() {
		return services.OrderListOptions{}, fmt.Errorf("invalid status %q", opts.Status)
	}
	return opts, nil
}

// ParsePagination returns zeroes for missing values so services apply their defaults.
func ParsePagination(r *http.Request) (page, pageSize int, err error) {
	query := r.URL.Query()
	if v := query.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("invalid page: %w", err)
		}
	}
	if v := query.Get("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("invalid page_size: %w", err)
		}
	}
	return page, pageSize, nil
}

// ParseUUIDParam reads a chi URL parameter as a non-nil UUID.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return id, nil
}

// QueryFlag is true only for an explicit truthy value.
func QueryFlag(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

func parseOptionalBool(raw, key string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}

func parseOptionalDecimal(raw, key string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v.IsNegative() {
		return nil, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return &v, nil
}
