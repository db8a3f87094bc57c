package services

import (
	"slices"
	"strings"
	"time"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/shopspring/decimal"
)

// IsSaleLive: active, not paused and start <= now < end.
func IsSaleLive(s *tables.ScheduledSale, now time.Time) bool {
	return s.IsActive && !s.IsPaused && !now.Before(s.StartDate) && now.Before(s.EndDate)
}

// ClassifySales buckets sales at read time. Upcoming and Past go by date
// alone, with the end date exclusive. A sale inside its window is Live, or
// Inactive when switched off. Paused sales are listed under Paused as well.
func ClassifySales(sales []tables.ScheduledSale, now time.Time) *structs.SaleBuckets {
	buckets := &structs.SaleBuckets{
		Live:     []tables.ScheduledSale{},
		Upcoming: []tables.ScheduledSale{},
		Past:     []tables.ScheduledSale{},
		Paused:   []tables.ScheduledSale{},
		Inactive: []tables.ScheduledSale{},
	}

	for _, s := range sales {
		switch {
		case now.Before(s.StartDate):
			buckets.Upcoming = append(buckets.Upcoming, s)
		case !now.Before(s.EndDate):
			buckets.Past = append(buckets.Past, s)
		case IsSaleLive(&s, now):
			buckets.Live = append(buckets.Live, s)
		case !s.IsActive:
			buckets.Inactive = append(buckets.Inactive, s)
		}
		if s.IsPaused {
			buckets.Paused = append(buckets.Paused, s)
		}
	}
	return buckets
}

// SaleTargets reports whether the sale covers product p.
func SaleTargets(s *tables.ScheduledSale, p *tables.Product) bool {
	switch s.SaleType {
	case tables.SaleTypeAll:
		return true
	case tables.SaleTypeCategory:
		return s.TargetCategory != "" && strings.EqualFold(strings.TrimSpace(s.TargetCategory), strings.TrimSpace(p.Category))
	case tables.SaleTypeProducts:
		return slices.Contains(s.TargetProductIDs, p.ID)
	}
	return false
}

// EffectiveDiscount is the best of the product's own discount and any live
// sale targeting it.
func EffectiveDiscount(p *tables.Product, sales []tables.ScheduledSale, now time.Time) decimal.Decimal {
	best := decimal.Zero
	if p.IsOnSale {
		best = p.DiscountPercentage
	}
	for i := range sales {
		if IsSaleLive(&sales[i], now) && SaleTargets(&sales[i], p) {
			best = decimal.Max(best, sales[i].DiscountPercentage)
		}
	}
	return best
}

// ApplyEffectivePricing fills the computed price fields of each product.
func ApplyEffectivePricing(products []tables.Product, sales []tables.ScheduledSale, now time.Time) {
	for i := range products {
		p := &products[i]
		p.EffectiveDiscount = EffectiveDiscount(p, sales, now)
		p.EffectivePrice = EffectivePrice(p.Price, p.EffectiveDiscount)
	}
}

// IsBannerActive treats a missing window bound as open.
func IsBannerActive(b *tables.PromotionalBanner, now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartDate != nil && now.Before(*b.StartDate) {
		return false
	}
	if b.EndDate != nil && !now.Before(*b.EndDate) {
		return false
	}
	return true
}

func ActiveBanners(banners []tables.PromotionalBanner, now time.Time) []tables.PromotionalBanner {
	active := make([]tables.PromotionalBanner, 0, len(banners))
	for i := range banners {
		if IsBannerActive(&banners[i], now) {
			active = append(active, banners[i])
		}
	}
	return active
}
