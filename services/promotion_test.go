package services

import (
	"testing"
	"time"
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(name string, discount string, start, end time.Duration) tables.ScheduledSale {
	return tables.ScheduledSale{
		ID:                 uuid.New(),
		Name:               name,
		DiscountPercentage: dec(discount),
		SaleType:           tables.SaleTypeAll,
		StartDate:          testNow.Add(start),
		EndDate:            testNow.Add(end),
		IsActive:           true,
	}
}

func TestClassifySales(t *testing.T) {
	live := sale("diwali", "20", -time.Hour, time.Hour)
	upcoming := sale("holi", "10", time.Hour, 48*time.Hour)
	past := sale("summer", "15", -48*time.Hour, -time.Hour)
	paused := sale("paused", "30", -time.Hour, time.Hour)
	paused.IsPaused = true
	startsNow := sale("starts-now", "5", 0, time.Hour)

	b := ClassifySales([]tables.ScheduledSale{live, upcoming, past, paused, startsNow}, testNow)

	names := func(sales []tables.ScheduledSale) []string {
		out := []string{}
		for _, s := range sales {
			out = append(out, s.Name)
		}
		return out
	}
	assert.Equal(t, []string{"diwali", "starts-now"}, names(b.Live))
	assert.Equal(t, []string{"holi"}, names(b.Upcoming))
	assert.Equal(t, []string{"summer"}, names(b.Past))
	assert.Equal(t, []string{"paused"}, names(b.Paused))
}

func TestClassifySalesEverySaleBucketed(t *testing.T) {
	inactive := sale("switched-off", "10", -time.Hour, time.Hour)
	inactive.IsActive = false
	endsNow := sale("ends-now", "10", -time.Hour, 0)
	inactivePast := sale("old-off", "10", -48*time.Hour, -time.Hour)
	inactivePast.IsActive = false
	pausedOff := sale("paused-off", "10", -time.Hour, time.Hour)
	pausedOff.IsActive = false
	pausedOff.IsPaused = true

	sales := []tables.ScheduledSale{inactive, endsNow, inactivePast, pausedOff}
	b := ClassifySales(sales, testNow)

	buckets := map[string][]tables.ScheduledSale{
		"live":     b.Live,
		"upcoming": b.Upcoming,
		"past":     b.Past,
		"paused":   b.Paused,
		"inactive": b.Inactive,
	}
	tests := []struct {
		name string
		want []string
	}{
		{"switched-off", []string{"inactive"}},
		{"ends-now", []string{"past"}},
		{"old-off", []string{"past"}},
		{"paused-off", []string{"paused", "inactive"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, key := range []string{"live", "upcoming", "past", "paused", "inactive"} {
				for _, s := range buckets[key] {
					if s.Name == tt.name {
						got = append(got, key)
					}
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSaleLiveBoundaries(t *testing.T) {
	s := sale("edge", "10", 0, time.Hour)
	assert.True(t, IsSaleLive(&s, testNow), "start is inclusive")
	assert.False(t, IsSaleLive(&s, testNow.Add(time.Hour)), "end is exclusive")

	s.IsActive = false
	assert.False(t, IsSaleLive(&s, testNow))
}

func TestEffectiveDiscount(t *testing.T) {
	product := &tables.Product{ID: uuid.New(), Category: "Kitchen", Price: dec("1000")}

	all := sale("all", "10", -time.Hour, time.Hour)
	category := sale("category", "25", -time.Hour, time.Hour)
	category.SaleType = tables.SaleTypeCategory
	category.TargetCategory = "kitchen"
	otherCategory := sale("decor", "40", -time.Hour, time.Hour)
	otherCategory.SaleType = tables.SaleTypeCategory
	otherCategory.TargetCategory = "Decor"
	byID := sale("ids", "30", -time.Hour, time.Hour)
	byID.SaleType = tables.SaleTypeProducts
	byID.TargetProductIDs = []uuid.UUID{uuid.New(), product.ID}
	expired := sale("expired", "90", -48*time.Hour, -time.Hour)

	assert.True(t, dec("0").Equal(EffectiveDiscount(product, nil, testNow)))
	assert.True(t, dec("10").Equal(EffectiveDiscount(product, []tables.ScheduledSale{all, otherCategory, expired}, testNow)))
	assert.True(t, dec("25").Equal(EffectiveDiscount(product, []tables.ScheduledSale{all, category}, testNow)))
	assert.True(t, dec("30").Equal(EffectiveDiscount(product, []tables.ScheduledSale{all, category, byID}, testNow)))

	product.IsOnSale = true
	product.DiscountPercentage = dec("35")
	assert.True(t, dec("35").Equal(EffectiveDiscount(product, []tables.ScheduledSale{all, category, byID}, testNow)))

	// own discount ignored when the flag is off
	product.IsOnSale = false
	assert.True(t, dec("30").Equal(EffectiveDiscount(product, []tables.ScheduledSale{byID}, testNow)))
}

func TestApplyEffectivePricing(t *testing.T) {
	products := []tables.Product{
		{ID: uuid.New(), Price: dec("1999"), IsOnSale: true, DiscountPercentage: dec("10")},
		{ID: uuid.New(), Price: dec("500")},
	}
	ApplyEffectivePricing(products, nil, testNow)

	require.Len(t, products, 2)
	assert.True(t, dec("1799").Equal(products[0].EffectivePrice), products[0].EffectivePrice.String())
	assert.True(t, dec("500").Equal(products[1].EffectivePrice))
}

func TestBannerWindow(t *testing.T) {
	before := testNow.Add(-time.Hour)
	after := testNow.Add(time.Hour)

	tests := []struct {
		name   string
		banner tables.PromotionalBanner
		want   bool
	}{
		{"open window", tables.PromotionalBanner{IsActive: true}, true},
		{"inactive", tables.PromotionalBanner{}, false},
		{"started", tables.PromotionalBanner{IsActive: true, StartDate: &before}, true},
		{"not started", tables.PromotionalBanner{IsActive: true, StartDate: &after}, false},
		{"ended", tables.PromotionalBanner{IsActive: true, EndDate: &before}, false},
		{"inside", tables.PromotionalBanner{IsActive: true, StartDate: &before, EndDate: &after}, true},
		{"ends now", tables.PromotionalBanner{IsActive: true, EndDate: &testNow}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBannerActive(&tt.banner, testNow))
		})
	}

	banners := []tables.PromotionalBanner{tests[0].banner, tests[1].banner, tests[5].banner}
	assert.Len(t, ActiveBanners(banners, testNow), 2)
}

func TestDeliveryZones(t *testing.T) {
	assert.Equal(t, ZoneInternational, ResolveZone("USA", "California", "San Francisco"))
	assert.Equal(t, ZoneMetro, ResolveZone("India", "Maharashtra", " Mumbai "))
	assert.Equal(t, ZoneMetro, ResolveZone("india", "Delhi", "New  Delhi"))
	assert.Equal(t, ZoneRemote, ResolveZone("India", "Assam", "Guwahati"))
	assert.Equal(t, ZoneRemote, ResolveZone("India", "Jammu & Kashmir", "Srinagar"))
	assert.Equal(t, ZoneRemote, ResolveZone("India", "Andaman & Nicobar Islands", "Port Blair"))
	assert.Equal(t, ZoneDomestic, ResolveZone("India", "Rajasthan", "Jaipur"))
}

func TestTransitDays(t *testing.T) {
	assert.Equal(t, 2, TransitDays("Blue Dart", ZoneMetro))
	assert.Equal(t, 2, TransitDays("bluedart", ZoneMetro))
	assert.Equal(t, 12, TransitDays("India_Post", ZoneRemote))
	assert.Equal(t, 6, TransitDays("DHL", ZoneInternational))
	assert.Equal(t, 6, TransitDays("some local courier", ZoneDomestic))

	shipped := time.Date(2026, 3, 30, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 4, 9, 0, 0, 0, time.UTC), EstimateDeliveryDate(shipped, "delhivery", ZoneDomestic))
}
