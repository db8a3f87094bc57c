package services

import (
	"fmt"
	"testing"
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAssignVariant(t *testing.T) {
	t.Run("stable per recipient", func(t *testing.T) {
		first := AssignVariant("Asha@Example.com", 50)
		for range 5 {
			assert.Equal(t, first, AssignVariant("  asha@example.com ", 50))
		}
	})

	t.Run("split extremes", func(t *testing.T) {
		for i := range 50 {
			email := fmt.Sprintf("buyer%d@example.com", i)
			assert.Equal(t, VariantA, AssignVariant(email, 0))
			assert.Equal(t, VariantB, AssignVariant(email, 100))
		}
	})

	t.Run("roughly follows the split", func(t *testing.T) {
		b := 0
		for i := range 1000 {
			if AssignVariant(fmt.Sprintf("buyer%d@example.com", i), 30) == VariantB {
				b++
			}
		}
		assert.InDelta(t, 300, b, 100)
	})
}

func TestAggregateCampaignStats(t *testing.T) {
	id := uuid.New()
	opened := testNow
	rows := []tables.EmailAnalytics{
		{Variant: VariantA, Status: "sent", OpenedAt: &opened, ClickedAt: &opened},
		{Variant: VariantA, Status: "sent"},
		{Variant: VariantB, Status: "failed"},
		{Variant: VariantB, Status: "opened", OpenedAt: &opened},
	}

	stats := aggregateCampaignStats(id, rows)
	assert.Equal(t, id, stats.CampaignID)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Sent)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.Opened)
	assert.Equal(t, 1, stats.Clicked)
	assert.Equal(t, 2, stats.Variants[VariantA].Sent)
	assert.Equal(t, 1, stats.Variants[VariantB].Failed)
	assert.Equal(t, 1, stats.Variants[VariantB].Opened)

	empty := aggregateCampaignStats(id, nil)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Variants)
}
