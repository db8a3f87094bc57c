package services

import (
	"testing"
	"time"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(status tables.OrderStatus) *tables.Order {
	return &tables.Order{
		ID:     uuid.New(),
		Status: status,
		Total:  dec("2223"),
		ShippingAddress: tables.ShippingAddress{
			City:    "Jaipur",
			State:   "Rajasthan",
			Country: "India",
		},
	}
}

func TestTransitionTable(t *testing.T) {
	all := tables.OrderStatuses
	allowed := map[tables.OrderStatus][]tables.OrderStatus{
		tables.OrderStatusPending:   {tables.OrderStatusPreparing, tables.OrderStatusShipped, tables.OrderStatusCancelled},
		tables.OrderStatusPreparing: {tables.OrderStatusShipped, tables.OrderStatusCancelled},
		tables.OrderStatusShipped:   {tables.OrderStatusDelivered, tables.OrderStatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.Empty(t, NextStatuses(tables.OrderStatusDelivered))
	assert.Empty(t, NextStatuses(tables.OrderStatusCancelled))
}

func TestValidateTransition(t *testing.T) {
	negative := dec("-1")
	tooMuch := dec("5000")
	refund := dec("2223")

	tests := []struct {
		name string
		from tables.OrderStatus
		req  structs.StatusUpdateRequest
		want error
	}{
		{"same status", tables.OrderStatusPending, structs.StatusUpdateRequest{Status: tables.OrderStatusPending}, ErrSameStatus},
		{"same status even when forced", tables.OrderStatusPending, structs.StatusUpdateRequest{Status: tables.OrderStatusPending, Force: true}, ErrSameStatus},
		{"ship without tracking", tables.OrderStatusPreparing, structs.StatusUpdateRequest{Status: tables.OrderStatusShipped, CarrierName: "dtdc"}, ErrTrackingRequired},
		{"ship without carrier", tables.OrderStatusPreparing, structs.StatusUpdateRequest{Status: tables.OrderStatusShipped, TrackingNumber: "T1"}, ErrCarrierRequired},
		{"forced ship still needs tracking", tables.OrderStatusDelivered, structs.StatusUpdateRequest{Status: tables.OrderStatusShipped, Force: true}, ErrTrackingRequired},
		{"bad eta", tables.OrderStatusPending, structs.StatusUpdateRequest{Status: tables.OrderStatusShipped, TrackingNumber: "T1", CarrierName: "dtdc", EstimatedDeliveryDate: "03/04/2026"}, ErrInvalidDeliveryDate},
		{"cancel without reason", tables.OrderStatusPending, structs.StatusUpdateRequest{Status: tables.OrderStatusCancelled}, ErrCancelReasonRequired},
		{"negative refund", tables.OrderStatusPending, structs.StatusUpdateRequest{Status: tables.OrderStatusCancelled, CancellationReason: "x", RefundAmount: &negative}, ErrInvalidRefund},
		{"refund above total", tables.OrderStatusPending, structs.StatusUpdateRequest{Status: tables.OrderStatusCancelled, CancellationReason: "x", RefundAmount: &tooMuch}, ErrInvalidRefund},
		{"full refund", tables.OrderStatusShipped, structs.StatusUpdateRequest{Status: tables.OrderStatusCancelled, CancellationReason: "damaged", RefundAmount: &refund}, nil},
		{"prepare", tables.OrderStatusPending, structs.StatusUpdateRequest{Status: tables.OrderStatusPreparing}, nil},
		{"forced reopen", tables.OrderStatusCancelled, structs.StatusUpdateRequest{Status: tables.OrderStatusPending, Force: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(testOrder(tt.from), &tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateTransitionOutsideTable(t *testing.T) {
	err := ValidateTransition(testOrder(tables.OrderStatusDelivered), &structs.StatusUpdateRequest{Status: tables.OrderStatusPending})

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tables.OrderStatusDelivered, te.From)
	assert.Equal(t, tables.OrderStatusPending, te.To)
	assert.Contains(t, te.Error(), "delivered to pending")
}

func TestApplyTransitionShipped(t *testing.T) {
	order := testOrder(tables.OrderStatusPreparing)

	history, err := ApplyTransition(order, &structs.StatusUpdateRequest{
		Status:         tables.OrderStatusShipped,
		TrackingNumber: " DL123 ",
		CarrierName:    "Delhivery",
	}, "admin-1", testNow)
	require.NoError(t, err)

	assert.Equal(t, tables.OrderStatusShipped, order.Status)
	assert.Equal(t, "DL123", order.TrackingNumber)
	require.NotNil(t, order.ShippedAt)
	require.NotNil(t, order.EstimatedDeliveryDate)
	assert.Equal(t, testNow.AddDate(0, 0, 5), *order.EstimatedDeliveryDate)

	assert.Equal(t, order.ID, history.OrderID)
	assert.Equal(t, tables.OrderStatusShipped, history.Status)
	require.NotNil(t, history.PreviousStatus)
	assert.Equal(t, tables.OrderStatusPreparing, *history.PreviousStatus)
	assert.Equal(t, "admin-1", history.ChangedBy)
	assert.Empty(t, history.Notes)
}

func TestApplyTransitionExplicitETA(t *testing.T) {
	order := testOrder(tables.OrderStatusPending)

	_, err := ApplyTransition(order, &structs.StatusUpdateRequest{
		Status:                tables.OrderStatusShipped,
		TrackingNumber:        "BD1",
		CarrierName:           "bluedart",
		EstimatedDeliveryDate: "2026-03-20",
	}, "", testNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-20", order.EstimatedDeliveryDate.Format(time.DateOnly))
}

func TestApplyTransitionCancelled(t *testing.T) {
	order := testOrder(tables.OrderStatusShipped)
	refund := dec("1000")

	history, err := ApplyTransition(order, &structs.StatusUpdateRequest{
		Status:             tables.OrderStatusCancelled,
		CancellationReason: "customer request",
		RefundAmount:       &refund,
		RefundMethod:       "upi",
	}, "", testNow)
	require.NoError(t, err)

	assert.Equal(t, "customer request", order.CancellationReason)
	require.NotNil(t, order.RefundAmount)
	assert.True(t, refund.Equal(*order.RefundAmount))
	assert.Equal(t, "upi", order.RefundMethod)
	require.NotNil(t, order.CancelledAt)
	assert.Equal(t, "system", history.ChangedBy)
	assert.Equal(t, "reason: customer request; refund: 1000.00", history.Notes)
}

func TestApplyTransitionForcedNotes(t *testing.T) {
	order := testOrder(tables.OrderStatusDelivered)

	history, err := ApplyTransition(order, &structs.StatusUpdateRequest{
		Status: tables.OrderStatusPreparing,
		Force:  true,
		Notes:  "reship",
	}, "admin-1", testNow)
	require.NoError(t, err)
	assert.Equal(t, "forced from delivered; reship", history.Notes)
}

func TestApplyTransitionLeavesOrderOnError(t *testing.T) {
	order := testOrder(tables.OrderStatusPending)
	_, err := ApplyTransition(order, &structs.StatusUpdateRequest{Status: tables.OrderStatusDelivered}, "", testNow)

	require.Error(t, err)
	assert.Equal(t, tables.OrderStatusPending, order.Status)
	assert.Nil(t, order.DeliveredAt)
}

func TestStockEffect(t *testing.T) {
	tests := []struct {
		name     string
		previous tables.OrderStatus
		next     tables.OrderStatus
		want     int
	}{
		{"cancel pending", tables.OrderStatusPending, tables.OrderStatusCancelled, 1},
		{"cancel shipped", tables.OrderStatusShipped, tables.OrderStatusCancelled, 1},
		{"forced un-cancel", tables.OrderStatusCancelled, tables.OrderStatusPending, -1},
		{"forced un-cancel to delivered", tables.OrderStatusCancelled, tables.OrderStatusDelivered, -1},
		{"ship", tables.OrderStatusPreparing, tables.OrderStatusShipped, 0},
		{"forced rewind", tables.OrderStatusDelivered, tables.OrderStatusPending, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StockEffect(tt.previous, tt.next))
		})
	}
}

func TestStockEffectCancelCycleNetsZero(t *testing.T) {
	order := testOrder(tables.OrderStatusPending)
	steps := []*structs.StatusUpdateRequest{
		{Status: tables.OrderStatusCancelled, CancellationReason: "customer asked"},
		{Status: tables.OrderStatusPending, Force: true},
		{Status: tables.OrderStatusCancelled, CancellationReason: "customer asked again"},
		{Status: tables.OrderStatusPreparing, Force: true},
	}

	stock := 0
	for _, req := range steps {
		previous := order.Status
		_, err := ApplyTransition(order, req, "admin", testNow)
		require.NoError(t, err)
		stock += StockEffect(previous, order.Status)
		assert.GreaterOrEqual(t, stock, 0)
		assert.LessOrEqual(t, stock, 1)
	}
	assert.Zero(t, stock)
}

func TestApplyShippingCost(t *testing.T) {
	order := testOrder(tables.OrderStatusPreparing)
	order.Subtotal = dec("2000")
	order.ShippingCost = dec("140")
	order.Tax = dec("83")
	order.Total = dec("2223")

	history := ApplyShippingCost(order, dec("249.6"), "", testNow)

	assert.True(t, dec("250").Equal(order.ShippingCost))
	assert.True(t, dec("2333").Equal(order.Total))
	assert.Equal(t, testNow, order.UpdatedAt)

	assert.Equal(t, order.ID, history.OrderID)
	assert.Equal(t, tables.OrderStatusPreparing, history.Status)
	require.NotNil(t, history.PreviousStatus)
	assert.Equal(t, tables.OrderStatusPreparing, *history.PreviousStatus)
	assert.Equal(t, "Shipping cost changed from 140.00 to 250.00", history.Notes)
	assert.Equal(t, "system", history.ChangedBy)
}
