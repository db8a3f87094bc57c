package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/shopspring/decimal"
)

var (
	ErrSameStatus           = errors.New("order already has this status")
	ErrTrackingRequired     = errors.New("tracking number is required to ship an order")
	ErrCarrierRequired      = errors.New("carrier name is required to ship an order")
	ErrCancelReasonRequired = errors.New("cancellation reason is required")
	ErrInvalidRefund        = errors.New("refund amount must be between 0 and the order total")
	ErrInvalidDeliveryDate  = errors.New("estimated delivery date must be YYYY-MM-DD")
)

// TransitionError is returned for a move the transition table does not allow.
type TransitionError struct {
	From tables.OrderStatus
	To   tables.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

var allowedTransitions = map[tables.OrderStatus][]tables.OrderStatus{
	tables.OrderStatusPending:   {tables.OrderStatusPreparing, tables.OrderStatusShipped, tables.OrderStatusCancelled},
	tables.OrderStatusPreparing: {tables.OrderStatusShipped, tables.OrderStatusCancelled},
	tables.OrderStatusShipped:   {tables.OrderStatusDelivered, tables.OrderStatusCancelled},
}

func CanTransition(from, to tables.OrderStatus) bool {
	return slices.Contains(allowedTransitions[from], to)
}

// NextStatuses lists the moves available without force.
func NextStatuses(from tables.OrderStatus) []tables.OrderStatus {
	return slices.Clone(allowedTransitions[from])
}

// ValidateTransition checks a requested change against the table and the
// per-status field requirements. Force skips only the table.
func ValidateTransition(order *tables.Order, req *structs.StatusUpdateRequest) error {
	if req.Status == order.Status {
		return ErrSameStatus
	}
	if !req.Force && !CanTransition(order.Status, req.Status) {
		return &TransitionError{From: order.Status, To: req.Status}
	}

	switch req.Status {
	case tables.OrderStatusShipped:
		if strings.TrimSpace(req.TrackingNumber) == "" {
			return ErrTrackingRequired
		}
		if strings.TrimSpace(req.CarrierName) == "" {
			return ErrCarrierRequired
		}
		if req.EstimatedDeliveryDate != "" {
			if _, err := time.Parse(time.DateOnly, req.EstimatedDeliveryDate); err != nil {
				return ErrInvalidDeliveryDate
			}
		}
	case tables.OrderStatusCancelled:
		if strings.TrimSpace(req.CancellationReason) == "" {
			return ErrCancelReasonRequired
		}
		if req.RefundAmount != nil && (req.RefundAmount.IsNegative() || req.RefundAmount.GreaterThan(order.Total)) {
			return ErrInvalidRefund
		}
	}
	return nil
}

// ApplyTransition validates req, mutates order in place and returns the
// history row to append. It touches neither the database nor stock.
func ApplyTransition(order *tables.Order, req *structs.StatusUpdateRequest, changedBy string, now time.Time) (*tables.OrderStatusHistory, error) {
	if err := ValidateTransition(order, req); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = req.Status
	order.UpdatedAt = now

	switch req.Status {
	case tables.OrderStatusShipped:
		order.TrackingNumber = strings.TrimSpace(req.TrackingNumber)
		order.CarrierName = strings.TrimSpace(req.CarrierName)
		shippedAt := now
		order.ShippedAt = &shippedAt

		var eta time.Time
		if req.EstimatedDeliveryDate != "" {
			eta, _ = time.Parse(time.DateOnly, req.EstimatedDeliveryDate)
		} else {
			addr := order.ShippingAddress
			eta = EstimateDeliveryDate(now, order.CarrierName, ResolveZone(addr.Country, addr.State, addr.City))
		}
		order.EstimatedDeliveryDate = &eta

	case tables.OrderStatusDelivered:
		deliveredAt := now
		order.DeliveredAt = &deliveredAt

	case tables.OrderStatusCancelled:
		order.CancellationReason = strings.TrimSpace(req.CancellationReason)
		if req.RefundAmount != nil {
			refund := req.RefundAmount.Round(2)
			order.RefundAmount = &refund
		}
		order.RefundMethod = req.RefundMethod
		cancelledAt := now
		order.CancelledAt = &cancelledAt
	}

	if changedBy == "" {
		changedBy = "system"
	}
	return &tables.OrderStatusHistory{
		OrderID:        order.ID,
		Status:         req.Status,
		PreviousStatus: &previous,
		Notes:          transitionNotes(req, previous),
		ChangedBy:      changedBy,
		CreatedAt:      now,
	}, nil
}

func transitionNotes(req *structs.StatusUpdateRequest, previous tables.OrderStatus) string {
	var parts []string
	if req.Force && !CanTransition(previous, req.Status) {
		parts = append(parts, fmt.Sprintf("forced from %s", previous))
	}
	if req.Status == tables.OrderStatusCancelled {
		parts = append(parts, "reason: "+strings.TrimSpace(req.CancellationReason))
		if req.RefundAmount != nil && req.RefundAmount.GreaterThan(decimal.Zero) {
			parts = append(parts, "refund: "+req.RefundAmount.StringFixed(2))
		}
	}
	if note := strings.TrimSpace(req.Notes); note != "" {
		parts = append(parts, note)
	}
	return strings.Join(parts, "; ")
}

// StockEffect says what a move between two statuses does to inventory: 1
// returns the order's stock, -1 takes it again, 0 leaves it alone. Only
// crossing into or out of cancelled counts.
func StockEffect(previous, next tables.OrderStatus) int {
	switch {
	case previous != tables.OrderStatusCancelled && next == tables.OrderStatusCancelled:
		return 1
	case previous == tables.OrderStatusCancelled && next != tables.OrderStatusCancelled:
		return -1
	}
	return 0
}

// ApplyShippingCost sets the rounded shipping charge, recomputes the total
// and returns a history row recording the old and new charge. The status
// itself does not change.
func ApplyShippingCost(order *tables.Order, cost decimal.Decimal, changedBy string, now time.Time) *tables.OrderStatusHistory {
	previousCost := order.ShippingCost
	order.ShippingCost = lib.RoundRupees(cost)
	order.Total = order.Subtotal.Add(order.ShippingCost).Add(order.Tax)
	order.UpdatedAt = now

	if changedBy == "" {
		changedBy = "system"
	}
	status := order.Status
	return &tables.OrderStatusHistory{
		OrderID:        order.ID,
		Status:         status,
		PreviousStatus: &status,
		Notes:          fmt.Sprintf("Shipping cost changed from %s to %s", previousCost.StringFixed(2), order.ShippingCost.StringFixed(2)),
		ChangedBy:      changedBy,
		CreatedAt:      now,
	}
}
