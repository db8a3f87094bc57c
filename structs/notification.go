package structs

import "woodzire_server/structs/tables"

type NotificationType string

const (
	NotificationOrderCreated   NotificationType = "order_created"
	NotificationStatusChange   NotificationType = "status_change"
	NotificationStockUpdate    NotificationType = "stock_update"
	NotificationAdminAlert     NotificationType = "admin_alert"
	NotificationOrderCancelled NotificationType = "order_cancelled"
)

type NotificationPayload struct {
	Type    NotificationType `json:"type" validate:"required,oneof=order_created status_change stock_update admin_alert order_cancelled"`
	Order   *tables.Order    `json:"order,omitempty"`
	Product *tables.Product  `json:"product,omitempty"`
	Emails  []string         `json:"emails,omitempty" validate:"omitempty,dive,email"`
	Message string           `json:"message,omitempty" validate:"omitempty,max=2000"`
}

type NotificationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
