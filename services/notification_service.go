package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"slices"
	"time"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidNotification = errors.New("invalid notification payload")

// emailData is the single view model every template renders from.
type emailData struct {
	Title          string
	UnsubscribeURL string
	Order          *tables.Order
	Product        *tables.Product
	GiftCard       *tables.GiftCard
	Cart           *tables.AbandonedCart
	Message        string
	Content        template.HTML
	TrackURL       string
	ProductURL     string
	ShopURL        string
}

type outgoingEmail struct {
	to       []string
	subject  string
	template string
	data     *emailData
}

type NotificationService struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	sender   EmailSender
	settings SettingsProvider
}

func NewNotificationService(logger *gecho.Logger, cfg *structs.Config, sender EmailSender, settings SettingsProvider) *NotificationService {
	return &NotificationService{
		logger:   logger,
		cfg:      cfg,
		sender:   sender,
		settings: settings,
	}
}

// Dispatch routes a payload to its customer and admin emails and sends them
// concurrently. The first failure becomes the result.
func (ns *NotificationService) Dispatch(ctx context.Context, payload *structs.NotificationPayload) (*structs.NotificationResult, error) {
	emails, err := ns.route(ctx, payload)
	if err != nil {
		return &structs.NotificationResult{Success: false, Message: err.Error()}, err
	}
	emails = slices.DeleteFunc(emails, func(e outgoingEmail) bool { return len(e.to) == 0 })
	if len(emails) == 0 {
		return &structs.NotificationResult{Success: true, Message: "nothing to send"}, nil
	}

	g := new(errgroup.Group)
	g.SetLimit(5)
	for _, email := range emails {
		g.Go(func() error {
			body, err := renderEmail(email.template, email.data)
			if err != nil {
				return err
			}
			if err := ns.sender.SendEmail(email.to, email.subject, body); err != nil {
				return fmt.Errorf("failed to send %s email: %w", email.template, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		ns.logger.Error("Notification failed", gecho.Field("type", payload.Type), gecho.Field("error", err))
		return &structs.NotificationResult{Success: false, Message: err.Error()}, err
	}

	ns.logger.Info("Notification sent", gecho.Field("type", payload.Type), gecho.Field("emails", len(emails)))
	return &structs.NotificationResult{Success: true, Message: fmt.Sprintf("sent %d email(s)", len(emails))}, nil
}

// DispatchAsync is fire-and-forget: failures are logged and never retried.
func (ns *NotificationService) DispatchAsync(payload *structs.NotificationPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := ns.Dispatch(ctx, payload); err != nil {
			ns.logger.Warn("Async notification failed", gecho.Field("type", payload.Type), gecho.Field("error", err))
		}
	}()
}

func (ns *NotificationService) route(ctx context.Context, p *structs.NotificationPayload) ([]outgoingEmail, error) {
	switch p.Type {
	case structs.NotificationOrderCreated:
		if p.Order == nil {
			return nil, fmt.Errorf("%w: order is required for %s", ErrInvalidNotification, p.Type)
		}
		return []outgoingEmail{
			ns.customerEmail(p.Order, "Order confirmed: "+p.Order.OrderNumber, "order_confirmation", "Thank you for your order"),
			ns.adminEmail(ctx, p.Emails, "New order "+p.Order.OrderNumber, "admin_new_order", &emailData{Title: "New order", Order: p.Order}),
		}, nil

	case structs.NotificationStatusChange:
		if p.Order == nil {
			return nil, fmt.Errorf("%w: order is required for %s", ErrInvalidNotification, p.Type)
		}
		switch p.Order.Status {
		case tables.OrderStatusPreparing:
			return []outgoingEmail{ns.customerEmail(p.Order, "We're preparing your order "+p.Order.OrderNumber, "status_preparing", "Your order is being prepared")}, nil
		case tables.OrderStatusShipped:
			return []outgoingEmail{ns.customerEmail(p.Order, "Your order "+p.Order.OrderNumber+" has shipped", "status_shipped", "Your order has shipped")}, nil
		case tables.OrderStatusDelivered:
			return []outgoingEmail{ns.customerEmail(p.Order, "Your order "+p.Order.OrderNumber+" was delivered", "status_delivered", "Delivered")}, nil
		case tables.OrderStatusCancelled:
			return ns.cancelledEmails(ctx, p), nil
		}
		return nil, nil

	case structs.NotificationOrderCancelled:
		if p.Order == nil {
			return nil, fmt.Errorf("%w: order is required for %s", ErrInvalidNotification, p.Type)
		}
		return ns.cancelledEmails(ctx, p), nil

	case structs.NotificationStockUpdate:
		if p.Product == nil {
			return nil, fmt.Errorf("%w: product is required for %s", ErrInvalidNotification, p.Type)
		}
		if len(p.Emails) == 0 {
			return nil, fmt.Errorf("%w: emails are required for %s", ErrInvalidNotification, p.Type)
		}
		// one message per subscriber so addresses are not shared
		out := make([]outgoingEmail, 0, len(p.Emails))
		for _, to := range p.Emails {
			out = append(out, outgoingEmail{
				to:       []string{to},
				subject:  p.Product.Name + " is back in stock",
				template: "back_in_stock",
				data:     &emailData{Title: "Back in stock", Product: p.Product, ProductURL: ns.frontendURL("/products/" + url.PathEscape(p.Product.Slug))},
			})
		}
		return out, nil

	case structs.NotificationAdminAlert:
		if p.Message == "" {
			return nil, fmt.Errorf("%w: message is required for %s", ErrInvalidNotification, p.Type)
		}
		return []outgoingEmail{
			ns.adminEmail(ctx, p.Emails, "Store alert", "admin_alert", &emailData{Title: "Store alert", Message: p.Message, Product: p.Product}),
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidNotification, p.Type)
}

func (ns *NotificationService) cancelledEmails(ctx context.Context, p *structs.NotificationPayload) []outgoingEmail {
	return []outgoingEmail{
		ns.customerEmail(p.Order, "Your order "+p.Order.OrderNumber+" was cancelled", "order_cancelled", "Order cancelled"),
		ns.adminEmail(ctx, p.Emails, "Order "+p.Order.OrderNumber+" cancelled", "admin_order_cancelled", &emailData{Title: "Order cancelled", Order: p.Order}),
	}
}

func (ns *NotificationService) customerEmail(order *tables.Order, subject, tmpl, title string) outgoingEmail {
	return outgoingEmail{
		to:       []string{order.CustomerEmail},
		subject:  subject,
		template: tmpl,
		data:     &emailData{Title: title, Order: order, TrackURL: ns.trackURL(order)},
	}
}

func (ns *NotificationService) adminEmail(ctx context.Context, override []string, subject, tmpl string, data *emailData) outgoingEmail {
	to := override
	if len(to) == 0 {
		to = ns.adminRecipients(ctx)
	}
	return outgoingEmail{to: to, subject: subject, template: tmpl, data: data}
}

// adminRecipients prefers the addresses saved in site settings.
func (ns *NotificationService) adminRecipients(ctx context.Context) []string {
	if ns.settings != nil {
		s, err := ns.settings.GetSettings(ctx)
		if err != nil {
			ns.logger.Warn("Failed to load admin recipients from settings", gecho.Field("error", err))
		} else if len(s.AdminNotificationEmails) > 0 {
			return s.AdminNotificationEmails
		}
	}
	return ns.cfg.Email.AdminEmails
}

func (ns *NotificationService) trackURL(order *tables.Order) string {
	q := url.Values{"email": {order.CustomerEmail}}
	return ns.frontendURL("/track/" + url.PathEscape(order.OrderNumber) + "?" + q.Encode())
}

func (ns *NotificationService) frontendURL(path string) string {
	return ns.cfg.Server.FrontendURL + path
}

// SendGiftCardEmail mails a newly issued card to its recipient.
func (ns *NotificationService) SendGiftCardEmail(card *tables.GiftCard) error {
	if card.RecipientEmail == "" {
		return nil
	}
	body, err := renderEmail("gift_card", &emailData{Title: "A gift for you", GiftCard: card, ShopURL: ns.frontendURL("/")})
	if err != nil {
		return err
	}
	return ns.sender.SendEmail([]string{card.RecipientEmail}, "You've received a Woodzire gift card", body)
}

func (ns *NotificationService) SendCartReminder(cart *tables.AbandonedCart) error {
	body, err := renderEmail("cart_reminder", &emailData{Title: "Still thinking it over?", Cart: cart, ShopURL: ns.frontendURL("/cart")})
	if err != nil {
		return err
	}
	return ns.sender.SendEmail([]string{cart.Email}, "You left something in your cart", body)
}

// SendCampaignEmail wraps admin-authored HTML in the layout with an
// unsubscribe link.
func (ns *NotificationService) SendCampaignEmail(to, subject, content, unsubscribeToken string) error {
	data := &emailData{
		Title:   subject,
		Content: template.HTML(content),
	}
	if unsubscribeToken != "" {
		data.UnsubscribeURL = ns.cfg.Server.ServerURL + "/email-preferences/unsubscribe?" + url.Values{"token": {unsubscribeToken}}.Encode()
	}
	body, err := renderEmail("campaign", data)
	if err != nil {
		return err
	}
	return ns.sender.SendEmail([]string{to}, subject, body)
}
