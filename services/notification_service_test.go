package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to      []string
	subject string
	html    string
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []sentEmail
	failTo string
}

func (f *fakeSender) SendEmail(to []string, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo != "" && len(to) > 0 && to[0] == f.failTo {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, html: html})
	return nil
}

func (f *fakeSender) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, e := range f.sent {
		out = append(out, e.subject)
	}
	sort.Strings(out)
	return out
}

type staticSettings struct {
	settings *structs.StoreSettings
}

func (s staticSettings) GetSettings(context.Context) (*structs.StoreSettings, error) {
	return s.settings, nil
}

func testNotificationConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{FrontendURL: "https://woodzire.test", ServerURL: "https://api.woodzire.test"},
		Email:  &structs.EmailConfig{AdminEmails: []string{"owner@woodzire.test"}},
	}
}

func newTestNotifier(sender EmailSender, admins ...string) *NotificationService {
	settings := staticSettings{settings: &structs.StoreSettings{AdminNotificationEmails: admins}}
	return NewNotificationService(gecho.NewDefaultLogger(), testNotificationConfig(), sender, settings)
}

func sampleOrder() *tables.Order {
	eta := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return &tables.Order{
		OrderNumber:   "WZ-260310-ABC123",
		CustomerName:  "Asha <b>Rao</b>",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9876543210",
		Status:        tables.OrderStatusPending,
		Subtotal:      dec("1800"),
		ShippingCost:  dec("99"),
		Tax:           dec("324"),
		Total:         dec("2223"),
		ShippingAddress: tables.ShippingAddress{
			FullName: "Asha Rao", Street: "12 MG Road", City: "Pune", State: "Maharashtra", PostalCode: "411001", Country: "India",
		},
		Items: []tables.OrderItem{
			{ProductName: "Sheesham bowl", Quantity: 2, UnitPrice: dec("900"), LineTotal: dec("1800")},
		},
		TrackingNumber:        "DL999",
		CarrierName:           "delhivery",
		EstimatedDeliveryDate: &eta,
	}
}

func TestDispatchOrderCreated(t *testing.T) {
	sender := &fakeSender{}
	ns := newTestNotifier(sender, "ops@woodzire.test")

	res, err := ns.Dispatch(context.Background(), &structs.NotificationPayload{Type: structs.NotificationOrderCreated, Order: sampleOrder()})
	require.NoError(t, err)
	assert.True(t, res.Success)

	require.Len(t, sender.sent, 2)
	byRecipient := map[string]sentEmail{}
	for _, e := range sender.sent {
		byRecipient[e.to[0]] = e
	}

	customer := byRecipient["asha@example.com"]
	assert.Contains(t, customer.subject, "WZ-260310-ABC123")
	assert.Contains(t, customer.html, "₹2,223")
	assert.Contains(t, customer.html, "Sheesham bowl")
	assert.Contains(t, customer.html, "Asha &lt;b&gt;Rao&lt;/b&gt;", "customer input is escaped")
	assert.Contains(t, customer.html, "https://woodzire.test/track/WZ-260310-ABC123?email=asha%40example.com")

	_, ok := byRecipient["ops@woodzire.test"]
	assert.True(t, ok, "admin copy goes to the settings recipients")
}

func TestDispatchFallsBackToConfiguredAdmins(t *testing.T) {
	sender := &fakeSender{}
	ns := newTestNotifier(sender)

	_, err := ns.Dispatch(context.Background(), &structs.NotificationPayload{Type: structs.NotificationAdminAlert, Message: "Low stock"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"owner@woodzire.test"}, sender.sent[0].to)
}

func TestDispatchStatusChange(t *testing.T) {
	tests := []struct {
		status  tables.OrderStatus
		subject string
		body    string
	}{
		{tables.OrderStatusPreparing, "preparing", "preparing order"},
		{tables.OrderStatusShipped, "has shipped", "DL999"},
		{tables.OrderStatusDelivered, "was delivered", "has been delivered"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			sender := &fakeSender{}
			order := sampleOrder()
			order.Status = tt.status

			_, err := newTestNotifier(sender).Dispatch(context.Background(), &structs.NotificationPayload{Type: structs.NotificationStatusChange, Order: order})
			require.NoError(t, err)
			require.Len(t, sender.sent, 1)
			assert.Equal(t, []string{"asha@example.com"}, sender.sent[0].to)
			assert.Contains(t, sender.sent[0].subject, tt.subject)
			assert.Contains(t, sender.sent[0].html, tt.body)
		})
	}
}

func TestDispatchShippedShowsEstimate(t *testing.T) {
	sender := &fakeSender{}
	order := sampleOrder()
	order.Status = tables.OrderStatusShipped

	_, err := newTestNotifier(sender).Dispatch(context.Background(), &structs.NotificationPayload{Type: structs.NotificationStatusChange, Order: order})
	require.NoError(t, err)
	assert.Contains(t, sender.sent[0].html, "15 March 2026")
}

func TestDispatchPendingStatusSendsNothing(t *testing.T) {
	sender := &fakeSender{}
	res, err := newTestNotifier(sender).Dispatch(context.Background(), &structs.NotificationPayload{Type: structs.NotificationStatusChange, Order: sampleOrder()})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, sender.sent)
}

func TestDispatchCancelled(t *testing.T) {
	sender := &fakeSender{}
	order := sampleOrder()
	order.Status = tables.OrderStatusCancelled
	order.CancellationReason = "out of stock"
	refund := dec("2223")
	order.RefundAmount = &refund
	order.RefundMethod = "upi"

	_, err := newTestNotifier(sender, "ops@woodzire.test").Dispatch(context.Background(), &structs.NotificationPayload{Type: structs.NotificationOrderCancelled, Order: order})
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	for _, e := range sender.sent {
		assert.Contains(t, e.html, "out of stock")
	}
}

func TestDispatchStockUpdateSendsOnePerSubscriber(t *testing.T) {
	sender := &fakeSender{}
	product := &tables.Product{Name: "Rosewood box", Slug: "rosewood-box", Images: []string{"https://cdn.test/box.jpg"}}

	_, err := newTestNotifier(sender).Dispatch(context.Background(), &structs.NotificationPayload{
		Type:    structs.NotificationStockUpdate,
		Product: product,
		Emails:  []string{"a@example.com", "b@example.com", "c@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 3)
	for _, e := range sender.sent {
		assert.Len(t, e.to, 1)
		assert.Contains(t, e.html, "https://woodzire.test/products/rosewood-box")
	}
}

func TestDispatchRejectsMissingParts(t *testing.T) {
	ns := newTestNotifier(&fakeSender{})
	payloads := []*structs.NotificationPayload{
		{Type: structs.NotificationOrderCreated},
		{Type: structs.NotificationStatusChange},
		{Type: structs.NotificationOrderCancelled},
		{Type: structs.NotificationStockUpdate, Emails: []string{"a@example.com"}},
		{Type: structs.NotificationStockUpdate, Product: &tables.Product{Name: "x"}},
		{Type: structs.NotificationAdminAlert},
		{Type: "bogus"},
	}
	for _, p := range payloads {
		res, err := ns.Dispatch(context.Background(), p)
		assert.ErrorIs(t, err, ErrInvalidNotification, string(p.Type))
		assert.False(t, res.Success)
	}
}

func TestDispatchReportsSendFailure(t *testing.T) {
	sender := &fakeSender{failTo: "asha@example.com"}

	res, err := newTestNotifier(sender, "ops@woodzire.test").Dispatch(context.Background(), &structs.NotificationPayload{Type: structs.NotificationOrderCreated, Order: sampleOrder()})
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "mailbox unavailable")
	assert.Equal(t, []string{"New order WZ-260310-ABC123"}, sender.subjects(), "admin copy still goes out")
}

func TestCampaignEmailKeepsAuthorHTML(t *testing.T) {
	sender := &fakeSender{}
	ns := newTestNotifier(sender)

	require.NoError(t, ns.SendCampaignEmail("a@example.com", "Diwali sale", "<h2>20% off</h2>", "tok123"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].html, "<h2>20% off</h2>")
	assert.True(t, strings.Contains(sender.sent[0].html, "unsubscribe?token=tok123"))
}

func TestGiftCardEmail(t *testing.T) {
	sender := &fakeSender{}
	ns := newTestNotifier(sender)

	assert.NoError(t, ns.SendGiftCardEmail(&tables.GiftCard{Code: "WZGC-AAAA-BBBB-CCCC"}), "no recipient is a no-op")
	assert.Empty(t, sender.sent)

	require.NoError(t, ns.SendGiftCardEmail(&tables.GiftCard{Code: "WZGC-AAAA-BBBB-CCCC", InitialBalance: dec("1500"), RecipientEmail: "friend@example.com"}))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].html, "WZGC-AAAA-BBBB-CCCC")
	assert.Contains(t, sender.sent[0].html, "₹1,500")
}
