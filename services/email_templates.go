package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
	"woodzire_server/lib"
)

const emailLayout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Georgia, serif; line-height: 1.6; color: #3d2b1f; background: #faf6f1; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #3d2b1f; color: #fff; padding: 20px; text-align: center; }
		.content { padding: 20px; background-color: #fff; }
		.button { display: inline-block; padding: 12px 28px; background-color: #8b5a2b; color: #fff; text-decoration: none; border-radius: 4px; }
		table.items { width: 100%; border-collapse: collapse; }
		table.items td { padding: 6px 0; border-bottom: 1px solid #eee; }
		.right { text-align: right; }
		.footer { text-align: center; padding: 20px; color: #8a7b6f; font-size: 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>{{.Title}}</h1></div>
		<div class="content">{{template "body" .}}</div>
		<div class="footer">
			<p>Woodzire &middot; handcrafted wooden goods</p>
			{{if .UnsubscribeURL}}<p><a href="{{.UnsubscribeURL}}">Unsubscribe</a></p>{{end}}
		</div>
	</div>
</body>
</html>{{end}}`

const orderSummaryPartial = `{{define "summary"}}
<table class="items">
	{{range .Order.Items}}
	<tr><td>{{.ProductName}} &times; {{.Quantity}}</td><td class="right">{{inr .LineTotal}}</td></tr>
	{{end}}
	<tr><td>Subtotal</td><td class="right">{{inr .Order.Subtotal}}</td></tr>
	<tr><td>Shipping</td><td class="right">{{inr .Order.ShippingCost}}</td></tr>
	<tr><td>GST</td><td class="right">{{inr .Order.Tax}}</td></tr>
	<tr><td><strong>Total</strong></td><td class="right"><strong>{{inr .Order.Total}}</strong></td></tr>
</table>
{{with .Order.ShippingAddress}}
<p>Shipping to:<br>{{.FullName}}<br>{{.Street}}{{if .Landmark}}, {{.Landmark}}{{end}}<br>{{.City}}, {{.State}} {{.PostalCode}}<br>{{.Country}}</p>
{{end}}
{{end}}`

var emailBodies = map[string]string{
	"order_confirmation": `{{define "body"}}
<p>Hi {{.Order.CustomerName}},</p>
<p>Thank you for your order <strong>{{.Order.OrderNumber}}</strong>. We have started on it and will email you as it moves along.</p>
{{template "summary" .}}
<p style="text-align:center"><a class="button" href="{{.TrackURL}}">Track your order</a></p>
{{end}}`,

	"admin_new_order": `{{define "body"}}
<p>New order <strong>{{.Order.OrderNumber}}</strong> from {{.Order.CustomerName}} ({{.Order.CustomerEmail}}, {{.Order.CustomerPhone}}).</p>
<p>Payment method: {{.Order.PaymentMethod}}{{if .Order.GiftCardCode}}, gift card {{.Order.GiftCardCode}}{{end}}</p>
{{if .Order.Notes}}<p>Notes: {{.Order.Notes}}</p>{{end}}
{{template "summary" .}}
{{end}}`,

	"status_preparing": `{{define "body"}}
<p>Hi {{.Order.CustomerName}},</p>
<p>Our workshop is now preparing order <strong>{{.Order.OrderNumber}}</strong>.</p>
<p style="text-align:center"><a class="button" href="{{.TrackURL}}">Track your order</a></p>
{{end}}`,

	"status_shipped": `{{define "body"}}
<p>Hi {{.Order.CustomerName}},</p>
<p>Order <strong>{{.Order.OrderNumber}}</strong> is on its way.</p>
<p>Carrier: {{.Order.CarrierName}}<br>Tracking number: {{.Order.TrackingNumber}}
{{with .Order.EstimatedDeliveryDate}}<br>Estimated delivery: {{date .}}{{end}}</p>
<p style="text-align:center"><a class="button" href="{{.TrackURL}}">Track your order</a></p>
{{end}}`,

	"status_delivered": `{{define "body"}}
<p>Hi {{.Order.CustomerName}},</p>
<p>Order <strong>{{.Order.OrderNumber}}</strong> has been delivered. We hope you love it. A review helps other customers and our craftspeople.</p>
{{end}}`,

	"order_cancelled": `{{define "body"}}
<p>Hi {{.Order.CustomerName}},</p>
<p>Order <strong>{{.Order.OrderNumber}}</strong> has been cancelled.</p>
{{if .Order.CancellationReason}}<p>Reason: {{.Order.CancellationReason}}</p>{{end}}
{{with .Order.RefundAmount}}<p>A refund of {{inr .}} will be issued{{if $.Order.RefundMethod}} via {{$.Order.RefundMethod}}{{end}}.</p>{{end}}
{{end}}`,

	"admin_order_cancelled": `{{define "body"}}
<p>Order <strong>{{.Order.OrderNumber}}</strong> for {{.Order.CustomerName}} was cancelled.</p>
<p>Reason: {{.Order.CancellationReason}}</p>
{{with .Order.RefundAmount}}<p>Refund: {{inr .}} {{$.Order.RefundMethod}}</p>{{end}}
{{template "summary" .}}
{{end}}`,

	"back_in_stock": `{{define "body"}}
<p>Good news: <strong>{{.Product.Name}}</strong> is back in stock.</p>
{{with .Product.PrimaryImage}}<p><img src="{{.}}" alt="" style="max-width:100%"></p>{{end}}
<p style="text-align:center"><a class="button" href="{{.ProductURL}}">Shop now</a></p>
{{end}}`,

	"admin_alert": `{{define "body"}}
<p>{{.Message}}</p>
{{with .Product}}<p>Product: {{.Name}} ({{.Slug}})<br>Stock: {{.StockQuantity}} (threshold {{.LowStockThreshold}})</p>{{end}}
{{end}}`,

	"gift_card": `{{define "body"}}
<p>You have received a Woodzire gift card worth <strong>{{inr .GiftCard.InitialBalance}}</strong>.</p>
{{if .GiftCard.Message}}<p><em>{{.GiftCard.Message}}</em></p>{{end}}
<p style="text-align:center;font-size:20px;letter-spacing:2px"><strong>{{.GiftCard.Code}}</strong></p>
{{with .GiftCard.ExpiresAt}}<p>Valid until {{date .}}.</p>{{end}}
<p style="text-align:center"><a class="button" href="{{.ShopURL}}">Start shopping</a></p>
{{end}}`,

	"cart_reminder": `{{define "body"}}
<p>You left a few things in your cart:</p>
<ul>{{range .Cart.Items}}<li>{{.Name}} &times; {{.Quantity}}</li>{{end}}</ul>
<p style="text-align:center"><a class="button" href="{{.ShopURL}}">Finish your order</a></p>
{{end}}`,

	"campaign": `{{define "body"}}{{.Content}}{{end}}`,
}

var emailFuncs = template.FuncMap{
	"inr": lib.FormatINR,
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
}

var emailTemplates = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(emailBodies))
	for name, body := range emailBodies {
		t := template.Must(template.New(name).Funcs(emailFuncs).Parse(emailLayout))
		template.Must(t.Parse(orderSummaryPartial))
		out[name] = template.Must(t.Parse(body))
	}
	return out
}()

// renderEmail runs the named body inside the shared layout. data must carry
// a Title and may carry UnsubscribeURL.
func renderEmail(name string, data any) (string, error) {
	t, ok := emailTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", name, err)
	}
	return buf.String(), nil
}
