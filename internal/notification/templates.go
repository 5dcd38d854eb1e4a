package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"agrolink/internal/domain"
)

const notSpecified = "Not specified"

type placedView struct {
	ShortID       string
	Date          string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	DeliverySlot  string
	Logistics     string
	Notes         string
	Lines         []domain.OrderLine
}

type cancelledView struct {
	ShortID      string
	Date         string
	CustomerName string
	Reason       string
	Lines        []domain.OrderLine
}

var placedHTML = htmltemplate.Must(htmltemplate.New("placed").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #059669;">New order received</h2>
  <p>You have a new order <strong>#{{.ShortID}}</strong> on AgroLink.</p>
  <ul>
    <li><strong>Date:</strong> {{.Date}}</li>
    <li><strong>Customer:</strong> {{.CustomerName}}</li>
    <li><strong>Email:</strong> {{.CustomerEmail}}</li>
    <li><strong>Phone:</strong> {{.CustomerPhone}}</li>
    <li><strong>Delivery slot:</strong> {{.DeliverySlot}}</li>
    <li><strong>Logistics:</strong> {{.Logistics}}</li>
    {{- if .Notes}}
    <li><strong>Notes:</strong> {{.Notes}}</li>
    {{- end}}
  </ul>
  <h3 style="color: #059669;">Your products in this order</h3>
  <ul>
    {{- range .Lines}}
    <li>{{.ProductName}} ({{.Quantity}} units)</li>
    {{- end}}
  </ul>
  <p>Please review the order in your farmer dashboard and confirm availability.</p>
</div>
`))

var placedText = texttemplate.Must(texttemplate.New("placed").Parse(`New order received

You have a new order #{{.ShortID}} on AgroLink.

Order details:
- Date: {{.Date}}
- Customer: {{.CustomerName}}
- Email: {{.CustomerEmail}}
- Phone: {{.CustomerPhone}}
- Delivery slot: {{.DeliverySlot}}
- Logistics: {{.Logistics}}
{{- if .Notes}}
- Notes: {{.Notes}}
{{- end}}

Your products in this order:
{{- range .Lines}}
- {{.ProductName}} ({{.Quantity}} units)
{{- end}}

Please review the order in your farmer dashboard and confirm availability.
`))

var cancelledHTML = htmltemplate.Must(htmltemplate.New("cancelled").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #dc2626;">Order cancelled</h2>
  <p>Dear {{.CustomerName}},</p>
  <p>Your order <strong>#{{.ShortID}}</strong> has been cancelled.</p>
  <div style="background-color: #fef2f2; border-left: 4px solid #dc2626; padding: 16px;">
    <p style="margin: 0; font-weight: bold;">Reason:</p>
    <p style="margin: 8px 0 0 0;">{{.Reason}}</p>
  </div>
  <p><strong>Date:</strong> {{.Date}}</p>
  <ul>
    {{- range .Lines}}
    <li>{{.ProductName}} ({{.Quantity}} units)</li>
    {{- end}}
  </ul>
</div>
`))

var cancelledText = texttemplate.Must(texttemplate.New("cancelled").Parse(`Order cancelled

Dear {{.CustomerName}},

Your order #{{.ShortID}} has been cancelled.

Reason:
{{.Reason}}

Date: {{.Date}}
Products:
{{- range .Lines}}
- {{.ProductName}} ({{.Quantity}} units)
{{- end}}
`))

func orEmpty(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

// RenderOrderPlaced builds the message sent to one farmer for the lines of
// order that are theirs.
func RenderOrderPlaced(order domain.Order, contact domain.FarmerContact, lines []domain.OrderLine) (Message, error) {
	view := placedView{
		ShortID:       order.ShortID(),
		Date:          order.CreatedAt.Format("2006-01-02"),
		CustomerName:  orEmpty(order.Customer.Name, notSpecified),
		CustomerEmail: orEmpty(order.Customer.Email, notSpecified),
		CustomerPhone: orEmpty(order.Customer.Phone, notSpecified),
		DeliverySlot:  string(order.DeliverySlot),
		Logistics:     order.Logistics.String(),
		Notes:         orEmpty(order.Notes, ""),
		Lines:         lines,
	}

	html, text, err := render(placedHTML, placedText, view)
	if err != nil {
		return Message{}, fmt.Errorf("rendering order placed notification: %w", err)
	}
	return Message{
		To:      contact.Email,
		Subject: fmt.Sprintf("New order #%s - AgroLink", order.ShortID()),
		HTML:    html,
		Text:    text,
	}, nil
}

// RenderOrderCancelled builds the message sent to the customer of a
// cancelled order.
func RenderOrderCancelled(order domain.Order) (Message, error) {
	view := cancelledView{
		ShortID:      order.ShortID(),
		Date:         order.CreatedAt.Format("2006-01-02"),
		CustomerName: orEmpty(order.Customer.Name, "Customer"),
		Reason:       orEmpty(order.CancellationReason, ""),
		Lines:        order.Lines,
	}

	html, text, err := render(cancelledHTML, cancelledText, view)
	if err != nil {
		return Message{}, fmt.Errorf("rendering order cancelled notification: %w", err)
	}
	return Message{
		To:      orEmpty(order.Customer.Email, ""),
		Subject: fmt.Sprintf("Order #%s cancelled - AgroLink", order.ShortID()),
		HTML:    html,
		Text:    text,
	}, nil
}

func render(h *htmltemplate.Template, t *texttemplate.Template, view any) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := h.Execute(&htmlBuf, view); err != nil {
		return "", "", err
	}
	if err := t.Execute(&textBuf, view); err != nil {
		return "", "", err
	}
	return htmlBuf.String(), textBuf.String(), nil
}
