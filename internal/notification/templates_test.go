package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrolink/internal/domain"
)

func TestRenderOrderPlaced(t *testing.T) {
	order := testOrder()
	order.Notes = strPtr("<b>ring twice</b>")
	contact := domain.FarmerContact{FarmerID: "f-1", Email: "uno@example.com"}

	msg, err := RenderOrderPlaced(order, contact, order.Lines[:1])

	require.NoError(t, err)
	assert.Equal(t, "uno@example.com", msg.To)
	assert.Equal(t, "New order #01234567 - AgroLink", msg.Subject)
	assert.Contains(t, msg.Text, "Customer: Casa Lola")
	assert.Contains(t, msg.Text, "Phone: Not specified")
	assert.Contains(t, msg.Text, "Logistics: platform-delivery")
	assert.Contains(t, msg.Text, "Notes: <b>ring twice</b>")
	assert.Contains(t, msg.HTML, "&lt;b&gt;ring twice&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "Tomatoes (3 units)")
}

func TestRenderOrderCancelled(t *testing.T) {
	order := testOrder()
	order.Status = domain.OrderStatusCancelled
	order.CancellationReason = strPtr("frost damage")

	msg, err := RenderOrderCancelled(order)

	require.NoError(t, err)
	assert.Equal(t, "lola@example.com", msg.To)
	assert.Equal(t, "Order #01234567 cancelled - AgroLink", msg.Subject)
	assert.Contains(t, msg.Text, "Dear Casa Lola")
	assert.Contains(t, msg.Text, "frost damage")
	assert.Contains(t, msg.Text, "- Lettuce (1 units)")
}
