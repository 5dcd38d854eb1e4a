package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityFor_Boundaries(t *testing.T) {
	tests := []struct {
		stock    int
		expected Availability
	}{
		{0, AvailabilityLow},
		{39, AvailabilityLow},
		{40, AvailabilityMedium},
		{90, AvailabilityMedium},
		{100, AvailabilityMedium},
		{101, AvailabilityHigh},
		{150, AvailabilityHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AvailabilityFor(tt.stock), "stock=%d", tt.stock)
	}
}

func TestAvailabilityFor_Total(t *testing.T) {
	for s := 0; s <= 500; s++ {
		tier := AvailabilityFor(s)
		assert.Equal(t, s > 100, tier == AvailabilityHigh, "stock=%d", s)
		assert.Equal(t, s >= 40 && s <= 100, tier == AvailabilityMedium, "stock=%d", s)
		assert.Equal(t, s < 40, tier == AvailabilityLow, "stock=%d", s)
	}
}

func TestProduct_SetStockRecomputesAvailability(t *testing.T) {
	p := Product{ID: "p1"}

	p.SetStock(150)
	assert.Equal(t, 150, p.Stock)
	assert.Equal(t, AvailabilityHigh, p.Availability)

	p.SetStock(90)
	assert.Equal(t, AvailabilityMedium, p.Availability)

	p.SetStock(5)
	assert.Equal(t, AvailabilityLow, p.Availability)
}

func TestProduct_OwnedBy(t *testing.T) {
	p := Product{FarmerID: "farmer-1"}

	assert.True(t, p.OwnedBy("farmer-1"))
	assert.False(t, p.OwnedBy("farmer-2"))
	assert.False(t, p.OwnedBy(""))
}
