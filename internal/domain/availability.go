package domain

type Availability string

const (
	AvailabilityLow    Availability = "Low"
	AvailabilityMedium Availability = "Medium"
	AvailabilityHigh   Availability = "High"
)

const (
	highStockThreshold   = 100
	mediumStockThreshold = 40
)

// AvailabilityFor maps a stock count to its availability tier. It is the only
// place the tier is derived; stores call it whenever they write stock.
func AvailabilityFor(stock int) Availability {
	switch {
	case stock > highStockThreshold:
		return AvailabilityHigh
	case stock >= mediumStockThreshold:
		return AvailabilityMedium
	default:
		return AvailabilityLow
	}
}

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityLow, AvailabilityMedium, AvailabilityHigh:
		return true
	}
	return false
}
