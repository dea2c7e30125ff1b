package domain

import "fmt"

// DeliveryFee is the priced result for one routed trip.
// Amount is in whole pesos and is fixed once computed; a new route yields a new fee.
type DeliveryFee struct {
	Amount           int64
	BaseAmount       int64
	DistanceKm       float64
	SurchargeApplied bool
	SurchargePercent int
}

// SurchargeLabel returns the display annotation for a night surcharge, or "".
func (f DeliveryFee) SurchargeLabel() string {
	if !f.SurchargeApplied {
		return ""
	}
	return fmt.Sprintf(" (+%d%%)", f.SurchargePercent)
}
