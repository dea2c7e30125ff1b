package pricing

import (
	"errors"
	"fmt"
	"math"
	"storefront-delivery-service/internal/domain"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidDistance = errors.New("distance must be a finite, non-negative number of kilometers")

// Policy holds the fare parameters. Amounts are whole pesos.
type Policy struct {
	RatePerKm        int64
	MinFare          int64
	RoundingStep     int64
	SurchargePercent int
	NightStartHour   int
	NightEndHour     int
}

// DefaultPolicy is 2700/km, 3000 minimum, 100-peso steps and +40% from 22:00 to 06:00.
func DefaultPolicy() Policy {
	return Policy{
		RatePerKm:        2700,
		MinFare:          3000,
		RoundingStep:     100,
		SurchargePercent: 40,
		NightStartHour:   22,
		NightEndHour:     6,
	}
}

func (p Policy) Validate() error {
	if p.RatePerKm < 0 || p.MinFare < 0 {
		return errors.New("pricing policy: rate and minimum fare must be non-negative")
	}
	if p.RoundingStep <= 0 {
		return errors.New("pricing policy: rounding step must be positive")
	}
	if p.MinFare%p.RoundingStep != 0 {
		return fmt.Errorf("pricing policy: minimum fare %d is not a multiple of %d", p.MinFare, p.RoundingStep)
	}
	if p.SurchargePercent < 0 {
		return errors.New("pricing policy: surcharge percent must be non-negative")
	}
	if !validHour(p.NightStartHour) || !validHour(p.NightEndHour) {
		return errors.New("pricing policy: night window hours must be within 0-23")
	}
	return nil
}

func validHour(h int) bool { return h >= 0 && h <= 23 }

// IsNight reports whether hour falls in [NightStartHour, NightEndHour),
// wrapping past midnight when the start is later than the end.
func (p Policy) IsNight(hour int) bool {
	if p.NightStartHour == p.NightEndHour {
		return false
	}
	if p.NightStartHour > p.NightEndHour {
		return hour >= p.NightStartHour || hour < p.NightEndHour
	}
	return hour >= p.NightStartHour && hour < p.NightEndHour
}

// Engine converts routed distances into delivery fees.
// It is stateless and safe for concurrent use.
type Engine struct {
	policy Policy
	loc    *time.Location
}

func NewEngine(policy Policy, loc *time.Location) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{policy: policy, loc: loc}, nil
}

func (e *Engine) Policy() Policy { return e.policy }

// ComputeDeliveryFee prices one trip.
//
// The base cost is ceiled to the rounding step and floored at the minimum fare
// before the night surcharge is added; the surcharged sum is ceiled again in a
// separate pass. The minimum fare is therefore surcharged at night.
func (e *Engine) ComputeDeliveryFee(distanceKm float64, now time.Time) (domain.DeliveryFee, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return domain.DeliveryFee{}, ErrInvalidDistance
	}

	step := decimal.NewFromInt(e.policy.RoundingStep)

	base := decimal.NewFromFloat(distanceKm).Mul(decimal.NewFromInt(e.policy.RatePerKm))
	rounded := decimal.Max(ceilTo(base, step), decimal.NewFromInt(e.policy.MinFare))

	hour := now.In(e.loc).Hour()
	night := e.policy.SurchargePercent > 0 && e.policy.IsNight(hour)

	total := rounded
	if night {
		surcharge := rounded.Mul(decimal.NewFromInt(int64(e.policy.SurchargePercent))).Div(decimal.NewFromInt(100))
		total = ceilTo(rounded.Add(surcharge), step)
	}

	return domain.DeliveryFee{
		Amount:           total.IntPart(),
		BaseAmount:       rounded.IntPart(),
		DistanceKm:       distanceKm,
		SurchargeApplied: night,
		SurchargePercent: e.policy.SurchargePercent,
	}, nil
}

// ceilTo rounds v up to the next multiple of step.
func ceilTo(v, step decimal.Decimal) decimal.Decimal {
	return v.Div(step).Ceil().Mul(step)
}
