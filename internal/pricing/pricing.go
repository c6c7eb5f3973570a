// Package pricing contains the pure price computations for rentals:
// base price, chauffeur fee, promo discounts, and overtime. Nothing here
// touches the clock or the database; time always arrives as an argument.
package pricing

import (
	"time"

	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// OvertimeFeePerHour is the flat charge for every started hour past the
// expected end time.
const OvertimeFeePerHour = 200.00

// PointsPerRental is the loyalty award credited on every completed rental.
const PointsPerRental = 10

// Quote is the pricing breakdown for a rental at creation time.
type Quote struct {
	BasePrice    float64
	ChauffeurFee float64
	Discount     float64
	Total        float64
}

// NewQuote computes the creation-time price of a rental. The chauffeur fee
// applies only in chauffeured mode. The discount is capped at the
// pre-discount total so the result can never go negative.
func NewQuote(pricePerHour, chauffeurPerHour float64, durationHours int, rentalType string, discount float64) Quote {
	q := Quote{
		BasePrice: pricePerHour * float64(durationHours),
	}
	if rentalType == model.RentalChauffeured {
		q.ChauffeurFee = chauffeurPerHour * float64(durationHours)
	}

	preDiscount := q.BasePrice + q.ChauffeurFee
	if discount > preDiscount {
		discount = preDiscount
	}
	if discount < 0 {
		discount = 0
	}
	q.Discount = discount
	q.Total = preDiscount - discount
	return q
}

// Discount computes a promo discount against amount. Percentage discounts
// are capped by maxDiscount when set; every discount is capped by the
// amount itself.
func Discount(discountType string, value float64, maxDiscount *float64, amount float64) float64 {
	var discount float64
	if discountType == model.DiscountPercentage {
		discount = amount * value / 100
		if maxDiscount != nil && discount > *maxDiscount {
			discount = *maxDiscount
		}
	} else {
		discount = value
	}

	if discount > amount {
		discount = amount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// OvertimeHours returns the billable overtime between the expected end and
// now, rounded up to whole hours: any started hour counts in full. Returns
// zero when now is at or before the expected end.
func OvertimeHours(expectedEnd, now time.Time) int {
	over := now.Sub(expectedEnd)
	if over <= 0 {
		return 0
	}
	hours := int(over / time.Hour)
	if over%time.Hour > 0 {
		hours++
	}
	return hours
}

// OvertimeFee returns the fee for the given number of overtime hours.
func OvertimeFee(hours int) float64 {
	if hours <= 0 {
		return 0
	}
	return float64(hours) * OvertimeFeePerHour
}

// Projection is the live running cost of a rental as of some instant.
// It is a derived view: nothing is persisted until the car is returned.
type Projection struct {
	OvertimeHours   int
	CurrentOvertime float64
	CurrentTotal    float64
}

// Project computes the provisional overtime and total for a rental. Only an
// active rental that has not ended accrues overtime; all other statuses
// project their stored total unchanged.
func Project(r *model.Rental, now time.Time) Projection {
	p := Projection{CurrentTotal: r.TotalPrice}
	if r.Status != model.RentalActive || r.ActualEndTime != nil {
		return p
	}

	p.OvertimeHours = OvertimeHours(r.ExpectedEndTime, now)
	p.CurrentOvertime = OvertimeFee(p.OvertimeHours)
	if p.OvertimeHours > 0 {
		p.CurrentTotal = r.BasePrice + r.ChauffeurFee + p.CurrentOvertime - r.DiscountAmount
	}
	return p
}
