package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func TestNewQuote_Chauffeured(t *testing.T) {
	// price/hour=500, chauffeur/hour=100, 3h chauffeured, no promo
	q := NewQuote(500, 100, 3, model.RentalChauffeured, 0)

	assert.Equal(t, 1500.0, q.BasePrice)
	assert.Equal(t, 300.0, q.ChauffeurFee)
	assert.Equal(t, 0.0, q.Discount)
	assert.Equal(t, 1800.0, q.Total)
}

func TestNewQuote_SelfDrive_NoChauffeurFee(t *testing.T) {
	q := NewQuote(500, 100, 3, model.RentalSelfDrive, 0)

	assert.Equal(t, 1500.0, q.BasePrice)
	assert.Equal(t, 0.0, q.ChauffeurFee)
	assert.Equal(t, 1500.0, q.Total)
}

func TestNewQuote_DiscountCappedAtPreDiscountTotal(t *testing.T) {
	q := NewQuote(100, 0, 2, model.RentalSelfDrive, 5000)

	assert.Equal(t, 200.0, q.Discount)
	assert.Equal(t, 0.0, q.Total, "total never goes negative")
}

func TestNewQuote_WithDiscount(t *testing.T) {
	// 10% of 1800 capped at 150 -> total 1650
	d := Discount(model.DiscountPercentage, 10, floatPtr(150), 1800)
	q := NewQuote(500, 100, 3, model.RentalChauffeured, d)

	assert.Equal(t, 150.0, q.Discount)
	assert.Equal(t, 1650.0, q.Total)
}

func TestDiscount_PercentageUncapped(t *testing.T) {
	assert.Equal(t, 180.0, Discount(model.DiscountPercentage, 10, nil, 1800))
}

func TestDiscount_PercentageCapped(t *testing.T) {
	assert.Equal(t, 150.0, Discount(model.DiscountPercentage, 10, floatPtr(150), 1800))
}

func TestDiscount_Fixed(t *testing.T) {
	assert.Equal(t, 250.0, Discount(model.DiscountFixed, 250, nil, 1800))
}

func TestDiscount_NeverExceedsAmount(t *testing.T) {
	assert.Equal(t, 300.0, Discount(model.DiscountFixed, 999, nil, 300))
	assert.Equal(t, 300.0, Discount(model.DiscountPercentage, 150, nil, 300))
}

func TestOvertimeHours_RoundsUp(t *testing.T) {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"exactly on time", end, 0},
		{"before expected end", end.Add(-30 * time.Minute), 0},
		{"one minute over", end.Add(1 * time.Minute), 1},
		{"one hour exactly", end.Add(1 * time.Hour), 1},
		{"61 minutes bills 2 hours", end.Add(61 * time.Minute), 2},
		{"90 minutes bills 2 hours", end.Add(90 * time.Minute), 2},
		{"one day and a minute", end.Add(24*time.Hour + time.Minute), 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OvertimeHours(end, tt.now))
		})
	}
}

func TestOvertimeFee(t *testing.T) {
	assert.Equal(t, 0.0, OvertimeFee(0))
	assert.Equal(t, 400.0, OvertimeFee(2))
}

func TestProject_ActiveRentalAccruesOvertime(t *testing.T) {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := &model.Rental{
		Status:          model.RentalActive,
		ExpectedEndTime: end,
		BasePrice:       1500,
		ChauffeurFee:    300,
		DiscountAmount:  150,
		TotalPrice:      1650,
	}

	// 90 minutes over -> 2 hours -> 400 on top
	p := Project(r, end.Add(90*time.Minute))
	assert.Equal(t, 2, p.OvertimeHours)
	assert.Equal(t, 400.0, p.CurrentOvertime)
	assert.Equal(t, 2050.0, p.CurrentTotal)
}

func TestProject_ActiveWithinTime(t *testing.T) {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := &model.Rental{
		Status:          model.RentalActive,
		ExpectedEndTime: end,
		TotalPrice:      1650,
	}

	p := Project(r, end.Add(-10*time.Minute))
	assert.Equal(t, 0, p.OvertimeHours)
	assert.Equal(t, 0.0, p.CurrentOvertime)
	assert.Equal(t, 1650.0, p.CurrentTotal)
}

func TestProject_NonActiveStatusesUnchanged(t *testing.T) {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, status := range []string{model.RentalPending, model.RentalConfirmed, model.RentalCompleted, model.RentalCancelled} {
		r := &model.Rental{Status: status, ExpectedEndTime: end, TotalPrice: 900}
		p := Project(r, end.Add(5*time.Hour))
		assert.Equal(t, 900.0, p.CurrentTotal, status)
		assert.Equal(t, 0, p.OvertimeHours, status)
	}
}

func TestProject_ReturnedRentalStopsAccruing(t *testing.T) {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	actual := end.Add(time.Hour)
	r := &model.Rental{
		Status:          model.RentalActive,
		ExpectedEndTime: end,
		ActualEndTime:   &actual,
		TotalPrice:      2000,
	}

	p := Project(r, end.Add(10*time.Hour))
	assert.Equal(t, 2000.0, p.CurrentTotal)
}
