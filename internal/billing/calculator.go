package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"hotelservice/internal/reservation"
)

var (
	weekendRate   = decimal.RequireFromString("1.1")
	promotionRate = decimal.RequireFromString("0.9")
	taxRate       = decimal.RequireFromString("0.07")
)

// Bill is the immutable, line-itemized invoice produced at check-out.
// Total is tax-inclusive, with any promotion applied before tax.
type Bill struct {
	ReservationCode string
	RoomNumber      string

	Days     int
	Weekdays int
	Weekends int

	RoomPrice    decimal.Decimal
	ServicePrice decimal.Decimal
	HasPromotion bool
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// Calculate produces the bill for a checked-out reservation.
//
// The stay is billed per whole day (fractional days truncate). Each day of
// the stay, starting at the actual check-in, is classified by ISO day of
// week: Monday through Friday at the flat rate, Saturday and Sunday at 1.1x.
// A promotion discounts the room-plus-service sum by 10% before the 7% tax.
func Calculate(r reservation.Reservation, nightlyRate, serviceTotal decimal.Decimal, hasPromotion bool) (Bill, error) {
	if r.Status != reservation.StatusCheckedOut {
		return Bill{}, reservation.ErrInvalidStatusChange
	}
	if r.CheckOut.Before(r.CheckIn) {
		return Bill{}, reservation.ErrInvalidCheckOutTime
	}

	days := int(r.CheckOut.Sub(r.CheckIn) / (24 * time.Hour))
	weekdays, weekends := 0, 0
	for i := 0; i < days; i++ {
		switch r.CheckIn.AddDate(0, 0, i).Weekday() {
		case time.Saturday, time.Sunday:
			weekends++
		default:
			weekdays++
		}
	}

	roomPrice := nightlyRate.Mul(decimal.NewFromInt(int64(weekdays))).
		Add(nightlyRate.Mul(decimal.NewFromInt(int64(weekends))).Mul(weekendRate))

	raw := roomPrice.Add(serviceTotal)
	discounted := raw
	discount := decimal.Zero
	if hasPromotion {
		discounted = raw.Mul(promotionRate)
		discount = raw.Sub(discounted)
	}
	tax := discounted.Mul(taxRate)

	return Bill{
		ReservationCode: r.Code.String(),
		RoomNumber:      r.RoomNumber,
		Days:            days,
		Weekdays:        weekdays,
		Weekends:        weekends,
		RoomPrice:       roomPrice,
		ServicePrice:    serviceTotal,
		HasPromotion:    hasPromotion,
		Discount:        discount,
		Tax:             tax,
		Total:           discounted.Add(tax),
	}, nil
}
