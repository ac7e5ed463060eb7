package scoring

import (
	"math"

	"rentcompare/internal/models"
)

// Discount describes lease concession terms for an apartment
type Discount struct {
	MonthsFree int
	WeeksFree  int
	FlatAmount float64
}

// CashValue converts the concession into dollars using the given basis.
// The basis controls the rate used for free months/weeks: a "monthly" basis
// treats one free month as exactly one month's rent, while "weekly" and
// "daily" prorate from annual rent (12 months = 52 weeks = 365 days).
func (d Discount) CashValue(rent float64, basis models.DiscountBasis) float64 {
	var total float64

	switch basis {
	case models.DiscountBasisDaily:
		dailyRate := rent * 12 / 365
		if d.MonthsFree > 0 {
			total += dailyRate * float64(d.MonthsFree) * 365 / 12
		}
		if d.WeeksFree > 0 {
			total += dailyRate * 7 * float64(d.WeeksFree)
		}
	case models.DiscountBasisMonthly:
		if d.MonthsFree > 0 {
			total += rent * float64(d.MonthsFree)
		}
		if d.WeeksFree > 0 {
			total += rent * float64(d.WeeksFree) / 4
		}
	default: // weekly
		weeklyRate := rent * 12 / 52
		if d.MonthsFree > 0 {
			total += weeklyRate * float64(d.MonthsFree) * 52 / 12
		}
		if d.WeeksFree > 0 {
			total += weeklyRate * float64(d.WeeksFree)
		}
	}

	total += d.FlatAmount
	return total
}

// NetEffectiveRent amortizes the discount over the lease term and returns the
// resulting monthly figure, rounded to cents. A zero or missing term makes the
// discount inapplicable, so the nominal rent is returned unchanged. A discount
// exceeding the total lease value clamps the result to zero, never negative.
func NetEffectiveRent(rent float64, termMonths int, d Discount, basis models.DiscountBasis) float64 {
	if termMonths <= 0 {
		return round2(rent)
	}

	totalPayable := rent*float64(termMonths) - d.CashValue(rent, basis)
	if totalPayable < 0 {
		totalPayable = 0
	}

	return round2(totalPayable / float64(termMonths))
}

// NetEffectiveRentFor computes the net effective rent for an apartment record
func NetEffectiveRentFor(apt *models.Apartment, basis models.DiscountBasis) float64 {
	return NetEffectiveRent(apt.Rent, apt.LeaseTermMonths, Discount{
		MonthsFree: apt.MonthsFree,
		WeeksFree:  apt.WeeksFree,
		FlatAmount: apt.FlatDiscount,
	}, basis)
}

// PricePerSqft divides a monthly price by square footage. Returns nil when
// footage is zero or missing; callers surface that as "not applicable".
func PricePerSqft(price float64, sqft int) *float64 {
	if sqft <= 0 {
		return nil
	}
	v := round2(price / float64(sqft))
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
