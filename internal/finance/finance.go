// Package finance holds the loan arithmetic behind the listing detail panel.
package finance

import "math"

// MonthlyPayment returns the principal and interest paid each month on a
// fully amortizing loan.
func MonthlyPayment(principal, annualRatePct float64, termYears int) float64 {
	if principal <= 0 || termYears <= 0 {
		return 0
	}
	n := float64(termYears * 12)
	r := annualRatePct / 100 / 12
	if r == 0 {
		return principal / n
	}
	return principal * r / (1 - math.Pow(1+r, -n))
}

// Estimate is a financed purchase broken down for display.
type Estimate struct {
	Price       float64
	DownPayment float64
	LoanAmount  float64
	Monthly     float64
}

// EstimateFor computes a loan estimate for a purchase price with a down payment
// given as a percentage of the price.
func EstimateFor(price, downPct, annualRatePct float64, termYears int) Estimate {
	if downPct < 0 {
		downPct = 0
	}
	if downPct > 100 {
		downPct = 100
	}
	down := price * downPct / 100
	loan := price - down
	return Estimate{
		Price:       price,
		DownPayment: down,
		LoanAmount:  loan,
		Monthly:     MonthlyPayment(loan, annualRatePct, termYears),
	}
}
