package predictor

// Breakdown is the economics of one prediction: units sold, revenue at the
// given unit price, and return on the marketing expense.
type Breakdown struct {
	Units   float64
	Revenue float64
	Expense float64
	ROI     *float64 // nil when expense is zero
}

// ROI derives the revenue breakdown from a predicted sales figure. predictedK
// is in thousands of units, expense in currency. ROI is
// (revenue - expense) / expense and is undefined for zero expense.
func ROI(predictedK, pricePerUnit, expense float64) Breakdown {
	b := Breakdown{
		Units:   predictedK * 1000,
		Expense: expense,
	}
	b.Revenue = b.Units * pricePerUnit
	if expense != 0 {
		roi := (b.Revenue - expense) / expense
		b.ROI = &roi
	}
	return b
}
