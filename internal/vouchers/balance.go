package vouchers

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// balanceEpsilon is the tolerance under which a voucher counts as tallied.
const balanceEpsilon = 0.01

var amountPrinter = message.NewPrinter(language.English)

// SignedTotal sums lines as +amount for debits and -amount for credits.
func SignedTotal(lines []LedgerLine) float64 {
	var total float64
	for _, line := range lines {
		if line.Type == EntryDebit {
			total += line.Amount
		} else {
			total -= line.Amount
		}
	}
	return total
}

// Balanced reports whether the signed total is within the tally epsilon.
func Balanced(lines []LedgerLine) bool {
	return math.Abs(SignedTotal(lines)) <= balanceEpsilon
}

// Totals returns the separate debit and credit sums for display.
func Totals(lines []LedgerLine) (debit, credit float64) {
	for _, line := range lines {
		if line.Type == EntryDebit {
			debit += line.Amount
		} else {
			credit += line.Amount
		}
	}
	return debit, credit
}

// Difference describes the imbalance of a voucher: its absolute amount and
// the side carrying the excess.
type Difference struct {
	Amount float64   `json:"amount"`
	Side   EntryType `json:"side"`
}

// ComputeDifference derives the imbalance from the lines. A balanced
// voucher yields a zero Difference with side Credit.
func ComputeDifference(lines []LedgerLine) Difference {
	total := SignedTotal(lines)
	if total > 0 {
		return Difference{Amount: total, Side: EntryDebit}
	}
	return Difference{Amount: -total, Side: EntryCredit}
}

// String formats the difference for display, e.g. "1.00 (Debit)".
func (d Difference) String() string {
	side := "Credit"
	if d.Side == EntryDebit {
		side = "Debit"
	}
	return amountPrinter.Sprintf("%.2f (%s)", d.Amount, side)
}
