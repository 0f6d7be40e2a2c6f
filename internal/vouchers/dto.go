package vouchers

import (
	"fmt"
	"time"
)

// SaveMode selects insert or update semantics for a save.
type SaveMode string

const (
	SaveInsert SaveMode = "INSERT"
	SaveUpdate SaveMode = "UPDATE"
)

// SaveLineInput describes one line of a save request. The entry type
// travels as a wire code: +1 debit, -1 credit.
type SaveLineInput struct {
	AccountCode string  `json:"account_code" validate:"required"`
	Narration   string  `json:"narration"`
	TypeCode    int     `json:"type_code" validate:"required,oneof=1 -1"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	IsManual    bool    `json:"is_manual"`
}

// Line translates the wire input into a domain line.
func (in SaveLineInput) Line(sequence int) LedgerLine {
	return LedgerLine{
		Sequence:    sequence,
		AccountCode: in.AccountCode,
		Narration:   in.Narration,
		Type:        EntryTypeFromCode(in.TypeCode),
		Amount:      in.Amount,
		IsManual:    in.IsManual,
	}
}

// SaveInput groups the fields required to persist a voucher. Number is
// advisory: the claimed number wins on insert, and an update carrying a
// number different from the stored one is refused.
type SaveInput struct {
	Mode            SaveMode
	VoucherID       int64
	Number          string
	Status          VoucherStatus
	Date            time.Time
	ReferenceNumber string
	ReferenceDate   *time.Time
	Remarks         string
	ActorID         int64
	Lines           []SaveLineInput
}

// Validate ensures the save meets the hard gate: a dated header and at
// least two tallied lines. The formatted imbalance rides along on
// ErrUnbalanced for display.
func (in SaveInput) Validate() error {
	if in.Date.IsZero() {
		return ErrDateRequired
	}
	if in.Mode == SaveUpdate && in.VoucherID == 0 {
		return fmt.Errorf("vouchers: update requires a voucher id")
	}
	if len(in.Lines) < 2 {
		return ErrTooFewLines
	}
	lines := make([]LedgerLine, 0, len(in.Lines))
	for idx, line := range in.Lines {
		if line.AccountCode == "" {
			return fmt.Errorf("line %d: %w", idx+1, ErrAccountRequired)
		}
		if line.Amount <= 0 {
			return fmt.Errorf("line %d: %w", idx+1, ErrInvalidAmount)
		}
		lines = append(lines, line.Line(idx+1))
	}
	if !Balanced(lines) {
		return fmt.Errorf("%w: difference %s", ErrUnbalanced, ComputeDifference(lines))
	}
	return nil
}

// DomainLines converts the inputs into renumbered domain lines.
func (in SaveInput) DomainLines() []LedgerLine {
	lines := make([]LedgerLine, 0, len(in.Lines))
	for idx, line := range in.Lines {
		lines = append(lines, line.Line(idx+1))
	}
	return lines
}

// SaveResult reports the persisted identity of a saved voucher.
type SaveResult struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

// EditImpact is one downstream consequence of re-editing a posted voucher.
type EditImpact struct {
	MessageType string `json:"message_type"`
	Message     string `json:"message"`
}

// ListFilter narrows voucher listings.
type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Status *VoucherStatus
	Page   int
	Size   int
}
