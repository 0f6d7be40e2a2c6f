package vouchers

import "time"

// VoucherStatus enumerates voucher lifecycle values.
type VoucherStatus string

const (
	VoucherStatusDraft  VoucherStatus = "DRAFT"
	VoucherStatusPosted VoucherStatus = "POSTED"
)

// EntryType marks a ledger line as debit or credit.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// Wire type codes used by the persistence layer and the API: +1 debit, -1
// credit. Loading treats 1 as debit and anything else as credit.
const (
	TypeCodeDebit  = 1
	TypeCodeCredit = -1
)

// Code returns the wire type code for the entry type.
func (t EntryType) Code() int {
	if t == EntryDebit {
		return TypeCodeDebit
	}
	return TypeCodeCredit
}

// EntryTypeFromCode translates a wire type code back to an entry type.
func EntryTypeFromCode(code int) EntryType {
	if code == TypeCodeDebit {
		return EntryDebit
	}
	return EntryCredit
}

// LedgerLine is one debit or credit row of a voucher. Sequence numbers are
// 1-based and dense; they are reassigned on every insert and delete.
type LedgerLine struct {
	Sequence    int       `json:"sequence"`
	AccountCode string    `json:"account_code"`
	Narration   string    `json:"narration"`
	Type        EntryType `json:"entry_type"`
	Amount      float64   `json:"amount"`
	IsManual    bool      `json:"is_manual"`
}

// VoucherHeader carries the descriptive fields of a voucher. Number is
// system assigned and immutable once posted.
type VoucherHeader struct {
	ID              int64         `json:"id"`
	Number          string        `json:"number"`
	Date            time.Time     `json:"date"`
	ReferenceNumber string        `json:"reference_number"`
	ReferenceDate   *time.Time    `json:"reference_date,omitempty"`
	Remarks         string        `json:"remarks"`
	Status          VoucherStatus `json:"status"`
	CreatedBy       int64         `json:"created_by"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Voucher composes a header with its ordered lines. Lines have no identity
// outside their parent.
type Voucher struct {
	VoucherHeader
	Lines []LedgerLine `json:"lines"`
}
