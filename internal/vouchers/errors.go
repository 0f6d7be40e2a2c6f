package vouchers

import "errors"

var (
	// ErrUnbalanced indicates debit != credit beyond the tally epsilon.
	ErrUnbalanced = errors.New("vouchers: debit and credit totals must tally")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("vouchers: a voucher requires at least two lines")
	// ErrAccountRequired indicates a line without an account code.
	ErrAccountRequired = errors.New("vouchers: account code required")
	// ErrInvalidAmount indicates a non-numeric or non-positive amount.
	ErrInvalidAmount = errors.New("vouchers: amount must be a positive number")
	// ErrDateRequired indicates a voucher without a date.
	ErrDateRequired = errors.New("vouchers: voucher date required")
	// ErrNotFound indicates a missing voucher.
	ErrNotFound = errors.New("vouchers: voucher not found")
	// ErrNotEditing indicates a commit or cancel without a begun edit.
	ErrNotEditing = errors.New("vouchers: no line is being edited")
	// ErrLineOutOfRange indicates an index outside the line list.
	ErrLineOutOfRange = errors.New("vouchers: line index out of range")
	// ErrEditLocked indicates the edit gate refused to unlock.
	ErrEditLocked = errors.New("vouchers: voucher is locked for editing")
	// ErrNumberImmutable indicates an attempt to change a posted number.
	ErrNumberImmutable = errors.New("vouchers: voucher number immutable once posted")
	// ErrSessionNotFound indicates an unknown or expired editor session.
	ErrSessionNotFound = errors.New("vouchers: editor session not found")
)
