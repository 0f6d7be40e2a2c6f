package vouchers

import (
	"context"
	"errors"
	"testing"
)

type stubLoader struct {
	lines []LedgerLine
	err   error
	calls int
}

func (s *stubLoader) LoadLines(ctx context.Context, voucherID int64) ([]LedgerLine, error) {
	s.calls++
	return s.lines, s.err
}

type stubChecker struct {
	err   error
	calls int
	types []string
}

func (s *stubChecker) CheckEditAllowed(ctx context.Context, voucherID int64, messageTypes []string) error {
	s.calls++
	s.types = messageTypes
	return s.err
}

func TestNewVoucherStartsUnlocked(t *testing.T) {
	gate := NewEditGate(0, nil, &stubLoader{}, &stubChecker{})
	if gate.State() != GateUnlocked {
		t.Fatalf("new voucher gate = %s, want unlocked", gate.State())
	}
}

func TestPersistedVoucherStartsLocked(t *testing.T) {
	gate := NewEditGate(7, nil, &stubLoader{}, &stubChecker{})
	if gate.State() != GateLocked {
		t.Fatalf("persisted voucher gate = %s, want locked", gate.State())
	}
}

func TestUnlockReloadsLinesThenChecks(t *testing.T) {
	loader := &stubLoader{lines: []LedgerLine{
		{AccountCode: "1000", Type: EntryDebit, Amount: 100},
		{AccountCode: "4000", Type: EntryCredit, Amount: 100},
	}}
	checker := &stubChecker{}
	gate := NewEditGate(7, nil, loader, checker)

	if err := gate.Unlock(context.Background(), []string{"SALES_INVOICE"}); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if gate.State() != GateUnlocked {
		t.Fatalf("gate = %s after unlock", gate.State())
	}
	if loader.calls != 1 {
		t.Fatalf("loader called %d times, want 1", loader.calls)
	}
	if checker.calls != 1 || len(checker.types) != 1 || checker.types[0] != "SALES_INVOICE" {
		t.Fatalf("checker calls=%d types=%v", checker.calls, checker.types)
	}
	if len(gate.Editor().Lines()) != 2 {
		t.Fatal("editor must hold the reloaded lines")
	}
}

func TestUnlockAbortsWhenCheckFails(t *testing.T) {
	loader := &stubLoader{}
	checker := &stubChecker{err: ErrEditLocked}
	gate := NewEditGate(7, nil, loader, checker)

	err := gate.Unlock(context.Background(), []string{"SALES_INVOICE"})
	if !errors.Is(err, ErrEditLocked) {
		t.Fatalf("got %v, want ErrEditLocked", err)
	}
	if gate.State() != GateLocked {
		t.Fatalf("gate must stay locked on failed check, got %s", gate.State())
	}
}

func TestUnlockWithoutMessageTypesSkipsCheck(t *testing.T) {
	checker := &stubChecker{err: ErrEditLocked}
	gate := NewEditGate(7, nil, &stubLoader{}, checker)

	if err := gate.Unlock(context.Background(), nil); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if checker.calls != 0 {
		t.Fatal("check must not run without message types")
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	loader := &stubLoader{}
	gate := NewEditGate(0, nil, loader, nil)
	if err := gate.Unlock(context.Background(), nil); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if loader.calls != 0 {
		t.Fatal("unlocked gate must not reload")
	}
}

func TestLockReloadsPersistedVoucher(t *testing.T) {
	loader := &stubLoader{lines: []LedgerLine{
		{AccountCode: "1000", Type: EntryDebit, Amount: 100},
	}}
	gate := NewEditGate(7, nil, loader, nil)
	if err := gate.Unlock(context.Background(), nil); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if err := gate.Editor().AddLine(LineDraft{AccountCode: "9999", Type: EntryDebit, Amount: "5"}); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if err := gate.Lock(context.Background()); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if gate.State() != GateLocked {
		t.Fatalf("gate = %s after lock", gate.State())
	}
	lines := gate.Editor().Lines()
	if len(lines) != 1 || lines[0].AccountCode != "1000" {
		t.Fatalf("in-progress edits survived lock: %+v", lines)
	}
}

func TestLockOnNewVoucherResetsAndStaysUnlocked(t *testing.T) {
	gate := NewEditGate(0, nil, &stubLoader{}, nil)
	if err := gate.Editor().AddLine(LineDraft{AccountCode: "1000", Type: EntryDebit, Amount: "5"}); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := gate.Lock(context.Background()); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if gate.State() != GateUnlocked {
		t.Fatalf("new voucher gate = %s after lock, want unlocked", gate.State())
	}
	if len(gate.Editor().Lines()) != 0 {
		t.Fatal("lock must reset the editor of a new voucher")
	}
}
