package vouchers

import (
	"context"
	"fmt"
)

// GateState is the edit gate position.
type GateState string

const (
	GateLocked   GateState = "LOCKED"
	GateUnlocked GateState = "UNLOCKED"
)

// LineLoader re-fetches the persisted lines of a voucher.
type LineLoader interface {
	LoadLines(ctx context.Context, voucherID int64) ([]LedgerLine, error)
}

// EditChecker asks the backend whether re-editing a posted voucher has
// downstream impact of the given message types. A non-nil error means the
// edit must not proceed and carries the message to surface.
type EditChecker interface {
	CheckEditAllowed(ctx context.Context, voucherID int64, messageTypes []string) error
}

// EditGate guards the transition of a posted voucher from read-only to
// editable. A brand-new voucher (no persisted id) starts unlocked and is
// never gated.
type EditGate struct {
	voucherID int64
	state     GateState
	loader    LineLoader
	checker   EditChecker
	editor    *LineEditor
}

// NewEditGate builds a gate for the voucher. voucherID zero means a new,
// unsaved voucher, which starts unlocked over an empty line list.
func NewEditGate(voucherID int64, lines []LedgerLine, loader LineLoader, checker EditChecker) *EditGate {
	state := GateLocked
	if voucherID == 0 {
		state = GateUnlocked
	}
	return &EditGate{
		voucherID: voucherID,
		state:     state,
		loader:    loader,
		checker:   checker,
		editor:    NewLineEditor(lines),
	}
}

// RestoreEditGate rebuilds a gate from persisted session state.
func RestoreEditGate(voucherID int64, state GateState, editor *LineEditor, loader LineLoader, checker EditChecker) *EditGate {
	if editor == nil {
		editor = NewLineEditor(nil)
	}
	return &EditGate{
		voucherID: voucherID,
		state:     state,
		loader:    loader,
		checker:   checker,
		editor:    editor,
	}
}

// State returns the current gate position.
func (g *EditGate) State() GateState {
	return g.state
}

// Editor exposes the line editor owned by the gate.
func (g *EditGate) Editor() *LineEditor {
	return g.editor
}

// Unlock moves the gate to editable. For a persisted voucher the lines are
// re-fetched first to defend against stale state; when messageTypes is
// non-empty the edit check runs and a failure aborts the transition.
func (g *EditGate) Unlock(ctx context.Context, messageTypes []string) error {
	if g.state == GateUnlocked {
		return nil
	}
	if g.voucherID != 0 {
		lines, err := g.loader.LoadLines(ctx, g.voucherID)
		if err != nil {
			return fmt.Errorf("edit gate: reload lines: %w", err)
		}
		g.editor = NewLineEditor(lines)
		if len(messageTypes) > 0 && g.checker != nil {
			if err := g.checker.CheckEditAllowed(ctx, g.voucherID, messageTypes); err != nil {
				return err
			}
		}
	}
	g.state = GateUnlocked
	return nil
}

// Lock cancels editing. A persisted voucher reloads its lines fresh,
// discarding in-progress edits; an unsaved voucher just resets its editor
// and stays unlocked.
func (g *EditGate) Lock(ctx context.Context) error {
	if g.voucherID == 0 {
		g.editor = NewLineEditor(nil)
		return nil
	}
	lines, err := g.loader.LoadLines(ctx, g.voucherID)
	if err != nil {
		return fmt.Errorf("edit gate: reload lines: %w", err)
	}
	g.editor = NewLineEditor(lines)
	g.state = GateLocked
	return nil
}
