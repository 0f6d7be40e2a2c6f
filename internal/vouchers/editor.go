package vouchers

import (
	"fmt"
	"math"
	"strconv"
)

// LineDraft is the pending new or edited line. The amount stays a string
// until validation so the editor owns parsing.
type LineDraft struct {
	AccountCode string    `json:"account_code"`
	Narration   string    `json:"narration"`
	Type        EntryType `json:"entry_type"`
	Amount      string    `json:"amount"`
}

type editMode int

const (
	modeIdle editMode = iota
	modeEditing
)

// LineEditor maintains the working set of ledger lines plus a single
// pending draft. After every mutation the draft is reset to the line that
// would zero out the voucher, so the next accepted entry tends to tally.
type LineEditor struct {
	lines     []LedgerLine
	draft     LineDraft
	mode      editMode
	editIndex int
}

// NewLineEditor starts an editor over the given lines. Sequence numbers
// are normalised to 1..N regardless of what the caller passed in.
func NewLineEditor(lines []LedgerLine) *LineEditor {
	e := &LineEditor{lines: append([]LedgerLine(nil), lines...)}
	e.renumber()
	e.refreshDraft()
	return e
}

// Lines returns a copy of the current line list.
func (e *LineEditor) Lines() []LedgerLine {
	return append([]LedgerLine(nil), e.lines...)
}

// Draft returns the current pending draft.
func (e *LineEditor) Draft() LineDraft {
	return e.draft
}

// Editing reports the index under edit, if any.
func (e *LineEditor) Editing() (int, bool) {
	if e.mode == modeEditing {
		return e.editIndex, true
	}
	return 0, false
}

// AddLine validates the draft and appends it as a manual line. On any
// validation failure the line list is left untouched.
func (e *LineEditor) AddLine(draft LineDraft) error {
	line, err := e.validateDraft(draft)
	if err != nil {
		return err
	}
	line.Sequence = len(e.lines) + 1
	line.IsManual = true
	e.lines = append(e.lines, line)
	e.refreshDraft()
	return nil
}

// BeginEdit loads the line at index into the draft and marks it as being
// edited. Only one line may be edited at a time; a second BeginEdit simply
// moves the edit target.
func (e *LineEditor) BeginEdit(index int) error {
	if index < 0 || index >= len(e.lines) {
		return ErrLineOutOfRange
	}
	line := e.lines[index]
	e.draft = LineDraft{
		AccountCode: line.AccountCode,
		Narration:   line.Narration,
		Type:        line.Type,
		Amount:      formatAmount(line.Amount),
	}
	e.mode = modeEditing
	e.editIndex = index
	return nil
}

// CommitEdit validates the draft like AddLine and replaces the edited line
// in place, keeping its sequence number.
func (e *LineEditor) CommitEdit(draft LineDraft) error {
	if e.mode != modeEditing {
		return ErrNotEditing
	}
	line, err := e.validateDraft(draft)
	if err != nil {
		return err
	}
	line.Sequence = e.lines[e.editIndex].Sequence
	line.IsManual = e.lines[e.editIndex].IsManual
	e.lines[e.editIndex] = line
	e.mode = modeIdle
	e.refreshDraft()
	return nil
}

// CancelEdit discards draft changes without touching the line list.
func (e *LineEditor) CancelEdit() {
	e.mode = modeIdle
	e.refreshDraft()
}

// RemoveLine deletes the line at index and renumbers the remainder so
// sequence numbers stay dense. An in-progress edit follows its line:
// removing the edited line drops the edit, removing an earlier line
// shifts the edit target down with it.
func (e *LineEditor) RemoveLine(index int) error {
	if index < 0 || index >= len(e.lines) {
		return ErrLineOutOfRange
	}
	if e.mode == modeEditing {
		switch {
		case e.editIndex == index:
			e.mode = modeIdle
		case index < e.editIndex:
			e.editIndex--
		}
	}
	e.lines = append(e.lines[:index], e.lines[index+1:]...)
	e.renumber()
	e.refreshDraft()
	return nil
}

// Balance returns the signed total over the current lines.
func (e *LineEditor) Balance() float64 {
	return SignedTotal(e.lines)
}

func (e *LineEditor) validateDraft(draft LineDraft) (LedgerLine, error) {
	if draft.AccountCode == "" {
		return LedgerLine{}, ErrAccountRequired
	}
	amount, err := parseAmount(draft.Amount)
	if err != nil {
		return LedgerLine{}, err
	}
	entryType := draft.Type
	if entryType != EntryDebit {
		entryType = EntryCredit
	}
	return LedgerLine{
		AccountCode: draft.AccountCode,
		Narration:   draft.Narration,
		Type:        entryType,
		Amount:      amount,
	}, nil
}

// refreshDraft proposes the line needed to zero out the voucher so far: a
// debit excess suggests a credit of the same size and vice versa.
func (e *LineEditor) refreshDraft() {
	total := SignedTotal(e.lines)
	suggested := EntryCredit
	if total < 0 {
		suggested = EntryDebit
	}
	e.draft = LineDraft{
		Type:   suggested,
		Amount: formatAmount(math.Abs(total)),
	}
}

func (e *LineEditor) renumber() {
	for i := range e.lines {
		e.lines[i].Sequence = i + 1
	}
}

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// EditorState is the serialisable form of a LineEditor, used by the Redis
// backed editor sessions.
type EditorState struct {
	Lines     []LedgerLine `json:"lines"`
	Draft     LineDraft    `json:"draft"`
	Editing   bool         `json:"editing"`
	EditIndex int          `json:"edit_index"`
}

// Snapshot captures the editor state.
func (e *LineEditor) Snapshot() EditorState {
	state := EditorState{
		Lines: append([]LedgerLine(nil), e.lines...),
		Draft: e.draft,
	}
	if e.mode == modeEditing {
		state.Editing = true
		state.EditIndex = e.editIndex
	}
	return state
}

// RestoreEditor rebuilds an editor from a snapshot.
func RestoreEditor(state EditorState) *LineEditor {
	e := &LineEditor{
		lines: append([]LedgerLine(nil), state.Lines...),
		draft: state.Draft,
	}
	if state.Editing && state.EditIndex >= 0 && state.EditIndex < len(e.lines) {
		e.mode = modeEditing
		e.editIndex = state.EditIndex
	}
	return e
}
