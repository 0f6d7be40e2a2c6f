package vouchers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
)

// editorView is the response shape for every editor session endpoint. The
// difference indicator is present only while the voucher does not tally.
type editorView struct {
	SessionID    string       `json:"session_id"`
	VoucherID    int64        `json:"voucher_id,omitempty"`
	Gate         GateState    `json:"gate"`
	Lines        []LedgerLine `json:"lines"`
	Draft        LineDraft    `json:"draft"`
	DebitTotal   float64      `json:"debit_total"`
	CreditTotal  float64      `json:"credit_total"`
	Balanced     bool         `json:"balanced"`
	Difference   string       `json:"difference,omitempty"`
	EditingIndex *int         `json:"editing_index,omitempty"`
}

func newEditorView(sess EditorSession) editorView {
	editor := RestoreEditor(sess.State)
	lines := editor.Lines()
	debit, credit := Totals(lines)
	view := editorView{
		SessionID:   sess.ID,
		VoucherID:   sess.VoucherID,
		Gate:        sess.Gate,
		Lines:       lines,
		Draft:       editor.Draft(),
		DebitTotal:  debit,
		CreditTotal: credit,
		Balanced:    Balanced(lines),
	}
	if !view.Balanced {
		view.Difference = ComputeDifference(lines).String()
	}
	if idx, ok := editor.Editing(); ok {
		view.EditingIndex = &idx
	}
	return view
}

type openEditorRequest struct {
	VoucherID int64 `json:"voucher_id"`
}

type unlockRequest struct {
	MessageTypes []string `json:"message_types"`
	Confirmed    bool     `json:"confirmed"`
}

// OpenEditor starts an editing session, over an existing voucher (locked
// until the gate opens) or a brand-new one (unlocked, empty).
func (h *Handler) OpenEditor(w http.ResponseWriter, r *http.Request) {
	var req openEditorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var lines []LedgerLine
	if req.VoucherID != 0 {
		voucher, err := h.service.Get(r.Context(), req.VoucherID)
		if err != nil {
			h.respondError(w, err)
			return
		}
		lines = voucher.Lines
	}
	sess, err := h.sessions.Create(r.Context(), req.VoucherID, lines)
	if err != nil {
		h.logger.Error("open editor session", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.Created(w, newEditorView(sess))
}

// EditorState returns the current session view.
func (h *Handler) EditorState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	httpx.OK(w, newEditorView(sess))
}

// AddLine appends the posted draft as a new manual line.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	h.mutateEditor(w, r, func(editor *LineEditor, draft LineDraft) error {
		return editor.AddLine(draft)
	})
}

// BeginEdit loads a line into the draft for editing.
func (h *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if sess.Gate != GateUnlocked {
		h.respondError(w, ErrEditLocked)
		return
	}
	index, err := lineIndex(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	editor := RestoreEditor(sess.State)
	if err := editor.BeginEdit(index); err != nil {
		h.respondError(w, err)
		return
	}
	h.storeAndRespond(w, r, sess, editor)
}

// CommitEdit validates the posted draft and replaces the edited line.
func (h *Handler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	h.mutateEditor(w, r, func(editor *LineEditor, draft LineDraft) error {
		return editor.CommitEdit(draft)
	})
}

// CancelEdit abandons the draft without touching the line list.
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	editor := RestoreEditor(sess.State)
	editor.CancelEdit()
	h.storeAndRespond(w, r, sess, editor)
}

// RemoveLine deletes a line and renumbers the remainder.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if sess.Gate != GateUnlocked {
		h.respondError(w, ErrEditLocked)
		return
	}
	index, err := lineIndex(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	editor := RestoreEditor(sess.State)
	if err := editor.RemoveLine(index); err != nil {
		h.respondError(w, err)
		return
	}
	h.storeAndRespond(w, r, sess, editor)
}

// Unlock runs the edit-confirmation gate for a persisted voucher. With
// Confirmed=false the backend check runs and aborts on any impact; with
// Confirmed=true the impacts are taken as acknowledged.
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	var req unlockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var checker EditChecker
	if !req.Confirmed {
		checker = h.service
	}
	gate := RestoreEditGate(sess.VoucherID, sess.Gate, RestoreEditor(sess.State), h.service, checker)
	if err := gate.Unlock(r.Context(), req.MessageTypes); err != nil {
		h.respondError(w, err)
		return
	}
	sess.Gate = gate.State()
	h.storeAndRespond(w, r, sess, gate.Editor())
}

// Lock cancels editing: a persisted voucher reloads its lines fresh and
// returns to read-only; a new voucher just resets.
func (h *Handler) Lock(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	gate := RestoreEditGate(sess.VoucherID, sess.Gate, RestoreEditor(sess.State), h.service, nil)
	if err := gate.Lock(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	sess.Gate = gate.State()
	h.storeAndRespond(w, r, sess, gate.Editor())
}

// CloseEditor drops the session.
func (h *Handler) CloseEditor(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
		h.logger.Warn("close editor session", slog.Any("error", err))
	}
	httpx.OK(w, map[string]string{"session_id": sess.ID})
}

func (h *Handler) mutateEditor(w http.ResponseWriter, r *http.Request, op func(*LineEditor, LineDraft) error) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if sess.Gate != GateUnlocked {
		h.respondError(w, ErrEditLocked)
		return
	}
	var draft LineDraft
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	editor := RestoreEditor(sess.State)
	if err := op(editor, draft); err != nil {
		h.respondError(w, err)
		return
	}
	h.storeAndRespond(w, r, sess, editor)
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (EditorSession, bool) {
	sess, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.respondError(w, err)
		return EditorSession{}, false
	}
	return sess, true
}

func (h *Handler) storeAndRespond(w http.ResponseWriter, r *http.Request, sess EditorSession, editor *LineEditor) {
	sess.State = editor.Snapshot()
	if err := h.sessions.Put(r.Context(), sess); err != nil {
		h.logger.Error("store editor session", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.OK(w, newEditorView(sess))
}

func lineIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		return 0, ErrLineOutOfRange
	}
	return index, nil
}
