package vouchers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-erp/internal/observability"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/sequences"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

const dateLayout = "2006-01-02"

// Handler exposes the voucher API: CRUD, edit-check, and editor sessions.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	seq      *sequences.Service
	sessions *SessionStore
	validate *validator.Validate
	metrics  *observability.Metrics
}

// NewHandler constructs the voucher HTTP handler.
func NewHandler(logger *slog.Logger, service *Service, seq *sequences.Service, sessions *SessionStore, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		seq:      seq,
		sessions: sessions,
		validate: validator.New(),
		metrics:  metrics,
	}
}

type saveVoucherRequest struct {
	Number          string          `json:"number"`
	Status          string          `json:"status" validate:"omitempty,oneof=DRAFT POSTED"`
	Date            string          `json:"date" validate:"required"`
	ReferenceNumber string          `json:"reference_number"`
	ReferenceDate   string          `json:"reference_date"`
	Remarks         string          `json:"remarks"`
	Lines           []SaveLineInput `json:"lines" validate:"required,min=2,dive"`
}

type editCheckRequest struct {
	MessageTypes []string `json:"message_types" validate:"required,min=1,dive,required"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{}
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			filter.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			filter.To = &t
		}
	}
	if v := q.Get("status"); v != "" {
		status := VoucherStatus(v)
		filter.Status = &status
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil {
		filter.Size = v
	}

	headers, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list vouchers", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	pagination := shared.NewPagination(filter.Page, filter.Size, total)
	httpx.OK(w, map[string]any{
		"vouchers":   headers,
		"pagination": pagination,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid voucher id")
		return
	}
	voucher, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, voucher)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, SaveInsert, 0)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid voucher id")
		return
	}
	h.save(w, r, SaveUpdate, id)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, mode SaveMode, id int64) {
	var req saveVoucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Missing or invalid fields: "+err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid voucher date")
		return
	}
	input := SaveInput{
		Mode:            mode,
		VoucherID:       id,
		Number:          req.Number,
		Status:          VoucherStatus(req.Status),
		Date:            date,
		ReferenceNumber: req.ReferenceNumber,
		Remarks:         req.Remarks,
		ActorID:         actorID(r),
		Lines:           req.Lines,
	}
	if req.ReferenceDate != "" {
		refDate, err := time.Parse(dateLayout, req.ReferenceDate)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "Invalid reference date")
			return
		}
		input.ReferenceDate = &refDate
	}

	result, err := h.service.Save(r.Context(), input)
	if err != nil {
		h.countRejection(err)
		h.logger.Warn("save voucher rejected", slog.Any("error", err), slog.String("mode", string(mode)))
		h.respondError(w, err)
		return
	}
	if mode == SaveInsert {
		httpx.Created(w, result)
		return
	}
	httpx.OK(w, result)
}

// NextNumber peeks the next journal voucher number for new-voucher forms.
func (h *Handler) NextNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.seq.Peek(r.Context(), DocTypeJournal)
	if err != nil {
		h.logger.Error("peek next number", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.OK(w, map[string]string{"number": number})
}

// EditCheck lists the downstream impacts of re-editing a posted voucher.
func (h *Handler) EditCheck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid voucher id")
		return
	}
	var req editCheckRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "At least one message type is required")
		return
	}
	impacts, err := h.service.ValidateEdit(r.Context(), id, req.MessageTypes)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{
		"impacts":               impacts,
		"confirmation_required": len(impacts) > 0,
	})
}

func (h *Handler) countRejection(err error) {
	switch {
	case errors.Is(err, ErrUnbalanced):
		h.metrics.CountSaveRejection("unbalanced")
	case errors.Is(err, shared.ErrSaveInFlight):
		h.metrics.CountSaveRejection("in_flight")
	case errors.Is(err, ErrTooFewLines), errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAccountRequired), errors.Is(err, ErrDateRequired):
		h.metrics.CountSaveRejection("validation")
	}
}

// respondError maps voucher domain errors onto the envelope. Validation
// failures surface their own message; everything else collapses to the
// fixed transport strings.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSessionNotFound):
		httpx.Fail(w, http.StatusNotFound, httpx.MsgNotFound)
	case errors.Is(err, ErrUnbalanced),
		errors.Is(err, ErrTooFewLines),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrAccountRequired),
		errors.Is(err, ErrDateRequired),
		errors.Is(err, ErrLineOutOfRange),
		errors.Is(err, ErrNumberImmutable),
		errors.Is(err, ErrNotEditing):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEditLocked):
		httpx.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrSaveInFlight):
		httpx.Fail(w, http.StatusConflict, shared.UserSafeMessage(err))
	default:
		httpx.Fail(w, http.StatusInternalServerError, httpx.MsgServerError)
	}
}

func actorID(r *http.Request) int64 {
	if identity := shared.IdentityFromContext(r.Context()); identity != nil {
		return identity.UserID
	}
	return 0
}
