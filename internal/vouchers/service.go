package vouchers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// DocTypeJournal selects the journal voucher number sequence.
const DocTypeJournal = "JV"

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Guard serialises saves of the same voucher.
type Guard interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string)
}

// Service implements the voucher workflows: listing, loading, the balanced
// save gate, and the edit-confirmation pre-check.
type Service struct {
	repo  Repository
	audit AuditPort
	guard Guard
	now   func() time.Time
}

// NewService wires the voucher service.
func NewService(repo Repository, audit AuditPort, guard Guard) *Service {
	return &Service{repo: repo, audit: audit, guard: guard, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns voucher headers matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]VoucherHeader, int, error) {
	return s.repo.List(ctx, filter)
}

// Get loads a voucher with its lines, wire codes already translated.
func (s *Service) Get(ctx context.Context, id int64) (Voucher, error) {
	return s.repo.Get(ctx, id)
}

// LoadLines re-fetches the persisted lines, satisfying the gate's LineLoader.
func (s *Service) LoadLines(ctx context.Context, voucherID int64) ([]LedgerLine, error) {
	return s.repo.LoadLines(ctx, voucherID)
}

// Save validates and persists a voucher, header and lines together. An
// unbalanced voucher is refused before any repository call. The per-voucher
// guard rejects a second save while one is still in flight.
func (s *Service) Save(ctx context.Context, in SaveInput) (SaveResult, error) {
	if err := in.Validate(); err != nil {
		return SaveResult{}, err
	}
	if in.Mode != SaveUpdate && in.Status == "" {
		in.Status = VoucherStatusPosted
	}

	lockKey := shared.NewVoucherLockKey(in.ActorID)
	if in.Mode == SaveUpdate {
		lockKey = shared.VoucherSaveLockKey(in.VoucherID)
	}
	if s.guard != nil {
		if err := s.guard.Acquire(ctx, lockKey); err != nil {
			return SaveResult{}, err
		}
		defer s.guard.Release(ctx, lockKey)
	}

	var result SaveResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		switch in.Mode {
		case SaveUpdate:
			current, err := tx.GetVoucherForUpdate(ctx, in.VoucherID)
			if err != nil {
				return err
			}
			if in.Number != "" && in.Number != current.Number {
				return fmt.Errorf("%w: posted as %s", ErrNumberImmutable, current.Number)
			}
			header, err := tx.UpdateVoucher(ctx, in)
			if err != nil {
				return err
			}
			result = SaveResult{ID: header.ID, Number: current.Number}
		default:
			number, err := tx.NextNumber(ctx, DocTypeJournal)
			if err != nil {
				return err
			}
			header, err := tx.InsertVoucher(ctx, in, number)
			if err != nil {
				return err
			}
			result = SaveResult{ID: header.ID, Number: header.Number}
		}
		return tx.ReplaceLines(ctx, result.ID, in.DomainLines())
	})
	if err != nil {
		return SaveResult{}, err
	}

	if s.audit != nil {
		action := "voucher.create"
		if in.Mode == SaveUpdate {
			action = "voucher.update"
		}
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  in.ActorID,
			Action:   action,
			Entity:   "voucher",
			EntityID: fmt.Sprintf("%d", result.ID),
			Meta: map[string]any{
				"number": result.Number,
				"lines":  len(in.Lines),
			},
			At: s.now(),
		})
	}
	return result, nil
}

// ValidateEdit lists the downstream impacts of re-editing a posted voucher
// for the requested message types. The voucher must exist.
func (s *Service) ValidateEdit(ctx context.Context, voucherID int64, messageTypes []string) ([]EditImpact, error) {
	if _, err := s.repo.Get(ctx, voucherID); err != nil {
		return nil, err
	}
	return s.repo.EditImpacts(ctx, voucherID, messageTypes)
}

// CheckEditAllowed satisfies the gate's EditChecker: it fails when any
// unacknowledged impact exists, carrying the impact messages for display.
func (s *Service) CheckEditAllowed(ctx context.Context, voucherID int64, messageTypes []string) error {
	impacts, err := s.ValidateEdit(ctx, voucherID, messageTypes)
	if err != nil {
		return err
	}
	if len(impacts) == 0 {
		return nil
	}
	messages := make([]string, 0, len(impacts))
	for _, impact := range impacts {
		messages = append(messages, impact.Message)
	}
	return fmt.Errorf("%w: %s", ErrEditLocked, strings.Join(messages, "; "))
}
