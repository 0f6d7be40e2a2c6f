// Package sequences issues document numbers from the last-number table.
// Peek shows the next number without claiming it, for pre-filling forms;
// claiming happens inside the owning save transaction.
package sequences

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
)

// ErrUnknownDocType indicates no sequence row exists for the document type.
var ErrUnknownDocType = errors.New("sequences: unknown document type")

// Sequence is one last-number row.
type Sequence struct {
	DocType    string
	Prefix     string
	NextNumber int64
}

// Format renders the sequence's next document number.
func (s Sequence) Format() string {
	return fmt.Sprintf("%s-%06d", s.Prefix, s.NextNumber)
}

// Repository reads sequence rows.
type Repository interface {
	Get(ctx context.Context, docType string) (Sequence, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds the pgx backed sequences repository.
func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

func (r *repository) Get(ctx context.Context, docType string) (Sequence, error) {
	var s Sequence
	err := r.db.QueryRow(ctx, `SELECT doc_type, prefix, next_number FROM document_sequences WHERE doc_type=$1`, docType).
		Scan(&s.DocType, &s.Prefix, &s.NextNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sequence{}, ErrUnknownDocType
		}
		return Sequence{}, err
	}
	return s, nil
}

// Service exposes sequence peeks.
type Service struct {
	repo Repository
}

// NewService wires the sequences service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Peek returns the next document number without claiming it. Two callers
// may see the same peeked number; only the save transaction claims one.
func (s *Service) Peek(ctx context.Context, docType string) (string, error) {
	seq, err := s.repo.Get(ctx, docType)
	if err != nil {
		return "", err
	}
	return seq.Format(), nil
}
