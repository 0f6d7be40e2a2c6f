package sequences

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

func TestPeekFormatsNextNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT doc_type, prefix, next_number FROM document_sequences`).
		WithArgs("JV").
		WillReturnRows(pgxmock.NewRows([]string{"doc_type", "prefix", "next_number"}).
			AddRow("JV", "JV", int64(107)))

	svc := NewService(NewRepository(mock))
	number, err := svc.Peek(context.Background(), "JV")
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if number != "JV-000107" {
		t.Fatalf("number = %q, want JV-000107", number)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPeekUnknownDocType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT doc_type, prefix, next_number FROM document_sequences`).
		WithArgs("ZZ").
		WillReturnRows(pgxmock.NewRows([]string{"doc_type", "prefix", "next_number"}))

	svc := NewService(NewRepository(mock))
	_, err = svc.Peek(context.Background(), "ZZ")
	if !errors.Is(err, ErrUnknownDocType) {
		t.Fatalf("got %v, want ErrUnknownDocType", err)
	}
}

func TestSequenceFormatPadding(t *testing.T) {
	cases := []struct {
		seq  Sequence
		want string
	}{
		{Sequence{Prefix: "JV", NextNumber: 1}, "JV-000001"},
		{Sequence{Prefix: "JV", NextNumber: 999999}, "JV-999999"},
		{Sequence{Prefix: "JV", NextNumber: 1234567}, "JV-1234567"},
	}
	for _, tc := range cases {
		if got := tc.seq.Format(); got != tc.want {
			t.Errorf("Format() = %q, want %q", got, tc.want)
		}
	}
}
