package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Repository encapsulates DB operations for vouchers.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]VoucherHeader, int, error)
	Get(ctx context.Context, id int64) (Voucher, error)
	LoadLines(ctx context.Context, voucherID int64) ([]LedgerLine, error)
	EditImpacts(ctx context.Context, voucherID int64, messageTypes []string) ([]EditImpact, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes methods available within a save transaction.
type TxRepository interface {
	NextNumber(ctx context.Context, docType string) (string, error)
	InsertVoucher(ctx context.Context, in SaveInput, number string) (VoucherHeader, error)
	UpdateVoucher(ctx context.Context, in SaveInput) (VoucherHeader, error)
	ReplaceLines(ctx context.Context, voucherID int64, lines []LedgerLine) error
	GetVoucherForUpdate(ctx context.Context, id int64) (VoucherHeader, error)
}

type repository struct {
	db db.Pool
}

// NewRepository builds the pgx backed voucher repository.
func NewRepository(pool db.Pool) Repository {
	return &repository{db: pool}
}

const headerColumns = `id, number, date, reference_number, reference_date, remarks, status, created_by, created_at, updated_at`

func scanHeader(row pgx.Row) (VoucherHeader, error) {
	var h VoucherHeader
	err := row.Scan(&h.ID, &h.Number, &h.Date, &h.ReferenceNumber, &h.ReferenceDate, &h.Remarks, &h.Status, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]VoucherHeader, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM vouchers WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(filter.Page, filter.Size, total)
	args = append(args, page.PerPage, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM vouchers WHERE %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`,
		headerColumns, clause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var headers []VoucherHeader
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			return nil, 0, err
		}
		headers = append(headers, h)
	}
	return headers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Voucher, error) {
	header, err := scanHeader(r.db.QueryRow(ctx, `SELECT `+headerColumns+` FROM vouchers WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Voucher{}, ErrNotFound
		}
		return Voucher{}, err
	}
	lines, err := r.LoadLines(ctx, id)
	if err != nil {
		return Voucher{}, err
	}
	return Voucher{VoucherHeader: header, Lines: lines}, nil
}

func (r *repository) LoadLines(ctx context.Context, voucherID int64) ([]LedgerLine, error) {
	rows, err := r.db.Query(ctx, `SELECT seq, account_code, narration, type_code, amount, is_manual
FROM voucher_lines WHERE voucher_id=$1 ORDER BY seq ASC`, voucherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []LedgerLine
	for rows.Next() {
		var line LedgerLine
		var code int
		if err := rows.Scan(&line.Sequence, &line.AccountCode, &line.Narration, &code, &line.Amount, &line.IsManual); err != nil {
			return nil, err
		}
		line.Type = EntryTypeFromCode(code)
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *repository) EditImpacts(ctx context.Context, voucherID int64, messageTypes []string) ([]EditImpact, error) {
	if len(messageTypes) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT kind, detail FROM voucher_links WHERE voucher_id=$1 AND kind = ANY($2) ORDER BY kind, id`, voucherID, messageTypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var impacts []EditImpact
	for rows.Next() {
		var impact EditImpact
		if err := rows.Scan(&impact.MessageType, &impact.Message); err != nil {
			return nil, err
		}
		impacts = append(impacts, impact)
	}
	return impacts, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

// NextNumber claims the next document number inside the save transaction.
// Sequences live in their own package for standalone peeks; the claim is
// duplicated here because it must share the voucher insert transaction.
func (r *txRepository) NextNumber(ctx context.Context, docType string) (string, error) {
	var prefix string
	var next int64
	err := r.tx.QueryRow(ctx, `UPDATE document_sequences SET next_number = next_number + 1
WHERE doc_type=$1 RETURNING prefix, next_number - 1`, docType).Scan(&prefix, &next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("vouchers: no sequence for document type %s", docType)
		}
		return "", err
	}
	return fmt.Sprintf("%s-%06d", prefix, next), nil
}

func (r *txRepository) InsertVoucher(ctx context.Context, in SaveInput, number string) (VoucherHeader, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO vouchers (number, date, reference_number, reference_date, remarks, status, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING `+headerColumns, number, in.Date, in.ReferenceNumber, in.ReferenceDate, in.Remarks, in.Status, in.ActorID)
	header, err := scanHeader(row)
	if err != nil {
		if pgErr := (*pgconn.PgError)(nil); errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return VoucherHeader{}, fmt.Errorf("vouchers: number %s already taken", number)
		}
		return VoucherHeader{}, err
	}
	return header, nil
}

// UpdateVoucher rewrites the header fields. The number column is never
// touched; an empty status leaves the stored one alone, so a draft is
// only posted when the caller says so.
func (r *txRepository) UpdateVoucher(ctx context.Context, in SaveInput) (VoucherHeader, error) {
	row := r.tx.QueryRow(ctx, `UPDATE vouchers SET date=$2, reference_number=$3, reference_date=$4, remarks=$5,
status=COALESCE(NULLIF($6, ''), status), updated_at=NOW()
WHERE id=$1 RETURNING `+headerColumns, in.VoucherID, in.Date, in.ReferenceNumber, in.ReferenceDate, in.Remarks, string(in.Status))
	header, err := scanHeader(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VoucherHeader{}, ErrNotFound
		}
		return VoucherHeader{}, err
	}
	return header, nil
}

func (r *txRepository) ReplaceLines(ctx context.Context, voucherID int64, lines []LedgerLine) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM voucher_lines WHERE voucher_id=$1`, voucherID); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO voucher_lines (voucher_id, seq, account_code, narration, type_code, amount, is_manual)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, voucherID, line.Sequence, line.AccountCode, line.Narration, line.Type.Code(), toNumeric(line.Amount), line.IsManual); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetVoucherForUpdate(ctx context.Context, id int64) (VoucherHeader, error) {
	header, err := scanHeader(r.tx.QueryRow(ctx, `SELECT `+headerColumns+` FROM vouchers WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VoucherHeader{}, ErrNotFound
		}
		return VoucherHeader{}, err
	}
	return header, nil
}

func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}
