package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/domain/model"
)

// PaymentRepo is a PostgreSQL-backed PaymentRepository using the pgx stdlib
// driver. Status transitions are compare-and-swapped in SQL so concurrent
// processors race safely without application-level locks.
type PaymentRepo struct {
	DB   *sql.DB
	time TimeProvider
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{DB: db, time: &RealTimeProvider{}}
}

const paymentColumns = `id, status, amount, currency, customer_id, result, error, created_at, updated_at`

// Create inserts a new payment row.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO payments (id, status, amount, currency, customer_id, result, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Status, p.Amount, p.Currency, p.CustomerID, p.Result, p.Error, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrPaymentExists
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by id.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1
	`, id)
	return scanPayment(row)
}

// TransitionStatus moves the payment from params.From to params.To only if
// the row's current status still equals params.From. Exactly one of two
// concurrent callers gets the updated row back; the other gets
// ErrStatusConflict (or ErrPaymentNotFound if the id is unknown).
func (r *PaymentRepo) TransitionStatus(
	ctx context.Context,
	params core.TransitionParams,
) (*model.Payment, error) {
	if !params.From.CanTransition(params.To) {
		return nil, ErrInvalidTransition
	}

	row := r.DB.QueryRowContext(ctx, `
		UPDATE payments
		SET status = $1,
		    result = CASE WHEN $5 THEN $3 ELSE result END,
		    error  = CASE WHEN $5 THEN $4 ELSE error  END,
		    updated_at = $6
		WHERE id = $2 AND status = $7
		RETURNING `+paymentColumns,
		params.To, params.ID, params.Result, params.Error,
		params.To.Terminal(), r.time.Now(), params.From)

	p, err := scanPayment(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPaymentNotFound) {
		return nil, err
	}

	// No row matched: distinguish a lost race from an unknown id.
	var exists bool
	if checkErr := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, params.ID,
	).Scan(&exists); checkErr != nil {
		return nil, fmt.Errorf("check payment exists: %w", checkErr)
	}
	if exists {
		return nil, ErrStatusConflict
	}
	return nil, ErrPaymentNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID, &p.Status, &p.Amount, &p.Currency, &p.CustomerID,
		&p.Result, &p.Error, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return &p, nil
}

// PGIdempotencyIndex is a PostgreSQL-backed IdempotencyIndex. The unique
// constraint on the key column makes Bind a race-safe put-if-absent.
type PGIdempotencyIndex struct {
	DB *sql.DB
}

// NewPGIdempotencyIndex creates a new PGIdempotencyIndex.
func NewPGIdempotencyIndex(db *sql.DB) *PGIdempotencyIndex {
	return &PGIdempotencyIndex{DB: db}
}

// Bind inserts the key binding; on a unique violation it re-reads the
// winning binding and reports created=false.
func (i *PGIdempotencyIndex) Bind(ctx context.Context, key, paymentID string) (string, bool, error) {
	res, err := i.DB.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, payment_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO NOTHING
	`, key, paymentID)
	if err != nil {
		return "", false, fmt.Errorf("bind idempotency key: %w", err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n > 0 {
		return paymentID, true, nil
	}

	existing, ok, err := i.Lookup(ctx, key)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, fmt.Errorf("idempotency key %q vanished after conflict", key)
	}
	return existing, false, nil
}

// Lookup returns the payment id bound to key, if any.
func (i *PGIdempotencyIndex) Lookup(ctx context.Context, key string) (string, bool, error) {
	var id string
	err := i.DB.QueryRowContext(ctx,
		`SELECT payment_id FROM idempotency_keys WHERE key = $1`, key,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup idempotency key: %w", err)
	}
	return id, true, nil
}

var (
	_ core.PaymentRepository = (*PaymentRepo)(nil)
	_ core.IdempotencyIndex  = (*PGIdempotencyIndex)(nil)
)
