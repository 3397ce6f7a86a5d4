package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type TransactionRepository interface {
	// Create inserts a pending transaction for a freshly initialized payment.
	// The unique key on reference returns ErrDuplicateReference.
	Create(ctx context.Context, txn *entity.Transaction) error
	FindByReference(ctx context.Context, reference string) (*entity.Transaction, error)
	// MarkVerified records the verified payload against the reference. It is
	// the idempotency gate: only the first call for a reference reports
	// applied=true; concurrent verify-vs-webhook races resolve here.
	MarkVerified(ctx context.Context, reference string, status entity.TransactionStatus, rawPayload []byte, verifiedAt time.Time) (bool, error)
	// CreateVerified upserts an already-verified transaction for webhook
	// events whose reference was never initialized locally. Reports whether
	// this call inserted the row.
	CreateVerified(ctx context.Context, txn *entity.Transaction) (bool, error)
}

type transactionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactionRepository(db database.PgxIface, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, reference, target_type, target_id, purpose, amount,
			currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		txn.ID,
		txn.Reference,
		txn.TargetType,
		txn.TargetID,
		txn.Purpose,
		txn.Amount,
		txn.Currency,
		txn.Status,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReference
		}
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("reference", txn.Reference),
		)
		return fmt.Errorf("create transaction %s: %w", txn.Reference, err)
	}

	return nil
}

func (r *transactionRepository) FindByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	query := `
		SELECT id, reference, target_type, target_id, purpose, amount, currency,
			status, raw_payload, verified_at, created_at, updated_at
		FROM transactions
		WHERE reference = $1
	`

	var txn entity.Transaction
	err := r.db.QueryRow(ctx, query, reference).Scan(
		&txn.ID,
		&txn.Reference,
		&txn.TargetType,
		&txn.TargetID,
		&txn.Purpose,
		&txn.Amount,
		&txn.Currency,
		&txn.Status,
		&txn.RawPayload,
		&txn.VerifiedAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return nil, fmt.Errorf("find transaction %s: %w", reference, err)
	}

	return &txn, nil
}

func (r *transactionRepository) MarkVerified(ctx context.Context, reference string, status entity.TransactionStatus, rawPayload []byte, verifiedAt time.Time) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $2, raw_payload = $3, verified_at = $4, updated_at = $4
		WHERE reference = $1 AND verified_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, reference, status, rawPayload, verifiedAt)
	if err != nil {
		r.log.Error("Failed to mark transaction verified",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return false, fmt.Errorf("mark transaction %s verified: %w", reference, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *transactionRepository) CreateVerified(ctx context.Context, txn *entity.Transaction) (bool, error) {
	query := `
		INSERT INTO transactions (id, reference, target_type, target_id, purpose, amount,
			currency, status, raw_payload, verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (reference) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		txn.ID,
		txn.Reference,
		txn.TargetType,
		txn.TargetID,
		txn.Purpose,
		txn.Amount,
		txn.Currency,
		txn.Status,
		txn.RawPayload,
		txn.VerifiedAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to upsert verified transaction",
			zap.Error(err),
			zap.String("reference", txn.Reference),
		)
		return false, fmt.Errorf("upsert verified transaction %s: %w", txn.Reference, err)
	}

	return result.RowsAffected() > 0, nil
}
