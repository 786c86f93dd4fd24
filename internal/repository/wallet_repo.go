package repository

import (
	"context"

	"github.com/arminshz/TutorAppBack/internal/models"
)

const walletColumns = `student_id, balance_cents, total_topup_cents, total_spent_cents,
	total_refunded_cents, created_at, updated_at`

func scanWallet(row lessonScanner) (*models.Wallet, error) {
	var wallet models.Wallet
	err := row.Scan(
		&wallet.StudentID,
		&wallet.BalanceCents,
		&wallet.TotalTopUpCents,
		&wallet.TotalSpentCents,
		&wallet.TotalRefundedCents,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

type WalletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreate lazily provisions the wallet row on first financial contact.
// ON CONFLICT keeps it safe against two first-touch requests racing.
func (r *WalletRepository) GetOrCreate(ctx context.Context, studentID int64) (*models.Wallet, error) {
	insert := `
		INSERT INTO wallets (student_id)
		VALUES ($1)
		ON CONFLICT (student_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, insert, studentID); err != nil {
		return nil, err
	}
	return r.GetByStudentID(ctx, studentID)
}

func (r *WalletRepository) GetByStudentID(
	ctx context.Context,
	studentID int64,
) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE student_id = $1`
	return scanWallet(r.db.QueryRow(ctx, query, studentID))
}

// GetForUpdate locks the wallet row. Every debit must read the balance
// through here; a read outside the lock can observe a stale balance and let
// two deductions race past the same funds.
func (r *WalletRepository) GetForUpdate(
	ctx context.Context,
	studentID int64,
) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE student_id = $1 FOR UPDATE`
	return scanWallet(r.db.QueryRow(ctx, query, studentID))
}

func (r *WalletRepository) ApplyDebit(
	ctx context.Context,
	studentID int64,
	amountCents int64,
) (*models.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance_cents = balance_cents - $2,
			total_spent_cents = total_spent_cents + $2,
			updated_at = NOW()
		WHERE student_id = $1 AND balance_cents >= $2
		RETURNING ` + walletColumns
	return scanWallet(r.db.QueryRow(ctx, query, studentID, amountCents))
}

func (r *WalletRepository) ApplyRefund(
	ctx context.Context,
	studentID int64,
	amountCents int64,
) (*models.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance_cents = balance_cents + $2,
			total_refunded_cents = total_refunded_cents + $2,
			updated_at = NOW()
		WHERE student_id = $1
		RETURNING ` + walletColumns
	return scanWallet(r.db.QueryRow(ctx, query, studentID, amountCents))
}

func (r *WalletRepository) ApplyTopUp(
	ctx context.Context,
	studentID int64,
	amountCents int64,
) (*models.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance_cents = balance_cents + $2,
			total_topup_cents = total_topup_cents + $2,
			updated_at = NOW()
		WHERE student_id = $1
		RETURNING ` + walletColumns
	return scanWallet(r.db.QueryRow(ctx, query, studentID, amountCents))
}
