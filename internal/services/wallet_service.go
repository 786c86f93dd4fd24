package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/observability"
	"github.com/arminshz/TutorAppBack/internal/repository"
)

const uniqueViolationCode = "23505"

// WalletService owns the prepaid balance of each student. Every mutation
// happens under the wallet row lock and appends a ledger entry in the same
// transaction, so the balance can never go negative and is always
// reconstructable as a fold over its entries.
type WalletService struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewWalletService(db *pgxpool.Pool, logger *zap.Logger) *WalletService {
	return &WalletService{db: db, logger: logger}
}

func (s *WalletService) GetWallet(ctx context.Context, studentID int64) (*models.Wallet, error) {
	return repository.NewWalletRepository(s.db).GetOrCreate(ctx, studentID)
}

func (s *WalletService) ListEntries(
	ctx context.Context,
	studentID int64,
	limit int,
	offset int,
) ([]models.LedgerEntry, error) {
	return repository.NewLedgerEntryRepository(s.db).ListByStudent(ctx, studentID, limit, offset)
}

// TopUp credits the wallet from an external payment. Idempotent on
// externalReference: a repeat call with the same reference returns the
// current wallet without crediting again.
func (s *WalletService) TopUp(
	ctx context.Context,
	studentID int64,
	amountCents int64,
	externalReference string,
) (*models.Wallet, error) {
	externalReference = strings.TrimSpace(externalReference)
	if amountCents <= 0 || externalReference == "" {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txWalletRepo := repository.NewWalletRepository(tx)
	txLedgerRepo := repository.NewLedgerEntryRepository(tx)

	if _, err := txWalletRepo.GetOrCreate(ctx, studentID); err != nil {
		return nil, err
	}
	if _, err := txWalletRepo.GetForUpdate(ctx, studentID); err != nil {
		return nil, err
	}

	if _, err := txLedgerRepo.GetByIdempotencyKey(ctx, externalReference); err == nil {
		return txWalletRepo.GetByStudentID(ctx, studentID)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	wallet, err := txWalletRepo.ApplyTopUp(ctx, studentID, amountCents)
	if err != nil {
		return nil, err
	}
	if _, err := txLedgerRepo.Append(ctx, repository.AppendLedgerEntryInput{
		StudentID:         studentID,
		EntryType:         models.LedgerTopUp,
		AmountCents:       amountCents,
		BalanceAfterCents: wallet.BalanceCents,
		IdempotencyKey:    &externalReference,
	}); err != nil {
		// The unique index on idempotency_key is the backstop for two
		// first-time calls racing with the same reference.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return s.GetWallet(ctx, studentID)
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	observability.Settlements.WithLabelValues("top_up").Inc()
	s.logger.Info("wallet topped up",
		zap.Int64("student_id", studentID),
		zap.Int64("amount_cents", amountCents),
		zap.String("external_reference", externalReference),
	)
	return wallet, nil
}

// CheckAndDeduct runs a standalone deduction in its own transaction.
// Booking flows that already hold a lesson lock use DeductTx instead so the
// lesson lock is always taken before the wallet lock.
func (s *WalletService) CheckAndDeduct(
	ctx context.Context,
	studentID int64,
	amountCents int64,
	lessonID *int64,
) (*models.Wallet, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	wallet, err := s.DeductTx(ctx, tx, studentID, amountCents, lessonID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return wallet, nil
}

// DeductTx verifies and decrements the balance under the wallet row lock
// inside the caller's transaction. Fails with ErrInsufficientFunds without
// writing anything when the balance does not cover the amount.
func (s *WalletService) DeductTx(
	ctx context.Context,
	tx repository.DBTX,
	studentID int64,
	amountCents int64,
	lessonID *int64,
) (*models.Wallet, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidInput
	}

	txWalletRepo := repository.NewWalletRepository(tx)
	txLedgerRepo := repository.NewLedgerEntryRepository(tx)

	if _, err := txWalletRepo.GetOrCreate(ctx, studentID); err != nil {
		return nil, err
	}
	wallet, err := txWalletRepo.GetForUpdate(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if wallet.BalanceCents < amountCents {
		return nil, ErrInsufficientFunds
	}

	wallet, err = txWalletRepo.ApplyDebit(ctx, studentID, amountCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	if _, err := txLedgerRepo.Append(ctx, repository.AppendLedgerEntryInput{
		StudentID:         studentID,
		LessonID:          lessonID,
		EntryType:         models.LedgerLessonPayment,
		AmountCents:       -amountCents,
		BalanceAfterCents: wallet.BalanceCents,
	}); err != nil {
		return nil, err
	}

	observability.Settlements.WithLabelValues("lesson_payment").Inc()
	return wallet, nil
}

// RefundTx credits a refund inside the caller's transaction. Refunds only
// add, so there is no balance precondition.
func (s *WalletService) RefundTx(
	ctx context.Context,
	tx repository.DBTX,
	studentID int64,
	amountCents int64,
	lessonID *int64,
) (*models.Wallet, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidInput
	}

	txWalletRepo := repository.NewWalletRepository(tx)
	txLedgerRepo := repository.NewLedgerEntryRepository(tx)

	if _, err := txWalletRepo.GetOrCreate(ctx, studentID); err != nil {
		return nil, err
	}
	if _, err := txWalletRepo.GetForUpdate(ctx, studentID); err != nil {
		return nil, err
	}

	wallet, err := txWalletRepo.ApplyRefund(ctx, studentID, amountCents)
	if err != nil {
		return nil, err
	}
	if _, err := txLedgerRepo.Append(ctx, repository.AppendLedgerEntryInput{
		StudentID:         studentID,
		LessonID:          lessonID,
		EntryType:         models.LedgerRefund,
		AmountCents:       amountCents,
		BalanceAfterCents: wallet.BalanceCents,
	}); err != nil {
		return nil, err
	}

	observability.Settlements.WithLabelValues("refund").Inc()
	return wallet, nil
}

// Refund runs a standalone refund in its own transaction. Multi-seat refund
// paths call this once per student so one failed credit never blocks the
// others.
func (s *WalletService) Refund(
	ctx context.Context,
	studentID int64,
	amountCents int64,
	lessonID *int64,
) (*models.Wallet, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	wallet, err := s.RefundTx(ctx, tx, studentID, amountCents, lessonID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return wallet, nil
}

// VerifyLedger recomputes the balance as a fold over the student's entries
// and compares it with the live wallet row.
func (s *WalletService) VerifyLedger(ctx context.Context, studentID int64) (bool, error) {
	wallet, err := repository.NewWalletRepository(s.db).GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, err
	}
	sum, err := repository.NewLedgerEntryRepository(s.db).SumByStudent(ctx, studentID)
	if err != nil {
		return false, err
	}
	return sum == wallet.BalanceCents, nil
}
