package repository

import (
	"context"

	"github.com/arminshz/TutorAppBack/internal/models"
)

const ledgerColumns = `id, student_id, lesson_id, entry_type, amount_cents,
	balance_after_cents, idempotency_key, created_at`

func scanLedgerEntry(row lessonScanner) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := row.Scan(
		&entry.ID,
		&entry.StudentID,
		&entry.LessonID,
		&entry.EntryType,
		&entry.AmountCents,
		&entry.BalanceAfterCents,
		&entry.IdempotencyKey,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

type AppendLedgerEntryInput struct {
	StudentID         int64
	LessonID          *int64
	EntryType         models.LedgerEntryType
	AmountCents       int64
	BalanceAfterCents int64
	IdempotencyKey    *string
}

// LedgerEntryRepository is append-only. Entries are never updated or deleted;
// corrections are expressed as new adjustment entries.
type LedgerEntryRepository struct {
	db DBTX
}

func NewLedgerEntryRepository(db DBTX) *LedgerEntryRepository {
	return &LedgerEntryRepository{db: db}
}

func (r *LedgerEntryRepository) Append(
	ctx context.Context,
	input AppendLedgerEntryInput,
) (*models.LedgerEntry, error) {
	query := `
		INSERT INTO ledger_entries (student_id, lesson_id, entry_type, amount_cents,
			balance_after_cents, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + ledgerColumns
	return scanLedgerEntry(r.db.QueryRow(
		ctx,
		query,
		input.StudentID,
		input.LessonID,
		input.EntryType,
		input.AmountCents,
		input.BalanceAfterCents,
		input.IdempotencyKey,
	))
}

func (r *LedgerEntryRepository) GetByIdempotencyKey(
	ctx context.Context,
	key string,
) (*models.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE idempotency_key = $1`
	return scanLedgerEntry(r.db.QueryRow(ctx, query, key))
}

func (r *LedgerEntryRepository) ListByStudent(
	ctx context.Context,
	studentID int64,
	limit int,
	offset int,
) ([]models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE student_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// SumByStudent folds the signed entry amounts. Used as a consistency check
// against the live wallet balance, not as its source.
func (r *LedgerEntryRepository) SumByStudent(
	ctx context.Context,
	studentID int64,
) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM ledger_entries
		WHERE student_id = $1
	`
	var sum int64
	if err := r.db.QueryRow(ctx, query, studentID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}
