package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/repository"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestBookLessonDebitsWalletAndBlocksOverlap(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	lessons, _, wallets := newIntegrationStack(pool)

	studentID := createTestAccount(t, ctx, pool, "student", 0)
	otherStudentID := createTestAccount(t, ctx, pool, "student", 0)
	teacherID := createTestAccount(t, ctx, pool, "teacher", 10000)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, studentID, otherStudentID, teacherID) })

	if _, err := wallets.TopUp(ctx, studentID, 20000, fmt.Sprintf("topup-%d", time.Now().UnixNano())); err != nil {
		t.Fatalf("TopUp: %v", err)
	}

	scheduledAt := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	detail, err := lessons.BookLesson(ctx, studentID, BookLessonInput{
		TeacherID:       teacherID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: 60,
		PriceCents:      10000,
		PaymentMethod:   PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("BookLesson: %v", err)
	}
	if detail.Status != models.LessonPending {
		t.Fatalf("expected pending lesson, got %q", detail.Status)
	}
	if len(detail.Seats) != 1 || detail.Seats[0].PriceCents != 10000 {
		t.Fatalf("expected one seat at 10000, got %+v", detail.Seats)
	}

	wallet, err := wallets.GetWallet(ctx, studentID)
	if err != nil {
		t.Fatalf("GetWallet: %v", err)
	}
	if wallet.BalanceCents != 10000 {
		t.Fatalf("expected balance 10000 after debit, got %d", wallet.BalanceCents)
	}

	if _, err := wallets.TopUp(ctx, otherStudentID, 20000, fmt.Sprintf("topup-%d", time.Now().UnixNano())); err != nil {
		t.Fatalf("TopUp other: %v", err)
	}
	_, err = lessons.BookLesson(ctx, otherStudentID, BookLessonInput{
		TeacherID:       teacherID,
		ScheduledAt:     scheduledAt.Add(30 * time.Minute),
		DurationMinutes: 60,
		PriceCents:      10000,
		PaymentMethod:   PaymentMethodWallet,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for overlapping booking, got %v", err)
	}

	consistent, err := wallets.VerifyLedger(ctx, studentID)
	if err != nil {
		t.Fatalf("VerifyLedger: %v", err)
	}
	if !consistent {
		t.Fatal("ledger does not reconcile with wallet balance")
	}
}

func TestBookLessonRejectsInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	lessons, _, wallets := newIntegrationStack(pool)

	studentID := createTestAccount(t, ctx, pool, "student", 0)
	teacherID := createTestAccount(t, ctx, pool, "teacher", 10000)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, studentID, teacherID) })

	if _, err := wallets.TopUp(ctx, studentID, 500, fmt.Sprintf("topup-%d", time.Now().UnixNano())); err != nil {
		t.Fatalf("TopUp: %v", err)
	}

	_, err := lessons.BookLesson(ctx, studentID, BookLessonInput{
		TeacherID:       teacherID,
		ScheduledAt:     time.Now().UTC().Add(72 * time.Hour),
		DurationMinutes: 60,
		PriceCents:      10000,
		PaymentMethod:   PaymentMethodWallet,
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	wallet, err := wallets.GetWallet(ctx, studentID)
	if err != nil {
		t.Fatalf("GetWallet: %v", err)
	}
	if wallet.BalanceCents != 500 {
		t.Fatalf("failed booking must not touch the balance, got %d", wallet.BalanceCents)
	}
}

func TestWalletTopUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	_, _, wallets := newIntegrationStack(pool)

	studentID := createTestAccount(t, ctx, pool, "student", 0)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, studentID) })

	reference := fmt.Sprintf("psp-%d", time.Now().UnixNano())
	if _, err := wallets.TopUp(ctx, studentID, 10000, reference); err != nil {
		t.Fatalf("first TopUp: %v", err)
	}
	wallet, err := wallets.TopUp(ctx, studentID, 10000, reference)
	if err != nil {
		t.Fatalf("repeated TopUp: %v", err)
	}
	if wallet.BalanceCents != 10000 {
		t.Fatalf("expected repeat top-up to be a no-op, balance %d", wallet.BalanceCents)
	}
}

func TestGroupFormationJoinAndDuplicateMember(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	_, groups, wallets := newIntegrationStack(pool)

	creatorID := createTestAccount(t, ctx, pool, "student", 0)
	joinerID := createTestAccount(t, ctx, pool, "student", 0)
	teacherID := createTestAccount(t, ctx, pool, "teacher", 10000)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, creatorID, joinerID, teacherID) })

	for _, id := range []int64{creatorID, joinerID} {
		if _, err := wallets.TopUp(ctx, id, 20000, fmt.Sprintf("topup-%d-%d", id, time.Now().UnixNano())); err != nil {
			t.Fatalf("TopUp %d: %v", id, err)
		}
	}

	detail, err := groups.CreateGroup(ctx, creatorID, CreateGroupInput{
		TeacherID:       teacherID,
		ScheduledAt:     time.Now().UTC().Add(72 * time.Hour),
		DurationMinutes: 60,
		TargetSeats:     2,
		PaymentMethod:   PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if detail.Invitation == nil || detail.Invitation.Token == "" {
		t.Fatalf("expected invitation token, got %+v", detail.Invitation)
	}
	// Two seats split the 10000 full price at 60% each.
	if len(detail.Seats) != 1 || detail.Seats[0].PriceCents != 6000 {
		t.Fatalf("expected creator seat at 6000, got %+v", detail.Seats)
	}

	seat, err := groups.Join(ctx, joinerID, detail.Invitation.Token, PaymentMethodWallet)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if seat.PriceCents != 6000 {
		t.Fatalf("expected joiner seat at 6000, got %d", seat.PriceCents)
	}

	if _, err := groups.Join(ctx, joinerID, detail.Invitation.Token, PaymentMethodWallet); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	full, err := groups.ListOpenGroups(ctx, 50)
	if err != nil {
		t.Fatalf("ListOpenGroups: %v", err)
	}
	for _, lesson := range full {
		if lesson.ID == detail.ID {
			t.Fatal("filled group must not appear in the open listing")
		}
	}
}

func TestResolveDeadlinePayFullConvertsToPrivate(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	_, groups, wallets := newIntegrationStack(pool)

	creatorID := createTestAccount(t, ctx, pool, "student", 0)
	teacherID := createTestAccount(t, ctx, pool, "teacher", 10000)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, creatorID, teacherID) })

	if _, err := wallets.TopUp(ctx, creatorID, 20000, fmt.Sprintf("topup-%d", time.Now().UnixNano())); err != nil {
		t.Fatalf("TopUp: %v", err)
	}

	detail, err := groups.CreateGroup(ctx, creatorID, CreateGroupInput{
		TeacherID:       teacherID,
		ScheduledAt:     time.Now().UTC().Add(72 * time.Hour),
		DurationMinutes: 60,
		TargetSeats:     2,
		PaymentMethod:   PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	// Force the deadline into the past, then run the sweep path.
	if _, err := pool.Exec(ctx,
		"UPDATE group_invitations SET expires_at = NOW() - INTERVAL '1 minute' WHERE lesson_id = $1",
		detail.ID,
	); err != nil {
		t.Fatalf("expire invitation: %v", err)
	}
	if err := groups.MarkDeadlinePassed(ctx, detail.ID); err != nil {
		t.Fatalf("MarkDeadlinePassed: %v", err)
	}

	resolved, err := groups.ResolveDeadline(ctx, creatorID, detail.ID, DeadlineChoicePayFull)
	if err != nil {
		t.Fatalf("ResolveDeadline: %v", err)
	}
	if resolved.IsGroup {
		t.Fatal("expected lesson converted to private")
	}
	if resolved.GrossPriceCents != 10000 {
		t.Fatalf("expected gross 10000, got %d", resolved.GrossPriceCents)
	}

	// Creator paid 6000 at creation and the 4000 difference on resolution.
	wallet, err := wallets.GetWallet(ctx, creatorID)
	if err != nil {
		t.Fatalf("GetWallet: %v", err)
	}
	if wallet.BalanceCents != 10000 {
		t.Fatalf("expected balance 10000 after paying the difference, got %d", wallet.BalanceCents)
	}
}

func TestCancelSeatRefundsByPolicyTier(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	_, groups, wallets := newIntegrationStack(pool)

	creatorID := createTestAccount(t, ctx, pool, "student", 0)
	joinerID := createTestAccount(t, ctx, pool, "student", 0)
	teacherID := createTestAccount(t, ctx, pool, "teacher", 10000)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, creatorID, joinerID, teacherID) })

	for _, id := range []int64{creatorID, joinerID} {
		if _, err := wallets.TopUp(ctx, id, 20000, fmt.Sprintf("topup-%d-%d", id, time.Now().UnixNano())); err != nil {
			t.Fatalf("TopUp %d: %v", id, err)
		}
	}

	detail, err := groups.CreateGroup(ctx, creatorID, CreateGroupInput{
		TeacherID:       teacherID,
		ScheduledAt:     time.Now().UTC().Add(72 * time.Hour),
		DurationMinutes: 60,
		TargetSeats:     2,
		PaymentMethod:   PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := groups.Join(ctx, joinerID, detail.Invitation.Token, PaymentMethodWallet); err != nil {
		t.Fatalf("Join: %v", err)
	}

	seat, err := groups.CancelSeat(ctx, joinerID, detail.ID, "schedule clash")
	if err != nil {
		t.Fatalf("CancelSeat: %v", err)
	}
	if seat.RefundPercent == nil || *seat.RefundPercent != RefundFull {
		t.Fatalf("expected full refund 72h out, got %+v", seat.RefundPercent)
	}

	wallet, err := wallets.GetWallet(ctx, joinerID)
	if err != nil {
		t.Fatalf("GetWallet: %v", err)
	}
	if wallet.BalanceCents != 20000 {
		t.Fatalf("expected full refund back to 20000, got %d", wallet.BalanceCents)
	}
}

func TestCancelSeatReopensFilledGroup(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	_, groups, wallets := newIntegrationStack(pool)

	creatorID := createTestAccount(t, ctx, pool, "student", 0)
	joinerID := createTestAccount(t, ctx, pool, "student", 0)
	teacherID := createTestAccount(t, ctx, pool, "teacher", 10000)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, creatorID, joinerID, teacherID) })

	for _, id := range []int64{creatorID, joinerID} {
		if _, err := wallets.TopUp(ctx, id, 20000, fmt.Sprintf("topup-%d-%d", id, time.Now().UnixNano())); err != nil {
			t.Fatalf("TopUp %d: %v", id, err)
		}
	}

	detail, err := groups.CreateGroup(ctx, creatorID, CreateGroupInput{
		TeacherID:       teacherID,
		ScheduledAt:     time.Now().UTC().Add(72 * time.Hour),
		DurationMinutes: 60,
		TargetSeats:     2,
		PaymentMethod:   PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := groups.Join(ctx, joinerID, detail.Invitation.Token, PaymentMethodWallet); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if got := groupStatusOf(t, ctx, pool, detail.ID); got != string(models.GroupFull) {
		t.Fatalf("expected group full after last join, got %q", got)
	}

	if _, err := groups.CancelSeat(ctx, joinerID, detail.ID, "schedule clash"); err != nil {
		t.Fatalf("CancelSeat: %v", err)
	}
	if got := groupStatusOf(t, ctx, pool, detail.ID); got != string(models.GroupOpen) {
		t.Fatalf("expected group reopened after losing a seat, got %q", got)
	}

	open, err := groups.ListOpenGroups(ctx, 50)
	if err != nil {
		t.Fatalf("ListOpenGroups: %v", err)
	}
	found := false
	for _, lesson := range open {
		if lesson.ID == detail.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("reopened group must reappear in the open listing")
	}

	// The deadline sweep must pick the reopened group up again.
	if _, err := pool.Exec(ctx,
		"UPDATE group_invitations SET expires_at = NOW() - INTERVAL '1 minute' WHERE lesson_id = $1",
		detail.ID,
	); err != nil {
		t.Fatalf("expire invitation: %v", err)
	}
	if err := groups.MarkDeadlinePassed(ctx, detail.ID); err != nil {
		t.Fatalf("MarkDeadlinePassed: %v", err)
	}
	if got := groupStatusOf(t, ctx, pool, detail.ID); got != string(models.GroupDeadlinePassed) {
		t.Fatalf("expected deadline_passed after the sweep, got %q", got)
	}

	resolved, err := groups.ResolveDeadline(ctx, creatorID, detail.ID, DeadlineChoiceCancel)
	if err != nil {
		t.Fatalf("ResolveDeadline: %v", err)
	}
	if resolved.Status != models.LessonCancelled {
		t.Fatalf("expected cancelled lesson, got %q", resolved.Status)
	}
}

func TestConcurrentJoinsForLastSeat(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	_, groups, wallets := newIntegrationStack(pool)

	creatorID := createTestAccount(t, ctx, pool, "student", 0)
	racerA := createTestAccount(t, ctx, pool, "student", 0)
	racerB := createTestAccount(t, ctx, pool, "student", 0)
	teacherID := createTestAccount(t, ctx, pool, "teacher", 10000)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, creatorID, racerA, racerB, teacherID) })

	for _, id := range []int64{creatorID, racerA, racerB} {
		if _, err := wallets.TopUp(ctx, id, 20000, fmt.Sprintf("topup-%d-%d", id, time.Now().UnixNano())); err != nil {
			t.Fatalf("TopUp %d: %v", id, err)
		}
	}

	detail, err := groups.CreateGroup(ctx, creatorID, CreateGroupInput{
		TeacherID:       teacherID,
		ScheduledAt:     time.Now().UTC().Add(72 * time.Hour),
		DurationMinutes: 60,
		TargetSeats:     2,
		PaymentMethod:   PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	// One seat left. Both joins race for it; the lesson row lock decides.
	racers := []int64{racerA, racerB}
	joinErrs := make([]error, len(racers))
	var wg sync.WaitGroup
	for i, id := range racers {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, joinErrs[i] = groups.Join(ctx, id, detail.Invitation.Token, PaymentMethodWallet)
		}(i, id)
	}
	wg.Wait()

	var succeeded, full int
	for _, err := range joinErrs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrGroupFull):
			full++
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}
	if succeeded != 1 || full != 1 {
		t.Fatalf("expected exactly one winner and one ErrGroupFull, got %d/%d", succeeded, full)
	}

	var activeSeats int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM seats WHERE lesson_id = $1 AND status = 'active'",
		detail.ID,
	).Scan(&activeSeats); err != nil {
		t.Fatalf("count active seats: %v", err)
	}
	if activeSeats != 2 {
		t.Fatalf("expected exactly target seats filled, got %d", activeSeats)
	}
}

func TestCancelLastSeatAutoCancelsBySystem(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	lessons, groups, wallets := newIntegrationStack(pool)

	studentID := createTestAccount(t, ctx, pool, "student", 0)
	teacherID := createTestAccount(t, ctx, pool, "teacher", 10000)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, studentID, teacherID) })

	if _, err := wallets.TopUp(ctx, studentID, 20000, fmt.Sprintf("topup-%d", time.Now().UnixNano())); err != nil {
		t.Fatalf("TopUp: %v", err)
	}

	detail, err := lessons.BookLesson(ctx, studentID, BookLessonInput{
		TeacherID:       teacherID,
		ScheduledAt:     time.Now().UTC().Add(72 * time.Hour),
		DurationMinutes: 60,
		PriceCents:      10000,
		PaymentMethod:   PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("BookLesson: %v", err)
	}

	if _, err := groups.CancelSeat(ctx, studentID, detail.ID, "plans changed"); err != nil {
		t.Fatalf("CancelSeat: %v", err)
	}

	cancelled, err := lessons.GetLesson(ctx, studentID, "student", detail.ID)
	if err != nil {
		t.Fatalf("GetLesson: %v", err)
	}
	if cancelled.Status != models.LessonCancelled {
		t.Fatalf("expected lesson auto-cancelled with its last seat, got %q", cancelled.Status)
	}
	if cancelled.CancelledRole == nil || *cancelled.CancelledRole != "system" {
		t.Fatalf("expected system attribution, got %v", cancelled.CancelledRole)
	}

	wallet, err := wallets.GetWallet(ctx, studentID)
	if err != nil {
		t.Fatalf("GetWallet: %v", err)
	}
	if wallet.BalanceCents != 20000 {
		t.Fatalf("expected full refund back to 20000, got %d", wallet.BalanceCents)
	}
}

func groupStatusOf(t *testing.T, ctx context.Context, pool *pgxpool.Pool, lessonID int64) string {
	t.Helper()

	var status string
	if err := pool.QueryRow(ctx, "SELECT group_status FROM lessons WHERE id = $1", lessonID).Scan(&status); err != nil {
		t.Fatalf("read group status: %v", err)
	}
	return status
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func newIntegrationStack(pool *pgxpool.Pool) (*LessonService, *GroupService, *WalletService) {
	logger := zap.NewNop()
	lessonRepo := repository.NewLessonRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	invitationRepo := repository.NewGroupInvitationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	teacherProfileRepo := repository.NewTeacherProfileRepository(pool)

	wallets := NewWalletService(pool, logger)
	notifier := NewLogNotificationSink(logger)
	meetings := &StaticMeetingProvisioner{BaseURL: "https://meet.test"}
	gateway := NewAcceptAllPaymentGateway(logger)
	invoices := NewLogInvoiceIssuer(logger)

	lessons := NewLessonService(
		pool, lessonRepo, seatRepo, invitationRepo, userRepo, teacherProfileRepo,
		wallets, notifier, meetings, gateway, invoices, logger, 0,
	)
	groups := NewGroupService(
		pool, lessons, lessonRepo, seatRepo, invitationRepo, teacherProfileRepo,
		wallets, notifier, gateway, logger, 0,
	)
	return lessons, groups, wallets
}

func createTestAccount(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string, hourlyRateCents int64) int64 {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Email:        fmt.Sprintf("lesson-test-%s-%d@example.com", role, time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         role,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}

	if role == "teacher" {
		profileRepo := repository.NewTeacherProfileRepository(pool)
		if err := profileRepo.CreateEmpty(ctx, user.ID); err != nil {
			t.Fatalf("CreateEmpty teacher profile: %v", err)
		}
		if hourlyRateCents > 0 {
			name := "Test Teacher"
			if _, err := profileRepo.UpdateRate(ctx, user.ID, &name, hourlyRateCents); err != nil {
				t.Fatalf("UpdateRate: %v", err)
			}
		}
	}

	return user.ID
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if len(userIDs) == 0 {
		return
	}

	if _, err := pool.Exec(ctx, "DELETE FROM ledger_entries WHERE student_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup ledger entries: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM seats WHERE student_id = ANY($1) OR lesson_id IN (SELECT id FROM lessons WHERE teacher_id = ANY($1) OR creator_id = ANY($1))", userIDs); err != nil {
		t.Fatalf("cleanup seats: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM group_invitations WHERE lesson_id IN (SELECT id FROM lessons WHERE teacher_id = ANY($1) OR creator_id = ANY($1))", userIDs); err != nil {
		t.Fatalf("cleanup invitations: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM lessons WHERE teacher_id = ANY($1) OR creator_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup lessons: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM wallets WHERE student_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup wallets: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM teacher_earnings WHERE teacher_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup earnings: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM teacher_profiles WHERE user_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup teacher profiles: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
}
