package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/observability"
	"github.com/arminshz/TutorAppBack/internal/repository"
)

const (
	// How long before the lesson start the invitation closes.
	groupJoinDeadlineLead = 24 * time.Hour

	DeadlineChoiceCancel  = "CANCEL"
	DeadlineChoicePayFull = "PAY_FULL"
)

// GroupService coordinates multi-seat lesson formation: creation with an
// invitation token, joins racing for seats, the formation deadline, and
// per-seat cancellation. All seat-affecting writes happen under the lesson
// row lock, and the wallet lock is only ever taken after it.
type GroupService struct {
	db                 *pgxpool.Pool
	lessons            *LessonService
	lessonRepo         *repository.LessonRepository
	seatRepo           *repository.SeatRepository
	invitationRepo     *repository.GroupInvitationRepository
	teacherProfileRepo teacherProfileReader
	wallets            *WalletService
	notifier           NotificationSink
	gateway            PaymentGateway
	logger             *zap.Logger
	bufferMinutes      int
}

func NewGroupService(
	db *pgxpool.Pool,
	lessons *LessonService,
	lessonRepo *repository.LessonRepository,
	seatRepo *repository.SeatRepository,
	invitationRepo *repository.GroupInvitationRepository,
	teacherProfileRepo teacherProfileReader,
	wallets *WalletService,
	notifier NotificationSink,
	gateway PaymentGateway,
	logger *zap.Logger,
	bufferMinutes int,
) *GroupService {
	return &GroupService{
		db:                 db,
		lessons:            lessons,
		lessonRepo:         lessonRepo,
		seatRepo:           seatRepo,
		invitationRepo:     invitationRepo,
		teacherProfileRepo: teacherProfileRepo,
		wallets:            wallets,
		notifier:           notifier,
		gateway:            gateway,
		logger:             logger,
		bufferMinutes:      bufferMinutes,
	}
}

type CreateGroupInput struct {
	TeacherID       int64
	ScheduledAt     time.Time
	DurationMinutes int
	TargetSeats     int
	PaymentMethod   string
}

// CreateGroup books a group lesson: the creator takes the first seat at the
// per-seat price and receives the invitation token for the remaining seats.
// The full price comes from the teacher's hourly rate.
func (s *GroupService) CreateGroup(
	ctx context.Context,
	creatorID int64,
	input CreateGroupInput,
) (*models.LessonDetail, error) {
	if input.TeacherID <= 0 || input.DurationMinutes <= 0 {
		return nil, ErrInvalidInput
	}
	if input.TargetSeats < GroupTargetSeatsMin || input.TargetSeats > GroupTargetSeatsMax {
		return nil, ErrInvalidInput
	}
	if creatorID == input.TeacherID {
		return nil, ErrInvalidInput
	}
	if err := validatePaymentMethod(input.PaymentMethod); err != nil {
		return nil, err
	}

	start := input.ScheduledAt.UTC()
	end := start.Add(time.Duration(input.DurationMinutes) * time.Minute)
	deadline := start.Add(-groupJoinDeadlineLead)
	// The join deadline sits 24h before start, so a group lesson needs at
	// least that much lead time to be formable at all.
	if !deadline.After(time.Now().UTC()) {
		return nil, ErrInvalidWindow
	}

	if err := s.lessons.requireTeacher(ctx, input.TeacherID); err != nil {
		return nil, err
	}
	profile, err := s.teacherProfileRepo.GetByUserID(ctx, input.TeacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	if profile.HourlyRateCents == nil || *profile.HourlyRateCents <= 0 {
		return nil, ErrInvalidInput
	}
	fullPriceCents := *profile.HourlyRateCents * int64(input.DurationMinutes) / 60
	seatPriceCents, err := GroupSeatPriceCents(fullPriceCents, input.TargetSeats)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", advisoryScopeTeacher, input.TeacherID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", advisoryScopeStudent, creatorID); err != nil {
		return nil, err
	}

	txLessonRepo := repository.NewLessonRepository(tx)
	txSeatRepo := repository.NewSeatRepository(tx)
	txInvitationRepo := repository.NewGroupInvitationRepository(tx)
	checker := NewSlotConflictChecker(txLessonRepo, s.bufferMinutes)

	if conflict, err := checker.TeacherHasConflict(ctx, input.TeacherID, start, end); err != nil {
		return nil, err
	} else if conflict {
		return nil, ErrConflict
	}
	if conflict, err := checker.StudentHasConflict(ctx, creatorID, start, end); err != nil {
		return nil, err
	} else if conflict {
		return nil, ErrConflict
	}

	lesson, err := txLessonRepo.Create(ctx, repository.CreateLessonInput{
		TeacherID:       input.TeacherID,
		CreatorID:       creatorID,
		ScheduledAt:     start,
		DurationMinutes: input.DurationMinutes,
		GrossPriceCents: fullPriceCents,
		IsGroup:         true,
		TargetSeats:     input.TargetSeats,
	})
	if err != nil {
		return nil, err
	}

	invitation, err := txInvitationRepo.Create(ctx, lesson.ID, uuid.NewString(), input.TargetSeats, deadline)
	if err != nil {
		return nil, err
	}

	seat, err := s.lessons.createPaidSeat(ctx, tx, txSeatRepo, createPaidSeatInput{
		Lesson:        lesson,
		StudentID:     creatorID,
		Role:          models.SeatRoleCreator,
		PriceCents:    seatPriceCents,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	observability.LessonsBooked.Inc()
	s.lessons.publish(ctx, "group.created", input.TeacherID, map[string]any{
		"lesson_id":  lesson.ID,
		"creator_id": creatorID,
	})

	return &models.LessonDetail{
		Lesson:     *lesson,
		Seats:      []models.Seat{*seat},
		Invitation: invitation,
	}, nil
}

// Join takes a seat in a group lesson via its invitation token. The deadline
// is checked up front; everything that informs a write is re-checked under
// the lesson row lock so concurrent joins for the last seat cannot both
// succeed.
func (s *GroupService) Join(
	ctx context.Context,
	studentID int64,
	token string,
	paymentMethod string,
) (*models.Seat, error) {
	return s.join(ctx, studentID, token, paymentMethod, false)
}

// JoinFromListing is the live-listing path: the lesson was surfaced to the
// student directly, so the invitation deadline check is intentionally
// skipped. Everything else is identical to Join.
func (s *GroupService) JoinFromListing(
	ctx context.Context,
	studentID int64,
	lessonID int64,
	paymentMethod string,
) (*models.Seat, error) {
	invitation, err := s.invitationRepo.GetByLessonID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.join(ctx, studentID, invitation.Token, paymentMethod, true)
}

func (s *GroupService) join(
	ctx context.Context,
	studentID int64,
	token string,
	paymentMethod string,
	skipDeadline bool,
) (*models.Seat, error) {
	if err := validatePaymentMethod(paymentMethod); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotFound
	}

	invitation, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !skipDeadline && time.Now().UTC().After(invitation.ExpiresAt) {
		observability.GroupJoins.WithLabelValues("expired").Inc()
		return nil, ErrInvitationExpired
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txLessonRepo := repository.NewLessonRepository(tx)
	txSeatRepo := repository.NewSeatRepository(tx)

	// Lesson lock first; every check below runs under it. Checking before
	// the lock would let two joins both observe one free seat.
	lesson, err := txLessonRepo.GetByIDForUpdate(ctx, invitation.LessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !lesson.IsGroup {
		return nil, ErrNotFound
	}
	if lesson.Status == models.LessonCancelled {
		observability.GroupJoins.WithLabelValues("cancelled").Inc()
		return nil, ErrNotFound
	}
	if lesson.TeacherID == studentID {
		return nil, ErrInvalidInput
	}
	if lesson.GroupStatus != nil && *lesson.GroupStatus == models.GroupDeadlinePassed {
		observability.GroupJoins.WithLabelValues("expired").Inc()
		return nil, ErrInvitationExpired
	}

	if _, err := txSeatRepo.GetActiveByLessonAndStudent(ctx, lesson.ID, studentID); err == nil {
		observability.GroupJoins.WithLabelValues("already_member").Inc()
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	activeCount, err := txSeatRepo.CountActiveByLesson(ctx, lesson.ID)
	if err != nil {
		return nil, err
	}
	if activeCount >= lesson.TargetSeats {
		observability.GroupJoins.WithLabelValues("full").Inc()
		return nil, ErrGroupFull
	}

	seatPriceCents, err := GroupSeatPriceCents(lesson.GrossPriceCents, lesson.TargetSeats)
	if err != nil {
		return nil, err
	}

	// Seat insert, then payment capture: if the capture fails the whole
	// transaction rolls back, seat included.
	seat, err := s.lessons.createPaidSeat(ctx, tx, txSeatRepo, createPaidSeatInput{
		Lesson:        lesson,
		StudentID:     studentID,
		Role:          models.SeatRoleParticipant,
		PriceCents:    seatPriceCents,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return nil, err
	}

	if activeCount+1 >= lesson.TargetSeats {
		if _, err := txLessonRepo.SetGroupStatusIfCurrent(ctx, lesson.ID, models.GroupOpen, models.GroupFull); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	existing, err := txSeatRepo.ListActiveByLesson(ctx, lesson.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	observability.GroupJoins.WithLabelValues("joined").Inc()
	s.lessons.publish(ctx, "group.member_joined", lesson.TeacherID, map[string]any{
		"lesson_id":  lesson.ID,
		"student_id": studentID,
	})
	for i := range existing {
		if existing[i].StudentID == studentID {
			continue
		}
		s.lessons.publish(ctx, "group.member_joined", existing[i].StudentID, map[string]any{
			"lesson_id":  lesson.ID,
			"student_id": studentID,
		})
	}
	return seat, nil
}

// ListOpenGroups surfaces joinable group lessons for the live listing.
func (s *GroupService) ListOpenGroups(ctx context.Context, limit int) ([]models.Lesson, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.lessonRepo.ListJoinableGroups(ctx, time.Now().UTC(), limit)
}

// MarkDeadlinePassed flips an open group to deadline_passed and notifies the
// creator, who must then resolve it. Called by the deadline sweep.
func (s *GroupService) MarkDeadlinePassed(ctx context.Context, lessonID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txLessonRepo := repository.NewLessonRepository(tx)
	txSeatRepo := repository.NewSeatRepository(tx)

	lesson, err := txLessonRepo.GetByIDForUpdate(ctx, lessonID)
	if err != nil {
		return err
	}
	if !lesson.IsGroup || lesson.Status.Terminal() {
		return nil
	}
	if lesson.GroupStatus == nil || *lesson.GroupStatus != models.GroupOpen {
		return nil
	}

	// A group that quietly filled right at the deadline needs no resolution.
	activeCount, err := txSeatRepo.CountActiveByLesson(ctx, lessonID)
	if err != nil {
		return err
	}
	if activeCount >= lesson.TargetSeats {
		if _, err := txLessonRepo.SetGroupStatusIfCurrent(ctx, lessonID, models.GroupOpen, models.GroupFull); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return tx.Commit(ctx)
	}

	if _, err := txLessonRepo.SetGroupStatusIfCurrent(ctx, lessonID, models.GroupOpen, models.GroupDeadlinePassed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.lessons.publish(ctx, "group.deadline_passed", lesson.CreatorID, map[string]any{
		"lesson_id": lessonID,
	})
	return nil
}

// ResolveDeadline lets the creator settle an under-filled group after its
// deadline: cancel everything with full refunds, or pay the difference to
// the full rate and keep the lesson as a private booking.
func (s *GroupService) ResolveDeadline(
	ctx context.Context,
	creatorID int64,
	lessonID int64,
	choice string,
) (*models.LessonDetail, error) {
	switch choice {
	case DeadlineChoiceCancel:
		return s.resolveByCancel(ctx, creatorID, lessonID)
	case DeadlineChoicePayFull:
		return s.resolveByPayFull(ctx, creatorID, lessonID)
	default:
		return nil, ErrInvalidInput
	}
}

func (s *GroupService) resolveByCancel(
	ctx context.Context,
	creatorID int64,
	lessonID int64,
) (*models.LessonDetail, error) {
	result, err := s.cancelResolvedGroup(ctx, creatorID, lessonID)
	if err != nil {
		return nil, err
	}
	s.lessons.creditRefunds(ctx, result)
	return s.lessons.GetLesson(ctx, creatorID, "student", lessonID)
}

func (s *GroupService) cancelResolvedGroup(
	ctx context.Context,
	creatorID int64,
	lessonID int64,
) (*cancelResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txLessonRepo := repository.NewLessonRepository(tx)
	txSeatRepo := repository.NewSeatRepository(tx)

	lesson, err := s.lockResolvableGroup(ctx, txLessonRepo, creatorID, lessonID)
	if err != nil {
		return nil, err
	}

	seats, err := txSeatRepo.ListActiveByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	var totalRefund int64
	refunds := make([]seatRefund, 0, len(seats))
	for i := range seats {
		refundCents := seats[i].PriceCents
		if _, err := txSeatRepo.MarkCancelled(ctx, seats[i].ID, RefundFull, refundCents); err != nil {
			return nil, err
		}
		totalRefund += refundCents
		refunds = append(refunds, seatRefund{Seat: seats[i], RefundCents: refundCents, RefundPercent: RefundFull})
	}

	reason := "group formation deadline missed"
	cancelled, err := txLessonRepo.MarkCancelled(ctx, repository.CancelLessonInput{
		LessonID:      lessonID,
		CancelledBy:   creatorID,
		CancelledRole: "student",
		Reason:        &reason,
		RefundPercent: RefundFull,
		RefundedCents: totalRefund,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	s.lessons.publish(ctx, "group.cancelled", lesson.TeacherID, map[string]any{"lesson_id": lessonID})
	return &cancelResult{Lesson: cancelled, Refunds: refunds}, nil
}

func (s *GroupService) resolveByPayFull(
	ctx context.Context,
	creatorID int64,
	lessonID int64,
) (*models.LessonDetail, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txLessonRepo := repository.NewLessonRepository(tx)
	txSeatRepo := repository.NewSeatRepository(tx)

	lesson, err := s.lockResolvableGroup(ctx, txLessonRepo, creatorID, lessonID)
	if err != nil {
		return nil, err
	}

	creatorSeat, err := txSeatRepo.GetActiveByLessonAndStudent(ctx, lessonID, creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	// Charge the gap between the full rate and what the creator already
	// paid, then upgrade their seat to a full-price booking. An external
	// difference charge gets its own reference on the seat; refunding the
	// upgraded seat later has to reverse both charges, each against the
	// reference that captured it.
	var topUpRef *string
	difference := lesson.GrossPriceCents - creatorSeat.PriceCents
	if difference > 0 {
		switch creatorSeat.PaymentMethod {
		case PaymentMethodExternal:
			ref, err := s.gateway.Charge(ctx, creatorID, difference)
			if err != nil {
				return nil, err
			}
			topUpRef = &ref
		default:
			if _, err := s.wallets.DeductTx(ctx, tx, creatorID, difference, &lessonID); err != nil {
				return nil, err
			}
		}
	}

	seatCommission, _ := CommissionSplit(lesson.GrossPriceCents, StandardCommission)
	if _, err := txSeatRepo.ConvertToFullPrice(ctx, creatorSeat.ID, lesson.GrossPriceCents, seatCommission, topUpRef, difference); err != nil {
		return nil, err
	}

	seats, err := txSeatRepo.ListActiveByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	refunds := make([]seatRefund, 0, len(seats))
	for i := range seats {
		if seats[i].StudentID == creatorID {
			continue
		}
		refundCents := seats[i].PriceCents
		if _, err := txSeatRepo.MarkCancelled(ctx, seats[i].ID, RefundFull, refundCents); err != nil {
			return nil, err
		}
		refunds = append(refunds, seatRefund{Seat: seats[i], RefundCents: refundCents, RefundPercent: RefundFull})
	}

	converted, err := txLessonRepo.ConvertToPrivate(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.lessons.creditRefunds(ctx, &cancelResult{Lesson: converted, Refunds: refunds})
	observability.Settlements.WithLabelValues("pay_full").Inc()
	s.lessons.publish(ctx, "group.converted_to_private", lesson.TeacherID, map[string]any{
		"lesson_id": lessonID,
	})
	return s.lessons.GetLesson(ctx, creatorID, "student", lessonID)
}

// lockResolvableGroup locks the lesson and verifies it is a group owned by
// creatorID whose formation deadline has passed without filling.
func (s *GroupService) lockResolvableGroup(
	ctx context.Context,
	txLessonRepo *repository.LessonRepository,
	creatorID int64,
	lessonID int64,
) (*models.Lesson, error) {
	lesson, err := txLessonRepo.GetByIDForUpdate(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !lesson.IsGroup {
		return nil, ErrInvalidStateTransition
	}
	if lesson.CreatorID != creatorID {
		return nil, ErrForbidden
	}
	if lesson.Status.Terminal() {
		return nil, ErrInvalidStateTransition
	}
	if lesson.GroupStatus == nil || *lesson.GroupStatus != models.GroupDeadlinePassed {
		return nil, ErrInvalidStateTransition
	}
	return lesson, nil
}

// CancelSeat withdraws a participant's seat with the policy-tier refund. The
// creator resolves through the deadline flow or whole-lesson cancellation,
// never through here.
func (s *GroupService) CancelSeat(
	ctx context.Context,
	studentID int64,
	lessonID int64,
	reason string,
) (*models.Seat, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txLessonRepo := repository.NewLessonRepository(tx)
	txSeatRepo := repository.NewSeatRepository(tx)

	lesson, err := txLessonRepo.GetByIDForUpdate(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lesson.Status.Terminal() {
		return nil, ErrInvalidStateTransition
	}
	now := time.Now().UTC()
	if lesson.InProgressAt(now) {
		return nil, ErrInvalidStateTransition
	}

	seat, err := txSeatRepo.GetActiveByLessonAndStudent(ctx, lessonID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if seat.Role == models.SeatRoleCreator && lesson.IsGroup {
		return nil, ErrForbidden
	}

	percent := RefundPercent("student", lesson.ScheduledAt.Sub(now))
	refundCents := RefundAmountCents(seat.PriceCents, percent)

	cancelled, err := txSeatRepo.MarkCancelled(ctx, seat.ID, percent, refundCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	// Single payer, so the credit stays inside this transaction. Wallet lock
	// after lesson lock, same order as joins.
	if refundCents > 0 {
		if seat.PaymentMethod == PaymentMethodExternal && seat.PaymentRef != nil {
			if err := refundThroughGateway(ctx, s.gateway, seat, refundCents); err != nil {
				return nil, err
			}
		} else {
			if _, err := s.wallets.RefundTx(ctx, tx, studentID, refundCents, &lessonID); err != nil {
				return nil, err
			}
		}
	}

	// The empty-group decision happens here, under the lesson lock.
	remaining, err := txSeatRepo.CountActiveByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	// A group that had filled and just lost a seat reopens, so the live
	// listing and the deadline sweep see it again.
	if lesson.IsGroup && remaining < lesson.TargetSeats {
		if _, err := txLessonRepo.SetGroupStatusIfCurrent(ctx, lessonID, models.GroupFull, models.GroupOpen); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	autoCancel := remaining == 0 && lesson.Status == models.LessonPending
	if autoCancel {
		systemReason := "all seats cancelled"
		if _, err := txLessonRepo.MarkCancelled(ctx, repository.CancelLessonInput{
			LessonID:      lessonID,
			CancelledBy:   0,
			CancelledRole: "system",
			Reason:        &systemReason,
			RefundPercent: percent,
			RefundedCents: refundCents,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.lessons.publish(ctx, "seat.cancelled", lesson.TeacherID, map[string]any{
		"lesson_id":      lessonID,
		"student_id":     studentID,
		"refund_percent": percent,
		"reason":         reason,
	})
	if autoCancel {
		s.lessons.publish(ctx, "lesson.cancelled", lesson.TeacherID, map[string]any{
			"lesson_id": lessonID,
		})
	}
	return cancelled, nil
}

func validatePaymentMethod(method string) error {
	switch method {
	case PaymentMethodWallet, PaymentMethodExternal:
		return nil
	default:
		return ErrInvalidInput
	}
}
