package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/observability"
	"github.com/arminshz/TutorAppBack/internal/repository"
)

const (
	PaymentMethodWallet   = "wallet"
	PaymentMethodExternal = "external_charge"

	// Advisory lock namespaces for booking serialization. Teacher bookings
	// and student bookings live in separate key spaces so the two-part lock
	// keys never collide.
	advisoryScopeTeacher = 1
	advisoryScopeStudent = 2
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type teacherProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.TeacherProfile, error)
}

type LessonService struct {
	db                 *pgxpool.Pool
	lessonRepo         *repository.LessonRepository
	seatRepo           *repository.SeatRepository
	invitationRepo     *repository.GroupInvitationRepository
	userRepo           userReader
	teacherProfileRepo teacherProfileReader
	wallets            *WalletService
	notifier           NotificationSink
	meetings           MeetingProvisioner
	gateway            PaymentGateway
	invoices           InvoiceIssuer
	logger             *zap.Logger
	bufferMinutes      int
}

func NewLessonService(
	db *pgxpool.Pool,
	lessonRepo *repository.LessonRepository,
	seatRepo *repository.SeatRepository,
	invitationRepo *repository.GroupInvitationRepository,
	userRepo userReader,
	teacherProfileRepo teacherProfileReader,
	wallets *WalletService,
	notifier NotificationSink,
	meetings MeetingProvisioner,
	gateway PaymentGateway,
	invoices InvoiceIssuer,
	logger *zap.Logger,
	bufferMinutes int,
) *LessonService {
	return &LessonService{
		db:                 db,
		lessonRepo:         lessonRepo,
		seatRepo:           seatRepo,
		invitationRepo:     invitationRepo,
		userRepo:           userRepo,
		teacherProfileRepo: teacherProfileRepo,
		wallets:            wallets,
		notifier:           notifier,
		meetings:           meetings,
		gateway:            gateway,
		invoices:           invoices,
		logger:             logger,
		bufferMinutes:      bufferMinutes,
	}
}

type BookLessonInput struct {
	TeacherID       int64
	ScheduledAt     time.Time
	DurationMinutes int
	PriceCents      int64
	PaymentMethod   string
}

// BookLesson creates a private lesson with a single paid seat. Both conflict
// checks and the payment capture run inside one transaction; nothing is
// persisted when any step fails.
func (s *LessonService) BookLesson(
	ctx context.Context,
	studentID int64,
	input BookLessonInput,
) (*models.LessonDetail, error) {
	if input.TeacherID <= 0 || input.DurationMinutes <= 0 || input.PriceCents <= 0 {
		return nil, ErrInvalidInput
	}
	if studentID == input.TeacherID {
		return nil, ErrInvalidInput
	}
	if err := validatePaymentMethod(input.PaymentMethod); err != nil {
		return nil, err
	}

	start := input.ScheduledAt.UTC()
	end := start.Add(time.Duration(input.DurationMinutes) * time.Minute)
	if !start.After(time.Now().UTC()) {
		return nil, ErrInvalidWindow
	}

	if err := s.requireTeacher(ctx, input.TeacherID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Serialize concurrent bookings per teacher and per student, always in
	// this order, before the conflict checks read anything.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", advisoryScopeTeacher, input.TeacherID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", advisoryScopeStudent, studentID); err != nil {
		return nil, err
	}

	txLessonRepo := repository.NewLessonRepository(tx)
	txSeatRepo := repository.NewSeatRepository(tx)
	checker := NewSlotConflictChecker(txLessonRepo, s.bufferMinutes)

	if conflict, err := checker.TeacherHasConflict(ctx, input.TeacherID, start, end); err != nil {
		return nil, err
	} else if conflict {
		return nil, ErrConflict
	}
	if conflict, err := checker.StudentHasConflict(ctx, studentID, start, end); err != nil {
		return nil, err
	} else if conflict {
		return nil, ErrConflict
	}

	lesson, err := txLessonRepo.Create(ctx, repository.CreateLessonInput{
		TeacherID:       input.TeacherID,
		CreatorID:       studentID,
		ScheduledAt:     start,
		DurationMinutes: input.DurationMinutes,
		GrossPriceCents: input.PriceCents,
		IsGroup:         false,
		TargetSeats:     1,
	})
	if err != nil {
		return nil, err
	}

	seat, err := s.createPaidSeat(ctx, tx, txSeatRepo, createPaidSeatInput{
		Lesson:        lesson,
		StudentID:     studentID,
		Role:          models.SeatRoleCreator,
		PriceCents:    input.PriceCents,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	observability.LessonsBooked.Inc()
	s.publish(ctx, "lesson.booked", lesson.TeacherID, map[string]any{
		"lesson_id":  lesson.ID,
		"student_id": studentID,
	})
	s.issueInvoice(ctx, seat.ID)

	return &models.LessonDetail{Lesson: *lesson, Seats: []models.Seat{*seat}}, nil
}

type createPaidSeatInput struct {
	Lesson        *models.Lesson
	StudentID     int64
	Role          models.SeatRole
	PriceCents    int64
	PaymentMethod string
}

// createPaidSeat inserts the seat and captures its payment inside the
// caller's transaction. The caller must already hold the lesson lock (or own
// the freshly inserted lesson row), so the wallet lock inside DeductTx is
// always acquired second.
func (s *LessonService) createPaidSeat(
	ctx context.Context,
	tx repository.DBTX,
	txSeatRepo *repository.SeatRepository,
	input createPaidSeatInput,
) (*models.Seat, error) {
	var paymentRef *string
	switch input.PaymentMethod {
	case PaymentMethodWallet:
		if _, err := s.wallets.DeductTx(ctx, tx, input.StudentID, input.PriceCents, &input.Lesson.ID); err != nil {
			return nil, err
		}
	case PaymentMethodExternal:
		ref, err := s.gateway.Charge(ctx, input.StudentID, input.PriceCents)
		if err != nil {
			return nil, err
		}
		paymentRef = &ref
	default:
		return nil, ErrInvalidInput
	}

	// Per-seat commission accrues at booking time as a reporting figure; the
	// settlement split is recomputed on the seat sum at completion.
	seatCommission, _ := CommissionSplit(input.PriceCents, StandardCommission)
	return txSeatRepo.Create(ctx, repository.CreateSeatInput{
		LessonID:        input.Lesson.ID,
		StudentID:       input.StudentID,
		Role:            input.Role,
		PriceCents:      input.PriceCents,
		CommissionCents: seatCommission,
		PaymentMethod:   input.PaymentMethod,
		PaymentRef:      paymentRef,
	})
}

func (s *LessonService) GetLesson(
	ctx context.Context,
	actorID int64,
	role string,
	lessonID int64,
) (*models.LessonDetail, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	seats, err := s.seatRepo.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if !canAccessLesson(role, actorID, lesson, seats) {
		return nil, ErrForbidden
	}

	detail := &models.LessonDetail{Lesson: *lesson, Seats: seats}
	if lesson.IsGroup {
		invitation, err := s.invitationRepo.GetByLessonID(ctx, lessonID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if err == nil {
			detail.Invitation = invitation
		}
	}
	return detail, nil
}

func (s *LessonService) ListLessons(
	ctx context.Context,
	actorID int64,
	role string,
	filter repository.LessonListFilter,
) ([]models.Lesson, error) {
	filter.ActorID = actorID
	filter.Role = role
	return s.lessonRepo.List(ctx, filter)
}

type UpdateStatusInput struct {
	RequestedStatus   string
	Reason            *string
	ReducedCommission bool
}

// UpdateStatus drives the lifecycle state machine. Confirm and complete are
// teacher-only; cancel is open to the teacher and, for private lessons, the
// paying student.
func (s *LessonService) UpdateStatus(
	ctx context.Context,
	actorID int64,
	role string,
	lessonID int64,
	input UpdateStatusInput,
) (*models.LessonDetail, error) {
	nextStatus, err := normalizeRequestedStatus(input.RequestedStatus)
	if err != nil {
		return nil, err
	}

	switch nextStatus {
	case models.LessonConfirmed:
		return s.confirm(ctx, actorID, role, lessonID)
	case models.LessonCompleted:
		return s.complete(ctx, actorID, role, lessonID, input.ReducedCommission)
	case models.LessonCancelled:
		return s.cancel(ctx, actorID, role, lessonID, input.Reason)
	default:
		return nil, ErrInvalidStatus
	}
}

func (s *LessonService) confirm(
	ctx context.Context,
	actorID int64,
	role string,
	lessonID int64,
) (*models.LessonDetail, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if role != "teacher" || lesson.TeacherID != actorID {
		return nil, ErrForbidden
	}
	if !lesson.Status.CanTransition(models.LessonConfirmed) {
		return nil, ErrInvalidStateTransition
	}

	updated, err := s.lessonRepo.UpdateStatusIfCurrent(ctx, lessonID, models.LessonPending, models.LessonConfirmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	if updated.MeetingURL == nil {
		url, err := s.meetings.CreateRoom(ctx, lessonID)
		if err != nil {
			// Room provisioning is a best-effort side effect; confirmation
			// stands either way.
			s.logger.Warn("meeting room provisioning failed",
				zap.Int64("lesson_id", lessonID), zap.Error(err))
		} else if err := s.lessonRepo.SetMeetingURL(ctx, lessonID, url); err != nil {
			s.logger.Warn("storing meeting url failed",
				zap.Int64("lesson_id", lessonID), zap.Error(err))
		}
	}

	s.publish(ctx, "lesson.confirmed", updated.CreatorID, map[string]any{"lesson_id": lessonID})
	return s.GetLesson(ctx, actorID, role, lessonID)
}

// complete settles the lesson: the commission split is computed once on the
// sum of all active seats' payments and the teacher is credited exactly
// once, guarded by the earnings_credited flag.
func (s *LessonService) complete(
	ctx context.Context,
	actorID int64,
	role string,
	lessonID int64,
	reducedCommission bool,
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
	txEarningsRepo := repository.NewTeacherEarningsRepository(tx)

	lesson, err := txLessonRepo.GetByIDForUpdate(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if role != "teacher" || lesson.TeacherID != actorID {
		return nil, ErrForbidden
	}
	if !lesson.Status.CanTransition(models.LessonCompleted) {
		return nil, ErrInvalidStateTransition
	}
	if lesson.EndsAt().After(time.Now().UTC()) {
		return nil, ErrInvalidStateTransition
	}
	if lesson.EarningsCredited {
		return nil, ErrInvalidStateTransition
	}

	seats, err := txSeatRepo.ListActiveByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	var grossCents int64
	for i := range seats {
		grossCents += seats[i].PriceCents
	}

	rate := int64(StandardCommission)
	if reducedCommission {
		rate = ReducedCommission
	}
	commission, earnings := CommissionSplit(grossCents, rate)

	if _, err := txLessonRepo.MarkCompleted(ctx, lessonID, commission, earnings); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	if earnings > 0 {
		if _, err := txEarningsRepo.Credit(ctx, lesson.TeacherID, earnings); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	observability.Settlements.WithLabelValues("completion").Inc()
	for i := range seats {
		s.publish(ctx, "lesson.completed", seats[i].StudentID, map[string]any{"lesson_id": lessonID})
		s.issueInvoice(ctx, seats[i].ID)
	}
	return s.GetLesson(ctx, actorID, role, lessonID)
}

func (s *LessonService) cancel(
	ctx context.Context,
	actorID int64,
	role string,
	lessonID int64,
	reason *string,
) (*models.LessonDetail, error) {
	result, err := s.cancelLesson(ctx, cancelLessonInput{
		LessonID:      lessonID,
		ActorID:       actorID,
		ActorRole:     role,
		Reason:        reason,
		ForcedPercent: -1,
	})
	if err != nil {
		return nil, err
	}
	s.creditRefunds(ctx, result)
	return s.GetLesson(ctx, actorID, role, lessonID)
}

// CancelBySystem is the sweep entry point: full refund, system attribution.
func (s *LessonService) CancelBySystem(
	ctx context.Context,
	lessonID int64,
	reason string,
) error {
	result, err := s.cancelLesson(ctx, cancelLessonInput{
		LessonID:      lessonID,
		ActorID:       0,
		ActorRole:     "system",
		Reason:        &reason,
		ForcedPercent: RefundFull,
	})
	if err != nil {
		return err
	}
	s.creditRefunds(ctx, result)
	return nil
}

type cancelLessonInput struct {
	LessonID  int64
	ActorID   int64
	ActorRole string
	Reason    *string
	// ForcedPercent overrides the policy table when >= 0 (system paths).
	ForcedPercent int
}

type seatRefund struct {
	Seat          models.Seat
	RefundCents   int64
	RefundPercent int
}

type cancelResult struct {
	Lesson  *models.Lesson
	Refunds []seatRefund
}

// cancelLesson marks the lesson and all its active seats cancelled in one
// transaction under the lesson lock. Wallet credits for multiple payers are
// issued afterwards, one student per transaction, so one failed credit never
// blocks the rest.
func (s *LessonService) cancelLesson(
	ctx context.Context,
	input cancelLessonInput,
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

	lesson, err := txLessonRepo.GetByIDForUpdate(ctx, input.LessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch input.ActorRole {
	case "teacher":
		if lesson.TeacherID != input.ActorID {
			return nil, ErrForbidden
		}
	case "student":
		// Group lessons are cancelled seat by seat or resolved through the
		// deadline flow; whole-lesson cancellation by a student only applies
		// to private bookings.
		if lesson.IsGroup || lesson.CreatorID != input.ActorID {
			return nil, ErrForbidden
		}
	case "system":
	default:
		return nil, ErrForbidden
	}

	if lesson.Status.Terminal() {
		return nil, ErrInvalidStateTransition
	}
	now := time.Now().UTC()
	if lesson.InProgressAt(now) {
		return nil, ErrInvalidStateTransition
	}

	percent := input.ForcedPercent
	if percent < 0 {
		percent = RefundPercent(input.ActorRole, lesson.ScheduledAt.Sub(now))
	}

	seats, err := txSeatRepo.ListActiveByLesson(ctx, input.LessonID)
	if err != nil {
		return nil, err
	}

	var totalRefund int64
	refunds := make([]seatRefund, 0, len(seats))
	for i := range seats {
		refundCents := RefundAmountCents(seats[i].PriceCents, percent)
		if _, err := txSeatRepo.MarkCancelled(ctx, seats[i].ID, percent, refundCents); err != nil {
			return nil, err
		}
		totalRefund += refundCents
		refunds = append(refunds, seatRefund{Seat: seats[i], RefundCents: refundCents, RefundPercent: percent})
	}

	cancelled, err := txLessonRepo.MarkCancelled(ctx, repository.CancelLessonInput{
		LessonID:      input.LessonID,
		CancelledBy:   input.ActorID,
		CancelledRole: input.ActorRole,
		Reason:        input.Reason,
		RefundPercent: percent,
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
	return &cancelResult{Lesson: cancelled, Refunds: refunds}, nil
}

// creditRefunds issues the computed refunds, one student at a time. Wallet
// payments are credited back to the wallet; external charges are refunded
// through the gateway.
func (s *LessonService) creditRefunds(ctx context.Context, result *cancelResult) {
	for _, refund := range result.Refunds {
		if refund.RefundCents <= 0 {
			continue
		}
		if err := s.creditSeatRefund(ctx, result.Lesson.ID, refund); err != nil {
			observability.SweepFailures.WithLabelValues("refund_credit").Inc()
			s.logger.Error("refund credit failed",
				zap.Int64("lesson_id", result.Lesson.ID),
				zap.Int64("student_id", refund.Seat.StudentID),
				zap.Int64("amount_cents", refund.RefundCents),
				zap.Error(err),
			)
			continue
		}
		s.publish(ctx, "lesson.cancelled", refund.Seat.StudentID, map[string]any{
			"lesson_id":      result.Lesson.ID,
			"refund_cents":   refund.RefundCents,
			"refund_percent": refund.RefundPercent,
		})
	}
}

func (s *LessonService) creditSeatRefund(ctx context.Context, lessonID int64, refund seatRefund) error {
	if refund.Seat.PaymentMethod == PaymentMethodExternal && refund.Seat.PaymentRef != nil {
		return refundThroughGateway(ctx, s.gateway, &refund.Seat, refund.RefundCents)
	}
	_, err := s.wallets.Refund(ctx, refund.Seat.StudentID, refund.RefundCents, &lessonID)
	return err
}

// refundThroughGateway reverses external charges for a seat. A seat upgraded
// through the pay-full flow carries two captures, the original seat price and
// the top-up difference, so the refund is split: the original reference is
// refunded first, capped at what it actually charged, and the remainder goes
// against the top-up reference.
func refundThroughGateway(
	ctx context.Context,
	gateway PaymentGateway,
	seat *models.Seat,
	totalCents int64,
) error {
	if seat.TopUpPaymentRef == nil || seat.TopUpCents <= 0 {
		return gateway.Refund(ctx, *seat.PaymentRef, totalCents)
	}

	baseCharged := seat.PriceCents - seat.TopUpCents
	baseRefund := totalCents
	if baseRefund > baseCharged {
		baseRefund = baseCharged
	}
	if baseRefund > 0 {
		if err := gateway.Refund(ctx, *seat.PaymentRef, baseRefund); err != nil {
			return err
		}
	}
	if remainder := totalCents - baseRefund; remainder > 0 {
		return gateway.Refund(ctx, *seat.TopUpPaymentRef, remainder)
	}
	return nil
}

func (s *LessonService) requireTeacher(ctx context.Context, teacherID int64) error {
	teacher, err := s.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeacherNotFound
		}
		return err
	}
	if teacher.Role != "teacher" {
		return ErrInvalidInput
	}
	return nil
}

func (s *LessonService) publish(
	ctx context.Context,
	eventType string,
	targetUserID int64,
	payload map[string]any,
) {
	if err := s.notifier.Publish(ctx, eventType, targetUserID, payload); err != nil {
		s.logger.Warn("notification publish failed",
			zap.String("event_type", eventType),
			zap.Int64("target_user_id", targetUserID),
			zap.Error(err),
		)
	}
}

func (s *LessonService) issueInvoice(ctx context.Context, seatID int64) {
	if _, err := s.invoices.GenerateForPayment(ctx, seatID); err != nil {
		s.logger.Warn("invoice generation failed",
			zap.Int64("seat_id", seatID),
			zap.Error(err),
		)
	}
}

func canAccessLesson(role string, actorID int64, lesson *models.Lesson, seats []models.Seat) bool {
	if role == "teacher" {
		return lesson.TeacherID == actorID
	}
	if role == "student" {
		for i := range seats {
			if seats[i].StudentID == actorID {
				return true
			}
		}
	}
	return false
}

func normalizeRequestedStatus(status string) (models.LessonStatus, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "confirm", "confirmed":
		return models.LessonConfirmed, nil
	case "complete", "completed":
		return models.LessonCompleted, nil
	case "cancel", "cancelled", "canceled":
		return models.LessonCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
