package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/observability"
	"github.com/arminshz/TutorAppBack/internal/repository"
)

// Sweeper runs the periodic maintenance passes: auto-cancelling lessons the
// teacher never confirmed, flipping group lessons whose formation deadline
// passed, and dispatching start reminders. Every pass processes a bounded
// batch through the same service operations user requests go through, and a
// failure on one item never aborts the rest of the batch.
type Sweeper struct {
	lessons       *LessonService
	groups        *GroupService
	lessonRepo    *repository.LessonRepository
	logger        *zap.Logger
	interval      time.Duration
	confirmWindow time.Duration
	batchSize     int
	stopChan      chan struct{}
}

func NewSweeper(
	lessons *LessonService,
	groups *GroupService,
	lessonRepo *repository.LessonRepository,
	logger *zap.Logger,
	interval time.Duration,
	confirmWindow time.Duration,
	batchSize int,
) *Sweeper {
	return &Sweeper{
		lessons:       lessons,
		groups:        groups,
		lessonRepo:    lessonRepo,
		logger:        logger,
		interval:      interval,
		confirmWindow: confirmWindow,
		batchSize:     batchSize,
		stopChan:      make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("starting background sweeper", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	s.logger.Info("stopping background sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("sweeper cancelled")
			return
		}
	}
}

// RunOnce executes one iteration of every sweep.
func (s *Sweeper) RunOnce(ctx context.Context) {
	s.autoCancelUnconfirmed(ctx)
	s.flipExpiredGroupDeadlines(ctx)
	s.dispatchReminders(ctx)
}

// autoCancelUnconfirmed cancels pending lessons whose confirmation window
// has lapsed. System attribution, so every payer gets a full refund.
func (s *Sweeper) autoCancelUnconfirmed(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.confirmWindow)
	lessons, err := s.lessonRepo.ListPendingCreatedBefore(ctx, cutoff, s.batchSize)
	if err != nil {
		s.logger.Error("listing unconfirmed lessons failed", zap.Error(err))
		return
	}
	for i := range lessons {
		if err := s.lessons.CancelBySystem(ctx, lessons[i].ID, "not confirmed in time"); err != nil {
			observability.SweepFailures.WithLabelValues("auto_cancel").Inc()
			s.logger.Error("auto-cancel failed",
				zap.Int64("lesson_id", lessons[i].ID), zap.Error(err))
			continue
		}
		s.logger.Info("auto-cancelled unconfirmed lesson", zap.Int64("lesson_id", lessons[i].ID))
	}
}

func (s *Sweeper) flipExpiredGroupDeadlines(ctx context.Context) {
	lessons, err := s.lessonRepo.ListOpenGroupsPastDeadline(ctx, time.Now().UTC(), s.batchSize)
	if err != nil {
		s.logger.Error("listing expired group deadlines failed", zap.Error(err))
		return
	}
	for i := range lessons {
		if err := s.groups.MarkDeadlinePassed(ctx, lessons[i].ID); err != nil {
			observability.SweepFailures.WithLabelValues("group_deadline").Inc()
			s.logger.Error("group deadline flip failed",
				zap.Int64("lesson_id", lessons[i].ID), zap.Error(err))
		}
	}
}

func (s *Sweeper) dispatchReminders(ctx context.Context) {
	now := time.Now().UTC()
	lessons, err := s.lessonRepo.ListDueForReminder(ctx, now, now.Add(time.Hour), s.batchSize)
	if err != nil {
		s.logger.Error("listing reminder candidates failed", zap.Error(err))
		return
	}
	for i := range lessons {
		if err := s.remind(ctx, &lessons[i]); err != nil {
			observability.SweepFailures.WithLabelValues("reminder").Inc()
			s.logger.Error("reminder dispatch failed",
				zap.Int64("lesson_id", lessons[i].ID), zap.Error(err))
		}
	}
}

func (s *Sweeper) remind(ctx context.Context, lesson *models.Lesson) error {
	seats, err := s.lessons.seatRepo.ListActiveByLesson(ctx, lesson.ID)
	if err != nil {
		return err
	}
	s.lessons.publish(ctx, "lesson.reminder", lesson.TeacherID, map[string]any{"lesson_id": lesson.ID})
	for i := range seats {
		s.lessons.publish(ctx, "lesson.reminder", seats[i].StudentID, map[string]any{"lesson_id": lesson.ID})
	}
	return s.lessonRepo.MarkReminderSent(ctx, lesson.ID)
}
