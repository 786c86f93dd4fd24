package services

import (
	"context"
	"time"

	"github.com/arminshz/TutorAppBack/internal/models"
)

type bookingLookup interface {
	ListOverlappingForTeacher(ctx context.Context, teacherID int64, windowStart, windowEnd time.Time) ([]models.Lesson, error)
	ListOverlappingForStudent(ctx context.Context, studentID int64, windowStart, windowEnd time.Time) ([]models.Lesson, error)
}

// SlotConflictChecker reports whether a candidate window collides with any
// non-cancelled booking of a participant. The buffer widens the search
// window only; the overlap itself is tested strictly.
type SlotConflictChecker struct {
	lessons       bookingLookup
	bufferMinutes int
}

func NewSlotConflictChecker(lessons bookingLookup, bufferMinutes int) *SlotConflictChecker {
	return &SlotConflictChecker{lessons: lessons, bufferMinutes: bufferMinutes}
}

func (c *SlotConflictChecker) TeacherHasConflict(
	ctx context.Context,
	teacherID int64,
	candidateStart time.Time,
	candidateEnd time.Time,
) (bool, error) {
	windowStart, windowEnd := c.bufferedWindow(candidateStart, candidateEnd)
	existing, err := c.lessons.ListOverlappingForTeacher(ctx, teacherID, windowStart, windowEnd)
	if err != nil {
		return false, err
	}
	return anyOverlap(existing, candidateStart, candidateEnd), nil
}

func (c *SlotConflictChecker) StudentHasConflict(
	ctx context.Context,
	studentID int64,
	candidateStart time.Time,
	candidateEnd time.Time,
) (bool, error) {
	windowStart, windowEnd := c.bufferedWindow(candidateStart, candidateEnd)
	existing, err := c.lessons.ListOverlappingForStudent(ctx, studentID, windowStart, windowEnd)
	if err != nil {
		return false, err
	}
	return anyOverlap(existing, candidateStart, candidateEnd), nil
}

func (c *SlotConflictChecker) bufferedWindow(start, end time.Time) (time.Time, time.Time) {
	buffer := time.Duration(c.bufferMinutes) * time.Minute
	return start.Add(-buffer), end.Add(buffer)
}

func anyOverlap(existing []models.Lesson, start, end time.Time) bool {
	for i := range existing {
		if intervalsOverlap(start, end, existing[i].ScheduledAt, existing[i].EndsAt()) {
			return true
		}
	}
	return false
}

// intervalsOverlap tests [aStart, aEnd) against [bStart, bEnd).
func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
