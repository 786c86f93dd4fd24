package models

import (
	"testing"
	"time"
)

func TestLessonStatusTransitions(t *testing.T) {
	allowed := []struct {
		from LessonStatus
		to   LessonStatus
	}{
		{LessonPending, LessonConfirmed},
		{LessonPending, LessonCancelled},
		{LessonConfirmed, LessonCompleted},
		{LessonConfirmed, LessonCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct {
		from LessonStatus
		to   LessonStatus
	}{
		{LessonPending, LessonCompleted},
		{LessonCompleted, LessonCancelled},
		{LessonCompleted, LessonConfirmed},
		{LessonCancelled, LessonConfirmed},
		{LessonCancelled, LessonPending},
		{LessonConfirmed, LessonPending},
	}
	for _, tc := range forbidden {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestLessonStatusTerminal(t *testing.T) {
	if LessonPending.Terminal() || LessonConfirmed.Terminal() {
		t.Error("pending and confirmed are not terminal")
	}
	if !LessonCompleted.Terminal() || !LessonCancelled.Terminal() {
		t.Error("completed and cancelled are terminal")
	}
}

func TestLessonEndsAt(t *testing.T) {
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	lesson := Lesson{ScheduledAt: start, DurationMinutes: 90}
	want := start.Add(90 * time.Minute)
	if !lesson.EndsAt().Equal(want) {
		t.Fatalf("expected %v, got %v", want, lesson.EndsAt())
	}
}

func TestLessonInProgressAt(t *testing.T) {
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	lesson := Lesson{ScheduledAt: start, DurationMinutes: 60}

	if lesson.InProgressAt(start.Add(-time.Minute)) {
		t.Error("lesson must not be in progress before start")
	}
	if !lesson.InProgressAt(start) {
		t.Error("lesson is in progress at its start instant")
	}
	if !lesson.InProgressAt(start.Add(30 * time.Minute)) {
		t.Error("lesson is in progress midway")
	}
	if lesson.InProgressAt(start.Add(time.Hour)) {
		t.Error("lesson is over at its end instant")
	}
}
