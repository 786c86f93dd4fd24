package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/services"
)

type stubGroupService struct {
	createResult    *models.LessonDetail
	createErr       error
	joinResult      *models.Seat
	joinErr         error
	listResult      []models.Lesson
	listErr         error
	resolveResult   *models.LessonDetail
	resolveErr      error
	cancelResult    *models.Seat
	cancelErr       error
	lastActorID     int64
	lastLessonID    int64
	lastToken       string
	lastChoice      string
	lastReason      string
	lastCreateInput services.CreateGroupInput
}

func (s *stubGroupService) CreateGroup(_ context.Context, creatorID int64, input services.CreateGroupInput) (*models.LessonDetail, error) {
	s.lastActorID = creatorID
	s.lastCreateInput = input
	return s.createResult, s.createErr
}

func (s *stubGroupService) Join(_ context.Context, studentID int64, token string, _ string) (*models.Seat, error) {
	s.lastActorID = studentID
	s.lastToken = token
	return s.joinResult, s.joinErr
}

func (s *stubGroupService) JoinFromListing(_ context.Context, studentID int64, lessonID int64, _ string) (*models.Seat, error) {
	s.lastActorID = studentID
	s.lastLessonID = lessonID
	return s.joinResult, s.joinErr
}

func (s *stubGroupService) ListOpenGroups(_ context.Context, _ int) ([]models.Lesson, error) {
	return s.listResult, s.listErr
}

func (s *stubGroupService) ResolveDeadline(_ context.Context, creatorID int64, lessonID int64, choice string) (*models.LessonDetail, error) {
	s.lastActorID = creatorID
	s.lastLessonID = lessonID
	s.lastChoice = choice
	return s.resolveResult, s.resolveErr
}

func (s *stubGroupService) CancelSeat(_ context.Context, studentID int64, lessonID int64, reason string) (*models.Seat, error) {
	s.lastActorID = studentID
	s.lastLessonID = lessonID
	s.lastReason = reason
	return s.cancelResult, s.cancelErr
}

func TestCreateGroupForwardsInput(t *testing.T) {
	service := &stubGroupService{
		createResult: &models.LessonDetail{
			Lesson: models.Lesson{ID: 51, IsGroup: true, TargetSeats: 3},
			Invitation: &models.GroupInvitation{
				LessonID: 51,
				Token:    "tok-123",
			},
		},
	}
	handler := &GroupHandler{groups: service}

	app := newTestApp("student", "42")
	app.Post("/api/v1/groups", handler.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", strings.NewReader(`{
		"teacher_id": 7,
		"scheduled_at": "2026-10-20T14:00:00Z",
		"duration_minutes": 60,
		"target_seats": 3,
		"payment_method": "wallet"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 {
		t.Fatalf("expected creator id 42, got %d", service.lastActorID)
	}
	if service.lastCreateInput.TargetSeats != 3 {
		t.Fatalf("expected target seats 3, got %d", service.lastCreateInput.TargetSeats)
	}
}

func TestJoinRequiresToken(t *testing.T) {
	service := &stubGroupService{}
	handler := &GroupHandler{groups: service}

	app := newTestApp("student", "43")
	app.Post("/api/v1/groups/join", handler.Join)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/join", strings.NewReader(`{"payment_method": "wallet"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestJoinMapsGroupFullAndExpired(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"group full", services.ErrGroupFull, http.StatusConflict},
		{"already member", services.ErrAlreadyMember, http.StatusConflict},
		{"expired", services.ErrInvitationExpired, http.StatusGone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubGroupService{joinErr: tc.err}
			handler := &GroupHandler{groups: service}

			app := newTestApp("student", "43")
			app.Post("/api/v1/groups/join", handler.Join)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/join", strings.NewReader(`{
				"token": "tok-123",
				"payment_method": "wallet"
			}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestResolveDeadlineNormalizesChoice(t *testing.T) {
	service := &stubGroupService{
		resolveResult: &models.LessonDetail{
			Lesson: models.Lesson{ID: 51, Status: models.LessonCancelled},
		},
	}
	handler := &GroupHandler{groups: service}

	app := newTestApp("student", "42")
	app.Post("/api/v1/groups/:id/resolve", handler.ResolveDeadline)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/51/resolve", strings.NewReader(`{"choice": " pay_full "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastChoice != "PAY_FULL" {
		t.Fatalf("expected choice PAY_FULL, got %q", service.lastChoice)
	}
	if service.lastLessonID != 51 {
		t.Fatalf("expected lesson id 51, got %d", service.lastLessonID)
	}
}

func TestCancelSeatForwardsReason(t *testing.T) {
	refundPercent := 50
	service := &stubGroupService{
		cancelResult: &models.Seat{
			ID:            12,
			LessonID:      51,
			Status:        models.SeatCancelled,
			RefundPercent: &refundPercent,
		},
	}
	handler := &GroupHandler{groups: service}

	app := newTestApp("student", "43")
	app.Post("/api/v1/groups/:id/cancel-seat", handler.CancelSeat)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/51/cancel-seat", strings.NewReader(`{"reason": "schedule clash"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastReason != "schedule clash" {
		t.Fatalf("expected reason forwarded, got %q", service.lastReason)
	}
}
