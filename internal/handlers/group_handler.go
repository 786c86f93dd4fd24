package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/services"
)

type groupService interface {
	CreateGroup(ctx context.Context, creatorID int64, input services.CreateGroupInput) (*models.LessonDetail, error)
	Join(ctx context.Context, studentID int64, token string, paymentMethod string) (*models.Seat, error)
	JoinFromListing(ctx context.Context, studentID int64, lessonID int64, paymentMethod string) (*models.Seat, error)
	ListOpenGroups(ctx context.Context, limit int) ([]models.Lesson, error)
	ResolveDeadline(ctx context.Context, creatorID int64, lessonID int64, choice string) (*models.LessonDetail, error)
	CancelSeat(ctx context.Context, studentID int64, lessonID int64, reason string) (*models.Seat, error)
}

type GroupHandler struct {
	groups groupService
}

func NewGroupHandler(groups groupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	TeacherID       int64  `json:"teacher_id"`
	ScheduledAt     string `json:"scheduled_at"`
	DurationMinutes int    `json:"duration_minutes"`
	TargetSeats     int    `json:"target_seats"`
	PaymentMethod   string `json:"payment_method"`
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	creatorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if c.Locals("role") != "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only students can create group lessons"})
	}

	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_at must be RFC3339"})
	}

	detail, err := h.groups.CreateGroup(c.Context(), creatorID, services.CreateGroupInput{
		TeacherID:       req.TeacherID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		TargetSeats:     req.TargetSeats,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lesson": detail})
}

type joinGroupRequest struct {
	Token         string `json:"token"`
	PaymentMethod string `json:"payment_method"`
}

func (h *GroupHandler) Join(c *fiber.Ctx) error {
	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if c.Locals("role") != "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only students can join group lessons"})
	}

	var req joinGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Token) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token is required"})
	}

	seat, err := h.groups.Join(c.Context(), studentID, strings.TrimSpace(req.Token), req.PaymentMethod)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"seat": seat})
}

type joinListingRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *GroupHandler) JoinFromListing(c *fiber.Ctx) error {
	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if c.Locals("role") != "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only students can join group lessons"})
	}
	lessonID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || lessonID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson id"})
	}

	var req joinListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	seat, err := h.groups.JoinFromListing(c.Context(), studentID, lessonID, req.PaymentMethod)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"seat": seat})
}

func (h *GroupHandler) ListOpen(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	lessons, err := h.groups.ListOpenGroups(c.Context(), limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"lessons": lessons})
}

type resolveDeadlineRequest struct {
	Choice string `json:"choice"`
}

func (h *GroupHandler) ResolveDeadline(c *fiber.Ctx) error {
	creatorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	lessonID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || lessonID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson id"})
	}

	var req resolveDeadlineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	detail, err := h.groups.ResolveDeadline(
		c.Context(),
		creatorID,
		lessonID,
		strings.ToUpper(strings.TrimSpace(req.Choice)),
	)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"lesson": detail})
}

type cancelSeatRequest struct {
	Reason string `json:"reason"`
}

func (h *GroupHandler) CancelSeat(c *fiber.Ctx) error {
	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	lessonID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || lessonID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson id"})
	}

	var req cancelSeatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	seat, err := h.groups.CancelSeat(c.Context(), studentID, lessonID, strings.TrimSpace(req.Reason))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"seat": seat})
}
