package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/repository"
	"github.com/arminshz/TutorAppBack/internal/services"
)

type lessonService interface {
	BookLesson(ctx context.Context, studentID int64, input services.BookLessonInput) (*models.LessonDetail, error)
	GetLesson(ctx context.Context, actorID int64, role string, lessonID int64) (*models.LessonDetail, error)
	ListLessons(ctx context.Context, actorID int64, role string, filter repository.LessonListFilter) ([]models.Lesson, error)
	UpdateStatus(ctx context.Context, actorID int64, role string, lessonID int64, input services.UpdateStatusInput) (*models.LessonDetail, error)
}

type LessonHandler struct {
	lessons lessonService
}

func NewLessonHandler(lessons lessonService) *LessonHandler {
	return &LessonHandler{lessons: lessons}
}

type bookLessonRequest struct {
	TeacherID       int64  `json:"teacher_id"`
	ScheduledAt     string `json:"scheduled_at"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
	PaymentMethod   string `json:"payment_method"`
}

func (h *LessonHandler) Book(c *fiber.Ctx) error {
	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if c.Locals("role") != "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only students can book lessons"})
	}

	var req bookLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_at must be RFC3339"})
	}

	detail, err := h.lessons.BookLesson(c.Context(), studentID, services.BookLessonInput{
		TeacherID:       req.TeacherID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lesson": detail})
}

func (h *LessonHandler) Get(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	lessonID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || lessonID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson id"})
	}
	role, _ := c.Locals("role").(string)

	detail, err := h.lessons.GetLesson(c.Context(), actorID, role, lessonID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"lesson": detail})
}

func (h *LessonHandler) List(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	filter := repository.LessonListFilter{
		Status:    strings.ToLower(c.Query("status")),
		Timeframe: strings.ToLower(c.Query("timeframe")),
	}
	lessons, err := h.lessons.ListLessons(c.Context(), actorID, role, filter)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"lessons": lessons})
}

type updateStatusRequest struct {
	Status            string  `json:"status"`
	Reason            *string `json:"reason"`
	ReducedCommission bool    `json:"reduced_commission"`
}

func (h *LessonHandler) UpdateStatus(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	lessonID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || lessonID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson id"})
	}
	role, _ := c.Locals("role").(string)

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	detail, err := h.lessons.UpdateStatus(c.Context(), actorID, role, lessonID, services.UpdateStatusInput{
		RequestedStatus:   req.Status,
		Reason:            req.Reason,
		ReducedCommission: req.ReducedCommission,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"lesson": detail})
}
