package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/arminshz/TutorAppBack/internal/repository"
)

type TeacherHandler struct {
	profileRepo  *repository.TeacherProfileRepository
	earningsRepo *repository.TeacherEarningsRepository
}

func NewTeacherHandler(
	profileRepo *repository.TeacherProfileRepository,
	earningsRepo *repository.TeacherEarningsRepository,
) *TeacherHandler {
	return &TeacherHandler{profileRepo: profileRepo, earningsRepo: earningsRepo}
}

type updateRateRequest struct {
	DisplayName     *string `json:"display_name"`
	HourlyRateCents int64   `json:"hourly_rate_cents"`
}

func (h *TeacherHandler) UpdateRate(c *fiber.Ctx) error {
	teacherID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if c.Locals("role") != "teacher" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only teachers can set a rate"})
	}

	var req updateRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.HourlyRateCents <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Hourly rate must be positive"})
	}
	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		if trimmed == "" {
			req.DisplayName = nil
		} else {
			req.DisplayName = &trimmed
		}
	}

	profile, err := h.profileRepo.UpdateRate(c.Context(), teacherID, req.DisplayName, req.HourlyRateCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update rate"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *TeacherHandler) GetProfile(c *fiber.Ctx) error {
	teacherID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || teacherID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher id"})
	}

	profile, err := h.profileRepo.GetByUserID(c.Context(), teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *TeacherHandler) GetEarnings(c *fiber.Ctx) error {
	teacherID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if c.Locals("role") != "teacher" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only teachers have earnings"})
	}

	earnings, err := h.earningsRepo.GetByTeacherID(c.Context(), teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(fiber.Map{"earnings": fiber.Map{
				"teacher_id":         teacherID,
				"balance_cents":      0,
				"total_earned_cents": 0,
			}})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load earnings"})
	}
	return c.JSON(fiber.Map{"earnings": earnings})
}
