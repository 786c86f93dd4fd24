package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/arminshz/TutorAppBack/internal/models"
)

type walletService interface {
	GetWallet(ctx context.Context, studentID int64) (*models.Wallet, error)
	ListEntries(ctx context.Context, studentID int64, limit int, offset int) ([]models.LedgerEntry, error)
	TopUp(ctx context.Context, studentID int64, amountCents int64, externalReference string) (*models.Wallet, error)
	VerifyLedger(ctx context.Context, studentID int64) (bool, error)
}

type WalletHandler struct {
	wallets walletService
}

func NewWalletHandler(wallets walletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

func (h *WalletHandler) Get(c *fiber.Ctx) error {
	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	wallet, err := h.wallets.GetWallet(c.Context(), studentID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"wallet": wallet})
}

func (h *WalletHandler) ListEntries(c *fiber.Ctx) error {
	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page, limit, offset := parsePagination(c)
	entries, err := h.wallets.ListEntries(c.Context(), studentID, limit, offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"entries": entries,
		"pagination": models.PaginationMeta{
			Page:  page,
			Limit: limit,
			Count: len(entries),
		},
	})
}

type topUpRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Reference   string `json:"reference"`
}

func (h *WalletHandler) TopUp(c *fiber.Ctx) error {
	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if c.Locals("role") != "student" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only students have wallets"})
	}

	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	wallet, err := h.wallets.TopUp(c.Context(), studentID, req.AmountCents, req.Reference)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"wallet": wallet})
}

func (h *WalletHandler) Verify(c *fiber.Ctx) error {
	studentID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	consistent, err := h.wallets.VerifyLedger(c.Context(), studentID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"consistent": consistent})
}
