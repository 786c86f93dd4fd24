package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arminshz/TutorAppBack/internal/models"
	"github.com/arminshz/TutorAppBack/internal/services"
)

type stubWalletService struct {
	wallet        *models.Wallet
	walletErr     error
	entries       []models.LedgerEntry
	entriesErr    error
	topUpResult   *models.Wallet
	topUpErr      error
	verifyResult  bool
	lastStudentID int64
	lastAmount    int64
	lastReference string
	lastLimit     int
	lastOffset    int
}

func (s *stubWalletService) GetWallet(_ context.Context, studentID int64) (*models.Wallet, error) {
	s.lastStudentID = studentID
	return s.wallet, s.walletErr
}

func (s *stubWalletService) ListEntries(_ context.Context, studentID int64, limit, offset int) ([]models.LedgerEntry, error) {
	s.lastStudentID = studentID
	s.lastLimit = limit
	s.lastOffset = offset
	return s.entries, s.entriesErr
}

func (s *stubWalletService) TopUp(_ context.Context, studentID int64, amountCents int64, externalReference string) (*models.Wallet, error) {
	s.lastStudentID = studentID
	s.lastAmount = amountCents
	s.lastReference = externalReference
	return s.topUpResult, s.topUpErr
}

func (s *stubWalletService) VerifyLedger(_ context.Context, studentID int64) (bool, error) {
	s.lastStudentID = studentID
	return s.verifyResult, nil
}

func TestGetWalletReturnsBalance(t *testing.T) {
	service := &stubWalletService{
		wallet: &models.Wallet{StudentID: 42, BalanceCents: 5000},
	}
	handler := &WalletHandler{wallets: service}

	app := newTestApp("student", "42")
	app.Get("/api/v1/wallet", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastStudentID != 42 {
		t.Fatalf("expected student 42, got %d", service.lastStudentID)
	}

	var body struct {
		Wallet models.Wallet `json:"wallet"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Wallet.BalanceCents != 5000 {
		t.Fatalf("expected balance 5000, got %d", body.Wallet.BalanceCents)
	}
}

func TestTopUpForwardsAmountAndReference(t *testing.T) {
	service := &stubWalletService{
		topUpResult: &models.Wallet{StudentID: 42, BalanceCents: 15000},
	}
	handler := &WalletHandler{wallets: service}

	app := newTestApp("student", "42")
	app.Post("/api/v1/wallet/top-up", handler.TopUp)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/top-up", strings.NewReader(`{
		"amount_cents": 10000,
		"reference": "psp-789"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastAmount != 10000 || service.lastReference != "psp-789" {
		t.Fatalf("unexpected forwarded top-up %d %q", service.lastAmount, service.lastReference)
	}
}

func TestTopUpRejectsTeachers(t *testing.T) {
	service := &stubWalletService{}
	handler := &WalletHandler{wallets: service}

	app := newTestApp("teacher", "7")
	app.Post("/api/v1/wallet/top-up", handler.TopUp)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/top-up", strings.NewReader(`{"amount_cents": 100}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestTopUpMapsInvalidInput(t *testing.T) {
	service := &stubWalletService{topUpErr: services.ErrInvalidInput}
	handler := &WalletHandler{wallets: service}

	app := newTestApp("student", "42")
	app.Post("/api/v1/wallet/top-up", handler.TopUp)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/top-up", strings.NewReader(`{"amount_cents": -5}`))
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

func TestListEntriesClampsPagination(t *testing.T) {
	service := &stubWalletService{
		entries: []models.LedgerEntry{{ID: 1, AmountCents: 10000}},
	}
	handler := &WalletHandler{wallets: service}

	app := newTestApp("student", "42")
	app.Get("/api/v1/wallet/entries", handler.ListEntries)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/entries?page=2&limit=500", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastLimit != maxPageLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxPageLimit, service.lastLimit)
	}
	if service.lastOffset != maxPageLimit {
		t.Fatalf("expected offset %d for page 2, got %d", maxPageLimit, service.lastOffset)
	}
}
