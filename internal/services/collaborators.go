package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// External collaborators. The core treats all of them as best-effort side
// effects: a failure is logged and never rolls back a committed booking or
// ledger mutation. The one exception is PaymentGateway.Charge, which is part
// of the payment capture step and does abort the enclosing transaction.

type NotificationSink interface {
	Publish(ctx context.Context, eventType string, targetUserID int64, payload map[string]any) error
}

type MeetingProvisioner interface {
	CreateRoom(ctx context.Context, lessonID int64) (string, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, customerID int64, amountCents int64) (string, error)
	Refund(ctx context.Context, paymentRef string, amountCents int64) error
}

type InvoiceIssuer interface {
	GenerateForPayment(ctx context.Context, seatID int64) (string, error)
}

type LogNotificationSink struct {
	logger *zap.Logger
}

func NewLogNotificationSink(logger *zap.Logger) *LogNotificationSink {
	return &LogNotificationSink{logger: logger}
}

func (s *LogNotificationSink) Publish(
	_ context.Context,
	eventType string,
	targetUserID int64,
	payload map[string]any,
) error {
	s.logger.Info("notification published",
		zap.String("event_type", eventType),
		zap.Int64("target_user_id", targetUserID),
		zap.Any("payload", payload),
	)
	return nil
}

// StaticMeetingProvisioner mints deterministic room URLs. Stands in for the
// real video-room provider.
type StaticMeetingProvisioner struct {
	BaseURL string
}

func (p *StaticMeetingProvisioner) CreateRoom(_ context.Context, lessonID int64) (string, error) {
	return fmt.Sprintf("%s/rooms/%d-%s", p.BaseURL, lessonID, uuid.NewString()[:8]), nil
}

// AcceptAllPaymentGateway approves every charge and refund. Stands in for
// the card processor; returns a fresh payment reference per charge.
type AcceptAllPaymentGateway struct {
	logger *zap.Logger
}

func NewAcceptAllPaymentGateway(logger *zap.Logger) *AcceptAllPaymentGateway {
	return &AcceptAllPaymentGateway{logger: logger}
}

func (g *AcceptAllPaymentGateway) Charge(
	_ context.Context,
	customerID int64,
	amountCents int64,
) (string, error) {
	ref := "ch_" + uuid.NewString()
	g.logger.Info("gateway charge",
		zap.Int64("customer_id", customerID),
		zap.Int64("amount_cents", amountCents),
		zap.String("payment_ref", ref),
	)
	return ref, nil
}

func (g *AcceptAllPaymentGateway) Refund(
	_ context.Context,
	paymentRef string,
	amountCents int64,
) error {
	g.logger.Info("gateway refund",
		zap.String("payment_ref", paymentRef),
		zap.Int64("amount_cents", amountCents),
	)
	return nil
}

type LogInvoiceIssuer struct {
	logger *zap.Logger
}

func NewLogInvoiceIssuer(logger *zap.Logger) *LogInvoiceIssuer {
	return &LogInvoiceIssuer{logger: logger}
}

func (i *LogInvoiceIssuer) GenerateForPayment(_ context.Context, seatID int64) (string, error) {
	invoiceID := "inv_" + uuid.NewString()
	i.logger.Info("invoice generated",
		zap.Int64("seat_id", seatID),
		zap.String("invoice_id", invoiceID),
	)
	return invoiceID, nil
}
