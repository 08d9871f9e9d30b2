package testhelpers

import (
	"io"
	"log/slog"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application/services"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// PaymentCommand returns a valid payment command for a fresh order.
func PaymentCommand(amount string) services.ConfirmCommand {
	return services.ConfirmCommand{
		Kind:       domain.KindPayment,
		ResourceID: "order-" + uuid.NewString(),
		Amount:     decimal.RequireFromString(amount),
		Method:     "test",
	}
}

// WithdrawalCommand returns a withdrawal bounded by balance.
func WithdrawalCommand(amount, balance string) services.ConfirmCommand {
	ceiling := decimal.RequireFromString(balance)
	return services.ConfirmCommand{
		Kind:       domain.KindWithdrawal,
		ResourceID: "wallet-" + uuid.NewString(),
		Amount:     decimal.RequireFromString(amount),
		Ceiling:    &ceiling,
	}
}

func Pending() *application.StatusReport {
	return &application.StatusReport{RawStatus: "pending", Settlement: domain.SettlementPending}
}

func Settled(settlement domain.SettlementStatus, raw string) *application.StatusReport {
	return &application.StatusReport{RawStatus: raw, Settlement: settlement}
}

func Initiated(requestID string, consent bool) *application.Initiation {
	init := &application.Initiation{
		RequestID:       requestID,
		ConsentRequired: consent,
	}
	if consent {
		init.ConsentPayload = []byte(`{"package":"prepay_id=wx123"}`)
	}
	return init
}
