package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DanielPopoola/ficmart-confirmer/internal/api"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application/services"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/interfaces/rest"
	"github.com/shopspring/decimal"
)

// CreateConfirmation records the request and starts its flow in the
// background. The response is the request as recorded; clients follow it
// with GetConfirmation.
func (h *Handlers) CreateConfirmation(w http.ResponseWriter, r *http.Request) {
	var body api.ConfirmationRequest
	if err := decodeBody(w, r, &body); err != nil {
		rest.WriteError(w, application.NewValidationError(err), h.logger)
		return
	}

	cmd, err := toConfirmCommand(body)
	if err != nil {
		rest.WriteError(w, application.NewValidationError(err), h.logger)
		return
	}

	req, err := h.dispatcher.Dispatch(r.Context(), cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusAccepted, api.ConfirmationResponse{
		Success: true,
		Data:    rest.ToAPIConfirmation(req),
	}, h.logger)
}

func (h *Handlers) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	req, err := h.queries.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, api.ConfirmationResponse{
		Success: true,
		Data:    rest.ToAPIConfirmation(req),
	}, h.logger)
}

func toConfirmCommand(body api.ConfirmationRequest) (services.ConfirmCommand, error) {
	kind, err := domain.ParseKind(body.Kind)
	if err != nil {
		return services.ConfirmCommand{}, err
	}
	if strings.TrimSpace(body.ResourceID) == "" {
		return services.ConfirmCommand{}, domain.NewMissingRequiredFieldError("resource_id")
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return services.ConfirmCommand{}, domain.NewInvalidAmountError("amount is not a decimal number")
	}

	cmd := services.ConfirmCommand{
		Kind:       kind,
		ResourceID: body.ResourceID,
		Amount:     amount,
		Currency:   strings.ToUpper(body.Currency),
		Method:     body.Method,
		PayType:    body.PayType,
	}

	if body.Ceiling != nil {
		ceiling, err := decimal.NewFromString(*body.Ceiling)
		if err != nil {
			return services.ConfirmCommand{}, domain.NewInvalidAmountError("ceiling is not a decimal number")
		}
		cmd.Ceiling = &ceiling
	}

	return cmd, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
