package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

// RequestInitiator issues exactly one create call per request. It never retries.
type RequestInitiator struct {
	identity application.IdentityResolver
	logger   *slog.Logger
}

func NewRequestInitiator(identity application.IdentityResolver, logger *slog.Logger) *RequestInitiator {
	return &RequestInitiator{
		identity: identity,
		logger:   logger,
	}
}

func (i *RequestInitiator) Initiate(
	ctx context.Context,
	flow Flow,
	req *domain.PendingRequest,
	cmd ConfirmCommand,
) (*application.Initiation, error) {
	policy := domain.AmountPolicy{
		Minimum: flow.Policy.MinAmount,
		Ceiling: cmd.Ceiling,
	}
	if err := policy.Validate(req.Amount); err != nil {
		return nil, application.NewValidationError(err)
	}

	method := cmd.Method
	if method == "" {
		method = flow.Policy.DefaultMethod
	}

	payType := cmd.PayType
	if payType == "" {
		payType = flow.Policy.DefaultPayType
	}

	initReq := application.InitiateRequest{
		ResourceID: req.ResourceID,
		Amount:     req.Amount,
		Method:     method,
		PayType:    payType,
	}

	if flow.Adapter.RequiresIdentity(method) {
		if i.identity == nil {
			return nil, application.NewIdentityResolutionError(errors.New("no identity resolver configured"))
		}
		token, err := i.identity.Resolve(ctx)
		if err != nil {
			return nil, application.NewIdentityResolutionError(err)
		}
		initReq.Identity = &token
	}

	initiation, err := flow.Adapter.Initiate(ctx, initReq)
	if err != nil {
		svcErr := application.CategorizeInitiationError(err)
		i.logger.Warn("initiation failed",
			"id", req.ID,
			"kind", req.Kind,
			"resource_id", req.ResourceID,
			"code", svcErr.Code,
			"error", err)
		return nil, svcErr
	}

	if initiation == nil || initiation.RequestID == "" {
		return nil, application.NewServerRejectedError("server did not return a request identifier", nil)
	}

	return initiation, nil
}
