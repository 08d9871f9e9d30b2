package hostbridge

import (
	"context"
	"errors"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
)

var ErrLoginCancelled = errors.New("host login was cancelled")

// ConsentGate hands consent payloads to the host through the bridge.
type ConsentGate struct {
	bridge *Bridge
}

func NewConsentGate(bridge *Bridge) *ConsentGate {
	return &ConsentGate{bridge: bridge}
}

func (g *ConsentGate) RequestConsent(ctx context.Context, req application.ConsentRequest) (application.ConsentOutcome, error) {
	reply, err := g.bridge.Ask(ctx, Prompt{
		ID:              req.ID,
		Kind:            PromptConsent,
		RequestKind:     req.Kind,
		ServerRequestID: req.ServerRequestID,
		Payload:         req.Payload,
	})
	if err != nil {
		return "", err
	}
	return application.ConsentOutcome(reply.Outcome), nil
}

// LoginCodes asks the host for a one-time login code.
type LoginCodes struct {
	bridge *Bridge
}

func NewLoginCodes(bridge *Bridge) *LoginCodes {
	return &LoginCodes{bridge: bridge}
}

func (l *LoginCodes) LoginCode(ctx context.Context) (string, error) {
	reply, err := l.bridge.Ask(ctx, Prompt{Kind: PromptLoginCode})
	if err != nil {
		return "", err
	}
	if reply.Code == "" {
		return "", ErrLoginCancelled
	}
	return reply.Code, nil
}
