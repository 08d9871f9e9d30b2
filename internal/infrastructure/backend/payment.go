package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

const (
	MethodWechat = "wechat"
	// MethodTest settles on the server without a consent step.
	MethodTest = "test"
)

// PaymentAdapter confirms order payments.
type PaymentAdapter struct {
	client *Client
}

func NewPaymentAdapter(client *Client) *PaymentAdapter {
	return &PaymentAdapter{client: client}
}

func (a *PaymentAdapter) Kind() domain.Kind {
	return domain.KindPayment
}

func (a *PaymentAdapter) RequiresIdentity(method string) bool {
	return method == MethodWechat
}

func (a *PaymentAdapter) Initiate(ctx context.Context, req application.InitiateRequest) (*application.Initiation, error) {
	body := createPaymentRequest{
		OrderID:       req.ResourceID,
		Amount:        json.Number(req.Amount.String()),
		PaymentMethod: req.Method,
		Type:          req.PayType,
	}
	if req.Identity != nil {
		body.OpenID = req.Identity.Value
	}

	resp, err := sendRequest[createPaymentRequest, createPaymentResponse](a.client, ctx, http.MethodPost, "/payments", &body)
	if err != nil {
		return nil, err
	}

	return &application.Initiation{
		RequestID:       resp.PaymentNo,
		ConsentPayload:  resp.PayParams,
		ConsentRequired: req.Method != MethodTest && hasPayload(resp.PayParams),
	}, nil
}

func (a *PaymentAdapter) QueryStatus(ctx context.Context, requestID string) (*application.StatusReport, error) {
	path := fmt.Sprintf("/payments/%s/status", url.PathEscape(requestID))
	resp, err := sendRequest[any, statusResponse](a.client, ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return &application.StatusReport{
		RawStatus:  resp.Status,
		Settlement: paymentVocabulary.normalize(resp.Status),
		FailReason: resp.FailReason,
	}, nil
}

func (a *PaymentAdapter) Cancel(ctx context.Context, requestID string) (*application.CancelReply, error) {
	path := fmt.Sprintf("/payments/%s/cancel", url.PathEscape(requestID))
	return cancel(a.client, ctx, path)
}

// cancel turns a success:false envelope into a declined reply; every other
// failure is left to the caller to classify.
func cancel(c *Client, ctx context.Context, path string) (*application.CancelReply, error) {
	resp, err := sendRequest[any, cancelResponse](c, ctx, http.MethodPost, path, nil)
	if err != nil {
		var backendErr *application.BackendError
		if errors.As(err, &backendErr) && backendErr.IsBusinessRejection() {
			return &application.CancelReply{Accepted: false, Message: backendErr.Message}, nil
		}
		return nil, err
	}
	return &application.CancelReply{Accepted: true, Message: resp.Message}, nil
}
