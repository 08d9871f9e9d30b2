package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

// StateWaitUserConfirm means the transfer is parked until the user accepts it.
const StateWaitUserConfirm = "WAIT_USER_CONFIRM"

// WithdrawalAdapter confirms wallet payouts.
type WithdrawalAdapter struct {
	client     *Client
	merchantID string
}

func NewWithdrawalAdapter(client *Client, merchantID string) *WithdrawalAdapter {
	return &WithdrawalAdapter{client: client, merchantID: merchantID}
}

func (a *WithdrawalAdapter) Kind() domain.Kind {
	return domain.KindWithdrawal
}

// RequiresIdentity is false: the backend resolves the payee from the session.
func (a *WithdrawalAdapter) RequiresIdentity(string) bool {
	return false
}

func (a *WithdrawalAdapter) Initiate(ctx context.Context, req application.InitiateRequest) (*application.Initiation, error) {
	body := createWithdrawalRequest{Amount: json.Number(req.Amount.String())}

	resp, err := sendRequest[createWithdrawalRequest, createWithdrawalResponse](a.client, ctx, http.MethodPost, "/electricians/withdraw", &body)
	if err != nil {
		return nil, err
	}

	initiation := &application.Initiation{RequestID: resp.OutBatchNo}
	if resp.State == StateWaitUserConfirm && resp.PackageInfo != "" {
		payload, err := json.Marshal(withdrawalConsent{MerchantID: a.merchantID, Package: resp.PackageInfo})
		if err != nil {
			return nil, fmt.Errorf("failed to encode consent payload: %w", err)
		}
		initiation.ConsentPayload = payload
		initiation.ConsentRequired = true
	}

	return initiation, nil
}

func (a *WithdrawalAdapter) QueryStatus(ctx context.Context, requestID string) (*application.StatusReport, error) {
	path := fmt.Sprintf("/electricians/withdrawals/%s/status", url.PathEscape(requestID))
	resp, err := sendRequest[any, statusResponse](a.client, ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	raw := resp.Status
	if resp.WechatState != "" {
		raw = fmt.Sprintf("%s/%s", resp.Status, resp.WechatState)
	}

	return &application.StatusReport{
		RawStatus:  raw,
		Settlement: withdrawalVocabulary.normalize(resp.Status),
		FailReason: resp.FailReason,
	}, nil
}

func (a *WithdrawalAdapter) Cancel(ctx context.Context, requestID string) (*application.CancelReply, error) {
	path := fmt.Sprintf("/electricians/withdrawals/%s/cancel", url.PathEscape(requestID))
	return cancel(a.client, ctx, path)
}
