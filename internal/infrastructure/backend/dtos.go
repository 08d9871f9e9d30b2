package backend

import (
	"encoding/json"
	"strings"

	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

type createPaymentRequest struct {
	OrderID       string      `json:"order_id"`
	Amount        json.Number `json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	Type          string      `json:"type"`
	OpenID        string      `json:"openid,omitempty"`
}

type createPaymentResponse struct {
	PaymentNo string          `json:"payment_no"`
	PayParams json.RawMessage `json:"pay_params"`
}

type createWithdrawalRequest struct {
	Amount json.Number `json:"amount"`
}

type createWithdrawalResponse struct {
	State       string `json:"state"`
	PackageInfo string `json:"package_info"`
	OutBatchNo  string `json:"out_batch_no"`
}

// withdrawalConsent is the payload the host's transfer confirmation expects.
type withdrawalConsent struct {
	MerchantID string `json:"mch_id"`
	Package    string `json:"package"`
}

type statusResponse struct {
	Status      string `json:"status"`
	FailReason  string `json:"fail_reason"`
	WechatState string `json:"wechat_state"`
}

type cancelResponse struct {
	Message string `json:"message"`
}

type code2SessionRequest struct {
	Code string `json:"code"`
}

type code2SessionResponse struct {
	OpenID string `json:"openid"`
}

// vocabulary maps a flow's raw status strings to settlement outcomes.
// Anything not listed is still pending.
type vocabulary map[string]domain.SettlementStatus

func (v vocabulary) normalize(raw string) domain.SettlementStatus {
	if s, ok := v[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return domain.SettlementPending
}

var paymentVocabulary = vocabulary{
	"success":   domain.SettlementSuccess,
	"succeeded": domain.SettlementSuccess,
	"paid":      domain.SettlementSuccess,
	"failed":    domain.SettlementFailed,
	"fail":      domain.SettlementFailed,
	"closed":    domain.SettlementFailed,
	"cancelled": domain.SettlementCancelled,
	"canceled":  domain.SettlementCancelled,
}

var withdrawalVocabulary = vocabulary{
	"success":   domain.SettlementSuccess,
	"failed":    domain.SettlementFailed,
	"fail":      domain.SettlementFailed,
	"cancelled": domain.SettlementCancelled,
	"canceled":  domain.SettlementCancelled,
}

func hasPayload(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null" && s != "{}" && s != `""`
}
