package backend

import (
	"context"
	"errors"
	"net/http"
)

var ErrEmptyOpenID = errors.New("backend returned an empty openid")

// ExchangeLoginCode trades a one-time host login code for the durable openid.
func (c *Client) ExchangeLoginCode(ctx context.Context, code string) (string, error) {
	body := code2SessionRequest{Code: code}
	resp, err := sendRequest[code2SessionRequest, code2SessionResponse](c, ctx, http.MethodPost, "/auth/code2session", &body)
	if err != nil {
		return "", err
	}
	if resp.OpenID == "" {
		return "", ErrEmptyOpenID
	}
	return resp.OpenID, nil
}
