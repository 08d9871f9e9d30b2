package hostbridge_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/hostbridge"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBridge() *hostbridge.Bridge {
	return hostbridge.NewBridge(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// waitForPrompt polls until a prompt is parked.
func waitForPrompt(t *testing.T, b *hostbridge.Bridge) hostbridge.Prompt {
	t.Helper()
	require.Eventually(t, func() bool { return len(b.Pending()) > 0 }, time.Second, 5*time.Millisecond)
	return b.Pending()[0]
}

func TestConsentGate_DeliversHostDecision(t *testing.T) {
	for _, outcome := range []application.ConsentOutcome{application.ConsentApproved, application.ConsentDeclined, application.ConsentUserCancelled} {
		t.Run(string(outcome), func(t *testing.T) {
			bridge := newBridge()
			gate := hostbridge.NewConsentGate(bridge)
			payload := json.RawMessage(`{"mch_id":"m","package":"p"}`)

			done := make(chan application.ConsentOutcome, 1)
			go func() {
				got, err := gate.RequestConsent(context.Background(), application.ConsentRequest{
					ID: "req-1", ServerRequestID: "B-1", Kind: domain.KindWithdrawal, Payload: payload,
				})
				assert.NoError(t, err)
				done <- got
			}()

			prompt := waitForPrompt(t, bridge)
			assert.Equal(t, "req-1", prompt.ID)
			assert.Equal(t, hostbridge.PromptConsent, prompt.Kind)
			assert.JSONEq(t, string(payload), string(prompt.Payload))

			require.NoError(t, bridge.Reply("req-1", hostbridge.Reply{Outcome: string(outcome)}))

			assert.Equal(t, outcome, <-done)
			assert.Empty(t, bridge.Pending())
		})
	}
}

func TestBridge_ReplyIsSingleUse(t *testing.T) {
	bridge := newBridge()
	go bridge.Ask(context.Background(), hostbridge.Prompt{ID: "p-1", Kind: hostbridge.PromptConsent})
	waitForPrompt(t, bridge)

	require.NoError(t, bridge.Reply("p-1", hostbridge.Reply{Outcome: "approved"}))
	assert.ErrorIs(t, bridge.Reply("p-1", hostbridge.Reply{Outcome: "declined"}), hostbridge.ErrPromptNotFound)
}

func TestBridge_RejectsMismatchedReply(t *testing.T) {
	bridge := newBridge()
	go bridge.Ask(context.Background(), hostbridge.Prompt{ID: "p-1", Kind: hostbridge.PromptConsent})
	waitForPrompt(t, bridge)

	assert.ErrorIs(t, bridge.Reply("p-1", hostbridge.Reply{Outcome: "maybe"}), hostbridge.ErrInvalidReply)
	assert.Len(t, bridge.Pending(), 1, "an invalid reply leaves the prompt pending")
}

func TestBridge_OnlyContextReleasesWaiter(t *testing.T) {
	bridge := newBridge()
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)

	go func() {
		_, err := bridge.Ask(ctx, hostbridge.Prompt{Kind: hostbridge.PromptConsent})
		errs <- err
	}()
	waitForPrompt(t, bridge)

	select {
	case <-errs:
		t.Fatal("waiter released without a reply")
	case <-time.After(30 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)
	assert.Empty(t, bridge.Pending())
}

func TestLoginCodes(t *testing.T) {
	bridge := newBridge()
	codes := hostbridge.NewLoginCodes(bridge)

	got := make(chan string, 1)
	go func() {
		code, err := codes.LoginCode(context.Background())
		assert.NoError(t, err)
		got <- code
	}()

	prompt := waitForPrompt(t, bridge)
	assert.Equal(t, hostbridge.PromptLoginCode, prompt.Kind)
	require.NoError(t, bridge.Reply(prompt.ID, hostbridge.Reply{Code: "js-code"}))
	assert.Equal(t, "js-code", <-got)
}

func TestLoginCodes_Cancelled(t *testing.T) {
	bridge := newBridge()
	codes := hostbridge.NewLoginCodes(bridge)

	errs := make(chan error, 1)
	go func() {
		_, err := codes.LoginCode(context.Background())
		errs <- err
	}()

	prompt := waitForPrompt(t, bridge)
	require.NoError(t, bridge.Reply(prompt.ID, hostbridge.Reply{Outcome: "cancelled"}))
	assert.ErrorIs(t, <-errs, hostbridge.ErrLoginCancelled)
}

func TestBridge_PendingGauge(t *testing.T) {
	metrics := observability.NewMetrics()
	bridge := hostbridge.NewBridge(metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	go bridge.Ask(context.Background(), hostbridge.Prompt{ID: "p-1", Kind: hostbridge.PromptConsent})
	waitForPrompt(t, bridge)

	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(pendingGauge(1)), "confirmer_host_prompts_pending"))

	require.NoError(t, bridge.Reply("p-1", hostbridge.Reply{Outcome: "approved"}))
	assert.Eventually(t, func() bool {
		return testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(pendingGauge(0)), "confirmer_host_prompts_pending") == nil
	}, time.Second, 5*time.Millisecond)
}

func pendingGauge(n int) string {
	return fmt.Sprintf(`# HELP confirmer_host_prompts_pending Prompts waiting for a host reply.
# TYPE confirmer_host_prompts_pending gauge
confirmer_host_prompts_pending %d
`, n)
}
