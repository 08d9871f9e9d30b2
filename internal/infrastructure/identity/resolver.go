package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
	"golang.org/x/sync/singleflight"
)

// DevToken is the synthetic identity handed out in development mode.
const DevToken = "dev_openid_mock"

var errEmptyLoginCode = errors.New("host returned an empty login code")

// LoginCodeSource obtains a one-time login code from the host platform.
type LoginCodeSource interface {
	LoginCode(ctx context.Context) (string, error)
}

// Exchanger trades a login code for the durable identity token.
type Exchanger interface {
	ExchangeLoginCode(ctx context.Context, code string) (string, error)
}

type Options struct {
	// DevMode enables the synthetic token. Callers must only set it for
	// non-production environments.
	DevMode bool
}

// Resolver walks memory, the token store, the dev token and finally a
// network exchange. The first success is cached in memory for the session;
// concurrent first-time resolutions share one exchange.
type Resolver struct {
	mu     sync.RWMutex
	cached string
	group  singleflight.Group

	store     TokenStore
	codes     LoginCodeSource
	exchanger Exchanger
	opts      Options
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func NewResolver(
	store TokenStore,
	codes LoginCodeSource,
	exchanger Exchanger,
	opts Options,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Resolver {
	if store == nil {
		store = NoopTokenStore{}
	}
	return &Resolver{
		store:     store,
		codes:     codes,
		exchanger: exchanger,
		opts:      opts,
		metrics:   metrics,
		logger:    logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context) (domain.IdentityToken, error) {
	if value, ok := r.fromMemory(); ok {
		return r.resolved(value, domain.SourceMemoryCache), nil
	}

	// The shared resolution outlives any single caller; each caller still
	// stops waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan("identity", func() (any, error) {
		if value, ok := r.fromMemory(); ok {
			return domain.IdentityToken{Value: value, Source: domain.SourceMemoryCache}, nil
		}
		return r.resolveSlow(shared)
	})

	select {
	case <-ctx.Done():
		return domain.IdentityToken{}, application.NewIdentityResolutionError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.IdentityToken{}, application.NewIdentityResolutionError(res.Err)
		}
		token := res.Val.(domain.IdentityToken)
		return r.resolved(token.Value, token.Source), nil
	}
}

// Invalidate drops the cached token from memory and the store. It is the
// only way a resolved token is ever forgotten.
func (r *Resolver) Invalidate(ctx context.Context) error {
	r.mu.Lock()
	r.cached = ""
	r.mu.Unlock()

	r.logger.Info("identity token invalidated")
	return r.store.Delete(ctx)
}

func (r *Resolver) resolveSlow(ctx context.Context) (domain.IdentityToken, error) {
	value, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn("identity store unavailable, falling through", "error", err)
	} else if value != "" {
		r.remember(value)
		return domain.IdentityToken{Value: value, Source: domain.SourcePersistedStore}, nil
	}

	if r.opts.DevMode {
		r.logger.Warn("using synthetic development identity")
		r.remember(DevToken)
		return domain.IdentityToken{Value: DevToken, Source: domain.SourceDevMock}, nil
	}

	value, err = r.exchange(ctx)
	if err != nil {
		r.logger.Error("identity exchange failed", "error", err)
		return domain.IdentityToken{}, err
	}

	if err := r.store.Save(ctx, value); err != nil {
		r.logger.Warn("failed to persist identity token", "error", err)
	}
	r.remember(value)
	return domain.IdentityToken{Value: value, Source: domain.SourceNetworkExchange}, nil
}

func (r *Resolver) exchange(ctx context.Context) (string, error) {
	if r.codes == nil || r.exchanger == nil {
		return "", errors.New("no identity exchange configured")
	}

	code, err := r.codes.LoginCode(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain login code: %w", err)
	}
	if code == "" {
		return "", errEmptyLoginCode
	}

	value, err := r.exchanger.ExchangeLoginCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange login code: %w", err)
	}
	return value, nil
}

func (r *Resolver) fromMemory() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cached, r.cached != ""
}

func (r *Resolver) remember(value string) {
	r.mu.Lock()
	r.cached = value
	r.mu.Unlock()
}

func (r *Resolver) resolved(value string, source domain.IdentitySource) domain.IdentityToken {
	r.metrics.ObserveIdentityResolution(string(source))
	return domain.IdentityToken{Value: value, Source: source}
}
