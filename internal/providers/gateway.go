// Package providers is the data provider gateway: one fetch interface over
// the external sources the commands draw from. Failures are classified
// uniformly; nothing beyond a *domain.ProviderError leaves this package.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"webexbot/internal/domain"
)

// Provider is one external data source, possibly a chain of dependent calls.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, args []string) (any, error)
}

// Gateway dispatches fetches to registered providers under a per-call
// timeout. No retry: a failed fetch is reported once and classified.
type Gateway struct {
	providers map[string]Provider
	timeout   time.Duration
	logger    *slog.Logger
}

func NewGateway(timeout time.Duration, logger *slog.Logger, provs ...Provider) *Gateway {
	m := make(map[string]Provider, len(provs))
	for _, p := range provs {
		m[p.Name()] = p
	}
	return &Gateway{providers: m, timeout: timeout, logger: logger}
}

// Fetch runs one provider under the gateway timeout and returns its payload
// or a classified *domain.ProviderError.
func (g *Gateway) Fetch(ctx context.Context, provider string, args []string) (any, error) {
	p, ok := g.providers[provider]
	if !ok {
		return nil, &domain.ProviderError{Provider: provider, Kind: domain.KindSemantic, Detail: "no such provider"}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	payload, err := p.Fetch(ctx, args)
	if err != nil {
		perr := classify(provider, err)
		g.logger.Warn("provider fetch failed",
			"provider", provider,
			"kind", string(perr.Kind),
			"error", perr.Error(),
		)
		return nil, perr
	}
	return payload, nil
}

// classify normalizes any provider failure into a *domain.ProviderError,
// mapping deadline expiry to the timeout kind.
func classify(provider string, err error) *domain.ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ProviderError{Provider: provider, Kind: domain.KindTimeout, Err: err}
	}
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		return perr
	}
	return &domain.ProviderError{Provider: provider, Kind: domain.KindTransport, Err: err}
}

// fetchJSON performs one GET stage of a provider chain and decodes the JSON
// body, classifying transport, non-2xx, and decode failures.
func fetchJSON(ctx context.Context, client *http.Client, provider, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &domain.ProviderError{Provider: provider, Kind: domain.KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &domain.ProviderError{Provider: provider, Kind: domain.KindTimeout, Err: err}
		}
		return &domain.ProviderError{Provider: provider, Kind: domain.KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.ProviderError{
			Provider: provider,
			Kind:     domain.KindStatus,
			Status:   resp.StatusCode,
			Detail:   string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ProviderError{Provider: provider, Kind: domain.KindParse, Err: err}
	}
	return nil
}

// semanticErr builds a missing-field/missing-sentinel failure.
func semanticErr(provider, format string, a ...any) *domain.ProviderError {
	return &domain.ProviderError{Provider: provider, Kind: domain.KindSemantic, Detail: fmt.Sprintf(format, a...)}
}
