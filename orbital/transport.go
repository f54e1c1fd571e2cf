package orbital

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/exp/slog"
)

// attemptRounds bounds how many times the primary/secondary pair is tried
// before the request is declared undeliverable.
const attemptRounds = 3

type transport struct {
	client     *http.Client
	endpoints  Endpoints
	merchantID string
	logger     *slog.Logger
}

// send posts the envelope to the primary endpoint and fails over to the
// secondary on a transport-level failure (connection error, timeout,
// non-success status). A non-empty response body ends the sequence
// immediately: business declines come back as regular responses. The same
// envelope is reused unchanged across every attempt.
func (t *transport) send(ctx context.Context, env requestEnvelope) ([]byte, error) {
	for round := 0; round < attemptRounds; round++ {
		body, err := t.post(ctx, t.endpoints.Primary, env, true)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			t.logger.Debug("primary attempt failed, failing over",
				slog.Int("round", round+1), slog.Any("err", err))
			body, err = t.post(ctx, t.endpoints.Secondary, env, false)
		}
		if err == nil && len(body) > 0 {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	t.logger.Warn("attempt budget exhausted", slog.Int("rounds", attemptRounds))
	return nil, ErrGatewayUnreachable
}

// post performs one attempt. The primary attempt treats a non-success
// status as a failure so the secondary gets a chance; the secondary's body
// is taken as-is when present, whatever the status.
func (t *transport) post(ctx context.Context, url string, env requestEnvelope, strictStatus bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(env.body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("MIME-Version", "1.1")
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Transfer-Encoding", "text")
	req.Header.Set("Request-Number", "1")
	req.Header.Set("Document-Type", "Request")
	req.Header.Set("Trace-Number", env.traceNumber)
	req.Header.Set("Interface-Version", interfaceVersion)
	req.Header.Set("MerchantID", t.merchantID)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	if strictStatus && resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return body, nil
}
