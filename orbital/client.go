// Package orbital is a client for the Chase Paymentech Orbital payment
// gateway. Requests are built from versioned XML templates, posted to a
// primary endpoint with failover to a secondary, and decoded into flat
// key/value records. The client holds no state between operations;
// concurrent calls are safe.
package orbital

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// Client talks to the gateway. Construct with New; the zero value is not
// usable.
type Client struct {
	cfg       Config
	bin       string
	transport *transport
	logger    *slog.Logger
}

// New validates the configuration and returns a ready client. An
// unrecognized platform identifier fails here, not on the first call.
func New(cfg Config) (*Client, error) {
	platform := strings.ToLower(cfg.Platform)
	if platform == "" {
		platform = PlatformSalem
	}
	bin, ok := platformBINs[platform]
	if !ok {
		return nil, &ConfigurationError{
			Field:  "platform",
			Detail: fmt.Sprintf("unknown platform %q, choose %q (Stratus) or %q", cfg.Platform, PlatformSalem, PlatformPNS),
		}
	}

	endpoints := testEndpoints
	if cfg.Production {
		endpoints = productionEndpoints
	}
	if cfg.Endpoints != nil {
		endpoints = *cfg.Endpoints
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}
	logger = logger.With(slog.String("component", "orbital"))

	return &Client{
		cfg: cfg,
		bin: bin,
		transport: &transport{
			client:     httpClient,
			endpoints:  endpoints,
			merchantID: cfg.MerchantID,
			logger:     logger,
		},
		logger: logger,
	}, nil
}

// Authorize requests an authorization without capture.
func (c *Client) Authorize(ctx context.Context, req OrderRequest) (ResponseRecord, error) {
	return c.order(ctx, MessageTypeAuthorize, req)
}

// AuthorizeCapture authorizes and marks for capture in one message.
func (c *Client) AuthorizeCapture(ctx context.Context, req OrderRequest) (ResponseRecord, error) {
	return c.order(ctx, MessageTypeAuthorizeCapture, req)
}

// ForceCapture captures a transaction authorized outside the gateway.
func (c *Client) ForceCapture(ctx context.Context, req OrderRequest) (ResponseRecord, error) {
	return c.order(ctx, MessageTypeForceCapture, req)
}

// Refund returns funds to the account on the request.
func (c *Client) Refund(ctx context.Context, req OrderRequest) (ResponseRecord, error) {
	return c.order(ctx, MessageTypeRefund, req)
}

func (c *Client) order(ctx context.Context, messageType string, req OrderRequest) (ResponseRecord, error) {
	env, err := c.buildOrder(messageType, req)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, env, decodeResponse)
}

// MarkForCapture converts a prior authorization into a captured
// transaction.
func (c *Client) MarkForCapture(ctx context.Context, req CaptureRequest) (ResponseRecord, error) {
	env, err := c.buildCapture(req)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, env, decodeResponse)
}

// Reversal cancels an authorization online. Only some brands support this;
// see SupportsOnlineReversal. Use Void for the rest.
func (c *Client) Reversal(ctx context.Context, req ReversalRequest) (ResponseRecord, error) {
	env, err := c.buildReversal(req, true)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, env, decodeResponse)
}

// Void cancels a transaction that has not settled, without the online
// reversal flag.
func (c *Client) Void(ctx context.Context, req ReversalRequest) (ResponseRecord, error) {
	env, err := c.buildReversal(req, false)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, env, decodeResponse)
}

// CreateProfile stores a customer profile. When req.CustomerRefNum is set
// the gateway uses it; otherwise it auto-generates a reference and returns
// it in the response.
func (c *Client) CreateProfile(ctx context.Context, req ProfileRequest) (ResponseRecord, error) {
	env, err := c.buildProfile(profileActionCreate, req)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, env, decodeProfileResponse)
}

// ReadProfile fetches a stored profile by reference number.
func (c *Client) ReadProfile(ctx context.Context, customerRefNum string) (ResponseRecord, error) {
	env, err := c.buildProfileRef(profileActionRead, customerRefNum)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, env, decodeProfileResponse)
}

// UpdateProfile rewrites an existing profile; the reference number is
// required.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileRequest) (ResponseRecord, error) {
	env, err := c.buildProfile(profileActionUpdate, req)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, env, decodeProfileResponse)
}

// DeleteProfile removes a stored profile by reference number.
func (c *Client) DeleteProfile(ctx context.Context, customerRefNum string) (ResponseRecord, error) {
	env, err := c.buildProfileRef(profileActionDelete, customerRefNum)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, env, decodeProfileResponse)
}

func (c *Client) roundTrip(ctx context.Context, env requestEnvelope, decode func([]byte) (ResponseRecord, error)) (ResponseRecord, error) {
	raw, err := c.transport.send(ctx, env)
	if err != nil {
		return nil, err
	}
	record, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return record, nil
}
