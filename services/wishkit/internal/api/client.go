package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/DigitalMasterpieces/wishkit-go/pkg/errors"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/httpclient"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/tracing"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
)

const (
	serviceName = "wishkit api"

	HeaderAPIKey = "x-wishkit-api-key"
	HeaderUUID   = "x-wishkit-uuid"

	pathList   = "/api/wish/list"
	pathCreate = "/api/wish/create"
	pathVote   = "/api/wish/vote"
	pathUnvote = "/api/wish/unvote"

	tracerName = "github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/api"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// IdentitySource supplies the voter token sent with every request.
type IdentitySource interface {
	Current(ctx context.Context) domain.Voter
}

// Client talks to the WishKit service. Every failure is returned as a
// transport AppError whose message is the reason reported by the server.
type Client struct {
	http     HTTPDoer
	baseURL  string
	apiKey   string
	identity IdentitySource
	logger   *slog.Logger
}

// NewClient creates a WishKit API client.
func NewClient(httpClient HTTPDoer, baseURL, apiKey string, identity IdentitySource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		identity: identity,
		logger:   logger,
	}
}

// FetchWishList returns the full wish list. The Sequence of the returned
// snapshot is left zero for the caller to stamp.
func (c *Client) FetchWishList(ctx context.Context) (snapshot domain.Snapshot, err error) {
	ctx, span := c.start(ctx, "FetchWishList")
	defer func() { tracing.End(span, err, attribute.Int("wishkit.wish_count", len(snapshot.Wishes))) }()

	var resp listResponse
	if err = c.do(ctx, http.MethodGet, pathList, nil, &resp); err != nil {
		return domain.Snapshot{}, err
	}
	return resp.toSnapshot(), nil
}

// CreateWish submits a new wish. An empty email is omitted from the body.
func (c *Client) CreateWish(ctx context.Context, draft domain.Draft) (err error) {
	ctx, span := c.start(ctx, "CreateWish")
	defer func() { tracing.End(span, err) }()

	return c.do(ctx, http.MethodPost, pathCreate, createRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Email:       draft.Email,
	}, nil)
}

// VoteWish adds the current identity's vote to wishID.
func (c *Client) VoteWish(ctx context.Context, wishID string) (err error) {
	ctx, span := c.start(ctx, "VoteWish", attribute.String("wishkit.wish_id", wishID))
	defer func() { tracing.End(span, err) }()

	return c.do(ctx, http.MethodPost, pathVote, voteRequest{WishID: wishID}, nil)
}

// UnvoteWish retracts the current identity's vote from wishID.
func (c *Client) UnvoteWish(ctx context.Context, wishID string) (err error) {
	ctx, span := c.start(ctx, "UnvoteWish", attribute.String("wishkit.wish_id", wishID))
	defer func() { tracing.End(span, err) }()

	return c.do(ctx, http.MethodPost, pathUnvote, voteRequest{WishID: wishID}, nil)
}

func (c *Client) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracing.Tracer(tracerName).Start(ctx, "wishkit.api."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("marshal %s request: %w", path, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("create %s request: %w", path, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set(HeaderUUID, c.identity.Current(ctx).Token)
	tracing.InjectHTTP(ctx, req.Header)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.WarnContext(ctx, "wishkit api call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return httpclient.AsTransportError(err, serviceName)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := httpclient.ParseResponseError(resp, serviceName)
		c.logger.WarnContext(ctx, "wishkit api rejected request",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("reason", apperrors.Reason(err)),
		)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Transport("invalid response from "+serviceName, fmt.Errorf("decode %s response: %w", path, err))
	}
	return nil
}
