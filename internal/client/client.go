// Package client implements the membership client: the teacher's view of
// pupils and groups, and the mutations against the remote authority that
// owns them. The client holds no state of its own: it is a thin, typed
// projection of server state, re-read after every write.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/babirusa/teacher-console/pkg/errors"
	"github.com/babirusa/teacher-console/pkg/metrics"
)

// tokenSource supplies the bearer token for protected calls.
type tokenSource interface {
	Token() (string, error)
}

// staticToken adapts a fixed token for tests and one-shot flows.
type staticToken string

func (t staticToken) Token() (string, error) { return string(t), nil }

// StaticToken wraps a literal bearer token as a token source.
func StaticToken(token string) interface{ Token() (string, error) } {
	return staticToken(token)
}

// Client issues membership operations against the authority.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokens        tokenSource
	adminPassword string
	validator     *validator.Validate
	logger        *zap.Logger
	metrics       *metrics.Recorder
}

// Options configures optional collaborators.
type Options struct {
	// Timeout bounds each request; zero keeps the default.
	Timeout time.Duration
	// AdminPassword unlocks the admin surface. Kept in memory only.
	AdminPassword string
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client

	Validator *validator.Validate
	Logger    *zap.Logger
	Metrics   *metrics.Recorder
}

// New constructs a Client against the given base URL.
func New(baseURL string, tokens tokenSource, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	validate := opts.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    httpClient,
		tokens:        tokens,
		adminPassword: opts.AdminPassword,
		validator:     validate,
		logger:        logger,
		metrics:       opts.Metrics,
	}
}

type authMode int

const (
	authNone authMode = iota
	authBearer
	authAdmin
)

// call describes one request to the authority.
type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	auth        authMode
}

// detailBody is the authority's error envelope.
type detailBody struct {
	Detail string `json:"detail"`
}

// do issues the call and decodes a 2xx JSON body into out when non-nil.
// Failures come back as typed errors; nothing is retried.
func (c *Client) do(ctx context.Context, req call, out interface{}) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	switch req.auth {
	case authBearer:
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	case authAdmin:
		if c.adminPassword == "" {
			return appErrors.Clone(appErrors.ErrUnauthorized, "admin password not configured")
		}
		httpReq.Header.Set("x-admin-password", c.adminPassword)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.op, 0, time.Since(start))
		c.logger.Warn("authority unreachable",
			zap.String("operation", req.op),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "authority unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	c.metrics.ObserveRequest(req.op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(req.op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("decode %s response", req.op))
	}
	return nil
}

// remoteError maps a non-2xx response onto the typed error set. The
// authority reports failures as {"detail": "..."}.
func (c *Client) remoteError(op string, resp *http.Response) error {
	var body detailBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	detail := body.Detail
	c.logger.Debug("authority rejected request",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.String("detail", detail))

	var base *appErrors.Error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		base = appErrors.ErrUnauthorized
	case http.StatusForbidden:
		base = appErrors.ErrForbidden
	case http.StatusNotFound:
		base = appErrors.ErrNotFound
	case http.StatusConflict:
		base = appErrors.ErrConflict
	default:
		base = appErrors.ErrRejected
	}

	mapped := appErrors.Clone(base, detail)
	mapped.Status = resp.StatusCode
	return mapped
}

func jsonBody(payload interface{}) (io.Reader, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
	}
	return buf, nil
}

func (c *Client) validate(payload interface{}) error {
	if err := c.validator.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "fill in all required fields")
	}
	return nil
}
